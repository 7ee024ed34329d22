// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// stubSearcher counts calls and returns canned responses.
type stubSearcher struct {
	fetchResult  *types.PaperMeta
	fetchErr     error
	searchResult []types.PaperMeta
	searchErr    error

	fetchCalls  int
	searchCalls int

	// onSearch runs inside SearchByTitle, before returning. Used to
	// simulate a cancellation racing a slow response.
	onSearch func()
}

func (s *stubSearcher) FetchByID(_ context.Context, id string) (*types.PaperMeta, error) {
	s.fetchCalls++
	return s.fetchResult, s.fetchErr
}

func (s *stubSearcher) SearchByTitle(_ context.Context, query string) ([]types.PaperMeta, error) {
	s.searchCalls++
	if s.onSearch != nil {
		s.onSearch()
	}
	return s.searchResult, s.searchErr
}

func TestFastPathBypassesSearch(t *testing.T) {
	stub := &stubSearcher{
		fetchResult: &types.PaperMeta{
			ID:        "1706.03762",
			Title:     "Attention Is All You Need",
			SourceURL: "https://arxiv.org/abs/1706.03762",
		},
	}
	s := NewSession(stub, 0)

	meta, err := s.Input(context.Background(), "https://arxiv.org/abs/1706.03762")
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if meta == nil || meta.SourceURL != "https://arxiv.org/abs/1706.03762" {
		t.Fatalf("meta = %+v", meta)
	}
	if s.State() != StateResolved {
		t.Errorf("state = %s, want resolved", s.State())
	}
	if stub.fetchCalls != 1 || stub.searchCalls != 0 {
		t.Errorf("fetch=%d search=%d, fast path must bypass search", stub.fetchCalls, stub.searchCalls)
	}
}

func TestFastPathNotFoundCancels(t *testing.T) {
	s := NewSession(&stubSearcher{}, 0)

	meta, err := s.Input(context.Background(), "arXiv:9999.99999")
	if err != nil {
		t.Fatalf("not-found is not an error: %v", err)
	}
	if meta != nil {
		t.Errorf("meta = %+v, want nil", meta)
	}
	if s.State() != StateCancelled {
		t.Errorf("state = %s, want cancelled", s.State())
	}
}

func TestFastPathErrorCancels(t *testing.T) {
	stub := &stubSearcher{fetchErr: errors.New("connection reset")}
	s := NewSession(stub, 0)

	_, err := s.Input(context.Background(), "https://arxiv.org/abs/1706.03762")
	if err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateCancelled {
		t.Errorf("state = %s, want cancelled", s.State())
	}
}

func TestSearchRankSelect(t *testing.T) {
	stub := &stubSearcher{
		searchResult: []types.PaperMeta{
			{ID: "2301.00001", Title: "Unrelated Topic Entirely Different"},
			{ID: "1706.03762", Title: "Attention Is All You Need"},
		},
	}
	s := NewSession(stub, 0)

	meta, err := s.Input(context.Background(), "Attention is all you need")
	if err != nil || meta != nil {
		t.Fatalf("free text should not resolve directly: %v, %v", meta, err)
	}
	if s.State() != StateAwaitingQuery {
		t.Fatalf("state = %s, want awaiting-query", s.State())
	}

	if err := s.Search(context.Background()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if s.State() != StateRanked {
		t.Fatalf("state = %s, want ranked", s.State())
	}

	// The unrelated title is filtered below threshold.
	cands := s.Candidates()
	if len(cands) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(cands))
	}
	if cands[0].ID != "1706.03762" {
		t.Errorf("candidates[0].ID = %q", cands[0].ID)
	}

	resolved, err := s.Select(0)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if resolved.ID != "1706.03762" {
		t.Errorf("resolved.ID = %q", resolved.ID)
	}
	if s.State() != StateResolved {
		t.Errorf("state = %s, want resolved", s.State())
	}
}

func TestRefineIsLocal(t *testing.T) {
	stub := &stubSearcher{
		searchResult: []types.PaperMeta{
			{ID: "a", Title: "Attention Is All You Need"},
			{ID: "b", Title: "Attention Mechanisms: A Survey"},
		},
	}
	s := NewSession(stub, 0.1)

	s.Input(context.Background(), "attention")
	if err := s.Search(context.Background()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	before := stub.searchCalls

	refined := s.Refine("attention mechanisms a survey")
	if stub.searchCalls != before {
		t.Error("Refine must not issue network calls")
	}
	if len(refined) == 0 || refined[0].ID != "b" {
		t.Errorf("refined[0] = %+v, want the survey paper first", refined)
	}

	// Empty filter restores the original query's ranking.
	restored := s.Refine("")
	if len(restored) == 0 {
		t.Fatal("restored ranking is empty")
	}
}

func TestNoMatchesVsAllFiltered(t *testing.T) {
	// Server found nothing.
	s1 := NewSession(&stubSearcher{}, 0)
	s1.Input(context.Background(), "nothing at all")
	if err := s1.Search(context.Background()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !s1.NoMatches() || s1.AllFiltered() {
		t.Errorf("NoMatches=%v AllFiltered=%v, want true/false", s1.NoMatches(), s1.AllFiltered())
	}

	// Server found loosely related papers, all below threshold.
	s2 := NewSession(&stubSearcher{
		searchResult: []types.PaperMeta{{ID: "x", Title: "Completely Different Subject Matter"}},
	}, 0)
	s2.Input(context.Background(), "attention is all you need")
	if err := s2.Search(context.Background()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if s2.NoMatches() || !s2.AllFiltered() {
		t.Errorf("NoMatches=%v AllFiltered=%v, want false/true", s2.NoMatches(), s2.AllFiltered())
	}
}

func TestSearchErrorReturnsToAwaitingQuery(t *testing.T) {
	stub := &stubSearcher{searchErr: errors.New("connection reset")}
	s := NewSession(stub, 0)
	s.Input(context.Background(), "attention")

	if err := s.Search(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateAwaitingQuery {
		t.Errorf("state = %s, want awaiting-query for a retryable interaction", s.State())
	}
}

func TestCancelDropsLateResult(t *testing.T) {
	stub := &stubSearcher{
		searchResult: []types.PaperMeta{{ID: "1706.03762", Title: "Attention Is All You Need"}},
	}
	s := NewSession(stub, 0)
	s.Input(context.Background(), "attention is all you need")

	// The user closes the interaction while the response is in flight.
	stub.onSearch = func() { s.Cancel() }

	err := s.Search(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if s.State() != StateCancelled {
		t.Errorf("state = %s, want cancelled", s.State())
	}
	if len(s.Candidates()) != 0 {
		t.Error("late results must be dropped after cancellation")
	}
}

func TestCompleteSearchAfterCancelDropsResult(t *testing.T) {
	s := NewSession(&stubSearcher{}, 0)
	s.Input(context.Background(), "attention")

	if _, err := s.BeginSearch(); err != nil {
		t.Fatalf("BeginSearch: %v", err)
	}
	s.Cancel()

	err := s.CompleteSearch([]types.PaperMeta{{ID: "a", Title: "Attention"}}, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if len(s.Candidates()) != 0 {
		t.Error("candidates must stay empty after cancellation")
	}
}

func TestSelectOutOfRange(t *testing.T) {
	stub := &stubSearcher{
		searchResult: []types.PaperMeta{{ID: "a", Title: "Attention Is All You Need"}},
	}
	s := NewSession(stub, 0)
	s.Input(context.Background(), "attention is all you need")
	s.Search(context.Background())

	if _, err := s.Select(5); err == nil {
		t.Error("expected out of range error")
	}
}

func TestIllegalTransitions(t *testing.T) {
	s := NewSession(&stubSearcher{}, 0)

	if err := s.Search(context.Background()); err == nil {
		t.Error("Search before Input should fail")
	}
	if _, err := s.Select(0); err == nil {
		t.Error("Select before Ranked should fail")
	}
	if _, err := s.Input(context.Background(), "x"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	if _, err := s.Input(context.Background(), "y"); err == nil {
		t.Error("second Input should fail")
	}
}
