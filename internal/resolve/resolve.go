// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve drives the disambiguation flow: turning input text
// into a single confirmed paper record via the identifier fast path or
// the search-rank-select path.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/arxiv-notes/internal/arxiv"
	"github.com/pdiddy/arxiv-notes/internal/rank"
	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// Searcher is the metadata backend the session talks to. *arxiv.Client
// satisfies it; tests substitute a stub.
type Searcher interface {
	FetchByID(ctx context.Context, id string) (*types.PaperMeta, error)
	SearchByTitle(ctx context.Context, query string) ([]types.PaperMeta, error)
}

// State is the session's position in the disambiguation flow. Legal
// transitions are enumerated up front; there is no combination of
// flags to infer a state from.
type State int

const (
	StateIdle State = iota
	StateFastPath
	StateAwaitingQuery
	StateSearching
	StateRanked
	StateResolved
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFastPath:
		return "fast-path"
	case StateAwaitingQuery:
		return "awaiting-query"
	case StateSearching:
		return "searching"
	case StateRanked:
		return "ranked"
	case StateResolved:
		return "resolved"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrCancelled marks a flow the user abandoned. It is a terminal
// state, not a failure to report.
var ErrCancelled = errors.New("cancelled")

// Session owns one disambiguation interaction: at most one search in
// flight, one candidate list, one outcome. It is not safe for
// concurrent use; callers serialize access (the interactive flow is
// single-threaded by construction).
type Session struct {
	searcher  Searcher
	threshold float64

	state    State
	query    string
	raw      []types.PaperMeta // candidates as fetched, server order
	ranked   []types.PaperMeta
	resolved *types.PaperMeta
}

// NewSession returns an idle session. threshold <= 0 selects
// rank.DefaultThreshold.
func NewSession(s Searcher, threshold float64) *Session {
	if threshold <= 0 {
		threshold = rank.DefaultThreshold
	}
	return &Session{searcher: s, threshold: threshold}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Query returns the committed free-text query.
func (s *Session) Query() string { return s.query }

// SetQuery replaces the uncommitted query text. It has no effect once
// a search has been committed.
func (s *Session) SetQuery(q string) {
	if s.state == StateAwaitingQuery {
		s.query = q
	}
}

// Candidates returns the current ranked candidate list. The slice is
// owned by the session and discarded when the interaction ends.
func (s *Session) Candidates() []types.PaperMeta { return s.ranked }

// Resolved returns the confirmed record, or nil before resolution.
func (s *Session) Resolved() *types.PaperMeta { return s.resolved }

// Input feeds the initial text into the flow. If an identifier is
// found the fast path runs to completion: search and ranking are
// bypassed and the session ends Resolved (record returned) or
// Cancelled (no record or error). Otherwise the session moves to
// AwaitingQuery and returns (nil, nil); the caller commits the query
// with Search.
func (s *Session) Input(ctx context.Context, text string) (*types.PaperMeta, error) {
	if s.state != StateIdle {
		return nil, fmt.Errorf("input in state %s", s.state)
	}

	if id := arxiv.ExtractID(text); id != "" {
		s.state = StateFastPath
		meta, err := s.searcher.FetchByID(ctx, id)
		if err != nil {
			s.state = StateCancelled
			return nil, err
		}
		if meta == nil {
			s.state = StateCancelled
			return nil, nil
		}
		s.resolved = meta
		s.state = StateResolved
		return meta, nil
	}

	s.query = text
	s.state = StateAwaitingQuery
	return nil, nil
}

// BeginSearch commits the query and moves to Searching. Only one
// search may be in flight per interaction; callers disable further
// input until CompleteSearch runs, so concurrent initiation is
// prevented structurally rather than raced-and-cancelled.
func (s *Session) BeginSearch() (query string, err error) {
	if s.state != StateAwaitingQuery {
		return "", fmt.Errorf("search in state %s", s.state)
	}
	s.state = StateSearching
	return s.query, nil
}

// CompleteSearch feeds the backend's response into the session: the
// results are ranked and the session moves to Ranked. A session
// cancelled while the search was in flight drops the late result and
// stays Cancelled; the caller never sees candidates from an abandoned
// interaction.
func (s *Session) CompleteSearch(results []types.PaperMeta, err error) error {
	if s.state == StateCancelled {
		return ErrCancelled
	}
	if s.state != StateSearching {
		return fmt.Errorf("complete search in state %s", s.state)
	}
	if err != nil {
		s.state = StateAwaitingQuery
		return err
	}

	s.raw = results
	s.ranked = rank.Rank(s.raw, s.query, s.threshold, nil)
	s.state = StateRanked
	return nil
}

// Search runs BeginSearch and CompleteSearch around one backend call.
// Non-interactive callers use this; the interactive flow splits the
// two halves so the response can arrive as an event.
func (s *Session) Search(ctx context.Context) error {
	query, err := s.BeginSearch()
	if err != nil {
		return err
	}
	results, searchErr := s.searcher.SearchByTitle(ctx, query)
	return s.CompleteSearch(results, searchErr)
}

// Refine re-ranks the already-fetched candidate set against filter
// text. No network call is made; this is a local re-rank, not a
// re-search. An empty filter restores ranking against the original
// query.
func (s *Session) Refine(filter string) []types.PaperMeta {
	if s.state != StateRanked {
		return nil
	}
	q := filter
	if q == "" {
		q = s.query
	}
	s.ranked = rank.Rank(s.raw, q, s.threshold, nil)
	return s.ranked
}

// NoMatches reports that the server found nothing at all.
func (s *Session) NoMatches() bool {
	return s.state == StateRanked && len(s.raw) == 0
}

// AllFiltered reports that the server found candidates but none
// cleared the similarity threshold. Callers must message this
// distinctly from NoMatches.
func (s *Session) AllFiltered() bool {
	return s.state == StateRanked && len(s.raw) > 0 && len(s.ranked) == 0
}

// Select confirms the i-th ranked candidate and resolves the session.
func (s *Session) Select(i int) (*types.PaperMeta, error) {
	if s.state != StateRanked {
		return nil, fmt.Errorf("select in state %s", s.state)
	}
	if i < 0 || i >= len(s.ranked) {
		return nil, fmt.Errorf("candidate index %d out of range", i)
	}
	meta := s.ranked[i]
	s.resolved = &meta
	s.raw, s.ranked = nil, nil
	s.state = StateResolved
	return s.resolved, nil
}

// Cancel abandons the interaction. The candidate list is discarded
// and any search result that lands afterwards is dropped.
func (s *Session) Cancel() {
	if s.state == StateResolved {
		return
	}
	s.raw, s.ranked = nil, nil
	s.state = StateCancelled
}
