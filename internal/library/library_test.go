// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntry() Entry {
	return Entry{
		Paper: types.PaperMeta{
			ID:        "1706.03762",
			Title:     "Attention Is All You Need",
			Authors:   []string{"Ashish Vaswani", "Noam Shazeer"},
			Year:      2017,
			SourceURL: "https://arxiv.org/abs/1706.03762",
		},
		NotePath:   "/notes/Attention Is All You Need.md",
		PDFPath:    "/notes/pdf/1706.03762.pdf",
		ResolvedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Record(sampleEntry()))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, "1706.03762", got.Paper.ID)
	assert.Equal(t, "Attention Is All You Need", got.Paper.Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, got.Paper.Authors)
	assert.Equal(t, 2017, got.Paper.Year)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", got.Paper.SourceURL)
	assert.True(t, got.ResolvedAt.Equal(sampleEntry().ResolvedAt))
}

func TestRecordUpserts(t *testing.T) {
	s := openTestStore(t)

	e := sampleEntry()
	require.NoError(t, s.Record(e))

	e.NotePath = "/elsewhere/note.md"
	e.ResolvedAt = e.ResolvedAt.Add(time.Hour)
	require.NoError(t, s.Record(e))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/elsewhere/note.md", entries[0].NotePath)
}

func TestListOrder(t *testing.T) {
	s := openTestStore(t)

	older := sampleEntry()
	newer := Entry{
		Paper: types.PaperMeta{
			ID:        "1810.04805",
			Title:     "BERT",
			Year:      2018,
			SourceURL: "https://arxiv.org/abs/1810.04805",
		},
		ResolvedAt: older.ResolvedAt.Add(24 * time.Hour),
	}
	require.NoError(t, s.Record(older))
	require.NoError(t, s.Record(newer))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1810.04805", entries[0].Paper.ID, "most recent first")
}

func TestRecordDefaultsResolvedAt(t *testing.T) {
	s := openTestStore(t)

	e := sampleEntry()
	e.ResolvedAt = time.Time{}
	require.NoError(t, s.Record(e))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].ResolvedAt.IsZero())
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable([]Entry{sampleEntry()}, &buf)
	out := buf.String()
	assert.Contains(t, out, "1706.03762")
	assert.Contains(t, out, "Attention Is All You Need")
	assert.Contains(t, out, "2026-08-01")

	buf.Reset()
	FormatTable(nil, &buf)
	assert.True(t, strings.Contains(buf.String(), "empty"))
}

func TestFormatTableTruncatesOnRuneBoundaries(t *testing.T) {
	e := sampleEntry()
	e.Paper.Title = strings.Repeat("Łódź ", 20)

	var buf bytes.Buffer
	FormatTable([]Entry{e}, &buf)
	out := buf.String()
	assert.True(t, utf8.ValidString(out), "truncated output contains invalid UTF-8")
	assert.Contains(t, out, "...")
}
