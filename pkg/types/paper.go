// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for arxiv-notes.
package types

import "strings"

// PaperMeta is the canonical metadata record for a single arXiv paper.
// A record is immutable once produced: components that need to enrich
// one build a new record instead of mutating in place.
type PaperMeta struct {
	// ID is the arXiv identifier without version suffix (e.g. "1706.03762").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, whitespace-collapsed. Never omitted:
	// an absent title normalizes to the empty string.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in API response order. May be empty.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the 4-digit publication year, or 0 when the published
	// date could not be parsed.
	Year int `json:"year" yaml:"year"`

	// SourceURL is the canonical abstract page URL, always of the form
	// "https://arxiv.org/abs/<id>". It is constructed from the
	// identifier, never taken verbatim from the API response.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Score is the similarity of the normalized title to the query,
	// in [0,1]. Zero for records produced by an identifier lookup.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// AuthorList returns the authors joined for display ("A, B, C").
func (p PaperMeta) AuthorList() string {
	return strings.Join(p.Authors, ", ")
}
