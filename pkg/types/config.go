// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-notes/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the arXiv lookup and search paths.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the page size requested from the API (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries is the number of attempts for transient network
	// failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// SimilarityThreshold is the minimum title-similarity score a
	// candidate must exceed to appear in ranked output (default 0.4).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// NotesConfig holds settings for the note store.
type NotesConfig struct {
	// NotesDir is the directory notes are written to.
	NotesDir string `json:"notes_dir" yaml:"notes_dir"`

	// PDFDir is the directory downloaded PDFs are written to.
	// Defaults to NotesDir/pdf.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`

	// Template is the note body template. Placeholders {{title}},
	// {{authors}}, {{year}}, {{url}} and {{pdf}} are substituted.
	// Empty selects the built-in default.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// DownloadPDF controls whether the paper PDF is fetched and
	// attached to the note.
	DownloadPDF bool `json:"download_pdf" yaml:"download_pdf"`
}

// LibraryConfig holds settings for the resolution log.
type LibraryConfig struct {
	// LibraryDir is the directory holding the SQLite database.
	LibraryDir string `json:"library_dir" yaml:"library_dir"`
}

// Config groups all component configurations. It is built once at
// startup and passed down by value; nothing reads settings from
// ambient global state.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Notes   NotesConfig   `json:"notes" yaml:"notes"`
	Library LibraryConfig `json:"library" yaml:"library"`
}
