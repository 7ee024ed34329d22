// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes materializes resolved paper records as markdown notes
// with YAML frontmatter.
package notes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// DefaultTemplate is the note body used when the configuration does
// not provide one.
const DefaultTemplate = `# {{title}}

**Authors:** {{authors}}
**Year:** {{year}}
**Link:** {{url}}

{{pdf}}
`

// ErrExists is returned when the target note exists and the caller
// declined to overwrite it.
var ErrExists = fmt.Errorf("note already exists")

// Store writes notes into a configured directory.
type Store struct {
	cfg types.NotesConfig

	// Confirm is consulted before overwriting an existing note. A nil
	// Confirm refuses all overwrites.
	Confirm func(path, existingTitle string) bool
}

// NewStore returns a Store for cfg.
func NewStore(cfg types.NotesConfig) *Store {
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	return &Store{cfg: cfg}
}

// noteFrontmatter is the YAML block written at the top of each note.
type noteFrontmatter struct {
	Title   string   `yaml:"title"`
	Authors []string `yaml:"authors,omitempty"`
	Year    int      `yaml:"year,omitempty"`
	URL     string   `yaml:"url"`
	PDF     string   `yaml:"pdf,omitempty"`
}

// Write renders meta into a note file named after the sanitized title
// and returns the path. pdfName, when non-empty, is the attachment
// filename referenced from the note. If the target exists, Confirm
// decides whether it is replaced; a refusal returns ErrExists.
func (s *Store) Write(meta types.PaperMeta, pdfName string) (string, error) {
	if err := os.MkdirAll(s.cfg.NotesDir, 0o755); err != nil {
		return "", fmt.Errorf("creating notes directory: %w", err)
	}

	name := SanitizeFilename(meta.Title)
	if name == "" {
		name = meta.ID
	}
	path := filepath.Join(s.cfg.NotesDir, name+".md")

	if _, err := os.Stat(path); err == nil {
		if s.Confirm == nil || !s.Confirm(path, existingTitle(path)) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	content, err := s.render(meta, pdfName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}
	return path, nil
}

func (s *Store) render(meta types.PaperMeta, pdfName string) ([]byte, error) {
	fm := noteFrontmatter{
		Title:   meta.Title,
		Authors: meta.Authors,
		Year:    meta.Year,
		URL:     meta.SourceURL,
		PDF:     pdfName,
	}
	fmBytes, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	pdfLink := ""
	if pdfName != "" {
		pdfLink = "[[" + pdfName + "]]"
	}
	body := strings.NewReplacer(
		"{{title}}", meta.Title,
		"{{authors}}", meta.AuthorList(),
		"{{year}}", strconv.Itoa(meta.Year),
		"{{url}}", meta.SourceURL,
		"{{pdf}}", pdfLink,
	).Replace(s.cfg.Template)

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fmBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// existingTitle probes an existing note's frontmatter so the overwrite
// prompt can name what would be replaced. Unreadable or
// frontmatter-less files yield "".
func existingTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var fm noteFrontmatter
	if _, err := frontmatter.Parse(f, &fm); err != nil {
		return ""
	}
	return fm.Title
}

// fsReplacer maps characters that are illegal or awkward in filenames.
var fsReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", " -", "*", "", "?", "",
	"\"", "", "<", "", ">", "", "|", "",
)

// SanitizeFilename turns a paper title into a usable filename stem.
func SanitizeFilename(title string) string {
	s := fsReplacer.Replace(title)
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
