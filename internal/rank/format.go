// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// FormatTable writes ranked candidates as a human-readable table to w.
func FormatTable(results []types.PaperMeta, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n",
		"Rank", "Title", "Authors", "Year", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		title := truncate(r.Title, 60)
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %.2f\n",
			i+1, title, formatAuthors(r.Authors), year, r.Score)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes ranked candidates as indented JSON to w.
func FormatJSON(results []types.PaperMeta, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to at most max runes. Slicing on rune
// boundaries keeps multibyte names intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
