// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-notes/internal/arxiv"
	"github.com/pdiddy/arxiv-notes/internal/rank"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search arXiv by title and print ranked candidates",
	Long: `Search queries the arXiv title field for the given text and prints
candidates ranked by title similarity. Candidates scoring at or below
the similarity threshold are dropped.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Float64("threshold", 0, "similarity threshold for ranked candidates")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")

	cfg := loadConfig()
	if v, _ := cmd.Flags().GetFloat64("threshold"); v > 0 {
		cfg.Search.SimilarityThreshold = v
	}

	client := arxiv.NewClient(cfg.Search)
	client.Progress = func(msg string) { fmt.Fprintln(os.Stderr, msg) }

	results, err := client.SearchByTitle(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search unavailable: %w", err)
	}

	ranked := rank.Rank(results, query, cfg.Search.SimilarityThreshold, nil)

	// "Nothing found" and "nothing close enough" are different answers.
	if len(ranked) == 0 && len(results) > 0 {
		fmt.Fprintf(os.Stderr, "Found %d papers, but none match the title closely.\n", len(results))
		return nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return rank.FormatJSON(ranked, os.Stdout)
	}
	rank.FormatTable(ranked, os.Stdout)
	return nil
}
