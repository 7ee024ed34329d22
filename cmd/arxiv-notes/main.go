// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-notes CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the arxiv-notes CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-notes",
	Short: "Resolve arXiv papers into markdown notes",
	Long: `arxiv-notes turns a paper title or a pasted arXiv link into a markdown
note with YAML frontmatter, optionally attaching the paper PDF.

Pasted links resolve directly; free-text titles open an interactive
picker over ranked search candidates. Every resolved paper is recorded
in a local library index.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-notes.yaml or ~/.config/arxiv-notes/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-notes")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-notes"))
		}
	}

	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.user_agent", "arxiv-notes/0.1")
	viper.SetDefault("search.max_results", 10)
	viper.SetDefault("search.max_retries", 3)
	viper.SetDefault("search.similarity_threshold", 0.4)
	viper.SetDefault("notes.notes_dir", "notes")
	viper.SetDefault("notes.download_pdf", true)
	viper.SetDefault("library.library_dir", ".arxiv-notes")

	viper.SetEnvPrefix("ARXIV_NOTES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the viper state into an immutable Config
// value. Everything downstream takes this by value; nothing reads
// settings from ambient global state.
func loadConfig() types.Config {
	cfg := types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxResults:          viper.GetInt("search.max_results"),
			MaxRetries:          viper.GetInt("search.max_retries"),
			SimilarityThreshold: viper.GetFloat64("search.similarity_threshold"),
		},
		Notes: types.NotesConfig{
			NotesDir:    viper.GetString("notes.notes_dir"),
			PDFDir:      viper.GetString("notes.pdf_dir"),
			Template:    viper.GetString("notes.template"),
			DownloadPDF: viper.GetBool("notes.download_pdf"),
		},
		Library: types.LibraryConfig{
			LibraryDir: viper.GetString("library.library_dir"),
		},
	}
	if cfg.Notes.PDFDir == "" {
		cfg.Notes.PDFDir = filepath.Join(cfg.Notes.NotesDir, "pdf")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
