// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-notes/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List resolved papers",
	Long:  `Library lists every paper previously resolved into a note, most recent first.`,
	RunE:  runLibrary,
}

func init() {
	libraryCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(libraryCmd)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	lib, err := library.Open(cfg.Library.LibraryDir)
	if err != nil {
		return err
	}
	defer lib.Close()

	entries, err := lib.List()
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	library.FormatTable(entries, os.Stdout)
	return nil
}
