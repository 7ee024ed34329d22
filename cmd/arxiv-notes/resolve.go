// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-notes/internal/arxiv"
	"github.com/pdiddy/arxiv-notes/internal/library"
	"github.com/pdiddy/arxiv-notes/internal/notes"
	"github.com/pdiddy/arxiv-notes/internal/pdfget"
	"github.com/pdiddy/arxiv-notes/internal/resolve"
	"github.com/pdiddy/arxiv-notes/internal/tui"
	"github.com/pdiddy/arxiv-notes/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [input]",
	Short: "Resolve a title or arXiv link into a note",
	Long: `Resolve turns input text into a single confirmed paper record and
writes it as a markdown note. A pasted arXiv link or bare identifier
resolves directly, bypassing search; free text opens an interactive
picker over ranked title-search candidates.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().Bool("clipboard", false, "read the input from the system clipboard")
	resolveCmd.Flags().Bool("first", false, "pick the top-ranked candidate without the interactive picker")
	resolveCmd.Flags().Bool("no-pdf", false, "skip the PDF download")
	resolveCmd.Flags().Bool("force", false, "overwrite an existing note without asking")
	resolveCmd.Flags().Float64("threshold", 0, "similarity threshold for ranked candidates")
	resolveCmd.Flags().String("notes-dir", "", "directory to write the note into")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if v, _ := cmd.Flags().GetFloat64("threshold"); v > 0 {
		cfg.Search.SimilarityThreshold = v
	}
	if v, _ := cmd.Flags().GetString("notes-dir"); v != "" {
		cfg.Notes.NotesDir = v
	}
	if v, _ := cmd.Flags().GetBool("no-pdf"); v {
		cfg.Notes.DownloadPDF = false
	}

	input, err := resolveInput(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := arxiv.NewClient(cfg.Search)
	client.Progress = func(msg string) { fmt.Fprintln(os.Stderr, msg) }

	session := resolve.NewSession(client, cfg.Search.SimilarityThreshold)

	meta, err := session.Input(ctx, input)
	if err != nil {
		return fmt.Errorf("looking up identifier: %w", err)
	}
	if session.State() == resolve.StateCancelled {
		fmt.Fprintln(os.Stderr, "No paper found for that identifier.")
		return nil
	}

	if meta == nil {
		first, _ := cmd.Flags().GetBool("first")
		if first {
			meta, err = pickFirst(ctx, session)
		} else {
			meta, err = pickInteractive(ctx, session, client, input)
		}
		if err != nil {
			return err
		}
		if meta == nil {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return nil
		}
	}

	force, _ := cmd.Flags().GetBool("force")
	return materialize(ctx, cfg, client, *meta, force)
}

// resolveInput assembles the input text from args or the clipboard.
func resolveInput(cmd *cobra.Command, args []string) (string, error) {
	if fromClip, _ := cmd.Flags().GetBool("clipboard"); fromClip {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("reading clipboard: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("clipboard is empty")
		}
		return text, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide a paper title or arXiv link (or use --clipboard)")
	}
	return strings.Join(args, " "), nil
}

// pickFirst resolves non-interactively to the top-ranked candidate.
func pickFirst(ctx context.Context, session *resolve.Session) (*types.PaperMeta, error) {
	if err := session.Search(ctx); err != nil {
		return nil, fmt.Errorf("search unavailable: %w", err)
	}
	switch {
	case session.NoMatches():
		fmt.Fprintln(os.Stderr, "No papers found.")
		return nil, nil
	case session.AllFiltered():
		fmt.Fprintln(os.Stderr, "Papers were found, but none match the title closely. Try the interactive picker.")
		return nil, nil
	}
	return session.Select(0)
}

// pickInteractive hands the session to the TUI picker, forwarding
// retry notices into its status line. statusCh is never closed: a
// search abandoned mid-retry outlives the picker, and its remaining
// notices must land in the buffer or drop, not panic.
func pickInteractive(ctx context.Context, session *resolve.Session, client *arxiv.Client, input string) (*types.PaperMeta, error) {
	statusCh := make(chan string, 8)
	client.Progress = statusNotifier(statusCh)

	return tui.Run(ctx, session, client, statusCh, input)
}

// statusNotifier returns a Progress callback that forwards notices
// into ch without ever blocking. Notices that find the buffer full,
// or that arrive after the picker stopped draining, are dropped.
func statusNotifier(ch chan string) func(string) {
	return func(msg string) {
		select {
		case ch <- msg:
		default:
		}
	}
}

// materialize writes the note, fetches the PDF when configured, and
// records the resolution in the library. PDF and library failures are
// non-fatal: the note still lands.
func materialize(ctx context.Context, cfg types.Config, client *arxiv.Client, meta types.PaperMeta, force bool) error {
	pdfName := ""
	if cfg.Notes.DownloadPDF {
		name, err := pdfget.Download(ctx, client.HTTP, cfg.Search.UserAgent, meta.ID, cfg.Notes.PDFDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: PDF download failed: %v (creating note without attachment)\n", err)
		} else {
			pdfName = name
		}
	}

	store := notes.NewStore(cfg.Notes)
	if force {
		store.Confirm = func(string, string) bool { return true }
	} else {
		store.Confirm = promptOverwrite
	}

	notePath, err := store.Write(meta, pdfName)
	if errors.Is(err, notes.ErrExists) {
		fmt.Fprintln(os.Stderr, "Note left unchanged.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", notePath)

	lib, err := library.Open(cfg.Library.LibraryDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open library: %v\n", err)
		return nil
	}
	defer lib.Close()

	pdfPath := ""
	if pdfName != "" {
		pdfPath = filepath.Join(cfg.Notes.PDFDir, pdfName)
	}
	if err := lib.Record(library.Entry{Paper: meta, NotePath: notePath, PDFPath: pdfPath}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record in library: %v\n", err)
	}
	return nil
}

// promptOverwrite asks on the terminal before replacing an existing note.
func promptOverwrite(path, existingTitle string) bool {
	if existingTitle != "" {
		fmt.Fprintf(os.Stderr, "Note %s already exists (%q). Overwrite? [y/N] ", path, existingTitle)
	} else {
		fmt.Fprintf(os.Stderr, "Note %s already exists. Overwrite? [y/N] ", path)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
