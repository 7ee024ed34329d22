// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfget downloads paper PDFs. Failures here are non-fatal to
// note creation; callers report them separately.
package pdfget

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// pdfBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var pdfBase = "https://arxiv.org/pdf/"

// Download fetches the PDF for id into destDir and returns the written
// filename. The bytes are written to a temporary file and renamed into
// place on success, so a failed download never leaves a partial file.
func Download(ctx context.Context, client *http.Client, userAgent, id, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating PDF directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfBase+id, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("PDF request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d fetching PDF for %s", resp.StatusCode, id)
	}

	name := id + ".pdf"
	destPath := filepath.Join(destDir, name)

	tmpFile, err := os.CreateTemp(destDir, ".pdfget-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return name, nil
}
