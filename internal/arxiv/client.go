// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv implements identifier extraction and metadata retrieval
// against the arXiv API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-notes/internal/httputil"
	"github.com/pdiddy/arxiv-notes/internal/rank"
	"github.com/pdiddy/arxiv-notes/pkg/types"
)

// API base URLs. Declared as vars so tests can substitute an httptest
// server.
var (
	apiBase = "https://export.arxiv.org/api/query"
	absBase = "https://arxiv.org/abs/"
)

// defaultPageSize is the number of results requested per title search.
// The client never returns more than one page.
const defaultPageSize = 10

// Client queries the arXiv API for paper metadata.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
	PageSize   int

	// Progress, if non-nil, receives transient status text (retry
	// notices). The client never writes to a UI directly.
	Progress func(msg string)
}

// NewClient returns a Client configured from cfg.
func NewClient(cfg types.SearchConfig) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		PageSize:   cfg.MaxResults,
	}
}

// FetchByID retrieves the metadata record for a single identifier.
// It returns (nil, nil) when the identifier is well-formed but the
// archive has no matching record. The record's SourceURL is built from
// the input identifier, not re-derived from the response. Transient
// network failures are retried with the same backoff policy as title
// search.
func (c *Client) FetchByID(ctx context.Context, id string) (*types.PaperMeta, error) {
	reqURL := fmt.Sprintf("%s?id_list=%s", apiBase, url.QueryEscape(id))

	var feed atomFeed
	err := httputil.WithRetry(ctx, c.MaxRetries, c.notifyRetry("lookup"), func() error {
		return c.getFeed(ctx, reqURL, &feed)
	})
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}

	meta := parseEntry(feed.Entries[0])
	meta.ID = id
	meta.SourceURL = absBase + id
	return &meta, nil
}

// SearchByTitle queries the title field for candidates matching query
// and returns up to one page of parsed records in server order. Zero
// matches is an empty slice, not an error. Each candidate's SourceURL
// is built from the identifier extracted out of the entry's self link.
func (c *Client) SearchByTitle(ctx context.Context, query string) ([]types.PaperMeta, error) {
	q := buildTitleQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty search query")
	}

	size := c.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d", apiBase, q, size)

	var feed atomFeed
	err := httputil.WithRetry(ctx, c.MaxRetries, c.notifyRetry("search"), func() error {
		return c.getFeed(ctx, reqURL, &feed)
	})
	if err != nil {
		return nil, err
	}

	var results []types.PaperMeta
	for _, entry := range feed.Entries {
		id := ExtractID(entry.ID)
		if id == "" {
			continue
		}
		meta := parseEntry(entry)
		meta.ID = id
		meta.SourceURL = absBase + id
		results = append(results, meta)
	}
	return results, nil
}

// getFeed issues one GET and decodes the Atom response into feed.
func (c *Client) getFeed(ctx context.Context, reqURL string, feed *atomFeed) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	*feed = atomFeed{}
	if err := xml.NewDecoder(resp.Body).Decode(feed); err != nil {
		return fmt.Errorf("parsing arXiv response: %v: %w", err, httputil.ErrParse)
	}
	return nil
}

func (c *Client) notifyRetry(op string) func(attempt int, wait time.Duration, err error) {
	return func(attempt int, wait time.Duration, err error) {
		if c.Progress != nil {
			c.Progress(fmt.Sprintf("%s failed (%v), retrying in %s (attempt %d/%d)",
				op, err, wait, attempt, c.MaxRetries))
		}
	}
}

// buildTitleQuery normalizes the raw query and assembles the ti: field
// expression, URL-escaped for transport.
func buildTitleQuery(query string) string {
	terms := strings.Fields(rank.Normalize(query))
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = url.QueryEscape(t)
	}
	return "ti:" + strings.Join(terms, "+")
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// parseEntry builds a metadata record from one feed entry. The entry
// title is whitespace-collapsed (arXiv wraps long titles across
// lines); an unparseable published date yields Year 0, not an error.
func parseEntry(entry atomEntry) types.PaperMeta {
	meta := types.PaperMeta{
		Title: strings.Join(strings.Fields(entry.Title), " "),
	}
	for _, a := range entry.Authors {
		meta.Authors = append(meta.Authors, strings.TrimSpace(a.Name))
	}
	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		meta.Year = t.Year()
	}
	return meta
}
