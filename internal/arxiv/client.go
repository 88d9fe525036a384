package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/papernet/internal/httpapi"
	"github.com/matsen/papernet/internal/paper"
)

const (
	// DefaultBaseURL is the arXiv query endpoint.
	DefaultBaseURL = "http://export.arxiv.org/api/query"

	// DefaultRateLimit follows the arXiv guidance of one request every three seconds.
	DefaultRateLimit = 1.0 / 3.0

	// DefaultMaxResults is the page size used when none is given.
	DefaultMaxResults = 100

	// maxFeedSize bounds the response body.
	maxFeedSize = 10 << 20
)

// ErrInvalidResponse indicates a feed that could not be turned into records.
var ErrInvalidResponse = errors.New("invalid response from arXiv")

// Query describes a single search request.
type Query struct {
	Keyword    string
	Start      int
	MaxResults int
}

// Client queries the arXiv API.
type Client struct {
	http    *httpapi.Client
	baseURL string
}

// NewClient creates a client for the given base URL (DefaultBaseURL if empty).
func NewClient(baseURL string, hc *httpapi.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpapi.New(httpapi.WithRateLimit(DefaultRateLimit, 1))
	}
	return &Client{http: hc, baseURL: baseURL}
}

// Search runs one query and returns the parsed records in feed order.
func (c *Client) Search(ctx context.Context, q Query) ([]paper.Record, error) {
	if strings.TrimSpace(q.Keyword) == "" {
		return nil, fmt.Errorf("empty search keyword")
	}

	searchURL, err := c.buildURL(q)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, searchURL, "application/atom+xml")
	if err != nil {
		return nil, fmt.Errorf("querying arXiv: %w", err)
	}
	defer resp.Body.Close()

	return ParseFeed(io.LimitReader(resp.Body, maxFeedSize))
}

// buildURL constructs the query URL: search_query=all:<keyword>&start=&max_results=.
func (c *Client) buildURL(q Query) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	start := q.Start
	if start < 0 {
		start = 0
	}

	params := url.Values{}
	params.Set("search_query", "all:"+strings.TrimSpace(q.Keyword))
	params.Set("start", strconv.Itoa(start))
	params.Set("max_results", strconv.Itoa(maxResults))
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// ParseFeed decodes an Atom feed into records.
func ParseFeed(r io.Reader) ([]paper.Record, error) {
	var feed Feed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: decoding feed: %v", ErrInvalidResponse, err)
	}

	records := make([]paper.Record, 0, len(feed.Entries))
	for i, e := range feed.Entries {
		rec, err := entryToRecord(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func entryToRecord(e Entry) (paper.Record, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return paper.Record{}, fmt.Errorf("%w: entry without id", ErrInvalidResponse)
	}

	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	var category string
	if e.PrimaryCategory != nil {
		category = e.PrimaryCategory.Term
	}

	return paper.Record{
		ID:            id,
		Title:         normalizeWhitespace(e.Title),
		Authors:       authors,
		PublishedDate: strings.TrimSpace(e.Published),
		Abstract:      normalizeWhitespace(e.Summary),
		Categories:    category,
	}, nil
}

// normalizeWhitespace trims and collapses runs of whitespace; arXiv titles and
// abstracts are hard-wrapped.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
