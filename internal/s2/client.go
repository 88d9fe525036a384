package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/papernet/internal/httpapi"
)

const (
	// DefaultBaseURL is the Graph API root.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultRateLimit is the unauthenticated request rate (requests per second).
	DefaultRateLimit = 1.0

	// DefaultPageSize is the citations page size.
	DefaultPageSize = 100

	// APIKeyHeader carries the optional API key.
	APIKeyHeader = "x-api-key"
)

// Fields requested for paper details.
const paperFields = "paperId,externalIds,title,abstract,authors,year,venue,publicationDate,citationCount,referenceCount,fieldsOfStudy"

// Fields requested per citation row.
const citationFields = "contexts,intents,isInfluential,title,abstract,authors,year,venue,externalIds,referenceCount,citationCount,fieldsOfStudy,publicationDate"

// Client talks to the Graph API.
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
	return &Client{http: hc, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// GetPaper fetches the details of a single paper.
func (c *Client) GetPaper(ctx context.Context, id string) (*Paper, error) {
	params := url.Values{}
	params.Set("fields", paperFields)

	var p Paper
	if err := c.getJSON(ctx, c.paperPath(id)+"?"+params.Encode(), &p); err != nil {
		return nil, fmt.Errorf("getting paper %s: %w", id, err)
	}
	return &p, nil
}

// GetCitations fetches one page of papers citing id.
func (c *Client) GetCitations(ctx context.Context, id string, offset, limit int) (*CitationsResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	params := url.Values{}
	params.Set("fields", citationFields)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var resp CitationsResponse
	if err := c.getJSON(ctx, c.paperPath(id)+"/citations?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("getting citations of %s at offset %d: %w", id, offset, err)
	}
	return &resp, nil
}

func (c *Client) paperPath(id string) string {
	return c.baseURL + "/paper/" + escapeID(ParsePaperID(id).String())
}

// escapeID escapes an identifier for use in a path, leaving the '/' of DOIs
// and the ':' of prefixes intact.
func escapeID(id string) string {
	return (&url.URL{Path: id}).EscapedPath()
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	resp, err := c.http.Get(ctx, u, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
