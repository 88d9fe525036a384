package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/papernet/internal/httpapi"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title type="html">ArXiv Query: search_query=all:pytorch</title>
  <opensearch:totalResults>2</opensearch:totalResults>
  <opensearch:startIndex>0</opensearch:startIndex>
  <opensearch:itemsPerPage>2</opensearch:itemsPerPage>
  <entry>
    <id>http://arxiv.org/abs/1912.01703v1</id>
    <published>2019-12-03T18:30:00Z</published>
    <title>PyTorch: An Imperative Style,
      High-Performance Deep Learning Library</title>
    <summary>  Deep learning frameworks have often focused on
either usability or speed.
    </summary>
    <author><name>Adam Paszke</name></author>
    <author><name>Sam Gross</name></author>
    <arxiv:primary_category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2002.00001v2</id>
    <published>2020-02-01T00:00:00Z</published>
    <title>Second</title>
    <summary>Abstract two.</summary>
    <author><name>Sam Gross</name></author>
    <arxiv:primary_category term="cs.DC" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := httpapi.New(httpapi.WithRateLimit(0, 0), httpapi.WithRetries(0, 0))
	return NewClient(srv.URL+"/api/query", hc)
}

func TestParseFeed(t *testing.T) {
	records, err := ParseFeed(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "http://arxiv.org/abs/1912.01703v1", first.ID)
	assert.Equal(t, "PyTorch: An Imperative Style, High-Performance Deep Learning Library", first.Title)
	assert.Equal(t, []string{"Adam Paszke", "Sam Gross"}, first.Authors)
	assert.Equal(t, "2019-12-03T18:30:00Z", first.PublishedDate)
	assert.Equal(t, "Deep learning frameworks have often focused on either usability or speed.", first.Abstract)
	assert.Equal(t, "cs.LG", first.Categories)
	assert.Equal(t, 2019, first.PublicationYear())

	assert.Equal(t, "cs.DC", records[1].Categories)
}

func TestParseFeed_Empty(t *testing.T) {
	feed := `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`
	records, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseFeed_Malformed(t *testing.T) {
	_, err := ParseFeed(strings.NewReader(`<feed xmlns="http://www.w3.org/2005/Atom"><entry>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestParseFeed_MissingID(t *testing.T) {
	feed := `<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>No id</title></entry></feed>`
	_, err := ParseFeed(strings.NewReader(feed))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestClient_Search(t *testing.T) {
	var gotQuery, gotStart, gotMax, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("search_query")
		gotStart = r.URL.Query().Get("start")
		gotMax = r.URL.Query().Get("max_results")
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(sampleFeed))
	})

	records, err := c.Search(context.Background(), Query{Keyword: "pytorch", MaxResults: 25})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "/api/query", gotPath)
	assert.Equal(t, "all:pytorch", gotQuery)
	assert.Equal(t, "0", gotStart)
	assert.Equal(t, "25", gotMax)
}

func TestClient_Search_DefaultMaxResults(t *testing.T) {
	var gotMax string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("max_results")
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})

	_, err := c.Search(context.Background(), Query{Keyword: "graphs", Start: 50})
	require.NoError(t, err)
	assert.Equal(t, "100", gotMax)
}

func TestClient_Search_EmptyKeyword(t *testing.T) {
	c := NewClient("", nil)
	_, err := c.Search(context.Background(), Query{Keyword: "  "})
	assert.Error(t, err)
}

func TestClient_Search_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Search(context.Background(), Query{Keyword: "pytorch"})
	require.Error(t, err)

	var apiErr *httpapi.APIError
	assert.ErrorAs(t, err, &apiErr)
}
