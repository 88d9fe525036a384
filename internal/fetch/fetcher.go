// Package fetch implements the paper fetcher: keyword search against the
// arXiv API with per-session deduplication and persistence of the papers table.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/matsen/papernet/internal/arxiv"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/storage"
)

// ErrPapersFile marks Update failures that come from reading or writing the
// papers table rather than from the search.
var ErrPapersFile = errors.New("papers table")

// Searcher runs a single search query. *arxiv.Client implements it.
type Searcher interface {
	Search(ctx context.Context, q arxiv.Query) ([]paper.Record, error)
}

// Fetcher fetches papers and remembers every identifier it has returned or
// loaded, so no identifier is handed out twice in one session.
type Fetcher struct {
	source  Searcher
	seen    map[string]struct{}
	session string
	logger  zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// New creates a Fetcher with an empty seen-set.
func New(source Searcher, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:  source,
		seen:    make(map[string]struct{}),
		session: uuid.NewString(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With().Str("session", f.session).Logger()
	return f
}

// Session returns the identifier of this fetch session.
func (f *Fetcher) Session() string {
	return f.session
}

// Seen reports whether id has already been returned or loaded.
func (f *Fetcher) Seen(id string) bool {
	_, ok := f.seen[id]
	return ok
}

// SeenCount returns the size of the seen-set.
func (f *Fetcher) SeenCount() int {
	return len(f.seen)
}

// Fetch queries for keyword from offset 0 and returns the records not seen
// before in this session.
func (f *Fetcher) Fetch(ctx context.Context, keyword string, maxResults int) ([]paper.Record, error) {
	return f.FetchFrom(ctx, keyword, 0, maxResults)
}

// FetchFrom is Fetch with an explicit start offset.
func (f *Fetcher) FetchFrom(ctx context.Context, keyword string, start, maxResults int) ([]paper.Record, error) {
	all, err := f.source.Search(ctx, arxiv.Query{
		Keyword:    keyword,
		Start:      start,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, err
	}

	unique := make([]paper.Record, 0, len(all))
	for _, rec := range all {
		if f.Seen(rec.ID) {
			continue
		}
		f.seen[rec.ID] = struct{}{}
		unique = append(unique, rec)
	}

	f.logger.Info().
		Str("keyword", keyword).
		Int("start", start).
		Int("returned", len(all)).
		Int("new", len(unique)).
		Msg("fetched papers")

	return unique, nil
}

// Save writes records to the papers table at path, replacing its content.
func (f *Fetcher) Save(path string, records []paper.Record) error {
	if err := storage.WriteRecords(path, records); err != nil {
		return err
	}
	f.logger.Debug().Str("path", path).Int("records", len(records)).Msg("saved papers")
	return nil
}

// Load reads the papers table at path and adds every identifier to the
// seen-set. A missing file yields an empty list.
func (f *Fetcher) Load(path string) ([]paper.Record, error) {
	records, err := storage.ReadRecords(path)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		f.seen[rec.ID] = struct{}{}
	}
	f.logger.Debug().Str("path", path).Int("records", len(records)).Msg("loaded papers")
	return records, nil
}

// UpdateResult summarizes an Update call.
type UpdateResult struct {
	Existing int `json:"existing"`
	Added    int `json:"added"`
	Total    int `json:"total"`
}

// Update loads the table at path, fetches new papers for keyword and writes
// the existing rows followed by the new ones back to path.
func (f *Fetcher) Update(ctx context.Context, path, keyword string, maxResults int) (UpdateResult, error) {
	existing, err := f.Load(path)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("%w: loading %s: %w", ErrPapersFile, path, err)
	}

	added, err := f.Fetch(ctx, keyword, maxResults)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("fetching %q: %w", keyword, err)
	}

	combined := make([]paper.Record, 0, len(existing)+len(added))
	combined = append(combined, existing...)
	combined = append(combined, added...)
	if err := f.Save(path, combined); err != nil {
		return UpdateResult{}, fmt.Errorf("%w: saving %s: %w", ErrPapersFile, path, err)
	}

	return UpdateResult{
		Existing: len(existing),
		Added:    len(added),
		Total:    len(combined),
	}, nil
}
