package citation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matsen/papernet/internal/s2"
)

const (
	// DefaultPageSize is the citations page size.
	DefaultPageSize = 100

	// DefaultMaxPages caps citation pages fetched per paper.
	DefaultMaxPages = 100

	// DefaultDepth is the number of expansion levels.
	DefaultDepth = 2
)

// FilterPolicy selects which citation lists are narrowed to influential
// citations before being stored.
type FilterPolicy string

const (
	// FilterRoot narrows only the level-0 list.
	FilterRoot FilterPolicy = "root"
	// FilterAll narrows every level.
	FilterAll FilterPolicy = "all"
	// FilterNone stores every citation.
	FilterNone FilterPolicy = "none"
)

// ParseFilterPolicy validates a policy name. The empty string selects FilterRoot.
func ParseFilterPolicy(s string) (FilterPolicy, error) {
	switch FilterPolicy(s) {
	case "":
		return FilterRoot, nil
	case FilterRoot, FilterAll, FilterNone:
		return FilterPolicy(s), nil
	default:
		return "", fmt.Errorf("invalid filter policy %q (want root, all or none)", s)
	}
}

func (p FilterPolicy) appliesAt(level int) bool {
	switch p {
	case FilterAll:
		return true
	case FilterNone:
		return false
	default:
		return level == 0
	}
}

// Source is the subset of the Graph API the expander needs. *s2.Client
// implements it.
type Source interface {
	GetPaper(ctx context.Context, id string) (*s2.Paper, error)
	GetCitations(ctx context.Context, id string, offset, limit int) (*s2.CitationsResponse, error)
}

// Stats counts the work done by an Expander.
type Stats struct {
	Papers    int `json:"papers"`
	Pages     int `json:"pages"`
	Citations int `json:"citations"`
	Truncated int `json:"truncated"`
	Levels    int `json:"levels"`
}

// Expander builds a Snapshot by breadth-first expansion over citing papers.
type Expander struct {
	source   Source
	pageSize int
	maxPages int
	filter   FilterPolicy
	logger   zerolog.Logger

	snapshot Snapshot
	stats    Stats
}

// Option configures an Expander.
type Option func(*Expander)

// WithPageSize sets the citations page size.
func WithPageSize(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithMaxPages sets the per-paper page cap.
func WithMaxPages(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithFilter sets the influential-citation filter policy.
func WithFilter(p FilterPolicy) Option {
	return func(e *Expander) {
		e.filter = p
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Expander) {
		e.logger = l
	}
}

// NewExpander creates an Expander with an empty snapshot.
func NewExpander(source Source, opts ...Option) *Expander {
	e := &Expander{
		source:   source,
		pageSize: DefaultPageSize,
		maxPages: DefaultMaxPages,
		filter:   FilterRoot,
		logger:   zerolog.Nop(),
		snapshot: make(Snapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed adds the entries of a previously saved snapshot so an interrupted
// expansion can resume. Seeded ids are not fetched again.
func (e *Expander) Seed(s Snapshot) {
	for id, entry := range s {
		e.snapshot[id] = entry
	}
}

// Snapshot returns the id to entry map built so far.
func (e *Expander) Snapshot() Snapshot {
	return e.snapshot
}

// Stats returns counters for the work done so far.
func (e *Expander) Stats() Stats {
	return e.stats
}

// Expand processes depth levels starting from rootID. Each unvisited id of a
// level is fetched once with all of its citation pages; the citing papers of
// the stored list form the next level. On error, entries completed so far
// remain in the snapshot. Seeded entries are not fetched again, but their
// stored citing papers still join the next level.
func (e *Expander) Expand(ctx context.Context, rootID string, depth int) error {
	frontier := []string{rootID}
	visited := make(map[string]bool)

	for level := 0; level < depth && len(frontier) > 0; level++ {
		e.logger.Info().
			Int("level", level).
			Int("frontier", len(frontier)).
			Msg("expanding citation level")

		var next []string
		for _, id := range frontier {
			if visited[id] {
				continue
			}
			visited[id] = true

			entry, ok := e.snapshot[id]
			if !ok {
				var err error
				entry, err = e.fetchEntry(ctx, id, level)
				if err != nil {
					return err
				}
				e.snapshot[id] = entry
				e.stats.Papers++
				e.stats.Citations += len(entry.Citations)
			}

			for _, c := range entry.Citations {
				if c.CitingPaper.PaperID != "" {
					next = append(next, c.CitingPaper.PaperID)
				}
			}
		}
		e.stats.Levels = level + 1
		frontier = next
	}
	return nil
}

func (e *Expander) fetchEntry(ctx context.Context, id string, level int) (*Entry, error) {
	details, err := e.source.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	citations, truncated, err := e.fetchCitations(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.filter.appliesAt(level) {
		e.logger.Info().
			Str("paper", id).
			Int("citations", len(citations)).
			Msg("keeping influential citations only")
		citations = influentialOnly(citations)
	}

	return &Entry{
		Paper:     *details,
		Citations: citations,
		Truncated: truncated,
	}, nil
}

// fetchCitations pages through the citations of id until a page comes back
// empty or the page cap is reached.
func (e *Expander) fetchCitations(ctx context.Context, id string) ([]s2.Citation, bool, error) {
	citations := []s2.Citation{}
	offset := 0
	for page := 0; page < e.maxPages; page++ {
		resp, err := e.source.GetCitations(ctx, id, offset, e.pageSize)
		if err != nil {
			return nil, false, err
		}
		e.stats.Pages++
		if len(resp.Data) == 0 {
			return citations, false, nil
		}
		citations = append(citations, resp.Data...)
		offset += e.pageSize

		e.logger.Debug().
			Str("paper", id).
			Int("offset", offset).
			Int("total", len(citations)).
			Msg("fetched citation page")
	}

	e.stats.Truncated++
	e.logger.Warn().
		Str("paper", id).
		Int("max_pages", e.maxPages).
		Int("citations", len(citations)).
		Msg("citation page cap reached, list truncated")
	return citations, true, nil
}

func influentialOnly(citations []s2.Citation) []s2.Citation {
	kept := make([]s2.Citation, 0, len(citations))
	for _, c := range citations {
		if c.IsInfluential {
			kept = append(kept, c)
		}
	}
	return kept
}
