package s2

import (
	"errors"

	"github.com/matsen/papernet/internal/paper"
)

// ErrUnresolved is returned when an identifier cannot be mapped to an API id.
var ErrUnresolved = errors.New("identifier cannot be resolved")

// LocalResolver maps bare arXiv ids from the local papers table to Graph API
// identifiers.
type LocalResolver struct {
	byArxivID map[string]paper.Record
}

// NewLocalResolver indexes records whose id is an arXiv entry URL.
func NewLocalResolver(records []paper.Record) *LocalResolver {
	r := &LocalResolver{byArxivID: make(map[string]paper.Record)}
	for _, rec := range records {
		if arxivID, ok := FromArxivURL(rec.ID); ok {
			r.byArxivID[arxivID] = rec
		}
	}
	return r
}

// Resolve returns the API identifier for id. Prefixed identifiers, raw S2 ids
// and arXiv URLs resolve directly; a bare arXiv id resolves when the local
// table holds that paper.
func (r *LocalResolver) Resolve(id string) (string, error) {
	parsed := ParsePaperID(id)
	if parsed.IsExternalID() {
		return parsed.String(), nil
	}
	if _, ok := r.byArxivID[parsed.Value]; ok {
		return "ARXIV:" + parsed.Value, nil
	}
	return "", ErrUnresolved
}

// Find returns the local record for a bare arXiv id.
func (r *LocalResolver) Find(arxivID string) (paper.Record, bool) {
	rec, ok := r.byArxivID[arxivID]
	return rec, ok
}

// Count returns the number of indexed records.
func (r *LocalResolver) Count() int {
	return len(r.byArxivID)
}
