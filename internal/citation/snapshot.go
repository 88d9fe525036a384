// Package citation expands a citation network breadth-first from a root paper.
package citation

import (
	"sort"

	"github.com/matsen/papernet/internal/s2"
)

// Entry is a fetched paper together with its stored citation list. The
// paper fields are flattened next to citations when serialized.
type Entry struct {
	s2.Paper
	Citations []s2.Citation `json:"citations"`
	Truncated bool          `json:"truncated,omitempty"`
}

// Snapshot maps a requested paper id to its entry. It serializes as a JSON
// object keyed by paper id.
type Snapshot map[string]*Entry

// IDs returns the snapshot keys in sorted order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CitationCount returns the number of stored citation relations.
func (s Snapshot) CitationCount() int {
	n := 0
	for _, e := range s {
		n += len(e.Citations)
	}
	return n
}
