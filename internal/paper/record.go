// Package paper defines the core record type shared by the fetchers, the
// persisted table and the graph builders.
package paper

import (
	"strconv"
	"strings"
	"time"
)

// Record is a single paper as returned by the search API and stored in the
// papers table. Records are never mutated after deduplication.
type Record struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"published_date"` // RFC3339 as served by arXiv
	Abstract      string   `json:"abstract"`
	Categories    string   `json:"categories"` // primary category term, e.g. "cs.LG"

	// Year overrides the year derived from PublishedDate when non-zero.
	Year int `json:"year,omitempty"`
}

// PublicationYear returns the publication year, or 0 if it is unknown.
func (r Record) PublicationYear() int {
	if r.Year != 0 {
		return r.Year
	}
	return yearFromDate(r.PublishedDate)
}

// yearFromDate extracts the year from an RFC3339 timestamp or a bare
// YYYY[-MM[-DD]] date.
func yearFromDate(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Year()
	}
	head, _, _ := strings.Cut(s, "-")
	if len(head) != 4 {
		return 0
	}
	y, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return y
}

// UniqueAuthors returns the distinct author names across records in the
// order they are first seen.
func UniqueAuthors(records []Record) []string {
	seen := make(map[string]bool)
	var authors []string
	for _, r := range records {
		for _, a := range r.Authors {
			if seen[a] {
				continue
			}
			seen[a] = true
			authors = append(authors, a)
		}
	}
	return authors
}

// IDs returns the identifiers of records in order.
func IDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
