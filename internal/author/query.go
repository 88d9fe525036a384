// Package author provides author name parsing and matching for search queries.
package author

import (
	"strings"
)

// Query represents a parsed author search query.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// Name is an author name split into first and last parts.
type Name struct {
	First string
	Last  string
}

// ParseQuery parses an author search string into a structured Query.
//
// Supported formats:
//   - "Yu"           → last="Yu" (single word = last name only)
//   - "Timothy Yu"   → first="Timothy", last="Yu" (space-separated = First Last)
//   - "Yu, Timothy"  → first="Timothy", last="Yu" (comma = Last, First)
//
// Names are trimmed but case is preserved (matching is case-insensitive).
func ParseQuery(input string) Query {
	n := split(input)
	return Query{First: n.First, Last: n.Last}
}

// ParseName splits a display name as stored in the papers table, such as
// "Timothy C Yu" or "Yu, Timothy", into first and last parts.
func ParseName(full string) Name {
	return split(full)
}

func split(input string) Name {
	input = strings.TrimSpace(input)
	if input == "" {
		return Name{}
	}

	if idx := strings.Index(input, ","); idx > 0 {
		return Name{
			First: strings.Join(strings.Fields(input[idx+1:]), " "),
			Last:  strings.TrimSpace(input[:idx]),
		}
	}

	// Last word is the last name, the rest is the first name:
	// "Timothy C Yu" → first="Timothy C", last="Yu"
	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Name{Last: parts[0]}
	}
	return Name{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// Matches checks if the query matches a given author.
//
// Matching rules:
//   - Last name: case-insensitive exact match (required)
//   - First name: case-insensitive prefix match (if query has first name)
//
// This enables "Tim Yu" to match "Timothy C Yu" while preventing
// "Yu" from matching "Yujia" (since "Yu" is not Yujia's last name).
func (q Query) Matches(a Name) bool {
	if q.Last == "" || !strings.EqualFold(q.Last, a.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(
		strings.ToLower(a.First),
		strings.ToLower(q.First),
	)
}

// MatchesName parses a stored display name and matches it.
func (q Query) MatchesName(full string) bool {
	return q.Matches(ParseName(full))
}

// MatchesAny checks if the query matches any of the display names.
func (q Query) MatchesAny(names []string) bool {
	for _, n := range names {
		if q.MatchesName(n) {
			return true
		}
	}
	return false
}

// AllMatch checks if all queries match at least one author each.
// This implements AND logic for multiple author filters.
func AllMatch(queries []Query, names []string) bool {
	for _, q := range queries {
		if !q.MatchesAny(names) {
			return false
		}
	}
	return true
}
