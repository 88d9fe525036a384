package graph

import (
	"sort"

	"github.com/matsen/papernet/internal/paper"
)

// YearGraph is the co-authorship graph of all records published up to and
// including Year.
type YearGraph struct {
	Year  int
	Graph *Coauthorship
}

// Years returns the distinct known publication years of records, ascending.
func Years(records []paper.Record) []int {
	seen := make(map[int]bool)
	var years []int
	for _, rec := range records {
		y := rec.PublicationYear()
		if y == 0 || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// UpToYear returns the records with a known publication year not after year,
// in their original order.
func UpToYear(records []paper.Record, year int) []paper.Record {
	var out []paper.Record
	for _, rec := range records {
		if y := rec.PublicationYear(); y != 0 && y <= year {
			out = append(out, rec)
		}
	}
	return out
}

// BuildYearly returns one cumulative graph per known publication year, in
// ascending year order. Records with an unknown year appear in none of them.
func BuildYearly(records []paper.Record) []YearGraph {
	years := Years(records)
	out := make([]YearGraph, 0, len(years))
	for _, y := range years {
		out = append(out, YearGraph{
			Year:  y,
			Graph: BuildCoauthorship(UpToYear(records, y)),
		})
	}
	return out
}
