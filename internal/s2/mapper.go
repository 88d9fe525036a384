package s2

import (
	"strconv"
	"strings"

	"github.com/matsen/papernet/internal/paper"
)

// ToRecord converts a Graph API paper into a paper record so citing papers
// can be indexed next to fetched arXiv records. The record id is the S2 paper
// id.
func ToRecord(p Paper) paper.Record {
	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	var category string
	if len(p.FieldsOfStudy) > 0 {
		category = p.FieldsOfStudy[0]
	}

	return paper.Record{
		ID:            p.PaperID,
		Title:         strings.Join(strings.Fields(p.Title), " "),
		Authors:       authors,
		PublishedDate: p.PublicationDate,
		Abstract:      strings.Join(strings.Fields(p.Abstract), " "),
		Categories:    category,
		Year:          publicationYear(p.Year, p.PublicationDate),
	}
}

// publicationYear prefers the explicit year and falls back to the date prefix.
func publicationYear(year int, date string) int {
	if year > 0 {
		return year
	}
	prefix, _, _ := strings.Cut(date, "-")
	if y, err := strconv.Atoi(prefix); err == nil && y > 0 {
		return y
	}
	return 0
}
