// Package export provides functions to export papers to various formats.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/papernet/internal/author"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/s2"
)

var (
	nonKeyChars   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	nonKeyIDChars = regexp.MustCompile(`[^A-Za-z0-9.]+`)
)

// ToBibTeX converts a paper record to a BibTeX entry. arXiv records become
// @misc entries with eprint fields; anything else becomes @article.
func ToBibTeX(rec paper.Record) string {
	arxivID, isArxiv := s2.FromArxivURL(rec.ID)
	entryType := "article"
	if isArxiv {
		entryType = "misc"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, CiteKey(rec))

	if len(rec.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", formatAuthors(rec.Authors))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(rec.Title))
	if y := rec.PublicationYear(); y != 0 {
		fmt.Fprintf(&b, "  year = {%d},\n", y)
	}
	if isArxiv {
		fmt.Fprintf(&b, "  eprint = {%s},\n", arxivID)
		b.WriteString("  archivePrefix = {arXiv},\n")
		if rec.Categories != "" {
			fmt.Fprintf(&b, "  primaryClass = {%s},\n", rec.Categories)
		}
		fmt.Fprintf(&b, "  url = {https://arxiv.org/abs/%s},\n", arxivID)
	}
	if rec.Abstract != "" {
		fmt.Fprintf(&b, "  abstract = {%s},\n", escapeLatex(rec.Abstract))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX, one blank line between
// entries.
func ToBibTeXList(records []paper.Record) string {
	entries := make([]string, 0, len(records))
	for _, rec := range records {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

// CiteKey builds a key from the first author's last name, the year and the
// arXiv id (or record id), e.g. "Paszke2019-1912.01703".
func CiteKey(rec paper.Record) string {
	var b strings.Builder
	if len(rec.Authors) > 0 {
		b.WriteString(nonKeyChars.ReplaceAllString(author.ParseName(rec.Authors[0]).Last, ""))
	}
	if y := rec.PublicationYear(); y != 0 {
		fmt.Fprintf(&b, "%d", y)
	}

	id := rec.ID
	if arxivID, ok := s2.FromArxivURL(rec.ID); ok {
		id = arxivID
	}
	id = strings.Trim(nonKeyIDChars.ReplaceAllString(id, "-"), "-")
	if b.Len() > 0 && id != "" {
		b.WriteString("-")
	}
	b.WriteString(id)
	return b.String()
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []string) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		n := author.ParseName(a)
		if n.Last == "" {
			continue
		}
		if n.First != "" {
			formatted = append(formatted, escapeLatex(n.Last+", "+n.First))
		} else {
			formatted = append(formatted, escapeLatex(n.Last))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\textbackslash{}`,
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
