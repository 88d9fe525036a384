// Package arxiv provides a client for the arXiv search API.
package arxiv

import "encoding/xml"

// Feed is the Atom document returned by the query endpoint.
type Feed struct {
	XMLName      xml.Name `xml:"http://www.w3.org/2005/Atom feed"`
	TotalResults int      `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	StartIndex   int      `xml:"http://a9.com/-/spec/opensearch/1.1/ startIndex"`
	ItemsPerPage int      `xml:"http://a9.com/-/spec/opensearch/1.1/ itemsPerPage"`
	Entries      []Entry  `xml:"http://www.w3.org/2005/Atom entry"`
}

// Entry is a single paper in the feed.
type Entry struct {
	ID              string    `xml:"http://www.w3.org/2005/Atom id"` // "http://arxiv.org/abs/2301.12345v1"
	Title           string    `xml:"http://www.w3.org/2005/Atom title"`
	Summary         string    `xml:"http://www.w3.org/2005/Atom summary"`
	Published       string    `xml:"http://www.w3.org/2005/Atom published"`
	Authors         []Author  `xml:"http://www.w3.org/2005/Atom author"`
	PrimaryCategory *Category `xml:"http://arxiv.org/schemas/atom primary_category"`
}

// Author is an entry author.
type Author struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

// Category is an arXiv subject category.
type Category struct {
	Term string `xml:"term,attr"`
}
