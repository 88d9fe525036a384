// Package s2 provides a client for the Semantic Scholar Graph API paper and
// citation endpoints.
package s2

// Paper is a paper as returned by the paper details endpoint and embedded as
// citingPaper in citation results.
type Paper struct {
	PaperID         string      `json:"paperId"`
	ExternalIDs     ExternalIDs `json:"externalIds,omitempty"`
	Title           string      `json:"title"`
	Abstract        string      `json:"abstract,omitempty"`
	Authors         []Author    `json:"authors,omitempty"`
	Year            int         `json:"year,omitempty"`
	Venue           string      `json:"venue,omitempty"`
	PublicationDate string      `json:"publicationDate,omitempty"` // YYYY-MM-DD
	CitationCount   int         `json:"citationCount,omitempty"`
	ReferenceCount  int         `json:"referenceCount,omitempty"`
	FieldsOfStudy   []string    `json:"fieldsOfStudy,omitempty"`
}

// ExternalIDs contains external identifiers for a paper.
type ExternalIDs struct {
	DOI           string `json:"DOI,omitempty"`
	ArXiv         string `json:"ArXiv,omitempty"`
	PubMed        string `json:"PubMed,omitempty"`
	PubMedCentral string `json:"PubMedCentral,omitempty"`
	CorpusID      int    `json:"CorpusId,omitempty"`
}

// Author is an author entry.
type Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// Citation is one row of the citations endpoint: a paper citing the queried one.
type Citation struct {
	CitingPaper   Paper    `json:"citingPaper"`
	IsInfluential bool     `json:"isInfluential"`
	Contexts      []string `json:"contexts,omitempty"`
	Intents       []string `json:"intents,omitempty"`
}

// CitationsResponse is one page of the citations endpoint.
type CitationsResponse struct {
	Offset int        `json:"offset"`
	Next   int        `json:"next,omitempty"`
	Data   []Citation `json:"data"`
}

// PaperIdentifier represents a parsed paper identifier.
type PaperIdentifier struct {
	Type  string // DOI, ARXIV, PMID, PMCID, CorpusId, URL, MAG, ACL, S2, LOCAL
	Value string
}

// String returns the API form of the identifier.
func (p PaperIdentifier) String() string {
	switch p.Type {
	case "S2", "LOCAL":
		return p.Value
	default:
		return p.Type + ":" + p.Value
	}
}
