package s2

import (
	"regexp"
	"strings"
)

// Identifier prefixes accepted by the Graph API.
var identifierPrefixes = []string{
	"DOI:",
	"ARXIV:",
	"PMID:",
	"PMCID:",
	"CorpusId:",
	"URL:",
	"MAG:",
	"ACL:",
}

// s2IDPattern matches a 40-character hex string (raw S2 paper ID).
var s2IDPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// arxivURLPattern matches arXiv abstract and pdf URLs, capturing the id
// without its version suffix.
var arxivURLPattern = regexp.MustCompile(`^https?://(?:export\.)?arxiv\.org/(?:abs|pdf)/(.+?)(?:v\d+)?(?:\.pdf)?$`)

// ParsePaperID parses a paper identifier string.
// Supports formats:
//   - DOI:10.1038/nature12373
//   - ARXIV:2106.15928
//   - PMID:19872477
//   - CorpusId:215416146
//   - http://arxiv.org/abs/2106.15928v2 (as stored in papers.csv)
//   - Raw 40-character S2 paper ID
func ParsePaperID(id string) PaperIdentifier {
	id = strings.TrimSpace(id)

	for _, prefix := range identifierPrefixes {
		if strings.HasPrefix(strings.ToUpper(id), strings.ToUpper(prefix)) {
			return PaperIdentifier{
				Type:  strings.TrimSuffix(prefix, ":"),
				Value: id[len(prefix):],
			}
		}
	}

	if arxivID, ok := FromArxivURL(id); ok {
		return PaperIdentifier{Type: "ARXIV", Value: arxivID}
	}

	if s2IDPattern.MatchString(id) {
		return PaperIdentifier{Type: "S2", Value: id}
	}

	return PaperIdentifier{Type: "LOCAL", Value: id}
}

// IsExternalID reports whether the identifier can be sent to the API as is.
func (p PaperIdentifier) IsExternalID() bool {
	return p.Type != "LOCAL"
}

// FromArxivURL extracts the bare arXiv id (no version) from an arXiv entry URL.
func FromArxivURL(u string) (string, bool) {
	m := arxivURLPattern.FindStringSubmatch(strings.TrimSpace(u))
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// NormalizeDOI removes common URL prefixes and lowercases a DOI.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	return strings.ToLower(doi)
}
