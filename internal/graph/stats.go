package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
)

// DefaultDamping is the PageRank damping factor.
const DefaultDamping = 0.85

// AuthorStat summarizes one author of a co-authorship graph.
type AuthorStat struct {
	Name      string `json:"name"`
	Papers    int    `json:"papers"`
	Coauthors int    `json:"coauthors"`
}

// TopAuthors returns the n authors with the most papers, ties broken by
// co-author count and then name. n <= 0 returns every author.
func TopAuthors(c *Coauthorship, n int) []AuthorStat {
	stats := make([]AuthorStat, 0, c.NodeCount())
	for _, a := range c.authors {
		stats = append(stats, AuthorStat{
			Name:      a.Name,
			Papers:    a.Papers,
			Coauthors: c.Degree(a.Name),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Papers != stats[j].Papers {
			return stats[i].Papers > stats[j].Papers
		}
		if stats[i].Coauthors != stats[j].Coauthors {
			return stats[i].Coauthors > stats[j].Coauthors
		}
		return stats[i].Name < stats[j].Name
	})
	if n > 0 && n < len(stats) {
		stats = stats[:n]
	}
	return stats
}

// PaperScore is a PageRank score for one paper.
type PaperScore struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Score float64 `json:"score"`
}

// Influence ranks the papers of a citation graph by PageRank over
// citing -> cited edges, highest first.
func Influence(c *Citation) []PaperScore {
	if c.NodeCount() == 0 {
		return nil
	}
	ranks := network.PageRankSparse(c.g, DefaultDamping, 1e-8)

	scores := make([]PaperScore, 0, len(ranks))
	for id, score := range ranks {
		n := c.nodes[id]
		scores = append(scores, PaperScore{ID: n.ID, Title: n.Title, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ID < scores[j].ID
	})
	return scores
}
