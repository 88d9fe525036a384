package viz

import (
	"fmt"
	"strings"

	papergraph "github.com/matsen/papernet/internal/graph"
)

// maxLabelLength bounds node labels built from paper titles.
const maxLabelLength = 40

// FromCoauthorship converts a co-authorship graph into positioned GraphData.
// Node colors follow the YlGnBu scale by connection count.
func FromCoauthorship(c *papergraph.Coauthorship, opts LayoutOptions) *GraphData {
	data := &GraphData{}
	if c == nil || c.NodeCount() == 0 {
		return data
	}

	positions := ForceLayout(c.Graph(), opts)
	authors := c.Authors()

	maxDegree := 0
	degrees := make([]int, len(authors))
	for i, a := range authors {
		degrees[i] = c.Degree(a.Name)
		if degrees[i] > maxDegree {
			maxDegree = degrees[i]
		}
	}

	data.Nodes = make([]Node, 0, len(authors))
	for i, a := range authors {
		p := positions[int64(i)]
		data.Nodes = append(data.Nodes, Node{
			ID:          a.Name,
			Type:        NodeTypeAuthor,
			Label:       a.Name,
			Papers:      a.Papers,
			Level:       papergraph.NoLevel,
			Connections: degrees[i],
			Hover:       connectionsText(degrees[i]),
			Color:       YlGnBu(ratio(degrees[i], maxDegree)),
			X:           p.X,
			Y:           p.Y,
		})
	}

	for _, e := range c.Edges() {
		data.Edges = append(data.Edges, Edge{Source: e.A, Target: e.B, Weight: e.Weight})
	}
	return data
}

// FromCitation converts a citation graph into positioned GraphData. Node
// colors follow the breadth-first level from the root.
func FromCitation(c *papergraph.Citation, opts LayoutOptions) *GraphData {
	data := &GraphData{Directed: true}
	if c == nil || c.NodeCount() == 0 {
		return data
	}

	positions := ForceLayout(c.Graph(), opts)
	nodes := c.Nodes()

	connections := make(map[string]int, len(nodes))
	for _, e := range c.Edges() {
		connections[e.Citing]++
		connections[e.Cited]++
	}

	data.Nodes = make([]Node, 0, len(nodes))
	for i, n := range nodes {
		p := positions[int64(i)]
		data.Nodes = append(data.Nodes, Node{
			ID:          n.ID,
			Type:        NodeTypePaper,
			Label:       paperLabel(n),
			Title:       n.Title,
			Year:        n.Year,
			Level:       n.Level,
			Connections: connections[n.ID],
			Hover:       connectionsText(connections[n.ID]),
			Color:       levelColor(n.Level),
			X:           p.X,
			Y:           p.Y,
		})
	}

	for _, e := range c.Edges() {
		data.Edges = append(data.Edges, Edge{Source: e.Citing, Target: e.Cited})
	}
	return data
}

func connectionsText(n int) string {
	return fmt.Sprintf("# of connections: %d", n)
}

func ratio(n, highest int) float64 {
	if highest == 0 {
		return 0
	}
	return float64(n) / float64(highest)
}

// paperLabel shortens a title for display, falling back to the id.
func paperLabel(n papergraph.PaperNode) string {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return n.ID
	}
	runes := []rune(title)
	if len(runes) <= maxLabelLength {
		return title
	}
	return strings.TrimSpace(string(runes[:maxLabelLength-1])) + "…"
}
