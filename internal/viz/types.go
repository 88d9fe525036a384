// Package viz renders co-authorship and citation graphs as self-contained
// HTML pages backed by Cytoscape.js.
package viz

// Node types.
const (
	NodeTypeAuthor = "author"
	NodeTypePaper  = "paper"
)

// GraphData contains all data needed to render one graph.
type GraphData struct {
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
	Directed bool   `json:"directed"`
}

// Node is a positioned node.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`

	// Tooltip fields
	Title       string `json:"title,omitempty"`
	Year        int    `json:"year,omitempty"`
	Papers      int    `json:"papers,omitempty"`
	Level       int    `json:"level"`
	Connections int    `json:"connections"`
	Hover       string `json:"hover,omitempty"`

	Color string  `json:"color,omitempty"`
	X     float64 `json:"-"`
	Y     float64 `json:"-"`
}

// Edge connects two nodes. For directed graphs Source cites Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
