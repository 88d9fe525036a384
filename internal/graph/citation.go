package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matsen/papernet/internal/citation"
)

// NoLevel marks a paper not reachable from the root through stored citations.
const NoLevel = -1

// PaperNode is a citation graph node.
type PaperNode struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Year  int    `json:"year,omitempty"`
	Level int    `json:"level"`
}

// CitationEdge points from the citing paper to the cited one.
type CitationEdge struct {
	Citing string `json:"citing"`
	Cited  string `json:"cited"`
}

// Citation is a directed citation graph. Edges run citing -> cited.
type Citation struct {
	g     *simple.DirectedGraph
	ids   map[string]int64
	nodes []PaperNode
	edges []CitationEdge
}

// AssignLevels returns the breadth-first hop count of every paper reachable
// from root over the stored citation lists: root is 0, the papers in its
// stored list are 1, papers first seen in their lists are 2, and so on.
func AssignLevels(snap citation.Snapshot, root string) map[string]int {
	levels := map[string]int{root: 0}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		entry, ok := snap[id]
		if !ok || entry == nil {
			continue
		}
		for _, c := range entry.Citations {
			cid := c.CitingPaper.PaperID
			if cid == "" {
				continue
			}
			if _, seen := levels[cid]; seen {
				continue
			}
			levels[cid] = levels[id] + 1
			queue = append(queue, cid)
		}
	}
	return levels
}

// BuildCitation builds the citation graph of a snapshot. Every snapshot key
// and every citing paper with an id becomes a node; every stored citation
// becomes an edge from the citing paper to the entry's key. Self-citations
// are skipped. Nodes are ordered root first, then snapshot keys in sorted
// order, with citing papers inserted as they are first met.
func BuildCitation(snap citation.Snapshot, root string) *Citation {
	c := &Citation{
		g:   simple.NewDirectedGraph(),
		ids: make(map[string]int64),
	}
	levels := AssignLevels(snap, root)

	keys := snap.IDs()
	if _, ok := snap[root]; ok {
		ordered := make([]string, 0, len(keys))
		ordered = append(ordered, root)
		for _, k := range keys {
			if k != root {
				ordered = append(ordered, k)
			}
		}
		keys = ordered
	}

	for _, key := range keys {
		entry := snap[key]
		if entry == nil {
			continue
		}
		cited := c.node(key, entry.Title, entry.Year)
		for _, cit := range entry.Citations {
			cid := cit.CitingPaper.PaperID
			if cid == "" || cid == key {
				continue
			}
			citing := c.node(cid, cit.CitingPaper.Title, cit.CitingPaper.Year)
			if c.g.HasEdgeFromTo(citing, cited) {
				continue
			}
			c.g.SetEdge(c.g.NewEdge(simple.Node(citing), simple.Node(cited)))
			c.edges = append(c.edges, CitationEdge{Citing: cid, Cited: key})
		}
	}

	for i := range c.nodes {
		if lvl, ok := levels[c.nodes[i].ID]; ok {
			c.nodes[i].Level = lvl
		} else {
			c.nodes[i].Level = NoLevel
		}
	}
	return c
}

// node returns the graph id for paperID, creating the node if needed and
// filling in a missing title or year.
func (c *Citation) node(paperID, title string, year int) int64 {
	if id, ok := c.ids[paperID]; ok {
		n := &c.nodes[id]
		if n.Title == "" {
			n.Title = title
		}
		if n.Year == 0 {
			n.Year = year
		}
		return id
	}
	id := int64(len(c.nodes))
	c.ids[paperID] = id
	c.nodes = append(c.nodes, PaperNode{ID: paperID, Title: title, Year: year})
	c.g.AddNode(simple.Node(id))
	return id
}

// Node returns the node for a paper id.
func (c *Citation) Node(paperID string) (PaperNode, bool) {
	id, ok := c.ids[paperID]
	if !ok {
		return PaperNode{}, false
	}
	return c.nodes[id], true
}

// Nodes returns every node in insertion order.
func (c *Citation) Nodes() []PaperNode {
	out := make([]PaperNode, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Edges returns every citation edge in insertion order.
func (c *Citation) Edges() []CitationEdge {
	out := make([]CitationEdge, len(c.edges))
	copy(out, c.edges)
	return out
}

// NodeCount returns the number of papers.
func (c *Citation) NodeCount() int {
	return len(c.nodes)
}

// EdgeCount returns the number of citation relations.
func (c *Citation) EdgeCount() int {
	return len(c.edges)
}

// CitedBy returns the ids of papers citing paperID, in node order.
func (c *Citation) CitedBy(paperID string) []string {
	id, ok := c.ids[paperID]
	if !ok {
		return nil
	}
	from := graph.NodesOf(c.g.To(id))
	sort.Slice(from, func(i, j int) bool { return from[i].ID() < from[j].ID() })
	out := make([]string, len(from))
	for i, n := range from {
		out[i] = c.nodes[n.ID()].ID
	}
	return out
}

// LevelCounts returns the number of nodes per level. Unreachable nodes are
// counted under NoLevel.
func (c *Citation) LevelCounts() map[int]int {
	counts := make(map[int]int)
	for _, n := range c.nodes {
		counts[n.Level]++
	}
	return counts
}

// Graph returns the underlying gonum graph. Node ids index Nodes().
func (c *Citation) Graph() graph.Directed {
	return c.g
}
