// Package graph builds co-authorship and citation graphs on top of gonum.
package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matsen/papernet/internal/paper"
)

// Author is a co-authorship node.
type Author struct {
	Name   string `json:"name"`
	Papers int    `json:"papers"`
}

// Edge is a weighted co-authorship edge. Weight is the number of records
// listing both authors.
type Edge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Coauthorship is an undirected weighted graph of authors. Node ids are
// assigned in first-seen order, so iteration follows record order.
type Coauthorship struct {
	g       *simple.WeightedUndirectedGraph
	ids     map[string]int64
	authors []Author
	edges   [][2]int64
}

func newCoauthorship() *Coauthorship {
	return &Coauthorship{
		g:   simple.NewWeightedUndirectedGraph(0, 0),
		ids: make(map[string]int64),
	}
}

// BuildCoauthorship builds the co-authorship graph of records. Each author
// gains one paper per record listing them; each pair of distinct co-authors
// gains one unit of edge weight per shared record. A name repeated within one
// record counts once.
func BuildCoauthorship(records []paper.Record) *Coauthorship {
	c := newCoauthorship()
	for _, rec := range records {
		c.addRecord(rec)
	}
	return c
}

func (c *Coauthorship) addRecord(rec paper.Record) {
	seen := make(map[string]bool, len(rec.Authors))
	ids := make([]int64, 0, len(rec.Authors))
	for _, name := range rec.Authors {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		id := c.node(name)
		c.authors[id].Papers++
		ids = append(ids, id)
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			c.addWeight(ids[i], ids[j])
		}
	}
}

func (c *Coauthorship) node(name string) int64 {
	if id, ok := c.ids[name]; ok {
		return id
	}
	id := int64(len(c.authors))
	c.ids[name] = id
	c.authors = append(c.authors, Author{Name: name})
	c.g.AddNode(simple.Node(id))
	return id
}

func (c *Coauthorship) addWeight(x, y int64) {
	w, ok := c.g.Weight(x, y)
	if !ok {
		c.edges = append(c.edges, [2]int64{x, y})
	}
	c.g.SetWeightedEdge(c.g.NewWeightedEdge(simple.Node(x), simple.Node(y), w+1))
}

// Author returns the node for name.
func (c *Coauthorship) Author(name string) (Author, bool) {
	id, ok := c.ids[name]
	if !ok {
		return Author{}, false
	}
	return c.authors[id], true
}

// Authors returns every author in first-seen order.
func (c *Coauthorship) Authors() []Author {
	out := make([]Author, len(c.authors))
	copy(out, c.authors)
	return out
}

// Edges returns every edge in creation order with its current weight.
func (c *Coauthorship) Edges() []Edge {
	out := make([]Edge, 0, len(c.edges))
	for _, e := range c.edges {
		out = append(out, Edge{
			A:      c.authors[e[0]].Name,
			B:      c.authors[e[1]].Name,
			Weight: c.weightByID(e[0], e[1]),
		})
	}
	return out
}

// Weight returns the number of records shared by a and b, 0 if none.
func (c *Coauthorship) Weight(a, b string) int {
	x, ok := c.ids[a]
	if !ok {
		return 0
	}
	y, ok := c.ids[b]
	if !ok || x == y {
		return 0
	}
	return c.weightByID(x, y)
}

func (c *Coauthorship) weightByID(x, y int64) int {
	if !c.g.HasEdgeBetween(x, y) {
		return 0
	}
	w, _ := c.g.Weight(x, y)
	return int(w)
}

// Degree returns the number of distinct co-authors of name.
func (c *Coauthorship) Degree(name string) int {
	id, ok := c.ids[name]
	if !ok {
		return 0
	}
	return c.g.From(id).Len()
}

// NodeCount returns the number of authors.
func (c *Coauthorship) NodeCount() int {
	return len(c.authors)
}

// EdgeCount returns the number of co-author pairs.
func (c *Coauthorship) EdgeCount() int {
	return len(c.edges)
}

// Components returns the connected components, largest first. Names within
// a component follow first-seen order.
func (c *Coauthorship) Components() [][]string {
	if len(c.authors) == 0 {
		return nil
	}
	ccs := topo.ConnectedComponents(c.g)

	ordered := make([][]int64, 0, len(ccs))
	for _, cc := range ccs {
		ids := make([]int64, len(cc))
		for i, n := range cc {
			ids[i] = n.ID()
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		ordered = append(ordered, ids)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i][0] < ordered[j][0]
	})

	out := make([][]string, len(ordered))
	for i, ids := range ordered {
		names := make([]string, len(ids))
		for j, id := range ids {
			names[j] = c.authors[id].Name
		}
		out[i] = names
	}
	return out
}

// Graph returns the underlying gonum graph. Node ids index Authors().
func (c *Coauthorship) Graph() graph.Undirected {
	return c.g
}
