package viz

import (
	"testing"

	"github.com/matsen/papernet/internal/citation"
	papergraph "github.com/matsen/papernet/internal/graph"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/s2"
)

func TestFromCoauthorship(t *testing.T) {
	g := papergraph.BuildCoauthorship([]paper.Record{
		{Authors: []string{"X", "Y"}},
		{Authors: []string{"X", "Z"}},
	})

	data := FromCoauthorship(g, DefaultLayoutOptions())
	if data.Directed {
		t.Error("co-authorship graph should be undirected")
	}
	if len(data.Nodes) != 3 || len(data.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges; want 3, 2", len(data.Nodes), len(data.Edges))
	}

	x := data.Nodes[0]
	if x.ID != "X" || x.Connections != 2 || x.Papers != 2 {
		t.Errorf("node X = %+v", x)
	}
	if x.Hover != "# of connections: 2" {
		t.Errorf("hover = %q", x.Hover)
	}
	if x.Color != YlGnBu(1) {
		t.Errorf("highest-degree node color = %s, want %s", x.Color, YlGnBu(1))
	}
	if data.Nodes[1].Color != YlGnBu(0.5) {
		t.Errorf("Y color = %s, want %s", data.Nodes[1].Color, YlGnBu(0.5))
	}
	if data.Edges[0].Source != "X" || data.Edges[0].Target != "Y" || data.Edges[0].Weight != 1 {
		t.Errorf("first edge = %+v", data.Edges[0])
	}
}

func TestFromCoauthorship_Empty(t *testing.T) {
	data := FromCoauthorship(papergraph.BuildCoauthorship(nil), DefaultLayoutOptions())
	if !data.IsEmpty() {
		t.Error("expected empty graph data")
	}
	if !FromCoauthorship(nil, DefaultLayoutOptions()).IsEmpty() {
		t.Error("nil graph should convert to empty data")
	}
}

func TestFromCitation(t *testing.T) {
	snap := citation.Snapshot{
		"R": {Paper: s2.Paper{Title: "Phylogenetic inference under recombination using Bayesian stochastic topology selection"},
			Citations: []s2.Citation{{CitingPaper: s2.Paper{PaperID: "A", Title: "Short"}}}},
	}
	data := FromCitation(papergraph.BuildCitation(snap, "R"), DefaultLayoutOptions())

	if !data.Directed {
		t.Error("citation graph should be directed")
	}
	if len(data.Nodes) != 2 || len(data.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", len(data.Nodes), len(data.Edges))
	}
	root := data.Nodes[0]
	if root.Level != 0 || root.Color != levelColor(0) {
		t.Errorf("root node = %+v", root)
	}
	if len([]rune(root.Label)) != maxLabelLength {
		t.Errorf("root label %q not shortened to %d runes", root.Label, maxLabelLength)
	}
	if data.Nodes[1].Label != "Short" || data.Nodes[1].Level != 1 {
		t.Errorf("citer node = %+v", data.Nodes[1])
	}
	if e := data.Edges[0]; e.Source != "A" || e.Target != "R" {
		t.Errorf("edge = %+v, want A -> R", e)
	}
}

func TestPaperLabel(t *testing.T) {
	if got := paperLabel(papergraph.PaperNode{ID: "abc"}); got != "abc" {
		t.Errorf("paperLabel(no title) = %q", got)
	}
	if got := paperLabel(papergraph.PaperNode{ID: "abc", Title: " Title "}); got != "Title" {
		t.Errorf("paperLabel = %q", got)
	}
}
