package graph

import (
	"reflect"
	"testing"

	"github.com/matsen/papernet/internal/citation"
	"github.com/matsen/papernet/internal/s2"
)

func cite(id, title string) s2.Citation {
	return s2.Citation{CitingPaper: s2.Paper{PaperID: id, Title: title}}
}

// testSnapshot is R cited by A and B (stored after filtering), A cited by C
// and D, D cited by R (a cycle back to the root), and an orphan entry O.
func testSnapshot() citation.Snapshot {
	return citation.Snapshot{
		"R": {Paper: s2.Paper{PaperID: "r", Title: "Root", Year: 2017},
			Citations: []s2.Citation{cite("A", "Paper A"), cite("B", "Paper B")}},
		"A": {Paper: s2.Paper{PaperID: "A", Title: "Paper A", Year: 2018},
			Citations: []s2.Citation{cite("C", "Paper C"), cite("D", "Paper D"), cite("", "No id"), cite("A", "Self")}},
		"D": {Paper: s2.Paper{PaperID: "D", Title: "Paper D"},
			Citations: []s2.Citation{cite("R", "Root")}},
		"O": {Paper: s2.Paper{PaperID: "O", Title: "Orphan"},
			Citations: []s2.Citation{cite("P", "Paper P")}},
	}
}

func TestAssignLevels(t *testing.T) {
	got := AssignLevels(testSnapshot(), "R")
	want := map[string]int{"R": 0, "A": 1, "B": 1, "C": 2, "D": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLevels() = %v, want %v", got, want)
	}
}

func TestAssignLevels_UnknownRoot(t *testing.T) {
	got := AssignLevels(testSnapshot(), "missing")
	if want := map[string]int{"missing": 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLevels() = %v, want %v", got, want)
	}
}

func TestBuildCitation(t *testing.T) {
	g := BuildCitation(testSnapshot(), "R")

	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	if want := []string{"R", "A", "B", "C", "D", "O", "P"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("node order = %v, want %v", ids, want)
	}

	levels := map[string]int{"R": 0, "A": 1, "B": 1, "C": 2, "D": 2, "O": NoLevel, "P": NoLevel}
	for id, want := range levels {
		n, ok := g.Node(id)
		if !ok {
			t.Errorf("Node(%s) missing", id)
			continue
		}
		if n.Level != want {
			t.Errorf("Node(%s).Level = %d, want %d", id, n.Level, want)
		}
	}

	wantEdges := []CitationEdge{
		{Citing: "A", Cited: "R"},
		{Citing: "B", Cited: "R"},
		{Citing: "C", Cited: "A"},
		{Citing: "D", Cited: "A"},
		{Citing: "R", Cited: "D"},
		{Citing: "P", Cited: "O"},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, wantEdges) {
		t.Errorf("Edges() = %v, want %v", got, wantEdges)
	}

	// Every stored edge goes from citing to cited in the gonum graph too.
	for _, e := range g.Edges() {
		fromID := g.ids[e.Citing]
		toID := g.ids[e.Cited]
		if !g.Graph().HasEdgeFromTo(fromID, toID) {
			t.Errorf("missing gonum edge %s -> %s", e.Citing, e.Cited)
		}
		if g.Graph().HasEdgeFromTo(toID, fromID) {
			t.Errorf("unexpected reverse edge %s -> %s", e.Cited, e.Citing)
		}
	}
}

func TestBuildCitation_TitlesAndYears(t *testing.T) {
	g := BuildCitation(testSnapshot(), "R")

	r, _ := g.Node("R")
	if r.Title != "Root" || r.Year != 2017 {
		t.Errorf("root node = %+v", r)
	}
	a, _ := g.Node("A")
	if a.Title != "Paper A" || a.Year != 2018 {
		t.Errorf("A node = %+v", a)
	}
}

func TestCitedBy(t *testing.T) {
	g := BuildCitation(testSnapshot(), "R")

	if got := g.CitedBy("A"); !reflect.DeepEqual(got, []string{"C", "D"}) {
		t.Errorf("CitedBy(A) = %v", got)
	}
	if got := g.CitedBy("C"); len(got) != 0 {
		t.Errorf("CitedBy(C) = %v, want none", got)
	}
	if got := g.CitedBy("missing"); got != nil {
		t.Errorf("CitedBy(missing) = %v, want nil", got)
	}
}

func TestLevelCounts(t *testing.T) {
	g := BuildCitation(testSnapshot(), "R")
	want := map[int]int{0: 1, 1: 2, 2: 2, NoLevel: 2}
	if got := g.LevelCounts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LevelCounts() = %v, want %v", got, want)
	}
}

func TestBuildCitation_Empty(t *testing.T) {
	g := BuildCitation(citation.Snapshot{}, "R")
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty snapshot gave %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}
