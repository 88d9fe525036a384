package viz

import (
	"regexp"
	"strings"
	"testing"
)

func sampleGraph() *GraphData {
	return &GraphData{
		Nodes: []Node{
			{ID: "Ada", Type: NodeTypeAuthor, Label: "Ada", Connections: 1, Hover: "# of connections: 1", X: 10, Y: 20},
			{ID: "Grace </script>", Type: NodeTypeAuthor, Label: "Grace", Connections: 1, Hover: "# of connections: 1", X: 30, Y: 40},
		},
		Edges: []Edge{{Source: "Ada", Target: "Grace </script>", Weight: 2}},
	}
}

func TestGenerateStaticHTML(t *testing.T) {
	html, err := GenerateStaticHTML(sampleGraph(), DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateStaticHTML() error = %v", err)
	}

	for _, want := range []string{
		"<title>Co-authorship Network</title>",
		"name: 'preset'",
		"userZoomingEnabled: false",
		"autoungrabify: true",
		"'background-opacity': 0.7",
		"'width': 0.5",
		`"position":{"x":10,"y":20}`,
		"cytoscape.min.js",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("static HTML missing %q", want)
		}
	}
	if strings.Contains(html, "Grace </script>") {
		t.Error("node id was not escaped inside the script block")
	}
}

func TestGenerateStaticHTML_CustomTitle(t *testing.T) {
	html, err := GenerateStaticHTML(sampleGraph(), HTMLOptions{Title: "Citations <of> R"})
	if err != nil {
		t.Fatalf("GenerateStaticHTML() error = %v", err)
	}
	if !strings.Contains(html, "<title>Citations &lt;of&gt; R</title>") {
		t.Error("title not escaped")
	}
}

func TestGenerateStaticHTML_Empty(t *testing.T) {
	html, err := GenerateStaticHTML(&GraphData{}, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateStaticHTML() error = %v", err)
	}
	if !strings.Contains(html, "No graph data") {
		t.Error("empty graph should render the placeholder page")
	}
}

func TestGenerateStaticHTML_Nil(t *testing.T) {
	if _, err := GenerateStaticHTML(nil, DefaultOptions()); err == nil {
		t.Error("expected error for nil graph")
	}
}

func TestGenerateTimelineHTML(t *testing.T) {
	frames := []Frame{
		{Label: "2019", Graph: &GraphData{}},
		{Label: "2020", Graph: sampleGraph()},
	}

	html, err := GenerateTimelineHTML(frames, HTMLOptions{})
	if err != nil {
		t.Fatalf("GenerateTimelineHTML() error = %v", err)
	}

	for _, want := range []string{
		"<title>" + DefaultTimelineTitle + "</title>",
		`max="1"`,
		">Play</button>",
		`"label":"2019","elements":{"nodes":[],"edges":[]}`,
		`"label":"2020"`,
		`"hover":"# of connections: 1"`,
		"Node Connections",
		"linear-gradient(to top, #081d58",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("timeline HTML missing %q", want)
		}
	}
	if !regexp.MustCompile(`const duration =\s*1000\s*;`).MatchString(html) {
		t.Error("timeline HTML does not step every 1000 ms")
	}
}

func TestGenerateTimelineHTML_NoFrames(t *testing.T) {
	html, err := GenerateTimelineHTML(nil, HTMLOptions{})
	if err != nil {
		t.Fatalf("GenerateTimelineHTML() error = %v", err)
	}
	if !strings.Contains(html, "No graph data") {
		t.Error("no frames should render the placeholder page")
	}
}

func TestGenerateTimelineHTML_NilFrameGraph(t *testing.T) {
	_, err := GenerateTimelineHTML([]Frame{{Label: "2020"}}, HTMLOptions{})
	if err == nil {
		t.Error("expected error for frame without graph")
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	js, err := sampleGraph().ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}
	if !strings.Contains(js, `"id":"e0"`) || !strings.Contains(js, `"weight":2`) {
		t.Errorf("unexpected JSON: %s", js)
	}
}
