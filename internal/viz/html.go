package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// cytoscapeScriptTag loads Cytoscape.js from a CDN.
const cytoscapeScriptTag = `<script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>`

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title string
}

// DefaultOptions returns default options for the static view.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Title: "Co-authorship Network"}
}

// templateData holds data for the static HTML template.
type templateData struct {
	Title     string
	ScriptTag template.HTML
	GraphJSON template.JS
	Directed  bool
}

// GenerateStaticHTML renders a non-interactive drawing of a positioned
// graph. An empty graph yields a placeholder page.
func GenerateStaticHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(opts.Title), nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     opts.Title,
		ScriptTag: template.HTML(cytoscapeScriptTag),
		GraphJSON: template.JS(graphJSON),
		Directed:  graph.Directed,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>There are no papers to draw yet.</p>
    <p>Fetch papers using <code>pn arxiv update</code></p>
    <p>Expand citations using <code>pn s2 expand</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{.ScriptTag}}
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: white;
    }
    h1 {
      font-size: 16px;
      font-weight: normal;
      text-align: center;
      margin: 12px 0 0 0;
    }
    #cy {
      width: 100%;
      height: calc(100vh - 40px);
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="cy"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const directed = {{.Directed}};

      cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        userZoomingEnabled: false,
        userPanningEnabled: false,
        boxSelectionEnabled: false,
        autoungrabify: true,
        autounselectify: true,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': '#1f77b4',
              'background-opacity': 0.7,
              'border-width': 0,
              'width': '7px',
              'height': '7px'
            }
          },
          {
            selector: 'node[type="paper"]',
            style: {
              'background-color': 'data(color)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#000000',
              'opacity': 0.7,
              'width': 0.5,
              'curve-style': directed ? 'straight' : 'haystack',
              'target-arrow-shape': directed ? 'triangle' : 'none',
              'target-arrow-color': '#000000',
              'arrow-scale': 0.4
            }
          }
        ],
        layout: {
          name: 'preset',
          fit: true,
          padding: 20
        }
      });
    })();
  </script>
</body>
</html>`
