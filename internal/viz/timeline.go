package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	papergraph "github.com/matsen/papernet/internal/graph"
)

// FrameDuration is the Play button step, in milliseconds.
const FrameDuration = 1000

// DefaultTimelineTitle titles the year-sliced view.
const DefaultTimelineTitle = "Co-authorship Network over the Years"

var compiledTimelineTemplate = template.Must(template.New("timeline").Parse(timelineTemplate))

// Frame is one slider step.
type Frame struct {
	Label string
	Graph *GraphData
}

type frameJSON struct {
	Label    string            `json:"label"`
	Elements CytoscapeElements `json:"elements"`
}

type timelineData struct {
	Title      string
	ScriptTag  template.HTML
	FramesJSON template.JS
	LastIndex  int
	FirstLabel string
	Duration   int
	Gradient   template.CSS
}

// FromYearly lays out each cumulative yearly graph independently.
func FromYearly(years []papergraph.YearGraph, opts LayoutOptions) []Frame {
	frames := make([]Frame, 0, len(years))
	for _, y := range years {
		frames = append(frames, Frame{
			Label: strconv.Itoa(y.Year),
			Graph: FromCoauthorship(y.Graph, opts),
		})
	}
	return frames
}

// GenerateTimelineHTML renders one frame per slider step with a Play button
// advancing every FrameDuration milliseconds. Hovering a node shows its
// connection count. A frame with an empty graph renders as an empty drawing;
// no frames at all yields the placeholder page.
func GenerateTimelineHTML(frames []Frame, opts HTMLOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = DefaultTimelineTitle
	}
	if len(frames) == 0 {
		return generateEmptyHTML(opts.Title), nil
	}

	encoded := make([]frameJSON, 0, len(frames))
	for i, f := range frames {
		if f.Graph == nil {
			return "", fmt.Errorf("frame %d (%s) has no graph", i, f.Label)
		}
		encoded = append(encoded, frameJSON{Label: f.Label, Elements: f.Graph.ToCytoscape()})
	}
	framesJSON, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("marshaling frames to JSON: %w", err)
	}

	data := timelineData{
		Title:      opts.Title,
		ScriptTag:  template.HTML(cytoscapeScriptTag),
		FramesJSON: template.JS(framesJSON),
		LastIndex:  len(frames) - 1,
		FirstLabel: frames[0].Label,
		Duration:   FrameDuration,
		Gradient:   template.CSS(colorbarGradient()),
	}

	var buf bytes.Buffer
	if err := compiledTimelineTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// colorbarGradient draws the YlGnBu scale bottom (low) to top (high).
func colorbarGradient() string {
	stops := make([]string, 0, len(ylGnBu))
	for _, c := range ylGnBu {
		stops = append(stops, hexColor(c))
	}
	return "linear-gradient(to top, " + strings.Join(stops, ", ") + ")"
}

const timelineTemplate = `<!DOCTYPE html>
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
      margin: 12px 16px 0 16px;
    }
    #main {
      display: flex;
      height: calc(100vh - 110px);
    }
    #cy {
      flex: 1;
    }
    #colorbar {
      width: 70px;
      display: flex;
      align-items: center;
      font-size: 11px;
      color: #444;
    }
    #colorbar .bar {
      width: 15px;
      height: 60%;
      margin-right: 6px;
      background: {{.Gradient}};
    }
    #colorbar .caption {
      writing-mode: vertical-rl;
    }
    #controls {
      display: flex;
      align-items: center;
      gap: 12px;
      padding: 8px 16px;
    }
    #slider {
      flex: 1;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 4px 8px;
      font-size: 12px;
      pointer-events: none;
      z-index: 1000;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="main">
    <div id="cy"></div>
    <div id="colorbar"><div class="bar"></div><div class="caption">Node Connections</div></div>
  </div>
  <div id="controls">
    <button id="play" type="button">Play</button>
    <input id="slider" type="range" min="0" max="{{.LastIndex}}" step="1" value="0">
    <span id="year">{{.FirstLabel}}</span>
  </div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const frames = {{.FramesJSON}};
      const duration = {{.Duration}};
      const slider = document.getElementById('slider');
      const yearLabel = document.getElementById('year');
      const playButton = document.getElementById('play');
      const tooltip = document.getElementById('tooltip');

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: [],
        boxSelectionEnabled: false,
        autoungrabify: true,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'border-width': 2,
              'border-color': '#444',
              'width': '10px',
              'height': '10px'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#888',
              'width': 0.5,
              'curve-style': 'haystack'
            }
          }
        ]
      });

      function showFrame(index) {
        const frame = frames[index];
        cy.elements().remove();
        cy.add(frame.elements);
        cy.layout({ name: 'preset', fit: true, padding: 20 }).run();
        slider.value = index;
        yearLabel.textContent = frame.label;
      }

      let timer = null;
      function stop() {
        if (timer !== null) {
          clearInterval(timer);
          timer = null;
        }
      }

      playButton.addEventListener('click', function() {
        stop();
        let index = Number(slider.value);
        if (index >= frames.length - 1) {
          index = 0;
          showFrame(index);
        }
        timer = setInterval(function() {
          index++;
          if (index >= frames.length) {
            stop();
            return;
          }
          showFrame(index);
        }, duration);
      });

      slider.addEventListener('input', function() {
        stop();
        showFrame(Number(slider.value));
      });

      cy.on('mouseover', 'node', function(evt) {
        const pos = evt.renderedPosition || evt.position;
        tooltip.textContent = evt.target.data('label') + ': ' + evt.target.data('hover');
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 40) + 'px';
        tooltip.style.display = 'block';
      });
      cy.on('mouseout', 'node', function() {
        tooltip.style.display = 'none';
      });

      showFrame(0);
    })();
  </script>
</body>
</html>`
