package viz

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/spatial/r2"
)

// LayoutOptions configures the force-directed layout.
type LayoutOptions struct {
	Width   float64
	Height  float64
	Margin  float64
	Updates int
	Seed    uint64
}

// DefaultLayoutOptions returns the layout used by the CLI.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Width:   1000,
		Height:  800,
		Margin:  40,
		Updates: 50,
		Seed:    1,
	}
}

// Point is a position in the drawing box.
type Point struct {
	X float64
	Y float64
}

// ForceLayout positions the nodes of g with the Eades spring embedder and
// scales the result into the drawing box. Graphs the embedder cannot spread
// (a single node, or no movement at all) fall back to a circle.
func ForceLayout(g graph.Graph, opts LayoutOptions) map[int64]Point {
	opts = withLayoutDefaults(opts)
	nodes := graph.NodesOf(g.Nodes())
	if len(nodes) == 0 {
		return map[int64]Point{}
	}

	eades := layout.EadesR2{
		Updates:   opts.Updates,
		Repulsion: 1,
		Rate:      0.05,
		Theta:     0.2,
		Src:       rand.NewPCG(opts.Seed, opts.Seed),
	}
	o := layout.NewOptimizerR2(g, eades.Update)
	for o.Update() {
	}

	raw := make(map[int64]r2.Vec, len(nodes))
	for _, n := range nodes {
		raw[n.ID()] = o.Coord2(n.ID())
	}
	return scaleToBox(raw, opts)
}

func withLayoutDefaults(opts LayoutOptions) LayoutOptions {
	def := DefaultLayoutOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Margin < 0 || 2*opts.Margin >= math.Min(opts.Width, opts.Height) {
		opts.Margin = def.Margin
	}
	if opts.Updates <= 0 {
		opts.Updates = def.Updates
	}
	return opts
}

// scaleToBox maps raw coordinates into [margin, size-margin] on both axes,
// keeping the aspect ratio.
func scaleToBox(raw map[int64]r2.Vec, opts LayoutOptions) map[int64]Point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range raw {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) {
			return circleLayout(raw, opts)
		}
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}

	spanX, spanY := maxX-minX, maxY-minY
	if spanX < 1e-9 && spanY < 1e-9 {
		return circleLayout(raw, opts)
	}

	innerW := opts.Width - 2*opts.Margin
	innerH := opts.Height - 2*opts.Margin
	scale := math.Inf(1)
	if spanX > 1e-9 {
		scale = innerW / spanX
	}
	if spanY > 1e-9 {
		scale = math.Min(scale, innerH/spanY)
	}

	// Center the scaled drawing.
	offX := opts.Margin + (innerW-spanX*scale)/2
	offY := opts.Margin + (innerH-spanY*scale)/2

	out := make(map[int64]Point, len(raw))
	for id, v := range raw {
		out[id] = Point{
			X: offX + (v.X-minX)*scale,
			Y: offY + (v.Y-minY)*scale,
		}
	}
	return out
}

// circleLayout places nodes evenly on a circle in id order. A single node
// sits at the center.
func circleLayout(raw map[int64]r2.Vec, opts LayoutOptions) map[int64]Point {
	ids := make([]int64, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	cx, cy := opts.Width/2, opts.Height/2
	out := make(map[int64]Point, len(ids))
	if len(ids) == 1 {
		out[ids[0]] = Point{X: cx, Y: cy}
		return out
	}
	radius := math.Min(opts.Width, opts.Height)/2 - opts.Margin
	for i, id := range ids {
		theta := 2 * math.Pi * float64(i) / float64(len(ids))
		out[id] = Point{
			X: cx + radius*math.Cos(theta),
			Y: cy + radius*math.Sin(theta),
		}
	}
	return out
}
