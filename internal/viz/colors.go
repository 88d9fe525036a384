package viz

import (
	"fmt"
	"math"
)

// ylGnBu is the YlGnBu color scale as stops from low to high.
var ylGnBu = [][3]float64{
	{8, 29, 88},
	{37, 52, 148},
	{34, 94, 168},
	{29, 145, 192},
	{65, 182, 196},
	{127, 205, 187},
	{199, 233, 180},
	{237, 248, 217},
	{255, 255, 217},
}

// YlGnBu returns the hex color at t in [0, 1] on the YlGnBu scale. Values
// outside the range are clamped.
func YlGnBu(t float64) string {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(ylGnBu)-1)
	i := int(pos)
	if i >= len(ylGnBu)-1 {
		return hexColor(ylGnBu[len(ylGnBu)-1])
	}
	frac := pos - float64(i)
	a, b := ylGnBu[i], ylGnBu[i+1]
	return hexColor([3]float64{
		a[0] + (b[0]-a[0])*frac,
		a[1] + (b[1]-a[1])*frac,
		a[2] + (b[2]-a[2])*frac,
	})
}

func hexColor(c [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(c[0])), int(math.Round(c[1])), int(math.Round(c[2])))
}

// levelPalette colors citation levels 0, 1, 2, ...; deeper levels reuse the
// last color.
var levelPalette = []string{"#d62728", "#ff7f0e", "#1f77b4", "#2ca02c", "#9467bd"}

// unreachableColor is used for nodes without a level.
const unreachableColor = "#7f7f7f"

func levelColor(level int) string {
	if level < 0 {
		return unreachableColor
	}
	if level >= len(levelPalette) {
		return levelPalette[len(levelPalette)-1]
	}
	return levelPalette[level]
}
