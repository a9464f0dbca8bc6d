// Package chart turns a price series into SVG path data for the filled line
// chart of the detail page.
package chart

import (
	"slices"
	"strconv"
	"strings"
)

// Paths holds the "d" attributes of the line and of the area under it.
type Paths struct {
	Line string
	Area string
	Min  float64
	Max  float64
}

// Empty reports whether there was nothing to draw.
func (p Paths) Empty() bool { return p.Line == "" }

// Build scales prices into a width x height box, y growing downwards. The
// lowest price touches the bottom edge and the highest the top edge; a flat
// series is drawn through the middle.
func Build(prices []float64, width, height float64) Paths {
	if len(prices) == 0 || width <= 0 || height <= 0 {
		return Paths{}
	}

	lo, hi := slices.Min(prices), slices.Max(prices)
	span := hi - lo

	step := 0.0
	if len(prices) > 1 {
		step = width / float64(len(prices)-1)
	}

	y := func(p float64) float64 {
		if span == 0 {
			return height / 2
		}
		return height - (p-lo)/span*height
	}

	var line strings.Builder
	for i, p := range prices {
		if i == 0 {
			line.WriteString("M")
		} else {
			line.WriteString(" L")
		}
		line.WriteString(coord(float64(i) * step))
		line.WriteString(",")
		line.WriteString(coord(y(p)))
	}

	lastX := float64(len(prices)-1) * step
	area := line.String() +
		" L" + coord(lastX) + "," + coord(height) +
		" L0," + coord(height) + " Z"

	return Paths{Line: line.String(), Area: area, Min: lo, Max: hi}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
