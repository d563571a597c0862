// Package report turns a completed assessment into a paginated vector PDF:
// radar and bar chart geometry plus section layout.
package report

import (
	"math"

	"github.com/traitforge/disc-engine/internal/models"
)

// Point is a position on the page, in document units.
type Point struct {
	X float64
	Y float64
}

// Radar axes are fixed: D points up, I right, S down, C left. PDF
// coordinates grow downward, so "up" is the negative-Y angle.
var axisAngles = map[models.Category]float64{
	models.CategoryDominance:  -90,
	models.CategoryInfluence:  0,
	models.CategorySteadiness: 90,
	models.CategoryCompliance: 180,
}

// AxisPoint returns the point at fraction frac of radius along a category's
// axis. frac 0 is the center, frac 1 the full radius.
func AxisPoint(center Point, radius float64, c models.Category, frac float64) Point {
	rad := axisAngles[c] * math.Pi / 180
	return Point{
		X: center.X + math.Cos(rad)*radius*frac,
		Y: center.Y + math.Sin(rad)*radius*frac,
	}
}

// RadarVertices computes the data polygon: one vertex per category in
// D, I, S, C order, each at (score/100) of the radius along its axis.
func RadarVertices(center Point, radius float64, scores models.DiscScore) []Point {
	vertices := make([]Point, 0, len(models.Categories))
	for _, c := range models.Categories {
		frac := float64(scores.Get(c)) / 100
		vertices = append(vertices, AxisPoint(center, radius, c, frac))
	}
	return vertices
}

// GridRing computes ring k of n for the background grid: the same four axis
// angles scaled to radius*(k/n), connected in order.
func GridRing(center Point, radius float64, k, n int) []Point {
	frac := float64(k) / float64(n)
	ring := make([]Point, 0, len(models.Categories))
	for _, c := range models.Categories {
		ring = append(ring, AxisPoint(center, radius, c, frac))
	}
	return ring
}

// FanTriangles decomposes a polygon into triangles fanned from the center.
// The filled radar shape is drawn as these triangles, then the outline is
// re-stroked on top for crisp edges.
func FanTriangles(center Point, vertices []Point) [][3]Point {
	n := len(vertices)
	if n < 3 {
		return nil
	}
	triangles := make([][3]Point, 0, n)
	for i := 0; i < n; i++ {
		triangles = append(triangles, [3]Point{center, vertices[i], vertices[(i+1)%n]})
	}
	return triangles
}

// Bar is one rectangle of the grouped bar chart.
type Bar struct {
	Category models.Category
	X        float64
	Y        float64
	Width    float64
	Height   float64
}

// BarLayout computes the four bars left to right in D, I, S, C order. The
// origin is the baseline's left end; bars grow upward (negative Y) with
// height proportional to score/100.
func BarLayout(origin Point, maxHeight, barWidth, spacing float64, scores models.DiscScore) []Bar {
	bars := make([]Bar, 0, len(models.Categories))
	x := origin.X
	for _, c := range models.Categories {
		h := float64(scores.Get(c)) / 100 * maxHeight
		bars = append(bars, Bar{
			Category: c,
			X:        x,
			Y:        origin.Y - h,
			Width:    barWidth,
			Height:   h,
		})
		x += barWidth + spacing
	}
	return bars
}
