package report

import (
	"math"
	"testing"

	"github.com/traitforge/disc-engine/internal/models"
)

const epsilon = 1e-9

func close(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestRadarVertexAtZeroIsCenter(t *testing.T) {
	center := Point{X: 100, Y: 100}
	vertices := RadarVertices(center, 40, models.DiscScore{})

	for i, v := range vertices {
		if !close(v.X, center.X) || !close(v.Y, center.Y) {
			t.Errorf("vertex %d: score 0 must sit at the center, got (%f, %f)", i, v.X, v.Y)
		}
	}
}

func TestRadarVertexAtHundredIsFullRadius(t *testing.T) {
	center := Point{X: 100, Y: 100}
	radius := 40.0
	scores := models.DiscScore{D: 100, I: 100, S: 100, C: 100}
	vertices := RadarVertices(center, radius, scores)

	// D up, I right, S down, C left in page coordinates.
	expected := []Point{
		{X: 100, Y: 60},
		{X: 140, Y: 100},
		{X: 100, Y: 140},
		{X: 60, Y: 100},
	}

	for i, want := range expected {
		got := vertices[i]
		if !close(got.X, want.X) || !close(got.Y, want.Y) {
			t.Errorf("vertex %d: want (%f, %f), got (%f, %f)", i, want.X, want.Y, got.X, got.Y)
		}
		dist := math.Hypot(got.X-center.X, got.Y-center.Y)
		if !close(dist, radius) {
			t.Errorf("vertex %d: distance from center %f, want radius %f", i, dist, radius)
		}
	}
}

func TestRadarVertexProportional(t *testing.T) {
	center := Point{X: 0, Y: 0}
	vertices := RadarVertices(center, 100, models.DiscScore{D: 50})

	// D axis points up: (0, -50).
	if !close(vertices[0].X, 0) || !close(vertices[0].Y, -50) {
		t.Errorf("D=50 should land halfway up the axis, got (%f, %f)", vertices[0].X, vertices[0].Y)
	}
}

func TestGridRings(t *testing.T) {
	center := Point{X: 0, Y: 0}
	radius := 50.0

	for k := 1; k <= 5; k++ {
		ring := GridRing(center, radius, k, 5)
		if len(ring) != 4 {
			t.Fatalf("ring %d: expected 4 points, got %d", k, len(ring))
		}
		want := radius * float64(k) / 5
		for i, p := range ring {
			dist := math.Hypot(p.X, p.Y)
			if !close(dist, want) {
				t.Errorf("ring %d point %d: distance %f, want %f", k, i, dist, want)
			}
		}
	}
}

func TestFanTriangles(t *testing.T) {
	center := Point{X: 0, Y: 0}
	vertices := []Point{{0, -10}, {10, 0}, {0, 10}, {-10, 0}}

	triangles := FanTriangles(center, vertices)
	if len(triangles) != 4 {
		t.Fatalf("expected 4 triangles from a quad, got %d", len(triangles))
	}

	// Every triangle starts at the center and the fan closes the polygon.
	for i, tri := range triangles {
		if tri[0] != center {
			t.Errorf("triangle %d must share the center vertex", i)
		}
		if tri[1] != vertices[i] || tri[2] != vertices[(i+1)%4] {
			t.Errorf("triangle %d covers wrong edge", i)
		}
	}

	if FanTriangles(center, vertices[:2]) != nil {
		t.Error("fewer than 3 vertices cannot form a fan")
	}
}

func TestBarLayout(t *testing.T) {
	origin := Point{X: 20, Y: 200}
	scores := models.DiscScore{D: 100, I: 50, S: 0, C: 25}
	bars := BarLayout(origin, 80, 10, 5, scores)

	if len(bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(bars))
	}

	// Heights proportional to score/100 of maxHeight.
	wantHeights := []float64{80, 40, 0, 20}
	for i, bar := range bars {
		if !close(bar.Height, wantHeights[i]) {
			t.Errorf("bar %d: height %f, want %f", i, bar.Height, wantHeights[i])
		}
		if !close(bar.Y+bar.Height, origin.Y) {
			t.Errorf("bar %d: must sit on the baseline", i)
		}
		wantX := origin.X + float64(i)*15
		if !close(bar.X, wantX) {
			t.Errorf("bar %d: x %f, want %f", i, bar.X, wantX)
		}
	}

	if bars[0].Category != models.CategoryDominance || bars[3].Category != models.CategoryCompliance {
		t.Error("bars must follow D, I, S, C order")
	}
}
