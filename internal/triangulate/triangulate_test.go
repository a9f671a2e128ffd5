package triangulate

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/spritemesh/pkg/math"
)

func abs32(v float32) float32 {
	return float32(gomath.Abs(float64(v)))
}

// checkTriangulation verifies count, index range, winding and area coverage.
func checkTriangulation(t *testing.T, points []math.Vec2, tris [][3]int, wantCount int) {
	t.Helper()
	if len(tris) != wantCount {
		t.Fatalf("expected %d triangles, got %d", wantCount, len(tris))
	}

	polyArea := math.SignedArea(points)
	var sum float32
	for i, tri := range tris {
		for _, idx := range tri {
			if idx < 0 || idx >= len(points) {
				t.Fatalf("triangle %d index %d out of range", i, idx)
			}
		}
		a, b, c := points[tri[0]], points[tri[1]], points[tri[2]]
		o := math.Orient(a, b, c)
		if o == 0 {
			t.Errorf("triangle %d has zero area", i)
		}
		if (o > 0) != (polyArea > 0) {
			t.Errorf("triangle %d winding differs from polygon", i)
		}
		sum += TriangleArea(a, b, c)
	}
	if abs32(sum-abs32(polyArea)) > 1e-3 {
		t.Errorf("triangles cover %v, polygon area is %v", sum, abs32(polyArea))
	}
}

func reversed(points []math.Vec2) []math.Vec2 {
	out := make([]math.Vec2, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func TestPolygonTriangle(t *testing.T) {
	pts := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	tris, err := Polygon(pts)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	checkTriangulation(t, pts, tris, 1)
}

func TestPolygonSquareBothWindings(t *testing.T) {
	square := []math.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}

	for _, pts := range [][]math.Vec2{square, reversed(square)} {
		tris, err := Polygon(pts)
		if err != nil {
			t.Fatalf("Polygon failed: %v", err)
		}
		checkTriangulation(t, pts, tris, 2)
	}
}

func TestPolygonConcave(t *testing.T) {
	tests := []struct {
		name string
		pts  []math.Vec2
	}{
		{
			name: "L shape",
			pts:  []math.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 4}, {X: 0, Y: 4}},
		},
		{
			name: "comb",
			pts: []math.Vec2{
				{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 7, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 1},
				{X: 5, Y: 1}, {X: 5, Y: 5}, {X: 4, Y: 5}, {X: 4, Y: 1}, {X: 3, Y: 1},
				{X: 3, Y: 5}, {X: 2, Y: 5}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 5}, {X: 0, Y: 5},
			},
		},
		{
			name: "star",
			pts: func() []math.Vec2 {
				var pts []math.Vec2
				for i := 0; i < 10; i++ {
					r := 10.0
					if i%2 == 1 {
						r = 4
					}
					ang := float64(i) * gomath.Pi / 5
					pts = append(pts, math.Vec2{X: float32(r * gomath.Cos(ang)), Y: float32(r * gomath.Sin(ang))})
				}
				return pts
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pts := range [][]math.Vec2{tt.pts, reversed(tt.pts)} {
				tris, err := Polygon(pts)
				if err != nil {
					t.Fatalf("Polygon failed: %v", err)
				}
				checkTriangulation(t, pts, tris, len(pts)-2)
			}
		})
	}
}

func TestPolygonDropsCollinearPoints(t *testing.T) {
	// Square with a midpoint on every side
	pts := []math.Vec2{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2},
		{X: 4, Y: 4}, {X: 2, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 2},
	}
	tris, err := Polygon(pts)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	checkTriangulation(t, pts, tris, 2)
}

func TestPolygonDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []math.Vec2
	}{
		{"empty", nil},
		{"two points", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{"collinear", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}},
		{"duplicates", []math.Vec2{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}},
		{"bowtie", []math.Vec2{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Polygon(tt.pts)
			if err != ErrDegeneratePolygon {
				t.Errorf("expected ErrDegeneratePolygon, got %v", err)
			}
		})
	}
}

func TestTriangleArea(t *testing.T) {
	a := math.Vec2{X: 0, Y: 0}
	b := math.Vec2{X: 4, Y: 0}
	c := math.Vec2{X: 0, Y: 3}
	if got := TriangleArea(a, b, c); got != 6 {
		t.Errorf("TriangleArea() = %v, want 6", got)
	}
	if got := TriangleArea(a, c, b); got != 6 {
		t.Errorf("TriangleArea() reversed = %v, want 6", got)
	}
}
