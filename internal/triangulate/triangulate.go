// Package triangulate splits simple polygons into triangles by ear clipping.
package triangulate

import (
	"errors"

	"github.com/Faultbox/spritemesh/pkg/math"
)

// ErrDegeneratePolygon is returned when no valid triangulation exists: fewer
// than three non-collinear points, zero area, or a self-intersecting ring.
var ErrDegeneratePolygon = errors.New("triangulate: degenerate polygon")

// epsilon bounds twice-area values treated as zero.
const epsilon = 1e-9

// Polygon triangulates a simple polygon given in either winding and returns
// triangles as index triples into points, wound the same way as the polygon.
//
// Consecutive duplicates and collinear points are dropped first, so a polygon
// of N usable vertices yields exactly N-2 triangles, each with positive area.
func Polygon(points []math.Vec2) ([][3]int, error) {
	ring := make([]int, len(points))
	for i := range ring {
		ring[i] = i
	}
	ring = clean(points, ring)
	if len(ring) < 3 {
		return nil, ErrDegeneratePolygon
	}

	sign := 1.0
	area := ringArea(points, ring)
	switch {
	case area > epsilon:
	case area < -epsilon:
		sign = -1
	default:
		return nil, ErrDegeneratePolygon
	}

	tris := make([][3]int, 0, len(ring)-2)
	start := 0
	for len(ring) > 3 {
		n := len(ring)
		ear := -1
		for k := 0; k < n; k++ {
			i := (start + k) % n
			if isEar(points, ring, i, sign) {
				ear = i
				break
			}
		}
		if ear == -1 {
			return nil, ErrDegeneratePolygon
		}

		prev, next := ring[(ear+n-1)%n], ring[(ear+1)%n]
		tris = append(tris, [3]int{prev, ring[ear], next})
		ring = append(ring[:ear], ring[ear+1:]...)
		// Resume next to the clipped vertex; ears tend to cluster.
		start = ear % len(ring)
	}

	if sign*orient(points[ring[0]], points[ring[1]], points[ring[2]]) <= epsilon {
		return nil, ErrDegeneratePolygon
	}
	tris = append(tris, [3]int{ring[0], ring[1], ring[2]})
	return tris, nil
}

// TriangleArea returns the unsigned area of a triangle.
func TriangleArea(a, b, c math.Vec2) float32 {
	o := orient(a, b, c)
	if o < 0 {
		o = -o
	}
	return float32(o / 2)
}

// clean removes consecutive duplicates and collinear vertices until stable.
func clean(points []math.Vec2, ring []int) []int {
	for changed := true; changed && len(ring) >= 3; {
		changed = false
		for i := 0; i < len(ring) && len(ring) >= 3; i++ {
			n := len(ring)
			prev := points[ring[(i+n-1)%n]]
			cur := points[ring[i]]
			next := points[ring[(i+1)%n]]
			o := orient(prev, cur, next)
			if cur == next || (o <= epsilon && o >= -epsilon) {
				ring = append(ring[:i], ring[i+1:]...)
				changed = true
				i--
			}
		}
	}
	return ring
}

// isEar reports whether ring[i] is strictly convex and its triangle holds no
// other ring vertex, on the boundary included.
func isEar(points []math.Vec2, ring []int, i int, sign float64) bool {
	n := len(ring)
	ip, in := (i+n-1)%n, (i+1)%n
	a, b, c := points[ring[ip]], points[ring[i]], points[ring[in]]
	if sign*orient(a, b, c) <= epsilon {
		return false
	}

	for j := 0; j < n; j++ {
		if j == ip || j == i || j == in {
			continue
		}
		p := points[ring[j]]
		if p == a || p == b || p == c {
			continue
		}
		if sign*orient(a, b, p) >= -epsilon &&
			sign*orient(b, c, p) >= -epsilon &&
			sign*orient(c, a, p) >= -epsilon {
			return false
		}
	}
	return true
}

func ringArea(points []math.Vec2, ring []int) float64 {
	var sum float64
	for i := range ring {
		a := points[ring[i]]
		b := points[ring[(i+1)%len(ring)]]
		sum += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	return sum / 2
}

// orient returns twice the signed area of (a, b, c) in float64.
func orient(a, b, c math.Vec2) float64 {
	abx, aby := float64(b.X)-float64(a.X), float64(b.Y)-float64(a.Y)
	acx, acy := float64(c.X)-float64(a.X), float64(c.Y)-float64(a.Y)
	return abx*acy - aby*acx
}
