// Package math provides the vector and matrix types used by the geometry pipeline.
package math

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other.
// Positive when other lies counter-clockwise from v in a y-up frame.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// Orient returns twice the signed area of triangle (a, b, c).
func Orient(a, b, c Vec2) float32 {
	return b.Sub(a).Cross(c.Sub(a))
}

// SignedArea returns the shoelace area of a closed polygon.
// The sign follows the winding of the points in the frame they are given in.
func SignedArea(points []Vec2) float32 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		a := points[i]
		b := points[(i+1)%n]
		sum += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	return float32(sum / 2)
}

// PointInPolygon reports whether p lies strictly inside the closed polygon
// using the even-odd rule.
func PointInPolygon(p Vec2, points []Vec2) bool {
	inside := false
	n := len(points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := points[i], points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
