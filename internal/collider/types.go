// Package collider derives collision geometry from sprite outlines and meshes.
package collider

import (
	"fmt"
	"strings"

	"github.com/Faultbox/spritemesh/internal/mesh"
)

// Kind selects the collider shape.
type Kind int

const (
	None Kind = iota
	Mesh
	AABB
	Boxes
)

var kindNames = map[Kind]string{
	None:  "none",
	Mesh:  "mesh",
	AABB:  "aabb",
	Boxes: "boxes",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a known collider kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown collider kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for v, s := range kindNames {
		if s == name {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown collider kind %q", text)
}

// BoxPolicy names the strategy that bounds a box decomposition.
type BoxPolicy int

const (
	// MaxCount merges boxes until at most MaxNumberBoxes remain.
	MaxCount BoxPolicy = iota
	// MinArea drops boxes smaller than SmallestBoxArea square pixels.
	MinArea
)

var policyNames = map[BoxPolicy]string{
	MaxCount: "max_count",
	MinArea:  "min_area",
}

func (p BoxPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("BoxPolicy(%d)", int(p))
}

// Valid reports whether p is a known policy.
func (p BoxPolicy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (p BoxPolicy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown box policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BoxPolicy) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for v, s := range policyNames {
		if s == name {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown box policy %q", text)
}

// Rect is an axis-aligned rectangle of whole pixels in image space.
type Rect struct {
	X, Y, W, H int
}

// Area returns the rectangle area in square pixels.
func (r Rect) Area() int { return r.W * r.H }

// Union returns the bounding rectangle of r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Box is an axis-aligned box in world space.
type Box struct {
	Center [3]float32
	Size   [3]float32
}

// Min returns the minimum corner.
func (b Box) Min() [3]float32 {
	return [3]float32{b.Center[0] - b.Size[0]/2, b.Center[1] - b.Size[1]/2, b.Center[2] - b.Size[2]/2}
}

// Max returns the maximum corner.
func (b Box) Max() [3]float32 {
	return [3]float32{b.Center[0] + b.Size[0]/2, b.Center[1] + b.Size[1]/2, b.Center[2] + b.Size[2]/2}
}

// Spec is the collision geometry of a sprite.
type Spec struct {
	Kind Kind
	// Mesh is set for Kind Mesh.
	Mesh *mesh.Mesh
	// Boxes holds one box for AABB and the decomposition for Boxes.
	Boxes []Box
	// Rects are the pixel-space sources of Boxes, index for index.
	Rects []Rect

	Trigger        bool
	PhysicMaterial string
}

// Clone returns a deep copy of the spec.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	c := *s
	if s.Mesh != nil {
		c.Mesh = s.Mesh.Clone()
	}
	c.Boxes = append([]Box(nil), s.Boxes...)
	c.Rects = append([]Rect(nil), s.Rects...)
	return &c
}
