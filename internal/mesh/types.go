// Package mesh assembles vertex, index and UV buffers from traced sprite outlines.
package mesh

import (
	"fmt"
	"strings"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Group is the index range produced for one island of the sprite.
type Group struct {
	Island     int
	StartIndex int32
	IndexCount int32
}

// Mesh holds the complete mesh data ready for upload or export.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// EmptyBounds returns inverted bounds ready to be grown with Extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Extend grows b to include p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
		Groups:   make([]Group, len(m.Groups)),
		Bounds:   m.Bounds,
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Indices, m.Indices)
	copy(c.Groups, m.Groups)
	return c
}

// Type selects between a flat sprite plane and a closed, UV-wrapped solid.
type Type int

const (
	Flat2D Type = iota
	Full3D
)

var typeNames = map[Type]string{
	Flat2D: "flat2d",
	Full3D: "full3d",
}

// String returns the config name of the mesh type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known mesh type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown mesh type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for k, v := range typeNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown mesh type %q", text)
}
