// Package pivot moves generated geometry so a configured pivot becomes the local origin.
package pivot

import (
	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/pkg/math"
)

// Offset is the pivot position in world units relative to the sprite centre.
type Offset struct {
	Width  float32 // x
	Height float32 // y
	Depth  float32 // z
}

// IsZero reports whether the offset leaves geometry in place.
func (o Offset) IsZero() bool {
	return o == Offset{}
}

// Matrix returns the translation that moves the pivot to the origin.
func (o Offset) Matrix() math.Mat4 {
	if o.IsZero() {
		return math.Identity()
	}
	return math.Translate(-o.Width, -o.Height, -o.Depth)
}

// Apply translates the mesh and collider together. Either may be nil.
// Sizes are preserved; only positions move.
func Apply(m *mesh.Mesh, c *collider.Spec, off Offset) {
	if off.IsZero() {
		return
	}
	t := off.Matrix()
	translateMesh(m, t)
	if c == nil {
		return
	}
	translateMesh(c.Mesh, t)
	for i := range c.Boxes {
		c.Boxes[i].Center = t.TransformPoint(c.Boxes[i].Center)
	}
}

func translateMesh(m *mesh.Mesh, t math.Mat4) {
	if m == nil {
		return
	}
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = t.TransformPoint(v.Position)
		v.Normal = t.TransformDirection(v.Normal)
	}
	m.Bounds.Min = t.TransformPoint(m.Bounds.Min)
	m.Bounds.Max = t.TransformPoint(m.Bounds.Max)
}
