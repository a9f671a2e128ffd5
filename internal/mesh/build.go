package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/spritemesh/pkg/math"
)

// Mesh builder errors.
var (
	ErrInvalidOptions = errors.New("mesh: invalid build options")
	ErrEmptyMesh      = errors.New("mesh: no triangles produced")
)

// Island is one traced outline in image pixel space together with its
// triangulation (index triples into Outline).
type Island struct {
	Outline   []math.Vec2
	Triangles [][3]int
}

// Options contains options for mesh building.
type Options struct {
	Type Type
	// CreateEdges adds a rim joining the front and back outlines (Flat2D only).
	CreateEdges bool
	// CreateBacksidePlane adds a reversed copy of the front face (Flat2D only).
	CreateBacksidePlane bool
	// Depth is the distance between front and back faces in world units.
	Depth float32
	// PixelsPerUnit converts image pixels to world units.
	PixelsPerUnit float32
	// ImageWidth and ImageHeight are the source dimensions used for UVs and centering.
	ImageWidth  int
	ImageHeight int
}

func (o Options) validate() error {
	switch {
	case !o.Type.Valid():
		return fmt.Errorf("%w: mesh type %d", ErrInvalidOptions, int(o.Type))
	case o.PixelsPerUnit <= 0:
		return fmt.Errorf("%w: pixels per unit must be positive", ErrInvalidOptions)
	case o.ImageWidth <= 0 || o.ImageHeight <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidOptions, o.ImageWidth, o.ImageHeight)
	case o.Depth < 0:
		return fmt.Errorf("%w: negative depth", ErrInvalidOptions)
	case o.Depth == 0 && (o.Type == Full3D || o.CreateEdges):
		return fmt.Errorf("%w: %s with edges needs a positive depth", ErrInvalidOptions, o.Type)
	}
	return nil
}

// Transform maps image space to world space: origin at the image centre,
// y up, PixelsPerUnit pixels per unit.
func (o Options) Transform() math.Mat4 {
	inv := 1 / o.PixelsPerUnit
	centre := math.Translate(-float32(o.ImageWidth)/2*inv, float32(o.ImageHeight)/2*inv, 0)
	return centre.Mul(math.Scale(inv, -inv, 1))
}

// World converts an image-space point to world XY.
func (o Options) World(p math.Vec2) math.Vec2 {
	w := o.Transform().TransformPoint([3]float32{p.X, p.Y, 0})
	return math.Vec2{X: w[0], Y: w[1]}
}

// PlanarUV maps an image-space point onto [0,1] texture space.
func (o Options) PlanarUV(p math.Vec2) [2]float32 {
	return [2]float32{p.X / float32(o.ImageWidth), 1 - p.Y/float32(o.ImageHeight)}
}

// FaceDepths returns the z of the front and back faces. A lone flat plane
// sits at z = 0.
func (o Options) FaceDepths() (front, back float32) {
	if o.Type == Flat2D && !o.CreateEdges && !o.CreateBacksidePlane {
		return 0, 0
	}
	return o.Depth / 2, -o.Depth / 2
}

var (
	forward  = math.Vec3{Z: 1}
	backward = math.Vec3{Z: -1}
)

// Build creates a mesh from triangulated islands. Front faces point to +Z.
//
// Flat2D emits the front plane, optionally a back plane with reversed winding
// and a rim of side quads. Full3D always emits both caps plus a continuous
// side wall whose UVs wrap around the outline by arc length.
func Build(islands []Island, opts Options) (*Mesh, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	b := &builder{bounds: EmptyBounds()}
	for i, island := range islands {
		start := len(b.indices)
		switch opts.Type {
		case Full3D:
			b.solid(island, opts)
		default:
			b.flat(island, opts)
		}
		if n := len(b.indices) - start; n > 0 {
			b.groups = append(b.groups, Group{
				Island:     i,
				StartIndex: int32(start),
				IndexCount: int32(n),
			})
		}
	}

	if len(b.indices) == 0 {
		return nil, ErrEmptyMesh
	}
	return &Mesh{
		Vertices: b.vertices,
		Indices:  b.indices,
		Groups:   b.groups,
		Bounds:   b.bounds,
	}, nil
}

type builder struct {
	vertices []Vertex
	indices  []uint32
	groups   []Group
	bounds   Bounds
}

// flat emits the Flat2D surfaces of one island.
func (b *builder) flat(island Island, opts Options) {
	front, back := opts.FaceDepths()
	pos, uv := capVertices(island.Outline, opts, front, false)
	b.surface(pos, uv, island.Triangles, forward)

	if opts.CreateBacksidePlane {
		pos, uv := capVertices(island.Outline, opts, back, false)
		b.surface(pos, uv, island.Triangles, backward)
	}

	if opts.CreateEdges {
		world, ccw := worldOutline(island.Outline, opts)
		n := len(world)
		for i := range n {
			j := (i + 1) % n
			quad := []math.Vec3{
				{X: world[i].X, Y: world[i].Y, Z: front},
				{X: world[j].X, Y: world[j].Y, Z: front},
				{X: world[j].X, Y: world[j].Y, Z: back},
				{X: world[i].X, Y: world[i].Y, Z: back},
			}
			ui, uj := opts.PlanarUV(island.Outline[i]), opts.PlanarUV(island.Outline[j])
			uvs := [][2]float32{ui, uj, uj, ui}
			b.surface(quad, uvs, [][3]int{{0, 1, 2}, {0, 2, 3}}, outward(world[i], world[j], ccw))
		}
	}
}

// solid emits a closed extrusion of one island with arc-length wall UVs.
func (b *builder) solid(island Island, opts Options) {
	front, back := opts.FaceDepths()

	pos, uv := capVertices(island.Outline, opts, front, false)
	b.surface(pos, uv, island.Triangles, forward)
	pos, uv = capVertices(island.Outline, opts, back, true)
	b.surface(pos, uv, island.Triangles, backward)

	world, ccw := worldOutline(island.Outline, opts)
	n := len(world)
	if n < 2 {
		return
	}

	// Ring of n+1 columns; the last column duplicates the first with u = 1.
	arc := make([]float32, n+1)
	for i := 1; i <= n; i++ {
		arc[i] = arc[i-1] + world[i-1].Distance(world[i%n])
	}
	perimeter := arc[n]
	if perimeter == 0 {
		return
	}

	ring := make([]math.Vec3, 0, 2*(n+1))
	uvs := make([][2]float32, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		p := world[i%n]
		u := arc[i] / perimeter
		ring = append(ring,
			math.Vec3{X: p.X, Y: p.Y, Z: front},
			math.Vec3{X: p.X, Y: p.Y, Z: back},
		)
		uvs = append(uvs, [2]float32{u, 0}, [2]float32{u, 1})
	}

	base := uint32(len(b.vertices))
	first := len(b.vertices)
	for i := range ring {
		b.addVertex(ring[i], math.Vec3{}, uvs[i])
	}
	for i := range n {
		want := outward(world[i], world[(i+1)%n], ccw)
		f0, b0 := base+uint32(2*i), base+uint32(2*i+1)
		f1, b1 := base+uint32(2*i+2), base+uint32(2*i+3)
		b.triangle(f0, f1, b1, want)
		b.triangle(f0, b1, b0, want)
	}

	// Weld normals across the UV seam.
	seamFront, seamEnd := first, first+2*n
	for k := 0; k < 2; k++ {
		a, c := &b.vertices[seamFront+k], &b.vertices[seamEnd+k]
		sum := math.V3(a.Normal).Add(math.V3(c.Normal))
		a.Normal, c.Normal = sum.Normalize().Array(), sum.Normalize().Array()
	}
	for i := first; i < len(b.vertices); i++ {
		b.vertices[i].Normal = math.V3(b.vertices[i].Normal).Normalize().Array()
	}
}

// surface appends shared vertices and their triangles. Each triangle is wound
// so its cross product faces want; vertex normals are the normalised sum of
// the face normals touching them.
func (b *builder) surface(pos []math.Vec3, uv [][2]float32, tris [][3]int, want math.Vec3) {
	base := uint32(len(b.vertices))
	first := len(b.vertices)
	for i := range pos {
		b.addVertex(pos[i], math.Vec3{}, uv[i])
	}
	for _, t := range tris {
		b.triangle(base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2]), want)
	}
	for i := first; i < len(b.vertices); i++ {
		n := math.V3(b.vertices[i].Normal)
		if n == (math.Vec3{}) {
			n = want
		}
		b.vertices[i].Normal = n.Normalize().Array()
	}
}

func (b *builder) addVertex(p, n math.Vec3, uv [2]float32) {
	pos := p.Array()
	b.bounds.Extend(pos)
	b.vertices = append(b.vertices, Vertex{Position: pos, Normal: n.Array(), TexCoord: uv})
}

// triangle appends indices (i0, i1, i2), swapping the winding when the face
// normal opposes want, and adds the face normal to each vertex normal.
// Degenerate triangles are skipped.
func (b *builder) triangle(i0, i1, i2 uint32, want math.Vec3) {
	p0 := math.V3(b.vertices[i0].Position)
	p1 := math.V3(b.vertices[i1].Position)
	p2 := math.V3(b.vertices[i2].Position)

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Length() < 1e-12 {
		return
	}
	if n.Dot(want) < 0 {
		i1, i2 = i2, i1
		n = n.Scale(-1)
	}
	b.indices = append(b.indices, i0, i1, i2)

	face := n.Normalize()
	for _, i := range []uint32{i0, i1, i2} {
		b.vertices[i].Normal = math.V3(b.vertices[i].Normal).Add(face).Array()
	}
}

// capVertices returns world positions and planar UVs of an outline at depth z.
// mirror flips u so the texture reads correctly from behind.
func capVertices(outline []math.Vec2, opts Options, z float32, mirror bool) ([]math.Vec3, [][2]float32) {
	pos := make([]math.Vec3, len(outline))
	uvs := make([][2]float32, len(outline))
	for i, p := range outline {
		w := opts.World(p)
		pos[i] = math.Vec3{X: w.X, Y: w.Y, Z: z}
		uvs[i] = opts.PlanarUV(p)
		if mirror {
			uvs[i][0] = 1 - uvs[i][0]
		}
	}
	return pos, uvs
}

// worldOutline converts an outline to world XY and reports whether it runs
// counter-clockwise there.
func worldOutline(outline []math.Vec2, opts Options) ([]math.Vec2, bool) {
	world := make([]math.Vec2, len(outline))
	for i, p := range outline {
		world[i] = opts.World(p)
	}
	return world, math.SignedArea(world) > 0
}

// outward returns the outward normal of edge a->b of a polygon in the XY plane.
func outward(a, b math.Vec2, ccw bool) math.Vec3 {
	d := b.Sub(a)
	if ccw {
		return math.Vec3{X: d.Y, Y: -d.X}.Normalize()
	}
	return math.Vec3{X: -d.Y, Y: d.X}.Normalize()
}
