package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/spritemesh/internal/build"
	"github.com/Faultbox/spritemesh/internal/mesh"
)

// WriteOBJ writes the render mesh as Wavefront OBJ, one object per island.
// With opts.Colliders, collider boxes follow as line elements.
func WriteOBJ(out io.Writer, name string, in build.Installed, opts Options) error {
	bw := bufio.NewWriter(out)
	w := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	m := in.Mesh
	w("# spritemesh %s", name)
	for _, v := range m.Vertices {
		w("v %f %f %f", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range m.Vertices {
		w("vt %f %f", v.TexCoord[0], v.TexCoord[1])
	}
	for _, v := range m.Vertices {
		w("vn %f %f %f", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	groups := m.Groups
	if len(groups) == 0 {
		groups = []mesh.Group{{IndexCount: int32(len(m.Indices))}}
	}
	for _, g := range groups {
		w("o %s_island%d", name, g.Island)
		if in.Material != nil {
			w("usemtl %s", in.Material.Name)
		}
		idx := m.Indices[g.StartIndex : g.StartIndex+g.IndexCount]
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := idx[i]+1, idx[i+1]+1, idx[i+2]+1
			w("f %d/%d/%d %d/%d/%d %d/%d/%d", a, a, a, b, b, b, c, c, c)
		}
	}

	if opts.Colliders && in.Collider != nil && len(in.Collider.Boxes) > 0 {
		base := len(m.Vertices) + 1
		lines := in.Collider.Wireframes()
		w("o %s_collider", name)
		for i := 0; i+2 < len(lines); i += 3 {
			w("v %f %f %f", lines[i], lines[i+1], lines[i+2])
		}
		for i := 0; i < len(lines)/3; i += 2 {
			w("l %d %d", base+i, base+i+1)
		}
	}

	return bw.Flush()
}
