package collider

// WireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const WireframeVertexCount = 24

// Wireframe creates line vertices for a box, format: [x, y, z] per vertex.
func Wireframe(b Box) []float32 {
	lo, hi := b.Min(), b.Max()
	minX, minY, minZ := lo[0], lo[1], lo[2]
	maxX, maxY, maxZ := hi[0], hi[1], hi[2]
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// Wireframes concatenates the wireframes of every box in the spec.
func (s *Spec) Wireframes() []float32 {
	if s == nil {
		return nil
	}
	out := make([]float32, 0, len(s.Boxes)*WireframeVertexCount*3)
	for _, b := range s.Boxes {
		out = append(out, Wireframe(b)...)
	}
	return out
}
