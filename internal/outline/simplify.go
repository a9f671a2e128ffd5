package outline

// Simplify walks the outline once and collapses every run of consecutive
// points lying within mergeDistance of the run's first point onto that first
// point, then closes the seam between the last and first point. The result
// never drops below three points; merges that would are skipped. A
// non-positive distance returns an unchanged copy.
//
// This is deliberately lossy: corners spaced closer than mergeDistance are
// cut off, and on thin or tightly folded outlines the cuts can make the ring
// cross itself. Such a ring fails triangulation with
// triangulate.ErrDegeneratePolygon, so enabling the merge can turn a sprite
// that builds cleanly into a degenerate polygon failure.
func Simplify(o Outline, mergeDistance float32) Outline {
	if mergeDistance <= 0 || len(o) <= 3 {
		return o.Clone()
	}

	out := make(Outline, 0, len(o))
	anchor := o[0]
	for i := 1; i < len(o); i++ {
		p := o[i]
		// points left if p is dropped: emitted + anchor + rest after p
		remaining := len(out) + 1 + (len(o) - 1 - i)
		if anchor.Distance(p) < mergeDistance && remaining >= 3 {
			continue
		}
		out = append(out, anchor)
		anchor = p
	}
	out = append(out, anchor)

	for len(out) > 3 && out[len(out)-1].Distance(out[0]) < mergeDistance {
		out = out[:len(out)-1]
	}
	return out
}
