package collider

// dropSmall keeps rectangles of at least minArea square pixels.
func dropSmall(rects []Rect, minArea int) []Rect {
	out := rects[:0]
	for _, r := range rects {
		if r.Area() >= minArea {
			out = append(out, r)
		}
	}
	return out
}

// mergeToCount repeatedly merges the pair whose bounding union adds the least
// uncovered area until at most limit rectangles remain. Rectangles swallowed
// by a merge are removed.
func mergeToCount(rects []Rect, limit int) []Rect {
	rects = append([]Rect(nil), rects...)
	for len(rects) > limit {
		bi, bj := 0, 1
		best := mergeCost(rects[0], rects[1])
		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				if c := mergeCost(rects[i], rects[j]); c < best {
					best, bi, bj = c, i, j
				}
			}
		}

		merged := rects[bi].Union(rects[bj])
		out := rects[:0]
		for k, r := range rects {
			if k == bi || k == bj || contains(merged, r) {
				continue
			}
			out = append(out, r)
		}
		rects = append(out, merged)
	}
	return rects
}

func mergeCost(a, b Rect) int {
	return a.Union(b).Area() - a.Area() - b.Area()
}

func contains(outer, inner Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.X+inner.W <= outer.X+outer.W && inner.Y+inner.H <= outer.Y+outer.H
}
