// Package outline traces boundary polygons out of a sprite's alpha mask and
// simplifies them for triangulation.
package outline

import (
	"errors"
	"fmt"

	"github.com/Faultbox/spritemesh/internal/sprite"
	"github.com/Faultbox/spritemesh/pkg/math"
)

// ErrThreshold is returned for alpha thresholds outside [1, 255].
var ErrThreshold = errors.New("outline: alpha threshold out of range")

// Outline is a closed polygon in image pixel space (x right, y down, pixel
// corners on integer coordinates). The last point connects back to the first.
type Outline []math.Vec2

// Area returns the enclosed area in square pixels.
func (o Outline) Area() float32 {
	a := math.SignedArea(o)
	if a < 0 {
		return -a
	}
	return a
}

// Perimeter returns the closed length of the outline.
func (o Outline) Perimeter() float32 {
	var p float32
	for i := range o {
		p += o[i].Distance(o[(i+1)%len(o)])
	}
	return p
}

// Clone returns a copy that shares no memory with o.
func (o Outline) Clone() Outline {
	c := make(Outline, len(o))
	copy(c, o)
	return c
}

// Walk directions, clockwise on screen.
const (
	dirEast = iota
	dirSouth
	dirWest
	dirNorth
)

// turnRank orders turns by preference, indexed by the clockwise direction
// delta: straight, right, reverse, left. Right wins at a saddle.
var turnRank = [4]int{1, 0, 3, 2}

type edge struct {
	fromX, fromY int
	toX, toY     int
	dir          int
	used         bool
}

// Extract traces every solid region of img, where a pixel is solid when its
// alpha is at least threshold. Each outline walks the region with the solid
// side on its right, so outer boundaries have positive shoelace area in image
// space. Pixels touching only at a corner become separate outlines. Holes are
// filled: only outer boundaries are returned, ordered by their top-left pixel,
// and regions lying inside a hole are dropped with it.
// An image without solid pixels yields no outlines and no error.
func Extract(img *sprite.Image, threshold int) ([]Outline, error) {
	if threshold < 1 || threshold > 255 {
		return nil, fmt.Errorf("%w: %d", ErrThreshold, threshold)
	}
	t := uint8(threshold)
	w, h := img.Width(), img.Height()

	var edges []edge
	// Outgoing edges per corner; a corner has at most two (saddle).
	out := make(map[int][]int)
	corner := func(x, y int) int { return y*(w+1) + x }
	add := func(fx, fy, tx, ty, dir int) {
		out[corner(fx, fy)] = append(out[corner(fx, fy)], len(edges))
		edges = append(edges, edge{fromX: fx, fromY: fy, toX: tx, toY: ty, dir: dir})
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !img.Solid(x, y, t) {
				continue
			}
			if !img.Solid(x, y-1, t) {
				add(x, y, x+1, y, dirEast)
			}
			if !img.Solid(x+1, y, t) {
				add(x+1, y, x+1, y+1, dirSouth)
			}
			if !img.Solid(x, y+1, t) {
				add(x+1, y+1, x, y+1, dirWest)
			}
			if !img.Solid(x-1, y, t) {
				add(x, y+1, x, y, dirNorth)
			}
		}
	}

	var loops []Outline
	for start := range edges {
		if edges[start].used {
			continue
		}
		loop := traceLoop(edges, out, start, corner)
		if math.SignedArea(loop) > 0 {
			loops = append(loops, loop)
		}
	}

	// Islands inside another island's hole are covered once the hole is
	// filled.
	var outlines []Outline
	for i, o := range loops {
		p := interiorPoint(o)
		nested := false
		for j, other := range loops {
			if i != j && math.PointInPolygon(p, other) {
				nested = true
				break
			}
		}
		if !nested {
			outlines = append(outlines, o)
		}
	}
	return outlines, nil
}

// interiorPoint returns the centre of the solid pixel right of the first
// edge of o. Pixel centres never lie on a traced boundary.
func interiorPoint(o Outline) math.Vec2 {
	d := o[1].Sub(o[0]).Normalize()
	return math.Vec2{
		X: o[0].X + (d.X-d.Y)/2,
		Y: o[0].Y + (d.Y+d.X)/2,
	}
}

// traceLoop follows edges from start until it returns to it, always taking
// the rightmost turn at a saddle. Only corners where the walk changes
// direction are kept.
func traceLoop(edges []edge, out map[int][]int, start int, corner func(x, y int) int) Outline {
	var path []int
	cur := start
	for {
		edges[cur].used = true
		path = append(path, cur)

		e := edges[cur]
		next := -1
		bestRank := len(turnRank)
		for _, cand := range out[corner(e.toX, e.toY)] {
			if edges[cand].used && cand != start {
				continue
			}
			rank := turnRank[(edges[cand].dir-e.dir+4)%4]
			if rank < bestRank {
				bestRank = rank
				next = cand
			}
		}
		if next == -1 || next == start {
			break
		}
		cur = next
	}

	var o Outline
	for i, id := range path {
		prev := path[(i+len(path)-1)%len(path)]
		if edges[prev].dir != edges[id].dir {
			o = append(o, math.Vec2{X: float32(edges[id].fromX), Y: float32(edges[id].fromY)})
		}
	}
	return o
}
