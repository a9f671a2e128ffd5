package collider

import (
	"github.com/solarlune/resolv"
)

const boxTag = "box"

// Index answers pixel queries against the rectangles of a collider.
// Space cells are one pixel wide, so hits are exact at pixel granularity.
type Index struct {
	space  *resolv.Space
	probe  *resolv.Object
	boxes  map[*resolv.Object]int
	width  int
	height int
}

// NewIndex builds a collision space of width × height pixels from s.Rects.
func NewIndex(s *Spec, width, height int) *Index {
	ix := &Index{
		space:  resolv.NewSpace(width, height, 1, 1),
		boxes:  make(map[*resolv.Object]int),
		width:  width,
		height: height,
	}
	if s != nil {
		for i, r := range s.Rects {
			obj := resolv.NewObject(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), boxTag)
			obj.SetShape(resolv.NewRectangle(0, 0, float64(r.W), float64(r.H)))
			ix.space.Add(obj)
			ix.boxes[obj] = i
		}
	}
	ix.probe = resolv.NewObject(0, 0, 1, 1, "probe")
	ix.space.Add(ix.probe)
	return ix
}

// At returns the index of the lowest-numbered box covering pixel (x, y),
// or -1 when the pixel is outside every box.
func (ix *Index) At(x, y int) int {
	if x < 0 || y < 0 || x >= ix.width || y >= ix.height {
		return -1
	}
	ix.probe.X, ix.probe.Y = float64(x), float64(y)
	ix.probe.Update()

	hit := -1
	if c := ix.probe.Check(0, 0, boxTag); c != nil {
		for _, obj := range c.Objects {
			if i, ok := ix.boxes[obj]; ok && (hit < 0 || i < hit) {
				hit = i
			}
		}
	}
	return hit
}

// Probe reports which box of s covers pixel (x, y) of a width × height sprite.
func Probe(s *Spec, width, height, x, y int) int {
	return NewIndex(s, width, height).At(x, y)
}
