package collider

import (
	"errors"
	"fmt"

	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/pkg/math"
)

// ErrDecompositionFailed is returned when a collider kind produced no shapes.
var ErrDecompositionFailed = errors.New("collider: decomposition produced no shapes")

// Input carries everything Build needs.
type Input struct {
	Kind   Kind
	Policy BoxPolicy
	// SmallestBoxArea is the MinArea threshold in square pixels.
	SmallestBoxArea int
	// MaxNumberBoxes is the MaxCount limit.
	MaxNumberBoxes int

	// Outlines are the simplified island outlines in image space.
	Outlines [][]math.Vec2
	// Mesh is the render mesh; Kind Mesh collides against a copy of it.
	Mesh *mesh.Mesh
	// Frame maps image space to world space and supplies the depth.
	Frame mesh.Options

	Trigger        bool
	PhysicMaterial string
}

// Build derives the collider for in.Kind. Kind None yields a nil spec.
func Build(in Input) (*Spec, error) {
	spec := &Spec{
		Kind:           in.Kind,
		Trigger:        in.Trigger,
		PhysicMaterial: in.PhysicMaterial,
	}

	switch in.Kind {
	case None:
		return nil, nil

	case Mesh:
		if in.Mesh == nil || len(in.Mesh.Indices) == 0 {
			return nil, fmt.Errorf("%w: no render mesh", ErrDecompositionFailed)
		}
		spec.Mesh = in.Mesh.Clone()

	case AABB:
		r, ok := outlineBounds(in.Outlines)
		if !ok {
			return nil, fmt.Errorf("%w: no outline points", ErrDecompositionFailed)
		}
		spec.Rects = []Rect{r}
		spec.Boxes = []Box{boxFromRect(r, in.Frame)}

	case Boxes:
		if !in.Policy.Valid() {
			return nil, fmt.Errorf("collider: unknown box policy %d", int(in.Policy))
		}
		w, h := in.Frame.ImageWidth, in.Frame.ImageHeight
		rects := greedyRects(rasterize(in.Outlines, w, h), w, h)
		switch in.Policy {
		case MinArea:
			rects = dropSmall(rects, in.SmallestBoxArea)
		case MaxCount:
			rects = mergeToCount(rects, max(in.MaxNumberBoxes, 1))
		}
		if len(rects) == 0 {
			return nil, fmt.Errorf("%w: no boxes survived %s", ErrDecompositionFailed, in.Policy)
		}
		spec.Rects = rects
		spec.Boxes = make([]Box, len(rects))
		for i, r := range rects {
			spec.Boxes[i] = boxFromRect(r, in.Frame)
		}

	default:
		return nil, fmt.Errorf("collider: unknown kind %d", int(in.Kind))
	}

	return spec, nil
}

// outlineBounds returns the pixel rectangle enclosing every outline point.
func outlineBounds(outlines [][]math.Vec2) (Rect, bool) {
	minX, minY := float32(1e10), float32(1e10)
	maxX, maxY := float32(-1e10), float32(-1e10)
	n := 0
	for _, o := range outlines {
		for _, p := range o {
			minX, minY = min(minX, p.X), min(minY, p.Y)
			maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
			n++
		}
	}
	if n == 0 || maxX <= minX || maxY <= minY {
		return Rect{}, false
	}
	return Rect{X: int(minX), Y: int(minY), W: int(maxX - minX), H: int(maxY - minY)}, true
}

// boxFromRect converts a pixel rectangle to a world box spanning the depth.
func boxFromRect(r Rect, frame mesh.Options) Box {
	lo := frame.World(math.Vec2{X: float32(r.X), Y: float32(r.Y + r.H)})
	hi := frame.World(math.Vec2{X: float32(r.X + r.W), Y: float32(r.Y)})
	return Box{
		Center: [3]float32{(lo.X + hi.X) / 2, (lo.Y + hi.Y) / 2, 0},
		Size:   [3]float32{hi.X - lo.X, hi.Y - lo.Y, frame.Depth},
	}
}

// rasterize marks every pixel whose centre lies inside one of the outlines.
func rasterize(outlines [][]math.Vec2, w, h int) []bool {
	mask := make([]bool, w*h)
	for _, o := range outlines {
		r, ok := outlineBounds([][]math.Vec2{o})
		if !ok {
			continue
		}
		x0, y0 := max(r.X, 0), max(r.Y, 0)
		x1, y1 := min(r.X+r.W, w), min(r.Y+r.H, h)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				i := y*w + x
				if mask[i] {
					continue
				}
				c := math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}
				mask[i] = math.PointInPolygon(c, o)
			}
		}
	}
	return mask
}

// greedyRects covers the mask with disjoint rectangles, growing each one
// right along its row and then down while whole rows stay free.
func greedyRects(mask []bool, w, h int) []Rect {
	used := make([]bool, len(mask))
	free := func(x, y int) bool {
		i := y*w + x
		return mask[i] && !used[i]
	}

	var rects []Rect
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !free(x, y) {
				continue
			}
			rw := 1
			for x+rw < w && free(x+rw, y) {
				rw++
			}
			rh := 1
		grow:
			for y+rh < h {
				for dx := 0; dx < rw; dx++ {
					if !free(x+dx, y+rh) {
						break grow
					}
				}
				rh++
			}
			for dy := 0; dy < rh; dy++ {
				for dx := 0; dx < rw; dx++ {
					used[(y+dy)*w+x+dx] = true
				}
			}
			rects = append(rects, Rect{X: x, Y: y, W: rw, H: rh})
		}
	}
	return rects
}
