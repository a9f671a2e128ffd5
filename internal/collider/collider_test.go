package collider

import (
	"errors"
	"testing"

	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/pkg/math"
)

func frame(w, h int) mesh.Options {
	return mesh.Options{Type: mesh.Flat2D, Depth: 1, PixelsPerUnit: 1, ImageWidth: w, ImageHeight: h}
}

func square(x, y, size float32) []math.Vec2 {
	return []math.Vec2{{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}}
}

// lShape is a one-pixel column at x=0 with a foot along the bottom row of a 4x4 image.
func lShape() []math.Vec2 {
	return []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 0, Y: 4}}
}

func TestBuildNone(t *testing.T) {
	spec, err := Build(Input{Kind: None, Outlines: [][]math.Vec2{square(0, 0, 4)}, Frame: frame(4, 4)})
	if err != nil || spec != nil {
		t.Errorf("expected nil spec and no error, got %v, %v", spec, err)
	}
}

func TestBuildMeshClonesRenderMesh(t *testing.T) {
	render := &mesh.Mesh{
		Vertices: []mesh.Vertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}},
		Indices:  []uint32{0, 1, 2},
	}
	spec, err := Build(Input{Kind: Mesh, Mesh: render, Frame: frame(4, 4), Trigger: true, PhysicMaterial: "ice"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if spec.Mesh == render {
		t.Fatal("collider mesh must be a copy")
	}
	spec.Mesh.Vertices[0].Position[0] = 9
	if render.Vertices[0].Position[0] == 9 {
		t.Error("collider mesh shares vertex buffer with the render mesh")
	}
	if !spec.Trigger || spec.PhysicMaterial != "ice" {
		t.Errorf("trigger/material not copied: %+v", spec)
	}

	if _, err := Build(Input{Kind: Mesh, Frame: frame(4, 4)}); !errors.Is(err, ErrDecompositionFailed) {
		t.Errorf("expected ErrDecompositionFailed without a mesh, got %v", err)
	}
}

func TestBuildAABB(t *testing.T) {
	spec, err := Build(Input{
		Kind:     AABB,
		Outlines: [][]math.Vec2{square(0, 0, 4)},
		Frame:    frame(4, 4),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(spec.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(spec.Boxes))
	}
	b := spec.Boxes[0]
	if b.Center != [3]float32{0, 0, 0} || b.Size != [3]float32{4, 4, 1} {
		t.Errorf("box = %+v, want centre 0 and size 4x4x1", b)
	}
	if b.Min() != [3]float32{-2, -2, -0.5} || b.Max() != [3]float32{2, 2, 0.5} {
		t.Errorf("min/max = %v %v", b.Min(), b.Max())
	}
}

func TestBuildAABBSpansIslands(t *testing.T) {
	spec, err := Build(Input{
		Kind:     AABB,
		Outlines: [][]math.Vec2{square(0, 0, 2), square(6, 2, 2)},
		Frame:    frame(8, 4),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := spec.Rects[0]; got != (Rect{X: 0, Y: 0, W: 8, H: 4}) {
		t.Errorf("rect = %+v, want whole image", got)
	}
	if spec.Boxes[0].Size != [3]float32{8, 4, 1} {
		t.Errorf("size = %v", spec.Boxes[0].Size)
	}
}

func TestBuildBoxesPolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    BoxPolicy
		minArea   int
		maxBoxes  int
		wantRects []Rect
		wantErr   error
	}{
		{
			name:      "min area keeps both",
			policy:    MinArea,
			minArea:   2,
			wantRects: []Rect{{0, 0, 1, 4}, {1, 3, 3, 1}},
		},
		{
			name:      "min area drops the foot",
			policy:    MinArea,
			minArea:   4,
			wantRects: []Rect{{0, 0, 1, 4}},
		},
		{
			name:    "min area drops everything",
			policy:  MinArea,
			minArea: 5,
			wantErr: ErrDecompositionFailed,
		},
		{
			name:      "max count within limit",
			policy:    MaxCount,
			maxBoxes:  2,
			wantRects: []Rect{{0, 0, 1, 4}, {1, 3, 3, 1}},
		},
		{
			name:      "max count merges",
			policy:    MaxCount,
			maxBoxes:  1,
			wantRects: []Rect{{0, 0, 4, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Build(Input{
				Kind:            Boxes,
				Policy:          tt.policy,
				SmallestBoxArea: tt.minArea,
				MaxNumberBoxes:  tt.maxBoxes,
				Outlines:        [][]math.Vec2{lShape()},
				Frame:           frame(4, 4),
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if len(spec.Rects) != len(tt.wantRects) {
				t.Fatalf("got rects %v, want %v", spec.Rects, tt.wantRects)
			}
			for i := range tt.wantRects {
				if spec.Rects[i] != tt.wantRects[i] {
					t.Errorf("rect %d = %v, want %v", i, spec.Rects[i], tt.wantRects[i])
				}
			}
			if len(spec.Boxes) != len(spec.Rects) {
				t.Errorf("%d boxes for %d rects", len(spec.Boxes), len(spec.Rects))
			}
		})
	}
}

func TestBuildBoxesWorldPlacement(t *testing.T) {
	spec, err := Build(Input{
		Kind:            Boxes,
		Policy:          MinArea,
		SmallestBoxArea: 2,
		Outlines:        [][]math.Vec2{lShape()},
		Frame:           frame(4, 4),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Column x in [0,1], y in [0,4] image space is world x in [-2,-1], y in [-2,2].
	col := spec.Boxes[0]
	if col.Center != [3]float32{-1.5, 0, 0} || col.Size != [3]float32{1, 4, 1} {
		t.Errorf("column box = %+v", col)
	}
	foot := spec.Boxes[1]
	if foot.Center != [3]float32{0.5, -1.5, 0} || foot.Size != [3]float32{3, 1, 1} {
		t.Errorf("foot box = %+v", foot)
	}
}

func TestBoxesCoverRasterExactly(t *testing.T) {
	// A comb: three teeth hanging from a bar.
	comb := []math.Vec2{
		{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 7, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 2},
		{X: 4, Y: 2}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 3, Y: 2}, {X: 1, Y: 2},
		{X: 1, Y: 5}, {X: 0, Y: 5},
	}
	const w, h = 8, 6
	mask := rasterize([][]math.Vec2{comb}, w, h)
	rects := greedyRects(mask, w, h)

	covered := make([]int, w*h)
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				covered[y*w+x]++
			}
		}
	}
	solid := 0
	for i := range mask {
		if mask[i] {
			solid++
		}
		want := 0
		if mask[i] {
			want = 1
		}
		if covered[i] != want {
			t.Errorf("pixel (%d,%d) covered %d times, want %d", i%w, i/w, covered[i], want)
		}
	}
	if solid != 7*2+3*3 {
		t.Errorf("rasterized %d pixels, want %d", solid, 7*2+3*3)
	}
}

func TestBuildBoxesEmpty(t *testing.T) {
	_, err := Build(Input{Kind: Boxes, Policy: MaxCount, MaxNumberBoxes: 4, Frame: frame(4, 4)})
	if !errors.Is(err, ErrDecompositionFailed) {
		t.Errorf("expected ErrDecompositionFailed, got %v", err)
	}
	_, err = Build(Input{Kind: AABB, Frame: frame(4, 4)})
	if !errors.Is(err, ErrDecompositionFailed) {
		t.Errorf("expected ErrDecompositionFailed for empty AABB, got %v", err)
	}
}

func TestMergeToCountPrefersLeastWaste(t *testing.T) {
	rects := []Rect{{0, 0, 2, 2}, {10, 10, 1, 1}, {2, 0, 2, 2}}
	got := mergeToCount(rects, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 rects, got %v", got)
	}
	want := map[Rect]bool{{10, 10, 1, 1}: true, {0, 0, 4, 2}: true}
	for _, r := range got {
		if !want[r] {
			t.Errorf("unexpected rect %v in %v", r, got)
		}
	}
	if len(rects) != 3 || rects[2] != (Rect{2, 0, 2, 2}) {
		t.Error("mergeToCount modified its input")
	}
}

func TestMergeDropsSwallowedRects(t *testing.T) {
	// Merging the first two rects swallows the third.
	rects := []Rect{{0, 0, 2, 2}, {2, 0, 2, 2}, {1, 0, 2, 1}, {20, 20, 1, 1}}
	got := mergeToCount(rects, 3)
	want := []Rect{{20, 20, 1, 1}, {0, 0, 4, 2}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rect %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProbe(t *testing.T) {
	spec, err := Build(Input{
		Kind:            Boxes,
		Policy:          MinArea,
		SmallestBoxArea: 1,
		Outlines:        [][]math.Vec2{lShape()},
		Frame:           frame(4, 4),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ix := NewIndex(spec, 4, 4)
	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 1},
		{3, 3, 1},
		{3, 0, -1},
		{1, 2, -1},
		{-1, 0, -1},
		{4, 3, -1},
	}
	for _, tt := range tests {
		if got := ix.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}

	if got := Probe(nil, 4, 4, 0, 0); got != -1 {
		t.Errorf("Probe on nil spec = %d, want -1", got)
	}
}

func TestWireframe(t *testing.T) {
	b := Box{Center: [3]float32{1, 2, 3}, Size: [3]float32{2, 4, 6}}
	v := Wireframe(b)
	if len(v) != WireframeVertexCount*3 {
		t.Fatalf("expected %d floats, got %d", WireframeVertexCount*3, len(v))
	}
	lo, hi := b.Min(), b.Max()
	for i := 0; i < len(v); i += 3 {
		for a := 0; a < 3; a++ {
			if v[i+a] != lo[a] && v[i+a] != hi[a] {
				t.Fatalf("vertex %d axis %d = %v not on box corner", i/3, a, v[i+a])
			}
		}
	}

	s := &Spec{Boxes: []Box{b, b}}
	if got := len(s.Wireframes()); got != 2*WireframeVertexCount*3 {
		t.Errorf("Wireframes returned %d floats", got)
	}
}

func TestKindAndPolicyText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("Boxes")); err != nil || k != Boxes {
		t.Errorf("UnmarshalText(Boxes) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("sphere")); err == nil {
		t.Error("expected error for unknown kind")
	}

	var p BoxPolicy
	if err := p.UnmarshalText([]byte("min_area")); err != nil || p != MinArea {
		t.Errorf("UnmarshalText(min_area) = %v, %v", p, err)
	}
	text, err := MaxCount.MarshalText()
	if err != nil || string(text) != "max_count" {
		t.Errorf("MarshalText(MaxCount) = %q, %v", text, err)
	}
}

func TestSpecClone(t *testing.T) {
	s := &Spec{Kind: Boxes, Boxes: []Box{{Size: [3]float32{1, 1, 1}}}, Rects: []Rect{{0, 0, 1, 1}}}
	c := s.Clone()
	c.Boxes[0].Center[0] = 5
	if s.Boxes[0].Center[0] == 5 {
		t.Error("Clone shares boxes")
	}
	var nilSpec *Spec
	if nilSpec.Clone() != nil {
		t.Error("Clone of nil spec should be nil")
	}
}
