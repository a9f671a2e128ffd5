package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/logger"
	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/internal/outline"
	"github.com/Faultbox/spritemesh/internal/pivot"
	"github.com/Faultbox/spritemesh/internal/sprite"
	"github.com/Faultbox/spritemesh/internal/triangulate"
	"github.com/Faultbox/spritemesh/pkg/math"
)

// Output is everything one build produces. Nothing in it is shared with
// other builds.
type Output struct {
	// Outlines are the simplified island outlines in image space.
	Outlines  []outline.Outline
	Mesh      *mesh.Mesh
	Collider  *collider.Spec
	Material  *Material
	RigidBody bool
	// Frame is the image-to-world mapping used by the build.
	Frame mesh.Options
}

// Build runs the whole pipeline on src and returns the result without
// touching any target. It is a pure function of its inputs.
func Build(src *sprite.Image, cfg Config) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrSourceUnreadable)
	}

	outlines, err := outline.Extract(src, cfg.AlphaThreshold)
	if err != nil {
		return nil, fmt.Errorf("extracting outlines: %w", err)
	}
	if len(outlines) == 0 {
		return nil, ErrNoGeometryFound
	}
	logger.Debug("outlines extracted",
		zap.Int("islands", len(outlines)),
		zap.Int("threshold", cfg.AlphaThreshold))

	if cfg.MergeClosePoints && cfg.MergeDistance > 0 {
		for i := range outlines {
			before := len(outlines[i])
			outlines[i] = outline.Simplify(outlines[i], cfg.MergeDistance)
			logger.Debug("outline simplified",
				zap.Int("island", i),
				zap.Int("before", before),
				zap.Int("after", len(outlines[i])))
		}
	}

	islands := make([]mesh.Island, len(outlines))
	points := make([][]math.Vec2, len(outlines))
	for i, o := range outlines {
		tris, err := triangulate.Polygon(o)
		if err != nil {
			return nil, fmt.Errorf("triangulating island %d: %w", i, err)
		}
		islands[i] = mesh.Island{Outline: o, Triangles: tris}
		points[i] = o
	}

	frame := cfg.meshOptions(src.Width(), src.Height())
	m, err := mesh.Build(islands, frame)
	if err != nil {
		return nil, fmt.Errorf("building mesh: %w", err)
	}
	logger.Debug("mesh built",
		zap.Stringer("type", cfg.MeshType),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()))

	in := collider.Input{
		Kind:            cfg.ColliderType,
		Policy:          cfg.BoxPolicy,
		SmallestBoxArea: cfg.SmallestBoxArea,
		MaxNumberBoxes:  cfg.MaxNumberBoxes,
		Outlines:        points,
		Mesh:            m,
		Frame:           frame,
		Trigger:         cfg.SetTriggers,
	}
	if cfg.UsePhysicMaterial {
		in.PhysicMaterial = cfg.PhysicMaterial
	}
	col, err := collider.Build(in)
	if err != nil {
		return nil, fmt.Errorf("building %s collider: %w", cfg.ColliderType, err)
	}

	pivot.Apply(m, col, cfg.Pivot())

	return &Output{
		Outlines:  outlines,
		Mesh:      m,
		Collider:  col,
		Material:  material(src, cfg),
		RigidBody: cfg.AddRigidBody && col != nil,
		Frame:     frame,
	}, nil
}

// material resolves the render material. A missing front material leaves
// the target without one.
func material(src *sprite.Image, cfg Config) *Material {
	if cfg.UseAutoGeneratedMaterial {
		name := "sprite"
		if p := src.Path(); p != "" {
			name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		return &Material{Name: name + "_material", Auto: true, Texture: src.Path(), Frame: src.Frame()}
	}
	if cfg.FrontMaterial == "" {
		return nil
	}
	return &Material{Name: cfg.FrontMaterial}
}
