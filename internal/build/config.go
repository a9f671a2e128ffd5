package build

import (
	"fmt"

	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/internal/pivot"
)

// Config is the full parameter set of one rebuild. It is passed by value and
// never modified by the pipeline.
type Config struct {
	// AlphaThreshold is the minimum alpha of a solid pixel, 1..255.
	AlphaThreshold int `yaml:"alpha_threshold" toml:"alpha_threshold"`

	MeshType            mesh.Type `yaml:"mesh_type" toml:"mesh_type"`
	CreateEdges         bool      `yaml:"create_edges" toml:"create_edges"`
	CreateBacksidePlane bool      `yaml:"create_backside_plane" toml:"create_backside_plane"`

	MergeClosePoints bool    `yaml:"merge_close_points" toml:"merge_close_points"`
	MergeDistance    float32 `yaml:"merge_distance" toml:"merge_distance"` // pixels

	ColliderType    collider.Kind      `yaml:"collider_type" toml:"collider_type"`
	BoxPolicy       collider.BoxPolicy `yaml:"box_policy" toml:"box_policy"`
	SmallestBoxArea int                `yaml:"smallest_box_area" toml:"smallest_box_area"` // px², min_area policy
	MaxNumberBoxes  int                `yaml:"max_number_boxes" toml:"max_number_boxes"`   // max_count policy

	UsePhysicMaterial bool   `yaml:"use_physic_material" toml:"use_physic_material"`
	PhysicMaterial    string `yaml:"physic_material" toml:"physic_material"`
	SetTriggers       bool   `yaml:"set_triggers" toml:"set_triggers"`
	AddRigidBody      bool   `yaml:"add_rigid_body" toml:"add_rigid_body"`

	PivotHeightOffset float32 `yaml:"pivot_height_offset" toml:"pivot_height_offset"`
	PivotWidthOffset  float32 `yaml:"pivot_width_offset" toml:"pivot_width_offset"`
	PivotDepthOffset  float32 `yaml:"pivot_depth_offset" toml:"pivot_depth_offset"`

	UseAutoGeneratedMaterial bool   `yaml:"use_auto_generated_material" toml:"use_auto_generated_material"`
	FrontMaterial            string `yaml:"front_material" toml:"front_material"`

	// PixelsPerUnit converts image pixels to world units.
	PixelsPerUnit float32 `yaml:"pixels_per_unit" toml:"pixels_per_unit"`
	// Depth is the front-to-back thickness in world units.
	Depth float32 `yaml:"depth" toml:"depth"`
}

// Default returns a Config with sensible default values.
func Default() Config {
	return Config{
		AlphaThreshold:           128,
		MeshType:                 mesh.Flat2D,
		MergeDistance:            1.5,
		ColliderType:             collider.Boxes,
		BoxPolicy:                collider.MaxCount,
		SmallestBoxArea:          4,
		MaxNumberBoxes:           8,
		UseAutoGeneratedMaterial: true,
		PixelsPerUnit:            100,
		Depth:                    0.2,
	}
}

// Validate checks every parameter before any geometry work starts.
func (c Config) Validate() error {
	switch {
	case c.AlphaThreshold < 1 || c.AlphaThreshold > 255:
		return fmt.Errorf("%w: alpha threshold %d outside 1..255", ErrInvalidConfig, c.AlphaThreshold)
	case !c.MeshType.Valid():
		return fmt.Errorf("%w: mesh type %s", ErrInvalidConfig, c.MeshType)
	case !c.ColliderType.Valid():
		return fmt.Errorf("%w: collider type %s", ErrInvalidConfig, c.ColliderType)
	case c.MergeDistance < 0:
		return fmt.Errorf("%w: negative merge distance", ErrInvalidConfig)
	case c.PixelsPerUnit <= 0:
		return fmt.Errorf("%w: pixels per unit must be positive", ErrInvalidConfig)
	case c.Depth < 0:
		return fmt.Errorf("%w: negative depth", ErrInvalidConfig)
	case c.Depth == 0 && c.MeshType == mesh.Full3D:
		return fmt.Errorf("%w: full3d mesh needs a positive depth", ErrInvalidConfig)
	case c.Depth == 0 && c.MeshType == mesh.Flat2D && c.CreateEdges:
		return fmt.Errorf("%w: edges need a positive depth", ErrInvalidConfig)
	case c.Depth == 0 && (c.ColliderType == collider.AABB || c.ColliderType == collider.Boxes):
		return fmt.Errorf("%w: %s collider needs a positive depth", ErrInvalidConfig, c.ColliderType)
	case c.UsePhysicMaterial && c.PhysicMaterial == "":
		return fmt.Errorf("%w: physic material enabled without a name", ErrInvalidConfig)
	}

	if c.ColliderType == collider.Boxes {
		switch c.BoxPolicy {
		case collider.MaxCount:
			if c.MaxNumberBoxes < 1 {
				return fmt.Errorf("%w: max number of boxes %d < 1", ErrInvalidConfig, c.MaxNumberBoxes)
			}
		case collider.MinArea:
			if c.SmallestBoxArea < 2 {
				return fmt.Errorf("%w: smallest box area %d < 2", ErrInvalidConfig, c.SmallestBoxArea)
			}
		default:
			return fmt.Errorf("%w: box policy %s", ErrInvalidConfig, c.BoxPolicy)
		}
	}
	return nil
}

// Pivot returns the configured pivot offset.
func (c Config) Pivot() pivot.Offset {
	return pivot.Offset{
		Width:  c.PivotWidthOffset,
		Height: c.PivotHeightOffset,
		Depth:  c.PivotDepthOffset,
	}
}

// meshOptions returns the mesh builder options for a width × height source.
func (c Config) meshOptions(width, height int) mesh.Options {
	o := mesh.Options{
		Type:          c.MeshType,
		Depth:         c.Depth,
		PixelsPerUnit: c.PixelsPerUnit,
		ImageWidth:    width,
		ImageHeight:   height,
	}
	if c.MeshType == mesh.Flat2D {
		o.CreateEdges = c.CreateEdges
		o.CreateBacksidePlane = c.CreateBacksidePlane
	}
	return o
}
