package build

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/mesh"
)

// Material is the render material reference installed on a target.
type Material struct {
	Name string
	// Auto is set when the material was generated from the source texture.
	Auto    bool
	Texture string
	// Frame is the sprite sheet frame Texture was read from.
	Frame int
}

// Target is the object geometry gets installed on. Rebuilds of one target
// are serialised by its mutex; a failed rebuild leaves it unchanged.
type Target struct {
	ID   uuid.UUID
	Name string

	mu         sync.Mutex
	mesh       *mesh.Mesh
	collider   *collider.Spec
	material   *Material
	rigidBody  bool
	generation int
}

// NewTarget creates an empty target with a fresh identity.
func NewTarget(name string) *Target {
	return &Target{ID: uuid.New(), Name: name}
}

// Installed is a view of what a target currently holds.
type Installed struct {
	Mesh       *mesh.Mesh
	Collider   *collider.Spec
	Material   *Material
	RigidBody  bool
	Generation int // successful rebuilds so far
}

// Snapshot returns the currently installed geometry.
func (t *Target) Snapshot() Installed {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Installed{
		Mesh:       t.mesh,
		Collider:   t.collider,
		Material:   t.material,
		RigidBody:  t.rigidBody,
		Generation: t.generation,
	}
}

// install swaps in a complete build. Callers hold t.mu.
func (t *Target) install(out *Output) {
	t.mesh = out.Mesh
	t.collider = out.Collider
	t.material = out.Material
	t.rigidBody = out.RigidBody
	t.generation++
}
