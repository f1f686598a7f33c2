package pool

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

// Placement says where a spawned instance goes. Build one with At or Under.
type Placement struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Parent   ecs.EntityID
	attached bool
}

// At places an instance at an absolute world position and orientation.
func At(pos mgl64.Vec3, rot mgl64.Quat) Placement {
	return Placement{Position: pos, Rotation: rot}
}

// Under attaches an instance to parent with the given local rotation. Local
// position is reset to the origin and local scale to one.
func Under(parent ecs.EntityID, localRot mgl64.Quat) Placement {
	return Placement{Rotation: localRot, Parent: parent, attached: true}
}

// Attached reports whether p is parent-relative.
func (p Placement) Attached() bool { return p.attached }

var unitScale = mgl64.Vec3{1, 1, 1}
