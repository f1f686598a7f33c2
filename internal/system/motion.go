package system

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/world"
)

// MotionSystem integrates bodies of active entities and records their trails.
// Inactive (pooled) instances are skipped. Phase 2 (Update).
type MotionSystem struct {
	world *world.State
}

func NewMotionSystem(ws *world.State) *MotionSystem {
	return &MotionSystem{world: ws}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MotionSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	ws := s.world
	ecs.Each2(ws.Bodies, ws.Nodes, func(id ecs.EntityID, b *world.Body, _ *world.Node) {
		if !ws.ActiveInHierarchy(id) {
			return
		}
		v, w := b.Velocity(), b.AngularVelocity()
		if v.Len() == 0 && w.Len() == 0 {
			return
		}
		pos, rot, _ := ws.WorldTransform(id)
		pos = pos.Add(v.Mul(secs))
		if angle := w.Len() * secs; angle > 0 {
			rot = mgl64.QuatRotate(angle, w.Normalize()).Mul(rot).Normalize()
		}
		ws.SetWorldPose(id, pos, rot)

		if b.Drag > 0 {
			b.SetVelocity(v.Mul(math.Max(0, 1-b.Drag*secs)))
		}
		if tr, ok := ws.Trails.Get(id); ok {
			tr.Push(pos)
		}
	})
}
