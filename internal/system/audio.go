package system

import (
	"time"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/world"
)

// AudioSystem advances playing emitters so one-shot clips stop on their own.
// Phase 2 (Update).
type AudioSystem struct {
	world *world.State
}

func NewAudioSystem(ws *world.State) *AudioSystem {
	return &AudioSystem{world: ws}
}

func (s *AudioSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AudioSystem) Update(dt time.Duration) {
	s.world.Emitters.Each(func(id ecs.EntityID, e *world.Emitter) {
		if e.Playing() && s.world.ActiveInHierarchy(id) {
			e.Advance(dt)
		}
	})
}
