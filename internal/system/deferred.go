package system

import (
	"time"

	"github.com/l1jgo/spawnpool/internal/core/sched"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
)

// DeferredSystem advances the continuation scheduler, firing due deferred
// returns after this tick's movement. Phase 3 (PostUpdate).
type DeferredSystem struct {
	sched *sched.Scheduler
}

func NewDeferredSystem(s *sched.Scheduler) *DeferredSystem {
	return &DeferredSystem{sched: s}
}

func (s *DeferredSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DeferredSystem) Update(dt time.Duration) {
	s.sched.Advance(dt)
}
