package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drive scripted callers
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: motion, trails, emitters
	PhasePostUpdate              // 3: fire due deferred returns
	PhaseOutput                  // 4: metrics
	PhasePersist                 // 5: stats snapshots
	PhaseCleanup                 // 6: destroy queued entities
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every loop system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
