package system

import (
	"time"

	coresys "github.com/l1jgo/spawnpool/internal/core/system"
)

// Ticker is driven once per tick; scripting.Engine implements it.
type Ticker interface {
	Tick(dt time.Duration)
}

// ScriptSystem runs the scripts' per-tick hook. Phase 0 (Input).
type ScriptSystem struct {
	scripts Ticker
}

func NewScriptSystem(scripts Ticker) *ScriptSystem {
	return &ScriptSystem{scripts: scripts}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptSystem) Update(dt time.Duration) {
	s.scripts.Tick(dt)
}
