package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/pool"
)

// StatsWriter stores a pool snapshot; persist.StatsRepo implements it.
type StatsWriter interface {
	Insert(ctx context.Context, takenAt time.Time, stats []pool.Stat) error
}

// StatsSystem periodically snapshots every pool and hands the snapshot to a
// writer. Phase 5 (Persist).
type StatsSystem struct {
	mgr      *pool.Manager
	writer   StatsWriter
	interval time.Duration
	elapsed  time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewStatsSystem(mgr *pool.Manager, writer StatsWriter, interval time.Duration, log *zap.Logger) *StatsSystem {
	return &StatsSystem{
		mgr:      mgr,
		writer:   writer,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *StatsSystem) Update(dt time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.Save()
}

// Save writes a snapshot immediately. Called for graceful shutdown too.
func (s *StatsSystem) Save() {
	stats := s.mgr.Snapshot()
	if len(stats) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.Insert(ctx, s.now(), stats); err != nil {
		s.log.Error("pool stats snapshot failed", zap.Error(err))
		return
	}
	s.log.Debug("pool stats snapshot saved", zap.Int("pools", len(stats)))
}
