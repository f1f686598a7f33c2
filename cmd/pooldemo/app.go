package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/config"
	"github.com/l1jgo/spawnpool/internal/core/event"
	"github.com/l1jgo/spawnpool/internal/core/sched"
	"github.com/l1jgo/spawnpool/internal/data"
	"github.com/l1jgo/spawnpool/internal/metrics"
	"github.com/l1jgo/spawnpool/internal/pool"
	"github.com/l1jgo/spawnpool/internal/world"
)

// app is the simulation shared by the run and bench commands.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	st    *world.State
	mgr   *pool.Manager
	bus   *event.Bus
	sched *sched.Scheduler
}

func newApp(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*app, error) {
	catalog, err := data.LoadCatalog(cfg.Pool.Catalog)
	if err != nil {
		return nil, err
	}
	st := world.NewState(log)
	if err := st.LoadCatalog(catalog); err != nil {
		return nil, fmt.Errorf("register prototypes: %w", err)
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		st:    st,
		bus:   event.NewBus(),
		sched: sched.New(),
	}
	opts := []pool.Option{
		pool.WithRootName(cfg.Pool.RootName),
		pool.WithScheduler(a.sched),
		pool.WithEvents(a.bus),
	}
	if reg != nil {
		opts = append(opts, pool.WithObserver(metrics.New(reg)))
	}
	a.mgr = pool.NewManager(st, world.NewFactory(st), log, opts...)
	return a, nil
}

// prewarm fills every pool whose template asks for it.
func (a *app) prewarm() (int, error) {
	total := 0
	for _, p := range a.st.Prototypes() {
		if p.Prewarm() <= 0 {
			continue
		}
		n, err := a.mgr.Prewarm(p, p.Category(), p.Prewarm())
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// shutdown clears every pool and destroys what that queued.
func (a *app) shutdown() {
	a.mgr.Close()
	a.st.Flush()
}
