package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/config"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/persist"
	"github.com/l1jgo/spawnpool/internal/pool"
	"github.com/l1jgo/spawnpool/internal/scripting"
	"github.com/l1jgo/spawnpool/internal/system"
)

func newRunCmd() *cobra.Command {
	var (
		ticks int
		dump  string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the game loop with the configured scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg, ticks, dump)
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "stop after this many ticks (0 = until interrupted)")
	cmd.Flags().StringVar(&dump, "dump", "", "write the final pool snapshot as JSON to this file")
	return cmd
}

func run(cfg *config.Config, maxTicks int, dumpPath string) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Runtime.Name)

	// 1. Templates and pools
	printSection("pools")
	var reg prometheus.Registerer
	if cfg.Metrics.Enabled {
		reg = prometheus.DefaultRegisterer
	}
	a, err := newApp(cfg, log, reg)
	if err != nil {
		return err
	}
	defer a.shutdown()
	printStat("templates", len(a.st.Prototypes()))
	warmed, err := a.prewarm()
	if err != nil {
		return fmt.Errorf("prewarm: %w", err)
	}
	printStat("prewarmed instances", warmed)
	fmt.Println()

	// 2. Stats sink: PostgreSQL when enabled, the log otherwise
	printSection("stats")
	var writer system.StatsWriter = logStatsWriter{log: log}
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		writer = persist.NewStatsRepo(db, cfg.Runtime.Name)
	} else {
		printOK("database disabled, snapshots go to the log")
	}
	fmt.Println()

	// 3. Scripts
	printSection("scripts")
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, cfg.Scripting.Entry, a.mgr, a.st, a.bus, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("lua engine ready")
	fmt.Println()

	// 4. Metrics endpoint
	if cfg.Metrics.Enabled {
		srv := &http.Server{Addr: cfg.Metrics.BindAddress, Handler: promhttp.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	// 5. Systems
	stats := system.NewStatsSystem(a.mgr, writer, cfg.Stats.SnapshotInterval, log)
	runner := coresys.NewRunner()
	runner.Register(system.NewScriptSystem(engine))
	runner.Register(system.NewEventSystem(a.bus))
	runner.Register(system.NewMotionSystem(a.st))
	runner.Register(system.NewAudioSystem(a.st))
	runner.Register(system.NewDeferredSystem(a.sched))
	runner.Register(stats)
	runner.Register(system.NewCleanupSystem(a.st, log))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Runtime.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("tick rate %s", cfg.Runtime.TickRate))
	if cfg.Metrics.Enabled {
		printReady("metrics on http://" + cfg.Metrics.BindAddress + "/metrics")
	}
	fmt.Println()

loop:
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Runtime.TickRate)
			if maxTicks > 0 && runner.Ticks() >= uint64(maxTicks) {
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		}
	}

	stats.Save()
	snapshot := a.mgr.Snapshot()
	fmt.Println()
	printSection("final pools")
	printPools(snapshot)
	printStat("ticks", int(runner.Ticks()))

	if dumpPath != "" {
		if err := dumpSnapshot(dumpPath, snapshot); err != nil {
			return err
		}
		printOK("snapshot written to " + dumpPath)
	}
	return nil
}

// logStatsWriter is the stats sink when no database is configured.
type logStatsWriter struct {
	log *zap.Logger
}

func (w logStatsWriter) Insert(_ context.Context, takenAt time.Time, stats []pool.Stat) error {
	for _, s := range stats {
		w.log.Info("pool stats",
			zap.Time("taken_at", takenAt),
			zap.String("template", s.Template),
			zap.String("category", s.Category),
			zap.Int("active", s.Active),
			zap.Int("inactive", s.Inactive),
			zap.Uint64("created", s.Created),
			zap.Uint64("reused", s.Reused))
	}
	return nil
}

type snapshotFile struct {
	TakenAt time.Time   `json:"taken_at"`
	Pools   []pool.Stat `json:"pools"`
}

func dumpSnapshot(path string, stats []pool.Stat) error {
	raw, err := json.MarshalIndent(snapshotFile{TakenAt: time.Now().UTC(), Pools: stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
