package main

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	"github.com/l1jgo/spawnpool/internal/pool"
)

type benchOptions struct {
	rounds  int
	batch   int
	profile string
	dir     string
}

func newBenchCmd() *cobra.Command {
	var opts benchOptions
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Churn every template through spawn and return",
		Long: `bench spawns a batch of every catalog template, returns them all and
repeats. After the first round every spawn should be served from the pool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			a, err := newApp(cfg, log.WithOptions(zap.IncreaseLevel(zap.WarnLevel)), nil)
			if err != nil {
				return err
			}
			defer a.shutdown()
			return bench(a, opts)
		},
	}
	cmd.Flags().IntVar(&opts.rounds, "rounds", 1000, "spawn/return rounds")
	cmd.Flags().IntVar(&opts.batch, "batch", 64, "instances per template per round")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "write a cpu or mem profile")
	cmd.Flags().StringVar(&opts.dir, "profile-dir", ".", "directory for profile output")
	return cmd
}

func bench(a *app, opts benchOptions) error {
	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.dir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(opts.dir), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile %q (want cpu or mem)", opts.profile)
	}

	protos := a.st.Prototypes()
	if len(protos) == 0 {
		return fmt.Errorf("catalog %s has no templates", a.cfg.Pool.Catalog)
	}
	type spawned struct {
		id ecs.EntityID
		c  pool.Category
	}
	at := pool.At(mgl64.Vec3{}, mgl64.QuatIdent())
	live := make([]spawned, 0, opts.batch*len(protos))

	start := time.Now()
	spawns := 0
	for r := 0; r < opts.rounds; r++ {
		live = live[:0]
		for _, p := range protos {
			for i := 0; i < opts.batch; i++ {
				id, err := a.mgr.Spawn(p, at, p.Category())
				if err != nil {
					return err
				}
				live = append(live, spawned{id, p.Category()})
			}
		}
		for _, s := range live {
			a.mgr.Return(s.id, s.c)
		}
		spawns += len(live)
	}
	elapsed := time.Since(start)
	rate := 0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = int(float64(spawns) / secs)
	}

	printSection("bench")
	printStat("rounds", opts.rounds)
	printStat("spawns", spawns)
	printStat("spawns per second", rate)
	printStat("entities alive", a.st.ECS().Pool().Len())
	fmt.Println()
	printPools(a.mgr.Snapshot())
	return nil
}
