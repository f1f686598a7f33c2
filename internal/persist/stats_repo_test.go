package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/spawnpool/internal/config"
	"github.com/l1jgo/spawnpool/internal/pool"
)

func testStats() []pool.Stat {
	return []pool.Stat{
		{Template: "arrow", Category: "projectile", Counts: pool.Counts{Total: 3, Active: 1, Inactive: 2}, Created: 3, Reused: 5, Returned: 6},
		{Template: "spark", Category: "vfx", Counts: pool.Counts{Total: 1, Inactive: 1}, Created: 1, Returned: 1},
	}
}

func TestStatsBatchQueuesOneRowPerPool(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := statsBatch("demo", at, testStats())

	require.Equal(t, 2, b.Len())
	q := b.QueuedQueries[0]
	assert.Equal(t, insertStat, q.SQL)
	require.Len(t, q.Arguments, 11)
	assert.Equal(t, at, q.Arguments[0])
	assert.Equal(t, "demo", q.Arguments[1])
	assert.Equal(t, "arrow", q.Arguments[2])
	assert.Equal(t, int64(5), q.Arguments[8])
}

// Needs a scratch database: SPAWNPOOL_TEST_DSN=postgres://... go test ./internal/persist
func TestStatsRepoRoundTrip(t *testing.T) {
	dsn := os.Getenv("SPAWNPOOL_TEST_DSN")
	if dsn == "" {
		t.Skip("SPAWNPOOL_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, ConnMaxLifetime: time.Minute}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, RunMigrations(ctx, db.Pool, zaptest.NewLogger(t)))

	runtime := "test-" + t.Name() + time.Now().Format("150405.000000")
	repo := NewStatsRepo(db, runtime)
	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Insert(ctx, at, testStats()))
	require.NoError(t, repo.Insert(ctx, at, nil))

	rows, err := repo.Recent(ctx, "arrow", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, at.Equal(rows[0].TakenAt))
	assert.Equal(t, pool.Counts{Total: 3, Active: 1, Inactive: 2}, rows[0].Counts)
	assert.Equal(t, uint64(5), rows[0].Reused)
}
