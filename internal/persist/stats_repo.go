package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/pool"
)

const insertStat = `INSERT INTO pool_stats
	(taken_at, runtime, template, category, total, active, inactive, created, reused, returned, destroyed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// StatRow is one persisted pool snapshot row.
type StatRow struct {
	TakenAt time.Time
	pool.Stat
}

// StatsRepo stores periodic pool snapshots, one row per pool.
type StatsRepo struct {
	db      *DB
	runtime string
}

func NewStatsRepo(db *DB, runtime string) *StatsRepo {
	return &StatsRepo{db: db, runtime: runtime}
}

func statsBatch(runtime string, takenAt time.Time, stats []pool.Stat) *pgx.Batch {
	b := &pgx.Batch{}
	for _, s := range stats {
		b.Queue(insertStat,
			takenAt, runtime, s.Template, s.Category,
			s.Total, s.Active, s.Inactive,
			int64(s.Created), int64(s.Reused), int64(s.Returned), int64(s.Destroyed),
		)
	}
	return b
}

// Insert writes one snapshot in a single round trip.
func (r *StatsRepo) Insert(ctx context.Context, takenAt time.Time, stats []pool.Stat) error {
	if len(stats) == 0 {
		return nil
	}
	b := statsBatch(r.runtime, takenAt, stats)
	if err := r.db.Pool.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert pool stats: %w", err)
	}
	r.db.log.Debug("pool stats saved", zap.Int("pools", len(stats)))
	return nil
}

// Recent returns the latest limit snapshots of template, newest first.
func (r *StatsRepo) Recent(ctx context.Context, template string, limit int) ([]StatRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT taken_at, template, category, total, active, inactive, created, reused, returned, destroyed
		 FROM pool_stats WHERE runtime = $1 AND template = $2
		 ORDER BY taken_at DESC LIMIT $3`, r.runtime, template, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatRow
	for rows.Next() {
		var row StatRow
		var created, reused, returned, destroyed int64
		if err := rows.Scan(
			&row.TakenAt, &row.Template, &row.Category,
			&row.Total, &row.Active, &row.Inactive,
			&created, &reused, &returned, &destroyed,
		); err != nil {
			return nil, err
		}
		row.Created, row.Reused = uint64(created), uint64(reused)
		row.Returned, row.Destroyed = uint64(returned), uint64(destroyed)
		result = append(result, row)
	}
	return result, rows.Err()
}
