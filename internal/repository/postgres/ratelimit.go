package postgres

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.RateLimitStore = (*RateLimitRepository)(nil)

type RateLimitRepository struct {
	db *Connection
}

func NewRateLimitRepository(db *Connection) *RateLimitRepository {
	return &RateLimitRepository{
		db: db,
	}
}

// lockKey derives the advisory lock id from the bucket hash.
func lockKey(bucket []byte, action string) int64 {
	var b [8]byte
	copy(b[:], bucket)
	key := binary.BigEndian.Uint64(b[:])
	for i := 0; i < len(action); i++ {
		key = key*31 + uint64(action[i])
	}
	return int64(key)
}

// Hit counts and records under a transaction-scoped advisory lock so that
// concurrent checks for the same bucket cannot both pass the last slot.
func (r *RateLimitRepository) Hit(ctx context.Context, bucket []byte, action string, limit int, window time.Duration, now time.Time) (bool, error) {
	var allowed bool
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey(bucket, action)); err != nil {
			return fmt.Errorf("failed to lock bucket: %w", err)
		}

		var count int
		countQuery := `SELECT COUNT(*) FROM rate_limit_hits WHERE bucket = $1 AND action = $2 AND created_at > $3`
		if err := tx.QueryRow(ctx, countQuery, bucket, action, now.Add(-window)).Scan(&count); err != nil {
			return fmt.Errorf("failed to count hits: %w", err)
		}
		if count >= limit {
			return nil
		}

		insert := `INSERT INTO rate_limit_hits (bucket, action, created_at) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insert, bucket, action, now); err != nil {
			return fmt.Errorf("failed to record hit: %w", err)
		}
		allowed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return allowed, nil
}

func (r *RateLimitRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM rate_limit_hits WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune rate limit hits: %w", err)
	}

	return tag.RowsAffected(), nil
}
