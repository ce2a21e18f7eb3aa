package repositories

import (
	"context"
	"time"

	"github.com/shadiptomojumder/skb-backend/internal/models"
)

// RateLimitRepository keeps fixed-window request counters in rate_limit_attempts.
type RateLimitRepository interface {
	// Hit counts one request against key. A counter whose window has passed
	// starts over at one with a fresh window.
	Hit(ctx context.Context, key string, window time.Duration) (*models.RateLimitWindow, error)
	// CleanupExpired deletes counters whose window has passed and returns how
	// many were removed.
	CleanupExpired(ctx context.Context) (int64, error)
}

type rateLimitRepository struct {
	db DB
}

func NewRateLimitRepository(db DB) RateLimitRepository {
	return &rateLimitRepository{db: db}
}

func (r *rateLimitRepository) Hit(ctx context.Context, key string, window time.Duration) (*models.RateLimitWindow, error) {
	query := `
		INSERT INTO rate_limit_attempts AS a (key, attempt_count, expires_at)
		VALUES ($1, 1, NOW() + make_interval(secs => $2))
		ON CONFLICT (key) DO UPDATE SET
			attempt_count = CASE WHEN a.expires_at <= NOW() THEN 1 ELSE a.attempt_count + 1 END,
			expires_at    = CASE WHEN a.expires_at <= NOW() THEN EXCLUDED.expires_at ELSE a.expires_at END
		RETURNING attempt_count, expires_at
	`
	w := &models.RateLimitWindow{}
	if err := r.db.QueryRow(ctx, query, key, window.Seconds()).Scan(&w.Count, &w.ResetAt); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *rateLimitRepository) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM rate_limit_attempts WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
