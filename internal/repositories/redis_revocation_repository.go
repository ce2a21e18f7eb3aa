package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "revoked:"
	// minRevocationTTL keeps a just-expiring token listed long enough to
	// cover clock skew between this process and redis.
	minRevocationTTL = time.Second
)

type redisRevocationRepository struct {
	client redis.Cmdable
}

// NewRedisRevocationRepository keeps the blacklist in redis. Each entry gets
// a TTL matching the token's remaining lifetime, so no pruning job is needed.
func NewRedisRevocationRepository(client redis.Cmdable) RevocationRepository {
	return &redisRevocationRepository{client: client}
}

func (r *redisRevocationRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}
	return r.client.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
}

func (r *redisRevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisRevocationRepository) CleanupExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
