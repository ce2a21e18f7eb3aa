package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// One retry on transient network errors (EOF, closed connection).
var cleanupRetryDelay = 3 * time.Second

func isTransient(err error) bool {
	return errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
		strings.Contains(err.Error(), "connection was closed")
}

// runWithRetry runs op and, on a transient error, waits and runs it once more.
func runWithRetry(ctx context.Context, name string, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil || !isTransient(err) {
		return err
	}
	utils.Logger.WithError(err).Warnf("%s cleanup hit transient DB error; retrying once", name)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cleanupRetryDelay):
	}
	return op(ctx)
}

// RevocationCleanupService prunes blacklist entries whose tokens have expired.
type RevocationCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type revocationCleanupService struct {
	repo repositories.RevocationRepository
}

func NewRevocationCleanupService(repo repositories.RevocationRepository) RevocationCleanupService {
	return &revocationCleanupService{repo: repo}
}

func (s *revocationCleanupService) CleanupDaily(ctx context.Context) error {
	var removed int64
	err := runWithRetry(ctx, "revoked_tokens", func(ctx context.Context) error {
		n, err := s.repo.CleanupExpired(ctx)
		removed = n
		return err
	})
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup expired revoked_tokens")
		return err
	}

	utils.Logger.WithField("removed", removed).Info("Daily revoked token cleanup completed successfully.")
	return nil
}

// RateLimitCleanupService removes expired rate limit counter keys from the database.
type RateLimitCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type rateLimitCleanupService struct {
	repo repositories.RateLimitRepository
}

func NewRateLimitCleanupService(repo repositories.RateLimitRepository) RateLimitCleanupService {
	return &rateLimitCleanupService{repo: repo}
}

func (s *rateLimitCleanupService) CleanupDaily(ctx context.Context) error {
	var removed int64
	err := runWithRetry(ctx, "rate_limit_attempts", func(ctx context.Context) error {
		n, err := s.repo.CleanupExpired(ctx)
		removed = n
		return err
	})
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup expired rate_limit_attempts")
		return err
	}

	utils.Logger.WithField("removed", removed).Info("Daily rate limit counter cleanup completed successfully.")
	return nil
}
