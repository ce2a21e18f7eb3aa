package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadiptomojumder/skb-backend/internal/testhelpers"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

type flakyRevocations struct {
	*testhelpers.MemoryRevocationRepository
	failures []error
	calls    int
}

func (f *flakyRevocations) CleanupExpired(ctx context.Context) (int64, error) {
	f.calls++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return 0, err
	}
	return f.MemoryRevocationRepository.CleanupExpired(ctx)
}

func withFastRetry(t *testing.T) {
	prev := cleanupRetryDelay
	cleanupRetryDelay = time.Millisecond
	t.Cleanup(func() { cleanupRetryDelay = prev })
}

func TestRevocationCleanup_RemovesOnlyExpired(t *testing.T) {
	repo := testhelpers.NewMemoryRevocationRepository()
	ctx := context.Background()
	require.NoError(t, repo.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, repo.Revoke(ctx, "live", time.Now().Add(time.Hour)))

	require.NoError(t, NewRevocationCleanupService(repo).CleanupDaily(ctx))

	entries := repo.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "live", entries[0].Token)
}

func TestRevocationCleanup_RetriesTransientOnce(t *testing.T) {
	withFastRetry(t)
	repo := &flakyRevocations{
		MemoryRevocationRepository: testhelpers.NewMemoryRevocationRepository(),
		failures:                   []error{io.EOF},
	}

	require.NoError(t, NewRevocationCleanupService(repo).CleanupDaily(context.Background()))
	assert.Equal(t, 2, repo.calls)
}

func TestRevocationCleanup_DoesNotRetryPermanentErrors(t *testing.T) {
	withFastRetry(t)
	repo := &flakyRevocations{
		MemoryRevocationRepository: testhelpers.NewMemoryRevocationRepository(),
		failures:                   []error{errors.New("permission denied")},
	}

	assert.Error(t, NewRevocationCleanupService(repo).CleanupDaily(context.Background()))
	assert.Equal(t, 1, repo.calls)
}

func TestRateLimitCleanup(t *testing.T) {
	repo := testhelpers.NewMemoryRateLimitRepository()
	_, err := repo.Hit(context.Background(), "req:ip:1.1.1.1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, NewRateLimitCleanupService(repo).CleanupDaily(context.Background()))

	repo.Err = errors.New("down")
	assert.Error(t, NewRateLimitCleanupService(repo).CleanupDaily(context.Background()))
}

func TestRateLimiterService(t *testing.T) {
	cfg := testhelpers.TestConfig()
	cfg.RateLimitMax = 2
	repo := testhelpers.NewMemoryRateLimitRepository()
	svc := NewRateLimiterService(repo, cfg)
	ctx := context.Background()

	decision, err := svc.CheckRequest(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, 2, decision.Limit)
	assert.Equal(t, 1, decision.Remaining)
	assert.WithinDuration(t, time.Now().Add(cfg.RateLimitWindow), decision.ResetAt, 5*time.Second)

	decision, err = svc.CheckRequest(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, 0, decision.Remaining)

	decision, err = svc.CheckRequest(ctx, "1.1.1.1")
	assert.True(t, utils.IsKind(err, utils.KindTooManyRequests))
	require.NotNil(t, decision)
	assert.Equal(t, 0, decision.Remaining)

	_, err = svc.CheckRequest(ctx, "2.2.2.2")
	require.NoError(t, err, "budgets are per client")

	repo.Expire()
	decision, err = svc.CheckRequest(ctx, "1.1.1.1")
	require.NoError(t, err, "a new window starts over")
	assert.Equal(t, 1, decision.Remaining)
}
