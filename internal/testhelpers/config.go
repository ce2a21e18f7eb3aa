package testhelpers

import (
	"time"

	"github.com/shadiptomojumder/skb-backend/internal/config"
)

// TestConfig returns a development configuration with short-lived tokens and
// distinct secrets. Callers may modify the copy they get.
func TestConfig() *config.Config {
	return &config.Config{
		Env:                       config.EnvDevelopment,
		AppName:                   "skb-backend-test",
		AppPort:                   "0",
		AccessTokenSecret:         []byte("test-access-secret-0123456789abcdef"),
		AccessTokenExpiry:         15 * time.Minute,
		RefreshTokenSecret:        []byte("test-refresh-secret-0123456789abcdef"),
		RefreshTokenExpiry:        24 * time.Hour,
		RevocationBackend:         config.RevocationBackendPostgres,
		RateLimitMax:              config.DefaultRateLimitMax,
		RateLimitWindow:           config.DefaultRateLimitWindow,
		RevocationCleanupSchedule: config.DefaultRevocationCleanupSchedule,
		RateLimitCleanupSchedule:  config.DefaultRateLimitCleanupSchedule,
	}
}
