package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// Environment names recognised in ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Revocation store backends.
const (
	RevocationBackendPostgres = "postgres"
	RevocationBackendRedis    = "redis"
)

// Defaults for values that may be omitted from the environment.
const (
	DefaultAppName                   = "skb-backend"
	DefaultAppPort                   = "5000"
	DefaultAccessTokenExpiry         = 24 * time.Hour
	DefaultRefreshTokenExpiry        = 365 * 24 * time.Hour
	DefaultRateLimitMax              = 100
	DefaultRateLimitWindow           = 15 * time.Minute
	DefaultRevocationCleanupSchedule = "15 3 * * *"
	DefaultRateLimitCleanupSchedule  = "20 3 * * *"
	ShutdownTimeout                  = 10 * time.Second
)

// Config holds everything read from the environment at start-up. It is built
// once and handed to constructors; nothing else reads the environment.
type Config struct {
	Env     string
	AppName string
	AppPort string

	DBUrl         string
	RunMigrations bool

	AccessTokenSecret  []byte
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret []byte
	RefreshTokenExpiry time.Duration

	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Empty means the socket peer is
	// always the client.
	TrustedProxies []*net.IPNet

	RevocationBackend string
	RedisURL          string

	RateLimitMax    int
	RateLimitWindow time.Duration

	RevocationCleanupSchedule string
	RateLimitCleanupSchedule  string
}

// IsProduction controls cookie security and stack trace exposure.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// CookiePolicy derives the cookie attributes for this environment.
func (c *Config) CookiePolicy() utils.CookiePolicy {
	return utils.CookiePolicy{Secure: c.IsProduction()}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadConfig reads the process environment; any problem is fatal.
func LoadConfig() *Config {
	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load configuration")
	}
	utils.Logger.Infof("Loaded config for %s (%s)", cfg.AppName, cfg.Env)
	return cfg
}

// FromEnv builds a Config from lookup. All problems are reported together.
func FromEnv(lookup LookupFunc) (*Config, error) {
	var errs []error
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}
	require := func(key string) string {
		v := get(key, "")
		if v == "" {
			errs = append(errs, fmt.Errorf("%s env var is missing", key))
		}
		return v
	}

	cfg := &Config{
		Env:                       strings.ToLower(get("ENV", EnvDevelopment)),
		AppName:                   get("APP_NAME", DefaultAppName),
		AppPort:                   get("APP_PORT", get("PORT", DefaultAppPort)),
		DBUrl:                     require("DATABASE_URL"),
		AccessTokenSecret:         []byte(require("JWT_SECRET")),
		RefreshTokenSecret:        []byte(require("JWT_REFRESH_SECRET")),
		RevocationBackend:         strings.ToLower(get("REVOCATION_BACKEND", RevocationBackendPostgres)),
		RedisURL:                  get("REDIS_URL", ""),
		RevocationCleanupSchedule: get("REVOCATION_CLEANUP_SCHEDULE", DefaultRevocationCleanupSchedule),
		RateLimitCleanupSchedule:  get("RATE_LIMIT_CLEANUP_SCHEDULE", DefaultRateLimitCleanupSchedule),
		AllowedOrigins:            splitList(get("ALLOWED_ORIGINS", "")),
	}

	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env))
	}

	var err error
	if cfg.AccessTokenExpiry, err = ParseDuration(get("JWT_EXPIRES_IN", "")); err != nil {
		errs = append(errs, fmt.Errorf("JWT_EXPIRES_IN: %w", err))
	} else if cfg.AccessTokenExpiry == 0 {
		cfg.AccessTokenExpiry = DefaultAccessTokenExpiry
	}
	if cfg.RefreshTokenExpiry, err = ParseDuration(get("JWT_REFRESH_EXPIRES_IN", "")); err != nil {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_EXPIRES_IN: %w", err))
	} else if cfg.RefreshTokenExpiry == 0 {
		cfg.RefreshTokenExpiry = DefaultRefreshTokenExpiry
	}

	if len(cfg.AccessTokenSecret) > 0 && string(cfg.AccessTokenSecret) == string(cfg.RefreshTokenSecret) {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}

	switch cfg.RevocationBackend {
	case RevocationBackendPostgres:
	case RevocationBackendRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL env var is missing (REVOCATION_BACKEND=redis)"))
		}
	default:
		errs = append(errs, fmt.Errorf("REVOCATION_BACKEND must be %q or %q", RevocationBackendPostgres, RevocationBackendRedis))
	}

	if cfg.RunMigrations, err = strconv.ParseBool(get("RUN_MIGRATIONS", "true")); err != nil {
		errs = append(errs, fmt.Errorf("RUN_MIGRATIONS: %w", err))
	}

	if cfg.TrustedProxies, err = utils.ParseTrustedProxies(splitList(get("TRUSTED_PROXIES", ""))); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	if cfg.RateLimitMax, err = strconv.Atoi(get("RATE_LIMIT_MAX", strconv.Itoa(DefaultRateLimitMax))); err != nil || cfg.RateLimitMax < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be a non-negative integer"))
	}
	if cfg.RateLimitWindow, err = ParseDuration(get("RATE_LIMIT_WINDOW", "")); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err))
	} else if cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = DefaultRateLimitWindow
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for key, schedule := range map[string]string{
		"REVOCATION_CLEANUP_SCHEDULE": cfg.RevocationCleanupSchedule,
		"RATE_LIMIT_CLEANUP_SCHEDULE": cfg.RateLimitCleanupSchedule,
	} {
		if _, err := parser.Parse(schedule); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// ParseDuration accepts Go durations ("90m", "1h30m") and the shorthand used by
// token libraries: a bare number of seconds or a number with a "d" suffix for
// days ("7d"). An empty string yields zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(n) * time.Second, nil
	}
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
