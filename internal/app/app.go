package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/migrations"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

const (
	maxRetries       = 5
	connectTimeout   = 5 * time.Second
	initialBackoff   = 500 * time.Millisecond
	migrationTimeout = time.Minute
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	// Redis is nil unless the revocation list lives in redis.
	Redis *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	a := &App{Config: cfg, DB: dbPool}

	if cfg.RunMigrations {
		if err := a.migrate(); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.RevocationBackend == config.RevocationBackendRedis {
		if err := a.connectRedis(); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// migrate applies the embedded goose migrations over a database/sql handle
// built from the pool's connection settings.
func (a *App) migrate() error {
	db := stdlib.OpenDB(*a.DB.Config().ConnConfig)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	utils.Logger.Info("Database migrations applied.")
	return nil
}

func (a *App) connectRedis() error {
	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}

	a.Redis = client
	utils.Logger.Info("Connected to redis for token revocation.")
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
		utils.Logger.Info("Redis connection closed.")
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}

// newDBPool constructs the pgx pool.
//
//   - MaxConnIdleTime retires idle sockets before an upstream proxy drops them
//   - HealthCheckPeriod keeps every connection warm
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
