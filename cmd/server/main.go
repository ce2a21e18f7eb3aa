package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/shadiptomojumder/skb-backend/internal/app"
	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

func main() {
	utils.InitLogger(config.DefaultAppName)
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.AppName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	rateLimitRepo := repositories.NewRateLimitRepository(application.DB)

	var revocationRepo repositories.RevocationRepository
	if application.Redis != nil {
		revocationRepo = repositories.NewRedisRevocationRepository(application.Redis)
	} else {
		revocationRepo = repositories.NewRevocationRepository(application.DB)
	}

	handler := app.NewRouter(app.Dependencies{
		Config:      cfg,
		DB:          application.DB,
		Users:       userRepo,
		Revocations: revocationRepo,
		RateLimits:  rateLimitRepo,
	})

	//----------------------------------------------------------------------
	// Setup daily cleanup via cron
	//----------------------------------------------------------------------
	revocationCleanupService := services.NewRevocationCleanupService(revocationRepo)
	rateLimitCleanupService := services.NewRateLimitCleanupService(rateLimitRepo)

	c := cron.New()
	_, schErr := c.AddFunc(cfg.RevocationCleanupSchedule, func() {
		if e := revocationCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled revocation cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule revocation cleanup job")
	}
	_, schErr = c.AddFunc(cfg.RateLimitCleanupSchedule, func() {
		if e := rateLimitCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled rate limit counter cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule rate limit counter cleanup job")
	}
	c.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Failed to start server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	utils.Logger.Infof("Received %s, shutting down", sig)

	<-c.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
	utils.Logger.Info("Server stopped.")
}
