package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// RateLimitDecision describes a client's budget after counting a request.
type RateLimitDecision struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiterService applies the per-client request budget.
type RateLimiterService interface {
	// CheckRequest counts one request from ip. Once the budget for the current
	// window is spent it returns the decision together with a TooManyRequests
	// error.
	CheckRequest(ctx context.Context, ip string) (*RateLimitDecision, error)
}

type rateLimiterService struct {
	repo repositories.RateLimitRepository
	cfg  *config.Config
}

func NewRateLimiterService(repo repositories.RateLimitRepository, cfg *config.Config) RateLimiterService {
	return &rateLimiterService{repo: repo, cfg: cfg}
}

func (s *rateLimiterService) CheckRequest(ctx context.Context, ip string) (*RateLimitDecision, error) {
	key := fmt.Sprintf("req:ip:%s", ip)
	window, err := s.repo.Hit(ctx, key, s.cfg.RateLimitWindow)
	if err != nil {
		return nil, err
	}

	decision := &RateLimitDecision{
		Limit:     s.cfg.RateLimitMax,
		Remaining: max(s.cfg.RateLimitMax-window.Count, 0),
		ResetAt:   window.ResetAt,
	}
	if window.Count > s.cfg.RateLimitMax {
		utils.Logger.Warnf("Per-IP request rate limit exceeded (key: %s, count: %d)", key, window.Count)
		return decision, utils.NewTooManyRequests()
	}
	return decision, nil
}
