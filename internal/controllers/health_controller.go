package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shadiptomojumder/skb-backend/internal/dtos"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

const healthPingTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	// Check database connectivity
	if err := c.db.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("Database unreachable")
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, dtos.HealthCheckResponse{
			Status: "Database unreachable",
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}

// ServerCheckHandler answers GET /test without touching any dependency.
func (c *HealthController) ServerCheckHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.ServerCheckResponse{Message: "Server working....!"})
}
