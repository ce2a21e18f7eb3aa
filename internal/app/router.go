package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/controllers"
	"github.com/shadiptomojumder/skb-backend/internal/middleware"
	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/routes"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// corsDevOrigin is allowed outside production when ALLOWED_ORIGINS is empty.
const corsDevOrigin = "http://localhost:*"

// Dependencies are the stores the HTTP surface is built on.
type Dependencies struct {
	Config      *config.Config
	DB          controllers.Pinger
	Users       repositories.UserRepository
	Revocations repositories.RevocationRepository
	// RateLimits may be nil, which disables request rate limiting.
	RateLimits repositories.RateLimitRepository
}

// NewRouter wires services, controllers and middleware into the complete
// HTTP handler.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	renderer := utils.NewErrorRenderer(cfg.IsProduction())

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	tokenService := services.NewTokenService(cfg)
	authService := services.NewAuthService(cfg, deps.Users, deps.Revocations, tokenService)
	userService := services.NewUserService(deps.Users)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	authController := controllers.NewAuthController(authService, cfg, renderer)
	userController := controllers.NewUserController(userService, renderer)
	healthController := controllers.NewHealthController(deps.DB)

	auth := middleware.NewAuthMiddleware(tokenService, deps.Revocations, deps.Users, renderer)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()
	router.NotFoundHandler = renderer.NotFoundHandler()
	router.MethodNotAllowedHandler = renderer.MethodNotAllowedHandler()

	// Health
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Test, healthController.ServerCheckHandler).Methods(http.MethodGet)

	// Auth
	router.HandleFunc(routes.AuthSignup, authController.Signup).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.Login).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogout, authController.Logout).Methods(http.MethodPost)

	// User. /all and /me are registered before /{id}.
	router.Handle(routes.UserAll, auth.Require(models.AllRoles()...)(
		http.HandlerFunc(userController.GetAll))).Methods(http.MethodGet)
	router.Handle(routes.UserMe, auth.Require()(
		http.HandlerFunc(userController.GetMe))).Methods(http.MethodGet)
	router.Handle(routes.UserByID, auth.Require()(
		http.HandlerFunc(userController.GetOne))).Methods(http.MethodGet)

	var handler http.Handler = router
	if deps.RateLimits != nil && cfg.RateLimitMax > 0 {
		limiter := services.NewRateLimiterService(deps.RateLimits, cfg)
		handler = middleware.RateLimit(limiter, renderer)(handler)
	}
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.RequestLogger(handler)
	handler = middleware.Recoverer(renderer)(handler)
	handler = middleware.ClientAddress(cfg.TrustedProxies)(handler)

	return newCORS(cfg).Handler(handler)
}

func newCORS(cfg *config.Config) *cors.Cors {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 && !cfg.IsProduction() {
		allowedOrigins = []string{corsDevOrigin}
	}

	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	// An empty list means "any origin" to cors; production must opt in.
	if len(allowedOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts)
}
