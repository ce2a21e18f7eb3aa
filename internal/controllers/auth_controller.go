package controllers

import (
	"net/http"

	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/dtos"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

type AuthController struct {
	authService services.AuthService
	cfg         *config.Config
	errors      *utils.ErrorRenderer
}

func NewAuthController(authService services.AuthService, cfg *config.Config, renderer *utils.ErrorRenderer) *AuthController {
	return &AuthController{authService: authService, cfg: cfg, errors: renderer}
}

// Signup handles POST /api/v1/auth/signup.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	user, err := c.authService.Signup(r.Context(), req)
	if err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, "User created successfully", user, nil)
}

// Login handles POST /api/v1/auth/login. The access token is returned in the
// body and set as an http-only cookie.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	res, err := c.authService.Login(r.Context(), req)
	if err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	utils.SetAccessTokenCookie(w, res.AccessToken, c.cfg.AccessTokenExpiry, c.cfg.CookiePolicy())
	utils.RespondSuccess(w, http.StatusOK, "User logged in successfully", dtos.LoginResponse{
		User:        res.User,
		AccessToken: res.AccessToken,
	}, nil)
}

// Logout handles POST /api/v1/auth/logout. The presented token, if any, is
// blacklisted and both auth cookies are cleared.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.authService.Logout(r.Context(), utils.TokenFromRequest(r)); err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	utils.ClearAuthCookies(w, c.cfg.CookiePolicy())
	utils.RespondSuccess(w, http.StatusOK, "User logged out successfully", nil, nil)
}
