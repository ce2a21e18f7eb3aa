package services

import (
	"context"
	"strings"
	"time"

	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/dtos"
	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// LoginResult is handed to the controller, which sets the access token
// cookie. The refresh token is only returned for callers that need it; it is
// never written to the response.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Signup(ctx context.Context, req dtos.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req dtos.LoginRequest) (*LoginResult, error)
	// Logout blacklists token without verifying it. An empty token is a no-op.
	Logout(ctx context.Context, token string) error
}

type authService struct {
	cfg         *config.Config
	users       repositories.UserRepository
	revocations repositories.RevocationRepository
	tokens      TokenService
	now         func() time.Time
}

func NewAuthService(
	cfg *config.Config,
	users repositories.UserRepository,
	revocations repositories.RevocationRepository,
	tokens TokenService,
) AuthService {
	return &authService{
		cfg:         cfg,
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		now:         time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req dtos.SignupRequest) (*models.User, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	email := normalizeEmail(req.Email)
	fullname := strings.TrimSpace(req.Fullname)
	if fullname == "" {
		return nil, utils.NewInvalidInput("fullname is required")
	}

	var phone *string
	if p := trimOptional(req.Phone); p != nil {
		e164, err := utils.NormalizePhone(*p)
		if err != nil {
			return nil, utils.NewInvalidInput("phone must be a valid phone number")
		}
		phone = &e164
	}

	existing, err := s.users.FindByEmailOrFullname(ctx, email, fullname)
	if err != nil {
		utils.Logger.WithError(err).Error("Signup: user lookup failed")
		return nil, utils.NewInternal(err)
	}
	if existing != nil {
		return nil, utils.NewConflict(utils.MsgUserExists)
	}

	if phone != nil {
		taken, err := s.users.ExistsByPhone(ctx, *phone)
		if err != nil {
			utils.Logger.WithError(err).Error("Signup: phone lookup failed")
			return nil, utils.NewInternal(err)
		}
		if taken {
			return nil, utils.NewConflict(utils.MsgUserExists)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	user := &models.User{
		Fullname:     fullname,
		Email:        email,
		Phone:        phone,
		Address:      trimOptional(req.Address),
		Role:         models.DefaultRole,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same email or phone.
		if _, dup := repositories.UniqueViolation(err); dup {
			return nil, utils.NewConflict(utils.MsgUserExists)
		}
		utils.Logger.WithError(err).Error("Signup: insert failed")
		return nil, utils.NewInternal(err)
	}

	utils.Logger.WithField("user_id", user.ID).Info("User signed up")
	return user.Sanitized(), nil
}

func (s *authService) Login(ctx context.Context, req dtos.LoginRequest) (*LoginResult, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		utils.Logger.WithError(err).Error("Login: user lookup failed")
		return nil, utils.NewInternal(err)
	}
	if user == nil {
		return nil, utils.NewNotFound(utils.MsgUserDoesNotExist)
	}

	hash, err := s.users.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, utils.NewInternal(err)
	}
	if hash == "" || !utils.CheckPasswordHash(req.Password, hash) {
		utils.Logger.WithField("user_id", user.ID).Warn("Login: wrong password")
		return nil, utils.NewUnauthorized(utils.MsgWrongPassword)
	}

	access, refresh, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, utils.NewInternal(err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		utils.Logger.WithError(err).Error("Login: storing refresh token failed")
		return nil, utils.NewInternal(err)
	}

	return &LoginResult{
		User:         user.Sanitized(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	expiresAt, ok := s.tokens.UnverifiedExpiry(token)
	if !ok {
		expiresAt = s.now().Add(s.cfg.AccessTokenExpiry)
	}

	if err := s.revocations.Revoke(ctx, token, expiresAt); err != nil {
		utils.Logger.WithError(err).Error("Logout: revoking token failed")
		return utils.NewInternal(err)
	}
	return nil
}
