package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shadiptomojumder/skb-backend/internal/config"
	"github.com/shadiptomojumder/skb-backend/internal/models"
)

// Verification failures. Callers compare with errors.Is.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrMalformedToken   = errors.New("token is malformed")
)

// TokenService signs and verifies HS256 identity tokens. It performs no I/O.
type TokenService interface {
	// Issue signs claims with secret; the token expires ttl from now.
	Issue(claims models.IdentityClaims, secret []byte, ttl time.Duration) (string, error)
	// Verify checks signature and expiry against secret.
	Verify(token string, secret []byte) (*models.VerifiedClaims, error)

	// IssuePair issues an access and a refresh token for user using the
	// configured secrets and lifetimes.
	IssuePair(user *models.User) (access string, refresh string, err error)
	VerifyAccess(token string) (*models.VerifiedClaims, error)
	VerifyRefresh(token string) (*models.VerifiedClaims, error)

	// UnverifiedExpiry reads the exp claim without checking the signature.
	UnverifiedExpiry(token string) (time.Time, bool)
}

// tokenClaims is the JWT payload: the registered claims plus the identity
// under the names clients already read.
type tokenClaims struct {
	UserID    string      `json:"userId"`
	UserEmail string      `json:"userEmail"`
	UserRole  models.Role `json:"userRole"`
	jwt.RegisteredClaims
}

type tokenService struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{
		accessSecret:  cfg.AccessTokenSecret,
		accessTTL:     cfg.AccessTokenExpiry,
		refreshSecret: cfg.RefreshTokenSecret,
		refreshTTL:    cfg.RefreshTokenExpiry,
		now:           time.Now,
	}
}

func (s *tokenService) Issue(claims models.IdentityClaims, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is empty")
	}
	now := s.now()
	tc := tokenClaims{
		UserID:    claims.UserID.String(),
		UserEmail: claims.Email,
		UserRole:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(secret)
}

func (s *tokenService) Verify(token string, secret []byte) (*models.VerifiedClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var tc tokenClaims
	_, err := parser.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, classifyJWTError(err)
	}

	userID, err := uuid.Parse(tc.UserID)
	if err != nil {
		return nil, ErrMalformedToken
	}

	vc := &models.VerifiedClaims{
		IdentityClaims: models.IdentityClaims{
			UserID: userID,
			Email:  tc.UserEmail,
			Role:   tc.UserRole,
		},
		TokenID: tc.ID,
	}
	if tc.IssuedAt != nil {
		vc.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		vc.ExpiresAt = tc.ExpiresAt.Time
	}
	return vc, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformedToken
	}
}

func (s *tokenService) IssuePair(user *models.User) (string, string, error) {
	claims := user.Claims()
	access, err := s.Issue(claims, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.Issue(claims, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *tokenService) VerifyAccess(token string) (*models.VerifiedClaims, error) {
	return s.Verify(token, s.accessSecret)
}

func (s *tokenService) VerifyRefresh(token string) (*models.VerifiedClaims, error) {
	return s.Verify(token, s.refreshSecret)
}

func (s *tokenService) UnverifiedExpiry(token string) (time.Time, bool) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return time.Time{}, false
	}
	if tc.ExpiresAt == nil {
		return time.Time{}, false
	}
	return tc.ExpiresAt.Time, true
}
