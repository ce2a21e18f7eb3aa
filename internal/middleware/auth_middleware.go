package middleware

import (
	"context"
	"net/http"

	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

type contextKey string

const (
	ContextKeyClaims = contextKey("claims")
	ContextKeyToken  = contextKey("accessToken")
)

// AuthMiddleware gates routes on a valid, non-revoked access token whose
// subject still exists.
type AuthMiddleware struct {
	tokens      services.TokenService
	revocations repositories.RevocationRepository
	users       repositories.UserRepository
	errors      *utils.ErrorRenderer
}

func NewAuthMiddleware(
	tokens services.TokenService,
	revocations repositories.RevocationRepository,
	users repositories.UserRepository,
	renderer *utils.ErrorRenderer,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		errors:      renderer,
	}
}

// Require admits requests whose token role is one of roles. With no roles
// any authenticated identity is admitted. Every rejection is a 401.
func (m *AuthMiddleware) Require(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := models.NewRoleSet(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, token, err := m.authenticate(r, allowed)
			if err != nil {
				m.errors.HandleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *AuthMiddleware) authenticate(r *http.Request, allowed models.RoleSet) (*models.VerifiedClaims, string, error) {
	ctx := r.Context()

	token := utils.TokenFromRequest(r)
	if token == "" {
		return nil, "", utils.NewUnauthorized(utils.MsgNotAuthorized)
	}

	revoked, err := m.revocations.IsRevoked(ctx, token)
	if err != nil {
		utils.Logger.WithError(err).Error("Revocation lookup failed")
		return nil, "", utils.NewInternal(err)
	}
	if revoked {
		return nil, "", utils.NewUnauthorized(utils.MsgTokenBlacklisted)
	}

	claims, err := m.tokens.VerifyAccess(token)
	if err != nil {
		utils.Logger.WithError(err).Debug("Access token rejected")
		return nil, "", utils.NewUnauthorized(utils.MsgInvalidToken)
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		utils.Logger.WithError(err).Error("Token subject lookup failed")
		return nil, "", utils.NewInternal(err)
	}
	if user == nil {
		return nil, "", utils.NewUnauthorized(utils.MsgUserNotFound)
	}

	if !allowed.Permits(claims.Role) {
		utils.Logger.WithField("user_id", claims.UserID).
			Warnf("Role %s not permitted on %s", claims.Role, r.URL.Path)
		return nil, "", utils.NewUnauthorized(utils.MsgRoleNotAllowed)
	}

	return claims, token, nil
}

// ClaimsFromContext returns the claims attached by Require.
func ClaimsFromContext(ctx context.Context) (*models.VerifiedClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*models.VerifiedClaims)
	return claims, ok && claims != nil
}
