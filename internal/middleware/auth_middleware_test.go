package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/testhelpers"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

type authFixture struct {
	users       *testhelpers.MemoryUserRepository
	revocations *testhelpers.MemoryRevocationRepository
	tokens      services.TokenService
	mw          *AuthMiddleware
}

func newAuthFixture() *authFixture {
	cfg := testhelpers.TestConfig()
	f := &authFixture{
		users:       testhelpers.NewMemoryUserRepository(),
		revocations: testhelpers.NewMemoryRevocationRepository(),
		tokens:      services.NewTokenService(cfg),
	}
	f.mw = NewAuthMiddleware(f.tokens, f.revocations, f.users, utils.NewErrorRenderer(false))
	return f
}

func (f *authFixture) user(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()
	u := &models.User{ID: uuid.New(), Fullname: "U " + string(role), Email: string(role) + "@x.com", Role: role}
	f.users.Put(u)
	access, _, err := f.tokens.IssuePair(u)
	require.NoError(t, err)
	return u, access
}

// protected echoes the resolved user id.
var protected = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(claims.UserID.String()))
})

func TestRequire_AdmitsPermittedRole(t *testing.T) {
	f := newAuthFixture()
	u, token := f.user(t, models.RoleUser)

	h := f.mw.Require(models.RoleSeller, models.RoleUser)(protected)

	cookieRec := testhelpers.Serve(h, testhelpers.WithAccessCookie(testhelpers.NewJSONRequest(t, http.MethodGet, "/p", nil), token))
	assert.Equal(t, http.StatusOK, cookieRec.Code)
	assert.Equal(t, u.ID.String(), cookieRec.Body.String())

	bearerRec := testhelpers.Serve(h, testhelpers.WithBearer(testhelpers.NewJSONRequest(t, http.MethodGet, "/p", nil), token))
	assert.Equal(t, http.StatusOK, bearerRec.Code)
}

func TestRequire_EmptyRoleSetAdmitsAnyIdentity(t *testing.T) {
	f := newAuthFixture()
	_, token := f.user(t, models.RoleSuperAdmin)

	rec := testhelpers.Serve(f.mw.Require()(protected),
		testhelpers.WithAccessCookie(testhelpers.NewJSONRequest(t, http.MethodGet, "/p", nil), token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequire_Rejections(t *testing.T) {
	f := newAuthFixture()
	_, sellerToken := f.user(t, models.RoleSeller)
	ghost, ghostToken := f.user(t, models.RoleUser)
	f.users.Delete(ghost.ID)
	_, revokedToken := f.user(t, models.RoleAdmin)
	require.NoError(t, f.revocations.Revoke(context.Background(), revokedToken, time.Now().Add(time.Hour)))

	otherCfg := testhelpers.TestConfig()
	otherCfg.AccessTokenSecret = []byte("someone-elses-secret")
	foreign, _, err := services.NewTokenService(otherCfg).IssuePair(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
		msg   string
	}{
		{"missing token", "", utils.MsgNotAuthorized},
		{"revoked", revokedToken, utils.MsgTokenBlacklisted},
		{"garbage", "not.a.jwt", utils.MsgInvalidToken},
		{"wrong secret", foreign, utils.MsgInvalidToken},
		{"subject deleted", ghostToken, utils.MsgUserNotFound},
		{"role not permitted", sellerToken, utils.MsgRoleNotAllowed},
	}

	h := f.mw.Require(models.RoleUser, models.RoleAdmin)(protected)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testhelpers.NewJSONRequest(t, http.MethodGet, "/p", nil)
			if tc.token != "" {
				testhelpers.WithAccessCookie(req, tc.token)
			}

			rec := testhelpers.Serve(h, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := testhelpers.DecodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tc.msg, body.Message)
		})
	}
}

func TestRequire_RevokedWinsOverValidSignature(t *testing.T) {
	f := newAuthFixture()
	_, token := f.user(t, models.RoleUser)
	require.NoError(t, f.revocations.Revoke(context.Background(), token, time.Now().Add(time.Hour)))
	require.NoError(t, f.revocations.Revoke(context.Background(), token, time.Now().Add(time.Hour)))

	rec := testhelpers.Serve(f.mw.Require()(protected),
		testhelpers.WithAccessCookie(testhelpers.NewJSONRequest(t, http.MethodGet, "/p", nil), token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, utils.MsgTokenBlacklisted, testhelpers.DecodeError(t, rec).Message)
}

func TestRequire_RevocationStoreFailureIsInternal(t *testing.T) {
	f := newAuthFixture()
	_, token := f.user(t, models.RoleUser)
	f.revocations.Err = errors.New("redis down")

	rec := testhelpers.Serve(f.mw.Require()(protected),
		testhelpers.WithAccessCookie(testhelpers.NewJSONRequest(t, http.MethodGet, "/p", nil), token))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClaimsFromContext_Missing(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)
}
