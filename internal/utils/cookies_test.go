package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAccessTokenCookie(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SetAccessTokenCookie(rec, "tok", time.Hour, CookiePolicy{Secure: false})

		line := rec.Header().Get("Set-Cookie")
		assert.True(t, strings.HasPrefix(line, "accessToken=tok;"), line)
		assert.Contains(t, line, "HttpOnly")
		assert.Contains(t, line, "Max-Age=3600")
		assert.NotContains(t, line, "Secure")
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("production", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SetAccessTokenCookie(rec, "tok", time.Hour, CookiePolicy{Secure: true})

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("empty token writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SetAccessTokenCookie(rec, "", time.Hour, CookiePolicy{})
		assert.Empty(t, rec.Header().Values("Set-Cookie"))
	})
}

func TestClearAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearAuthCookies(rec, CookiePolicy{})

	byName := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		byName[c.Name] = c
	}
	require.Contains(t, byName, AccessTokenCookieName)
	require.Contains(t, byName, RefreshTokenCookieName)
	assert.Empty(t, byName[AccessTokenCookieName].Value)
	assert.Equal(t, -1, byName[AccessTokenCookieName].MaxAge)
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "from-cookie"})
		r.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-cookie", TokenFromRequest(r))
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "bearer  abc ")
		assert.Equal(t, "abc", TokenFromRequest(r))
	})

	t.Run("other schemes ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		assert.Empty(t, TokenFromRequest(r))
	})

	t.Run("nothing", func(t *testing.T) {
		assert.Empty(t, TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
	})
}

func TestAddSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	AddSecurityHeaders(rec)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
