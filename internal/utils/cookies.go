package utils

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// CookiePolicy carries the attributes that vary by environment.
type CookiePolicy struct {
	Secure bool
}

// SetAccessTokenCookie writes the http-only access token cookie and the
// headers every token-bearing response should carry.
func SetAccessTokenCookie(w http.ResponseWriter, accessToken string, ttl time.Duration, policy CookiePolicy) {
	if accessToken == "" {
		return
	}
	writeCookie(w, AccessTokenCookieName, accessToken, "/", int(ttl.Seconds()), policy.Secure)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter, policy CookiePolicy) {
	expired := time.Now().Add(-1 * time.Hour).UTC().Format(http.TimeFormat)

	for _, name := range []string{AccessTokenCookieName, RefreshTokenCookieName} {
		w.Header().Add("Set-Cookie",
			fmt.Sprintf("%s=; Path=/; Expires=%s; Max-Age=0; SameSite=Lax; HttpOnly%s",
				name, expired, secureAttr(policy.Secure)))
	}
	w.Header().Set("Cache-Control", "no-store")
}

func writeCookie(w http.ResponseWriter, name, value, path string, maxAge int, secure bool) {
	expires := time.Now().
		Add(time.Duration(maxAge) * time.Second).
		UTC().
		Format(http.TimeFormat)

	line := fmt.Sprintf("%s=%s; Path=%s; Max-Age=%d; Expires=%s; SameSite=Lax; HttpOnly%s",
		name, value, path, maxAge, expires, secureAttr(secure))

	Logger.Debugf("[cookies] writing cookie %s path=%s secure=%t", name, path, secure)
	w.Header().Add("Set-Cookie", line)
}

func secureAttr(on bool) string {
	if on {
		return "; Secure"
	}
	return ""
}

// TokenFromRequest returns the access token from the cookie, falling back to
// an "Authorization: Bearer <token>" header. Empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AddSecurityHeaders applies the transport, content isolation and privacy
// headers to a response.
func AddSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()

	h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")

	h.Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'none'; frame-ancestors 'none'")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")

	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Resource-Policy", "same-site")

	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "geolocation=(), camera=(), microphone=(), interest-cohort=()")
	h.Set("X-DNS-Prefetch-Control", "off")
}
