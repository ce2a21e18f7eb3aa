package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadiptomojumder/skb-backend/internal/routes"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/testhelpers"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	cfg := testhelpers.TestConfig()
	cfg.RateLimitMax = 1
	repo := testhelpers.NewMemoryRateLimitRepository()
	h := RateLimit(services.NewRateLimiterService(repo, cfg), utils.NewErrorRenderer(false))(okHandler)

	first := testhelpers.Serve(h, testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	assert.Equal(t, "1", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("RateLimit-Remaining"))
	assert.Empty(t, first.Header().Get("Retry-After"))

	second := testhelpers.Serve(h, testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, utils.MsgTooManyRequests, testhelpers.DecodeError(t, second).Message)
	retryAfter, err := strconv.Atoi(second.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, cfg.RateLimitWindow.Seconds(), retryAfter, 5)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	repo := testhelpers.NewMemoryRateLimitRepository()
	repo.Err = errors.New("db down")
	h := RateLimit(services.NewRateLimiterService(repo, testhelpers.TestConfig()), utils.NewErrorRenderer(false))(okHandler)

	rec := testhelpers.Serve(h, testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("RateLimit-Limit"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := testhelpers.Serve(SecurityHeaders(okHandler), testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRecoverer(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := testhelpers.Serve(Recoverer(utils.NewErrorRenderer(true))(boom),
		testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := testhelpers.DecodeError(t, rec)
	assert.Equal(t, utils.MsgUnexpected, body.Message)
	assert.Empty(t, body.Stack)
}

func TestRequestLogger_HealthAtDebug(t *testing.T) {
	hook := logtest.NewLocal(utils.Logger)
	prev := utils.Logger.GetLevel()
	utils.Logger.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		utils.Logger.SetLevel(prev)
		hook.Reset()
	})

	h := RequestLogger(okHandler)
	testhelpers.Serve(h, testhelpers.NewJSONRequest(t, http.MethodGet, routes.Health, nil))
	testhelpers.Serve(h, testhelpers.NewJSONRequest(t, http.MethodGet, routes.Test, nil))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, routes.Health, entries[0].Data["path"])
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, http.StatusOK, entries[1].Data["status"])
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	created := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	rec := testhelpers.Serve(RequestLogger(created), testhelpers.NewJSONRequest(t, http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestClientAddress(t *testing.T) {
	trusted, err := utils.ParseTrustedProxies([]string{"192.0.2.0/24"})
	require.NoError(t, err)

	var seen string
	h := ClientAddress(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.ClientIP(r)
	}))

	req := testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	testhelpers.Serve(h, req)
	assert.Equal(t, "203.0.113.9", seen)

	untrusted := testhelpers.NewJSONRequest(t, http.MethodGet, "/", nil)
	untrusted.RemoteAddr = "198.51.100.7:40000"
	untrusted.Header.Set("X-Forwarded-For", "203.0.113.9")
	testhelpers.Serve(h, untrusted)
	assert.Equal(t, "198.51.100.7", seen)
}
