package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shadiptomojumder/skb-backend/internal/routes"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.AddSecurityHeaders(w)
		next.ServeHTTP(w, r)
	})
}

// ClientAddress resolves the caller's address once per request. Forwarding
// headers are honoured only when the socket peer is one of trusted.
func ClientAddress(trusted []*net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ResolveClientIP(r, trusted)
			next.ServeHTTP(w, r.WithContext(utils.WithClientIP(r.Context(), ip)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request. Health checks are logged at debug.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := logrus.InfoLevel
		if r.URL.Path == routes.Health {
			level = logrus.DebugLevel
		}
		utils.Logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
			"ip":       utils.ClientIP(r),
		}).Log(level, "request")
	})
}

// Recoverer turns a panic in a handler into a 500 in the uniform shape.
func Recoverer(renderer *utils.ErrorRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					renderer.HandleError(w, r, utils.NewInternal(fmt.Errorf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
