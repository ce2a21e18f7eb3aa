package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// RateLimit rejects clients that exceed their request budget with 429 and
// reports the budget in RateLimit-* headers. If the counter store is
// unavailable the request is let through.
func RateLimit(limiter services.RateLimiterService, renderer *utils.ErrorRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.CheckRequest(r.Context(), utils.ClientIP(r))
			if decision != nil {
				reset := secondsUntil(decision.ResetAt)
				h := w.Header()
				h.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
				h.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
				h.Set("RateLimit-Reset", strconv.Itoa(reset))
				if err != nil {
					h.Set("Retry-After", strconv.Itoa(reset))
				}
			}
			if err != nil {
				if utils.IsKind(err, utils.KindTooManyRequests) {
					renderer.HandleError(w, r, err)
					return
				}
				utils.Logger.WithError(err).Warn("Rate limit check failed; allowing request")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func secondsUntil(t time.Time) int {
	return max(int(math.Ceil(time.Until(t).Seconds())), 0)
}
