package middleware

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
)

const msgRateLimited = "Too many requests. Please retry later."

// RateLimit returns middleware that admits requests through a single
// token-bucket limiter shared by all clients. Requests over the limit get a
// 429 error body with a Retry-After header. A zero RequestsPerSecond disables
// the limiter and returns a pass-through middleware.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				dto.WriteError(w, r, http.StatusTooManyRequests, dto.CategoryTooMany, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
