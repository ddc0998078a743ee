package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// rateLimitByUser enforces a per-(user, endpoint) quota through the
// store-backed limiter. When the limiter cannot reach a verdict the request
// is denied: an unavailable limiter must never become an open gate.
func rateLimitByUser(limiter *service.RateLimiter, endpoint string, policy service.RateLimitPolicy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			userID := httpx.UserIDFromCtx(ctx)
			if userID == "" {
				// Ordering bug: this middleware belongs behind authn. The
				// per-IP shield still covers the endpoint.
				log.Warn("user rate limit without authenticated user", "endpoint", endpoint)
				next.ServeHTTP(w, r)
				return
			}

			decision, err := limiter.Admit(ctx, userID, endpoint, policy)
			if err != nil {
				log.Error("rate limiter unavailable, failing closed",
					"endpoint", endpoint, "err", err)
				companionsdk.NewRateLimitError(time.Now().UTC().Add(policy.Window)).WriteError(w)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC3339))

			if !decision.Allowed {
				retryAfter := int(time.Until(decision.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn("user rate limit exceeded",
					"user_id", userID,
					"endpoint", endpoint,
					"reset_at", decision.ResetAt,
				)

				companionsdk.NewRateLimitError(decision.ResetAt).WriteError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
