package middlewares

import (
	"net/http"
	"strconv"

	apperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/helpers"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/rate"
)

// WithRateLimit throttles the wrapped handler per client IP. On limiter
// backend errors the request is allowed (fail open): losing rate limiting is
// better than losing logins.
func WithRateLimit(limiter rate.Limiter, route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := route + ":" + helpers.ClientIP(r)
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(res.RetryAfter.Seconds())+1, 10))
				apperrors.WriteError(w, r, apperrors.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
