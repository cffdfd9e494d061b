package middlewares

import (
	"net/http"
	"runtime/debug"

	apperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
)

// WithRecover converts panics into a 500 response instead of killing the
// connection.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Any("panic", rec),
						logger.String("stack", string(debug.Stack())),
					)
					apperrors.WriteJSON(w, http.StatusInternalServerError, map[string]any{
						"error": apperrors.ErrInternal,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
