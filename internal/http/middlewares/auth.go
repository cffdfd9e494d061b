package middlewares

import (
	"net/http"

	apperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
)

// SubjectVerifier validates an access token and returns its subject.
type SubjectVerifier interface {
	VerifySubject(token string) (string, error)
}

// WithAuth requires a valid access token cookie and injects the user ID into
// the request context.
func WithAuth(verifier SubjectVerifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				apperrors.WriteError(w, r, apperrors.ErrUnauthorized)
				return
			}

			userID, err := verifier.VerifySubject(c.Value)
			if err != nil {
				apperrors.WriteError(w, r, apperrors.ErrTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(setUserID(r.Context(), userID)))
		})
	}
}
