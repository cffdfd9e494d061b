package auth

import (
	"net/http"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/dto"
	httperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
)

// HandleRefresh handles POST /api/auth/refresh. It rotates both cookies from
// a valid refresh token.
func (c *Controllers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}

	userID, err := c.Tokens.VerifySubject(cookie.Value)
	if err != nil {
		c.clearSession(w)
		httperrors.WriteError(w, r, httperrors.ErrTokenInvalid)
		return
	}

	if err := c.issueSession(w, userID); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "refreshed"})
}

// HandleLogout handles POST /api/auth/logout. Tokens are stateless, so
// logout is dropping the cookies.
func (c *Controllers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	c.clearSession(w)
	httperrors.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out"})
}
