package auth

import (
	"errors"
	"net/http"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	httperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/middlewares"
)

type meResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	HasPassword      bool   `json:"hasPassword"`
}

// HandleMe handles GET /api/auth/me. Requires the auth middleware.
func (c *Controllers) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())
	if userID == "" {
		httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
		return
	}

	u, err := c.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httperrors.WriteError(w, r, httperrors.ErrUnauthorized)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, meResponse{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		TwoFactorEnabled: u.TwoFactorEnabled,
		HasPassword:      u.PasswordHash != nil,
	})
}
