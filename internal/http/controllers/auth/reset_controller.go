package auth

import (
	"errors"
	"net/http"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/dto"
	httperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/helpers"
	svc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/auth"
)

// HandleResetRequest handles POST /api/auth/password/reset. The response is
// the same whether the email is registered or not.
func (c *Controllers) HandleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithCause(err))
		return
	}
	if req.Email == "" {
		httperrors.WriteError(w, r, httperrors.ErrValidation.WithDetail("email is required"))
		return
	}

	if err := c.Reset.Request(r.Context(), req.Email); err != nil {
		httperrors.WriteError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "If the address is registered, a reset link has been sent.",
	})
}

// HandleResetConfirm handles POST /api/auth/password/reset/confirm.
func (c *Controllers) HandleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetConfirm
	if err := helpers.DecodeJSON(r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithCause(err))
		return
	}
	if len(req.NewPassword) < 8 {
		httperrors.WriteError(w, r, httperrors.ErrValidation.WithDetail("password must be at least 8 characters"))
		return
	}

	if err := c.Reset.Confirm(r.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, svc.ErrResetTokenInvalid) {
			httperrors.WriteError(w, r, httperrors.ErrResetTokenInvalid)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password has been updated."})
}
