package auth

import (
	"errors"
	"net/http"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/dto"
	httperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/helpers"
	svc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/auth"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
)

// HandleLogin handles POST /api/auth/login.
//
// Accounts with two-factor enabled get 202 and no cookies; the client must
// complete POST /api/auth/2fa/verify to receive the session.
func (c *Controllers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.login"))

	var req dto.LoginRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithCause(err))
		return
	}

	result, err := c.Login.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, svc.ErrInvalidCredentials) {
			httperrors.WriteError(w, r, httperrors.ErrInvalidCredentials)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}

	if result.TwoFactorRequired {
		httperrors.WriteJSON(w, http.StatusAccepted, dto.LoginResponse{
			UserID:            result.UserID,
			TwoFactorRequired: true,
		})
		return
	}

	if err := c.issueSession(w, result.UserID); err != nil {
		log.Error("session issue failed", logger.Err(err))
		httperrors.WriteError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, dto.LoginResponse{UserID: result.UserID})
}

// HandleTwoFactorVerify handles POST /api/auth/2fa/verify.
func (c *Controllers) HandleTwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.2fa.verify"))

	var req dto.TwoFactorVerifyRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		httperrors.WriteError(w, r, httperrors.ErrBadRequest.WithCause(err))
		return
	}
	if req.UserID == "" || req.Code == "" {
		httperrors.WriteError(w, r, httperrors.ErrValidation.WithDetail("userId and code are required"))
		return
	}

	if err := c.TwoFactor.Verify(ctx, req.UserID, req.Code); err != nil {
		if errors.Is(err, svc.ErrCodeInvalid) {
			httperrors.WriteError(w, r, httperrors.ErrTwoFactorInvalid)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}

	if err := c.issueSession(w, req.UserID); err != nil {
		log.Error("session issue failed", logger.Err(err))
		httperrors.WriteError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, dto.LoginResponse{UserID: req.UserID})
}
