package errors

import (
	"encoding/json"
	"net/http"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
)

type errorBody struct {
	Error *AppError `json:"error"`
}

// WriteError renders err as the JSON error body. Server-side causes are
// logged, never exposed.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	app := FromError(err)
	if app.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.String("code", app.Code),
			logger.Err(app.Err),
		)
	}
	WriteJSON(w, app.HTTPStatus, errorBody{Error: app})
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
