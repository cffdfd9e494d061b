// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	httperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
)

// Pinger is anything whose availability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controllers serves /healthz and /readyz.
type Controllers struct {
	// Checks maps a dependency name to its pinger.
	Checks map[string]Pinger
}

// HandleLive handles GET /healthz. The process answering is the check.
func (c *Controllers) HandleLive(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady handles GET /readyz. It pings every registered dependency and
// reports per-dependency status; any failure yields 503.
func (c *Controllers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ok"
	deps := make(map[string]string, len(c.Checks))
	for name, p := range c.Checks {
		if err := p.Ping(ctx); err != nil {
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
			overall = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	httperrors.WriteJSON(w, status, map[string]any{
		"status":       overall,
		"dependencies": deps,
	})
}
