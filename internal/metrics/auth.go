// Package metrics defines the Prometheus metrics of the auth service. They
// live in a standalone package to avoid import cycles between the HTTP layer
// and the services that record them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Password login attempts by outcome (success, invalid, two_factor)",
	}, []string{"outcome"})

	OidcCallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_oidc_callbacks_total",
		Help: "OIDC callback results by provider and outcome (success or failure reason)",
	}, []string{"provider", "outcome"})

	TwoFactorVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_two_factor_verifications_total",
		Help: "Two-factor verification attempts by outcome (success, expired, mismatch)",
	}, []string{"outcome"})

	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_tokens_issued_total",
		Help: "JWTs issued by kind (access, refresh)",
	}, []string{"kind"})
)

// Register registers the auth metrics on the given registry (or the default
// if nil). Re-registration is tolerated so tests can call it freely.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{LoginAttempts, OidcCallbacks, TwoFactorVerifications, TokensIssued} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
