// Package config loads the service configuration from a YAML file with
// environment-variable overrides. Durations are strings ("15m", "72h") parsed
// on access with sane defaults, so a partial config file is always valid.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr        string `yaml:"addr"`
		MetricsAddr string `yaml:"metrics_addr"` // empty disables the metrics listener
		// BaseURL is the public origin of this API, used to build the OIDC
		// redirect URIs when the provider blocks don't set one.
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`

	Storage struct {
		// Driver: "postgres" | "memory" (memory is dev/test only)
		Driver  string `yaml:"driver"`
		DSN     string `yaml:"dsn"`
		Migrate bool   `yaml:"migrate"`
	} `yaml:"storage"`

	Cache struct {
		Driver string `yaml:"driver"` // "memory" | "redis"
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Secret     string `yaml:"secret"`
		Issuer     string `yaml:"issuer"`
		AccessTTL  string `yaml:"access_ttl"`  // default 30m
		RefreshTTL string `yaml:"refresh_ttl"` // default 168h
	} `yaml:"jwt"`

	Auth struct {
		Cookie struct {
			Domain   string `yaml:"domain"`
			SameSite string `yaml:"samesite"` // lax | strict | none
			Secure   bool   `yaml:"secure"`
		} `yaml:"cookie"`
		Session struct {
			TTL string `yaml:"ttl"` // authorization-session TTL, default 10m
		} `yaml:"session"`
		TwoFactor struct {
			TTL    string `yaml:"ttl"` // default 5m
			Digits int    `yaml:"digits"`
		} `yaml:"two_factor"`
		Reset struct {
			TTL string `yaml:"ttl"` // default 30m
		} `yaml:"reset"`
	} `yaml:"auth"`

	Providers struct {
		Google ProviderConfig `yaml:"google"`
		GitHub ProviderConfig `yaml:"github"`
	} `yaml:"providers"`

	Rate struct {
		Enabled bool     `yaml:"enabled"`
		Login   RateRule `yaml:"login"`
		TwoFA   RateRule `yaml:"two_factor"`
		Forgot  RateRule `yaml:"forgot"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"` // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Email struct {
		// BaseURL is the frontend origin embedded in reset links.
		BaseURL string `yaml:"base_url"`
	} `yaml:"email"`
}

// ProviderConfig configures one external identity provider.
type ProviderConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"` // empty => <server.base_url>/api/auth/oidc/<name>/callback
	Scopes       []string `yaml:"scopes"`
}

// RateRule is a per-endpoint fixed-window rule.
type RateRule struct {
	Limit  int    `yaml:"limit"`
	Window string `yaml:"window"`
}

// Load reads the YAML file (the file may be absent: env-only configuration),
// applies env overrides and defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	c.applyEnv()
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	setStr(&c.App.Env, "APP_ENV")
	setStr(&c.Server.Addr, "SERVER_ADDR")
	setStr(&c.Server.MetricsAddr, "METRICS_ADDR")
	setStr(&c.Server.BaseURL, "SERVER_BASE_URL")
	setStr(&c.Storage.Driver, "STORAGE_DRIVER")
	setStr(&c.Storage.DSN, "DATABASE_DSN")
	setBool(&c.Storage.Migrate, "STORAGE_MIGRATE")
	setStr(&c.Cache.Driver, "CACHE_DRIVER")
	setStr(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setStr(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Cache.Redis.DB, "REDIS_DB")
	setStr(&c.JWT.Secret, "JWT_SECRET")
	setStr(&c.JWT.Issuer, "JWT_ISSUER")
	setStr(&c.JWT.AccessTTL, "JWT_ACCESS_TTL")
	setStr(&c.JWT.RefreshTTL, "JWT_REFRESH_TTL")
	setBool(&c.Auth.Cookie.Secure, "COOKIE_SECURE")
	setStr(&c.Auth.Cookie.Domain, "COOKIE_DOMAIN")
	setStr(&c.Providers.Google.ClientID, "GOOGLE_CLIENT_ID")
	setStr(&c.Providers.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setStr(&c.Providers.GitHub.ClientID, "GITHUB_CLIENT_ID")
	setStr(&c.Providers.GitHub.ClientSecret, "GITHUB_CLIENT_SECRET")
	setStr(&c.SMTP.Host, "SMTP_HOST")
	setInt(&c.SMTP.Port, "SMTP_PORT")
	setStr(&c.SMTP.Username, "SMTP_USERNAME")
	setStr(&c.SMTP.Password, "SMTP_PASSWORD")
	setStr(&c.SMTP.From, "SMTP_FROM")
	setStr(&c.Email.BaseURL, "EMAIL_BASE_URL")
}

func (c *Config) setDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost" + c.Server.Addr
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "keirekipro"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "keirekipro"
	}
	if c.Auth.Cookie.SameSite == "" {
		c.Auth.Cookie.SameSite = "lax"
	}
	if c.Auth.TwoFactor.Digits == 0 {
		c.Auth.TwoFactor.Digits = 6
	}
	if c.Email.BaseURL == "" {
		c.Email.BaseURL = c.Server.BaseURL
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login = RateRule{Limit: 10, Window: "1m"}
	}
	if c.Rate.TwoFA.Limit == 0 {
		c.Rate.TwoFA = RateRule{Limit: 10, Window: "1m"}
	}
	if c.Rate.Forgot.Limit == 0 {
		c.Rate.Forgot = RateRule{Limit: 5, Window: "1m"}
	}
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret (JWT_SECRET) is required")
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn (DATABASE_DSN) is required for the postgres driver")
	}
	return nil
}

// AccessTTL returns the access-token validity (default 30m).
func (c *Config) AccessTTL() time.Duration { return dur(c.JWT.AccessTTL, 30*time.Minute) }

// RefreshTTL returns the refresh-token validity (default 7 days).
func (c *Config) RefreshTTL() time.Duration { return dur(c.JWT.RefreshTTL, 7*24*time.Hour) }

// SessionTTL returns the OIDC authorization-session TTL (default 10m).
func (c *Config) SessionTTL() time.Duration { return dur(c.Auth.Session.TTL, 10*time.Minute) }

// TwoFactorTTL returns the 2FA code TTL (default 5m).
func (c *Config) TwoFactorTTL() time.Duration { return dur(c.Auth.TwoFactor.TTL, 5*time.Minute) }

// ResetTTL returns the password-reset token TTL (default 30m).
func (c *Config) ResetTTL() time.Duration { return dur(c.Auth.Reset.TTL, 30*time.Minute) }

// Window parses a rate rule window (default 1m).
func (r RateRule) WindowDuration() time.Duration { return dur(r.Window, time.Minute) }

func dur(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func setStr(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
