package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	rdb "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/config"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/email"
	httpserver "github.com/DogisRiki/KeirekiPro-sub004/internal/http"
	authctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/auth"
	healthctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/health"
	socialctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/social"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/helpers"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/middlewares"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/router"
	authsvc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/auth"
	socialsvc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/social"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/metrics"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc/github"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc/google"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/rate"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/store/memstore"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/store/pg"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the authentication API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		ServiceName: "keirekipro-auth",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cache (sessions, 2FA codes, reset tokens).
	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cacheClient.Close()

	// User storage.
	var users repository.UserRepository
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := pg.NewUserStore(ctx, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer store.Close()
		if cfg.Storage.Migrate {
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		users = store
	case "memory":
		log.Warn("using in-memory user store; data is lost on restart")
		users = memstore.NewUserStore()
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Outbound email.
	sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	if cfg.SMTP.TLS != "" {
		sender.TLSMode = cfg.SMTP.TLS
	}
	sender.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
	mailer := email.NewDispatcher(sender, cfg.Email.BaseURL)

	// External identity providers.
	providers := oidc.NewRegistry()
	if cfg.Providers.Google.Enabled {
		providers.Register(google.New(providerConfig(cfg, google.ProviderName, cfg.Providers.Google)))
	}
	if cfg.Providers.GitHub.Enabled {
		providers.Register(github.New(providerConfig(cfg, github.ProviderName, cfg.Providers.GitHub)))
	}
	log.Info("identity providers registered", logger.Any("providers", providers.Names()))

	// Services.
	tokens := authsvc.NewTokenService(authsvc.TokenDeps{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	})
	twoFactor := authsvc.NewTwoFactorService(authsvc.TwoFactorDeps{
		Cache:  cacheClient,
		Mailer: mailer,
		Digits: cfg.Auth.TwoFactor.Digits,
		TTL:    cfg.TwoFactorTTL(),
	})
	login := authsvc.NewLoginService(authsvc.LoginDeps{Users: users, TwoFactor: twoFactor})
	reset := authsvc.NewResetService(authsvc.ResetDeps{
		Users:  users,
		Cache:  cacheClient,
		Mailer: mailer,
		TTL:    cfg.ResetTTL(),
	})
	start := socialsvc.NewStartService(socialsvc.StartDeps{
		Providers: providers,
		Cache:     cacheClient,
		TTL:       cfg.SessionTTL(),
	})
	callback := socialsvc.NewCallbackService(socialsvc.CallbackDeps{
		Providers: providers,
		Cache:     cacheClient,
		Resolver:  socialsvc.NewIdentityResolver(users),
	})

	// Controllers.
	cookies := helpers.CookieSettings{
		Domain:   cfg.Auth.Cookie.Domain,
		Secure:   cfg.Auth.Cookie.Secure,
		SameSite: helpers.ParseSameSite(cfg.Auth.Cookie.SameSite),
	}
	authControllers := &authctl.Controllers{
		Login:      login,
		TwoFactor:  twoFactor,
		Tokens:     tokens,
		Reset:      reset,
		Users:      users,
		Cookies:    cookies,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	}
	socialControllers := &socialctl.Controllers{
		Start:       start,
		Callback:    callback,
		Tokens:      tokens,
		Cookies:     cookies,
		AccessTTL:   cfg.AccessTTL(),
		RefreshTTL:  cfg.RefreshTTL(),
		FrontendURL: cfg.Email.BaseURL,
	}
	healthControllers := &healthctl.Controllers{
		Checks: map[string]healthctl.Pinger{
			"cache":   cacheClient,
			"storage": users,
		},
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// One shared connection for the redis limiters.
	var rlClient *rdb.Client
	if cfg.Rate.Enabled && cfg.Cache.Driver == "redis" {
		rlClient = rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		defer rlClient.Close()
	}

	handler := router.New(router.Deps{
		Auth:          authControllers,
		Social:        socialControllers,
		Health:        healthControllers,
		LoginLimiter:  limiter(cfg, rlClient, cfg.Rate.Login, "login"),
		TwoFALimiter:  limiter(cfg, rlClient, cfg.Rate.TwoFA, "2fa"),
		ForgotLimiter: limiter(cfg, rlClient, cfg.Rate.Forgot, "forgot"),
	})

	api := httpserver.NewServer(cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(api.ListenAndServe)

	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv := httpserver.NewServer(cfg.Server.MetricsAddr, mux)
		g.Go(metricsSrv.ListenAndServe)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsSrv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return api.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// providerConfig fills the redirect URL from the server base URL when the
// provider block doesn't set one.
func providerConfig(cfg *config.Config, name string, pc config.ProviderConfig) oidc.Config {
	redirect := pc.RedirectURL
	if redirect == "" {
		redirect = fmt.Sprintf("%s/api/auth/oidc/%s/callback", cfg.Server.BaseURL, name)
	}
	return oidc.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		RedirectURL:  redirect,
		Scopes:       pc.Scopes,
	}
}

func limiter(cfg *config.Config, client *rdb.Client, rule config.RateRule, route string) middlewares.Middleware {
	if !cfg.Rate.Enabled {
		return nil
	}
	var l rate.Limiter
	if client != nil {
		l = rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+":rl:", rule.Limit, rule.WindowDuration())
	} else {
		l = rate.NewMemoryLimiter(rule.Limit, rule.WindowDuration())
	}
	return middlewares.WithRateLimit(l, route)
}
