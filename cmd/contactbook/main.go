package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "contactbook/internal/adapter/http"
	"contactbook/internal/adapter/memory"
	"contactbook/internal/adapter/postgres"
	"contactbook/internal/adapter/ratelimit"
	"contactbook/internal/app"
	"contactbook/internal/config"
	"contactbook/internal/domain"
	"contactbook/internal/logging"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type store interface {
	domain.UserRepository
	domain.ContactRepository
	domain.AddressRepository
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	logger := logging.Setup(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer func() { _ = pg.Close() }()
		db = pg
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		db = memory.New()
	}

	authSvc := app.NewAuthService(db, cfg.SessionTTL)
	contactSvc := app.NewContactService(db)
	addressSvc := app.NewAddressService(db, db)

	srv := adapthttp.New(authSvc, contactSvc, addressSvc, logger)

	limiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv.WithLoginRateLimit(limiter, cfg.LoginRateLimit, cfg.LoginRateWindow)

	if cfg.SSOEnabled() {
		oidcCfg, err := newOIDC(ctx, cfg)
		if err != nil {
			return err
		}
		srv.WithOIDC(oidcCfg)
		logger.Info("sso enabled", "issuer", cfg.OIDCIssuer)
	}

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.RateLimiter, error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemory(0, nil), nil
	}
	rl, err := ratelimit.NewRedis(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rl.Ping(pingCtx); err != nil {
		// Login still works while redis is down; the limiter fails open.
		logger.Warn("redis unreachable", "addr", cfg.RedisAddr, "err", err)
	}
	return rl, nil
}

func newOIDC(ctx context.Context, cfg *config.Config) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider: %w", err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}
