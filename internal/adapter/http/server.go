package adapthttp

import (
	"log/slog"
	"net/http"
	"time"

	"contactbook/internal/app"
	"contactbook/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
)

// OIDCConfig enables the optional single sign-on flow.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	authSvc   *app.AuthService
	contacts  *app.ContactService
	addresses *app.AddressService
	logger    *slog.Logger

	limiter     domain.RateLimiter
	loginLimit  int
	loginWindow time.Duration

	oidcConfig OIDCConfig

	registry *prometheus.Registry
	metrics  *metrics
}

// New creates a Server wired to the given application services.
func New(authSvc *app.AuthService, contacts *app.ContactService, addresses *app.AddressService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	return &Server{
		authSvc:   authSvc,
		contacts:  contacts,
		addresses: addresses,
		logger:    logger,
		registry:  reg,
		metrics:   newMetrics(reg),
	}
}

// WithLoginRateLimit throttles POST /api/auth/login to limit attempts per
// client and username within window.
func (s *Server) WithLoginRateLimit(l domain.RateLimiter, limit int, window time.Duration) *Server {
	s.limiter = l
	s.loginLimit = limit
	s.loginWindow = window
	return s
}

// WithOIDC enables SSO login through the given provider.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("POST /api/users", s.handleRegister)
	mux.Handle("GET /api/users/current", s.authMiddleware(http.HandlerFunc(s.handleCurrentUser)))
	mux.Handle("PATCH /api/users/current", s.authMiddleware(http.HandlerFunc(s.handleUpdateUser)))

	mux.Handle("POST /api/auth/login", s.rateLimitLogin(http.HandlerFunc(s.handleLogin)))
	mux.Handle("DELETE /api/auth/logout", s.authMiddleware(http.HandlerFunc(s.handleLogout)))
	mux.HandleFunc("GET /api/auth/config", s.handleConfig)
	mux.HandleFunc("GET /api/auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /api/auth/sso/callback", s.handleSSOCallback)

	mux.Handle("POST /api/contacts", s.authMiddleware(http.HandlerFunc(s.handleCreateContact)))
	mux.Handle("GET /api/contacts", s.authMiddleware(http.HandlerFunc(s.handleSearchContacts)))
	mux.Handle("GET /api/contacts/{contactId}", s.authMiddleware(http.HandlerFunc(s.handleGetContact)))
	mux.Handle("PUT /api/contacts/{contactId}", s.authMiddleware(http.HandlerFunc(s.handleUpdateContact)))
	mux.Handle("DELETE /api/contacts/{contactId}", s.authMiddleware(http.HandlerFunc(s.handleDeleteContact)))

	mux.Handle("POST /api/contacts/{contactId}/addresses", s.authMiddleware(http.HandlerFunc(s.handleCreateAddress)))
	mux.Handle("GET /api/contacts/{contactId}/addresses", s.authMiddleware(http.HandlerFunc(s.handleListAddresses)))
	mux.Handle("GET /api/contacts/{contactId}/addresses/{addressId}", s.authMiddleware(http.HandlerFunc(s.handleGetAddress)))
	mux.Handle("PUT /api/contacts/{contactId}/addresses/{addressId}", s.authMiddleware(http.HandlerFunc(s.handleUpdateAddress)))
	mux.Handle("DELETE /api/contacts/{contactId}/addresses/{addressId}", s.authMiddleware(http.HandlerFunc(s.handleDeleteAddress)))

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Not Found")
	})

	return s.metricsMiddleware(s.loggingMiddleware(withNoCache(mux)))
}
