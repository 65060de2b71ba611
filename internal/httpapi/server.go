// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package httpapi exposes the account service over a JSON HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oklog/ulid/v2"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/observability"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// AccountService is the part of *account.Service the API drives.
type AccountService interface {
	Login(ctx context.Context, email, password string) (*account.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*account.RefreshResult, error)
	ChangePassword(ctx context.Context, userID ulid.ULID, oldPassword, newPassword string, logoutOtherDevices bool) error
	Authenticate(ctx context.Context, accessToken string) (*account.Claims, error)
	RequestRecovery(ctx context.Context, email string) (*account.RecoveryTicket, error)
	VerifyRecoveryCode(ctx context.Context, stage1Token, code string) (*account.ResetTicket, error)
	CommitRecovery(ctx context.Context, stage2Token, newPassword string) error
	CreateUser(ctx context.Context, in account.NewUserInput) (*account.User, error)
	ChangeUserStatus(ctx context.Context, id ulid.ULID, status account.Status) (*account.User, error)
	ChangeUserRole(ctx context.Context, id ulid.ULID, role account.Role) (*account.User, error)
}

// Server holds the API dependencies. It is an http.Handler.
type Server struct {
	svc           AccountService
	logger        *slog.Logger
	metrics       *observability.Metrics
	corsOrigins   []string
	secureCookies bool
	version       string
	now           func() time.Time
	started       time.Time
	router        chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics counts requests on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORSOrigins allows credentialed requests from origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithSecureCookies marks the refresh cookie Secure and SameSite=None.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) { s.secureCookies = secure }
}

// WithVersion sets the version reported by the banner route.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds the router.
func New(svc AccountService, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		logger:  slog.Default(),
		version: "dev",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.trace)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.banner)

	r.Route(BasePath, func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", s.login)
			auth.Post("/refresh-token", s.refreshToken)
			auth.Post("/forget-password", s.forgetPassword)
			auth.Post("/verify-otp", s.verifyOTP)
			auth.Post("/reset-password", s.resetPassword)
			auth.With(s.authenticate).Post("/change-password", s.changePassword)
		})
		api.Route("/users", func(users chi.Router) {
			users.Post("/", s.createUser)
			users.Group(func(admin chi.Router) {
				admin.Use(s.authenticate)
				admin.With(requireRole(account.RoleAdmin, account.RoleSuperAdmin)).Patch("/{id}/status", s.changeUserStatus)
				admin.With(requireRole(account.RoleSuperAdmin)).Patch("/{id}/role", s.changeUserRole)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, msgNotFound)
	})
	return r
}

type bannerResponse struct {
	Version   string `json:"version"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

func (s *Server) banner(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	writeRaw(w, bannerResponse{
		Version:   s.version,
		Message:   "Keyward account service is running!",
		Timestamp: now.UTC().Format(time.RFC3339),
		Uptime:    now.Sub(s.started).Round(time.Second).String(),
	})
}
