package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/postboard/postboard/internal/domain"
	"github.com/postboard/postboard/internal/service"
	"github.com/postboard/postboard/pkg/health"
	"github.com/postboard/postboard/pkg/middleware"
)

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	authService *service.AuthService,
	postService *service.PostService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Metrics())

	r.Get("/health/live", healthHandler.Liveness())
	r.Get("/health/ready", healthHandler.Readiness())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Token validator bridging the middleware to the auth service. It
	// resolves the live user, so deactivated accounts are cut off even
	// while their tokens are unexpired.
	validate := func(ctx context.Context, token string) (*middleware.Claims, error) {
		user, err := authService.Authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Role:   string(user.Role),
		}, nil
	}

	authHandler := NewAuthHandler(authService, logger)

	// Public auth endpoints.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate))
			r.Get("/profile", authHandler.Profile)
		})
	})

	// User administration. Listing is open to any authenticated caller;
	// reading and deleting individual accounts is admin-only.
	userHandler := NewUserHandler(authService, logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(validate))

		r.Get("/", userHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(domain.RoleAdmin)))

			r.Get("/{id}", userHandler.Get)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	// Posts. Listing is public; creating requires authentication.
	postHandler := NewPostHandler(postService, logger)
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", postHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate))
			r.Post("/", postHandler.Create)
		})
	})

	return r
}
