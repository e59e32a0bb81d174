package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/health"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Users    *UserHandler
	Products *ProductHandler
	Ratings  *RatingHandler
	Media    *MediaHandler
	Stock    *StockHandler

	TokenValidator middleware.TokenValidator
	Health         *health.Handler
	Metrics        *middleware.HTTPMetrics
	Registry       *prometheus.Registry

	Logger         *slog.Logger
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the service's chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(deps.CORSOrigins)))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: deps.RateLimitRPS,
		Burst:             deps.RateLimitBurst,
	}))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	auth := middleware.Auth(deps.TokenValidator)
	producerOnly := middleware.RequireRole("producer")

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.NoStore)

			r.Post("/auth/register", deps.Users.Register)
			r.Post("/auth/login", deps.Users.Login)
			r.Post("/auth/refresh", deps.Users.Refresh)
			r.Post("/auth/logout", deps.Users.Logout)
		})

		// Public catalog. Product pages tolerate brief staleness; rating
		// reads never carry cache headers.
		r.Group(func(r chi.Router) {
			r.With(middleware.CacheControl(30 * time.Second)).Get("/products", deps.Products.List)
			r.With(middleware.CacheControl(30 * time.Second)).Get("/products/{code}", deps.Products.Get)
			r.With(middleware.NoStore).Get("/products/{code}/ratings", deps.Ratings.List)
			r.With(middleware.NoStore).Get("/products/{code}/ratings/summary", deps.Ratings.Summary)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(middleware.NoStore)

			r.Get("/users/me", deps.Users.GetProfile)
			r.With(ContentTypeJSON).Put("/users/me", deps.Users.UpdateProfile)
			r.Get("/users/me/history", deps.Users.History)
			r.With(ContentTypeJSON).Post("/products/{code}/ratings", deps.Ratings.Submit)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(producerOnly)

			r.With(ContentTypeJSON).Post("/products", deps.Products.Create)
			r.Delete("/products/{code}", deps.Products.Delete)
			r.Get("/producers/me/products", deps.Products.ListMine)
			r.Get("/producers/me/stock/stream", deps.Stock.Stream)
			r.Post("/media", deps.Media.Upload)
		})
	})

	return r
}
