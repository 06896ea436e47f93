// Package app assembles the HTTP surface of the pricing service.
package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/backend-roti/internal/calculator"
	"github.com/noah-isme/backend-roti/internal/catalog"
	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/health"
	"github.com/noah-isme/backend-roti/internal/obs"
	"github.com/noah-isme/backend-roti/internal/ratelimit"
	"github.com/noah-isme/backend-roti/internal/security"
)

// Dependencies enumerates the services and middleware inputs the router wires together.
type Dependencies struct {
	Logger         zerolog.Logger
	Catalog        *catalog.Service
	Calculator     *calculator.Service
	Redis          *redis.Client
	Limiter        *limiter.Limiter
	IdempotencyTTL time.Duration
	AllowedOrigins []string
	HTTPMetrics    *obs.HTTPMetrics
	MetricsHandler http.Handler
	Tracing        bool
	MaxBodyBytes   int64
	Health         health.Handler
}

// NewRouter builds the chi router serving the catalog, calculator, health and metrics endpoints.
func NewRouter(d Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{}.Middleware)
	r.Use(security.BodyLimit{Max: d.MaxBodyBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(d.AllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", common.SessionHeader, common.IdempotencyHeader},
		ExposedHeaders:   []string{common.SessionHeader, common.ReplayHeader, "X-Total-Count", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}
	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: d.Catalog})
	calcHandler := &calculator.Handler{Svc: d.Calculator}
	idem := common.Idem{R: d.Redis, TTL: d.IdempotencyTTL}
	limit := ratelimit.Handler{
		Limiter: d.Limiter,
		OnError: func(err error) { d.Logger.Warn().Err(err).Msg("rate limiter unavailable") },
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)

		v.Route("/pricing", func(p chi.Router) {
			p.Post("/round", calcHandler.Round)
			p.Post("/classify", calcHandler.Classify)
		})

		v.Route("/calculators", func(c chi.Router) {
			if d.Calculator != nil && d.Calculator.Sessions != nil {
				c.Use(d.Calculator.Sessions.Middleware)
			}
			c.Get("/{kind}/history", calcHandler.History)
			c.Delete("/session", calcHandler.EndSession)
			c.Group(func(g chi.Router) {
				g.Use(limit.Middleware)
				g.Use(idem.Middleware)
				g.Post("/discount", calcHandler.Discount)
				g.Post("/bundling", calcHandler.Bundling)
				g.Post("/hpp", calcHandler.HPP)
				g.Post("/overhead", calcHandler.Overhead)
				g.Post("/roi", calcHandler.ROI)
			})
		})
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
