// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinelinks/cinelinks/internal/config"
	"github.com/cinelinks/cinelinks/internal/middleware"
)

// healthRateLimit is permissive so monitoring probes never starve.
const healthRateLimit = 1000

// Router assembles the chi route tree for the game API.
type Router struct {
	cfg     *config.Config
	handler *Handler
}

// NewRouter creates a router over the handler set.
func NewRouter(cfg *config.Config, handler *Handler) *Router {
	return &Router{cfg: cfg, handler: handler}
}

// Setup builds the HTTP handler tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health and metadata: permissive rate limiting for monitors.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(healthRateLimit, time.Minute))
		r.Get("/health", router.handler.Health)
		r.Get("/meta", router.handler.Meta)
	})

	// Game API: standard rate limiting plus Prometheus instrumentation.
	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.Server.RateLimitRequests, router.cfg.Server.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/daily-pair", router.handler.DailyPair)

		r.Post("/game", router.handler.CreateGame)
		r.Route("/game/{id}", func(r chi.Router) {
			r.Get("/", router.handler.GetGame)
			r.Post("/guess", router.handler.Guess)
			r.Post("/swap-actors", router.handler.SwapActors)
			r.Post("/give-up", router.handler.GiveUp)
			r.Get("/optimal-path", router.handler.OptimalPath)
			r.Get("/optimal-paths", router.handler.OptimalPaths)
		})
	})

	// Autocomplete shares the standard limit but lives off /api for
	// frontend convenience.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.Server.RateLimitRequests, router.cfg.Server.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Get("/autocomplete/actors", router.handler.AutocompleteActors)
		r.Get("/autocomplete/movies", router.handler.AutocompleteMovies)
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())

	// Outside production the root serves a JSON index of the surface.
	if !router.cfg.IsProduction() {
		r.Get("/", router.handler.Index)
	}

	return r
}
