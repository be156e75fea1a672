// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package metrics provides Prometheus instrumentation for the game
// server: HTTP latency and throughput, game lifecycle counters, and
// daily puzzle pick counters.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelinks_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelinks_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Game lifecycle metrics
	GamesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinelinks_games_created_total",
			Help: "Total number of game sessions created",
		},
	)

	GamesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelinks_games_completed_total",
			Help: "Total number of games reaching a terminal state",
		},
		[]string{"outcome"}, // "win", "loss", "gave_up"
	)

	GuessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelinks_guesses_total",
			Help: "Total number of guesses processed",
		},
		[]string{"kind", "result"}, // kind: "movie", "actor", "pair"; result: "accepted", "rejected"
	)

	SessionsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinelinks_sessions_live",
			Help: "Current number of live game sessions",
		},
	)

	SessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinelinks_sessions_evicted_total",
			Help: "Total number of sessions evicted by TTL or capacity",
		},
	)

	// Daily puzzle metrics
	PuzzlePicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelinks_puzzle_picks_total",
			Help: "Total number of daily puzzle pair generations",
		},
		[]string{"fallback"}, // "true" when the exclusion ladder was exhausted
	)
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
