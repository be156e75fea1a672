// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package main is the entry point for the CineLinks game server.
//
// CineLinks is a six-degrees-of-co-starring guessing game: players
// connect two actors through movies they appeared in together. The
// server holds the entire co-star graph in memory and exposes a JSON
// API for game sessions, daily puzzles, optimal paths, and autocomplete.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, level and format from config
//  3. Puzzle state: BadgerDB at CINELINKS_PUZZLE_STATE_PATH
//  4. Graph artifacts: JSON graph + actor-movie index; a missing
//     artifact logs a warning and the server starts not-ready
//  5. Supervision: suture tree running the HTTP server and the session
//     sweeper
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests (10s timeout), then the Badger store closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinelinks/cinelinks/internal/api"
	"github.com/cinelinks/cinelinks/internal/config"
	"github.com/cinelinks/cinelinks/internal/game"
	"github.com/cinelinks/cinelinks/internal/graph"
	"github.com/cinelinks/cinelinks/internal/index"
	"github.com/cinelinks/cinelinks/internal/logging"
	"github.com/cinelinks/cinelinks/internal/pathfind"
	"github.com/cinelinks/cinelinks/internal/puzzle"
	"github.com/cinelinks/cinelinks/internal/supervisor"
	"github.com/cinelinks/cinelinks/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting CineLinks server")

	// Puzzle state persists across restarts so the daily pair survives
	// a redeploy.
	stateStore, err := puzzle.OpenStateStore(cfg.Puzzle.StatePath)
	if err != nil {
		return fmt.Errorf("open puzzle state store: %w", err)
	}
	defer func() {
		if cerr := stateStore.Close(); cerr != nil {
			logging.Err(cerr).Msg("Failed to close puzzle state store")
		}
	}()

	// A missing graph artifact is not fatal: the server starts and
	// answers 503 on graph endpoints until the artifacts appear on a
	// restart.
	var (
		store    *graph.Store
		catalog  *index.Catalog
		selector *puzzle.Selector
		paths    *pathfind.Engine
	)
	store, err = graph.Load(cfg.Graph.Path, cfg.Graph.IndexPath)
	if err != nil {
		logging.Warn().Err(err).
			Str("graph_path", cfg.Graph.Path).
			Str("index_path", cfg.Graph.IndexPath).
			Msg("Graph artifacts unavailable, starting not-ready")
		store = nil
	} else {
		catalog = index.Build(store)

		loc, err := time.LoadLocation(cfg.Puzzle.Timezone)
		if err != nil {
			return fmt.Errorf("load puzzle timezone: %w", err)
		}
		state, err := stateStore.Load()
		if err != nil {
			return fmt.Errorf("load puzzle state: %w", err)
		}
		selector = puzzle.NewSelector(store, state, stateStore, loc)
		paths = pathfind.New(store)
	}

	registry := game.NewRegistry(cfg.Game.SessionTTL, cfg.Game.MaxGames)

	handler := api.NewHandler(cfg, store, catalog, registry, selector, paths)
	router := api.NewRouter(cfg, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddMaintenanceService(services.NewSweeperService(registry, cfg.Game.SweepInterval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("CineLinks server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor shutdown: %w", err)
		}
		if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
			logging.Warn().Int("unstopped", len(report)).Msg("Services missed the shutdown timeout")
		}
		return nil

	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor: %w", err)
		}
		return nil
	}
}
