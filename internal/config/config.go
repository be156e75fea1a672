// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package config loads and validates CineLinks server configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (CINELINKS_GRAPH_PATH, CORS_ORIGINS, ...)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the CineLinks server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Graph   GraphConfig   `koanf:"graph"`
	Game    GameConfig    `koanf:"game"`
	Puzzle  PuzzleConfig  `koanf:"puzzle"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Environment string        `koanf:"environment"`
	CORSOrigins []string      `koanf:"cors_origins"`
	Timeout     time.Duration `koanf:"timeout"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// GraphConfig locates the offline-built graph artifacts.
type GraphConfig struct {
	// Path is the actor-actor graph artifact.
	Path string `koanf:"path"`

	// IndexPath is the actor-movie index artifact.
	IndexPath string `koanf:"index_path"`
}

// GameConfig bounds live game sessions.
type GameConfig struct {
	MaxIncorrect  int           `koanf:"max_incorrect"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	MaxGames      int           `koanf:"max_games"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// PuzzleConfig holds daily-puzzle selector settings.
type PuzzleConfig struct {
	// StatePath is the BadgerDB directory for persisted puzzle state.
	StatePath string `koanf:"state_path"`

	// Timezone is the civil time zone that defines the puzzle day.
	Timezone string `koanf:"timezone"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// IsProduction reports whether the server runs in production mode.
// Production disables the JSON doc index at the root path.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "dev", "development", "production":
	default:
		return fmt.Errorf("server.environment must be dev, development or production, got %q", c.Server.Environment)
	}
	if c.Game.MaxIncorrect < 1 {
		return fmt.Errorf("game.max_incorrect must be positive, got %d", c.Game.MaxIncorrect)
	}
	if c.Game.SessionTTL <= 0 {
		return fmt.Errorf("game.session_ttl must be positive, got %s", c.Game.SessionTTL)
	}
	if c.Game.MaxGames < 1 {
		return fmt.Errorf("game.max_games must be positive, got %d", c.Game.MaxGames)
	}
	if c.Graph.Path == "" {
		return fmt.Errorf("graph.path must not be empty")
	}
	if c.Puzzle.StatePath == "" {
		return fmt.Errorf("puzzle.state_path must not be empty")
	}
	if _, err := time.LoadLocation(c.Puzzle.Timezone); err != nil {
		return fmt.Errorf("puzzle.timezone %q is not a valid IANA zone: %w", c.Puzzle.Timezone, err)
	}
	return nil
}
