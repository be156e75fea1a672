// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinelinks/config.yaml",
	"/etc/cinelinks/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied.
// These are layered first, then overridden by file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8000,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			Timeout:           30 * time.Second,
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		Graph: GraphConfig{
			Path:      "global_actor_actor_graph.json",
			IndexPath: "actor_movie_index.json",
		},
		Game: GameConfig{
			MaxIncorrect:  3,
			SessionTTL:    7200 * time.Second,
			MaxGames:      5000,
			SweepInterval: 5 * time.Minute,
		},
		Puzzle: PuzzleConfig{
			StatePath: "daily_puzzle_state",
			Timezone:  "America/New_York",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from layered sources:
// struct defaults, then an optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// CORS origins arrive from env as a comma-separated string.
	if err := splitSliceField(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitSliceField converts a comma-separated env string into a slice.
// YAML-sourced values are already slices and are left untouched.
func splitSliceField(k *koanf.Koanf, path string) error {
	val := k.Get(path)
	strVal, ok := val.(string)
	if !ok || strVal == "" {
		return nil
	}
	parts := strings.Split(strVal, ",")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	if len(trimmed) == 0 {
		return nil
	}
	if err := k.Set(path, trimmed); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unknown variables are dropped so unrelated process env does not leak in.
//
// Examples:
//   - CINELINKS_GRAPH_PATH -> graph.path
//   - CORS_ORIGINS -> server.cors_origins
//   - ENVIRONMENT -> server.environment
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"cinelinks_graph_path":        "graph.path",
		"cinelinks_index_path":        "graph.index_path",
		"cinelinks_puzzle_state_path": "puzzle.state_path",
		"cinelinks_timezone":          "puzzle.timezone",

		"host":         "server.host",
		"port":         "server.port",
		"http_port":    "server.port",
		"environment":  "server.environment",
		"cors_origins": "server.cors_origins",

		"game_max_incorrect": "game.max_incorrect",
		"game_session_ttl":   "game.session_ttl",
		"game_max_games":     "game.max_games",

		"log_level":  "logging.level",
		"log_format": "logging.format",
	}

	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
