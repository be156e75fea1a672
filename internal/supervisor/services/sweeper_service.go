// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package services

import (
	"context"
	"time"

	"github.com/cinelinks/cinelinks/internal/logging"
	"github.com/cinelinks/cinelinks/internal/metrics"
)

// SessionSweeper is the part of the game registry the sweeper drives.
type SessionSweeper interface {
	Sweep() int
	Len() int
}

// SweeperService periodically evicts expired game sessions. Create-time
// eviction already bounds the registry; the sweeper keeps long-idle
// processes from hoarding finished games between creates.
type SweeperService struct {
	registry SessionSweeper
	interval time.Duration
	name     string
}

// NewSweeperService creates the sweeper. A non-positive interval
// defaults to five minutes.
func NewSweeperService(registry SessionSweeper, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SweeperService{
		registry: registry,
		interval: interval,
		name:     "session-sweeper",
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed := s.registry.Sweep()
			if removed > 0 {
				metrics.SessionsEvicted.Add(float64(removed))
				logging.Debug().Int("removed", removed).Msg("Session sweep completed")
			}
			metrics.SessionsLive.Set(float64(s.registry.Len()))
		}
	}
}

// String implements fmt.Stringer for supervisor log messages.
func (s *SweeperService) String() string {
	return s.name
}
