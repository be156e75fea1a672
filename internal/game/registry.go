// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package game

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinelinks/cinelinks/internal/logging"
)

// ErrSessionNotFound indicates an unknown or evicted session id.
var ErrSessionNotFound = errors.New("game: session not found")

// Registry defaults.
const (
	DefaultSessionTTL = 7200 * time.Second
	DefaultMaxGames   = 5000
)

// entry pairs a live game with its creation time.
type entry struct {
	game      *Game
	createdAt time.Time
}

// Registry is the concurrency-safe mapping from session id to live game
// state. It evicts expired entries on every create and from the
// background sweeper, and enforces a capacity cap oldest-first. The
// registry lock is never held while a game mutates; games carry their
// own lock.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl      time.Duration
	maxGames int

	// now is swappable for tests.
	now func() time.Time
}

// NewRegistry creates an empty registry. Non-positive limits fall back
// to the defaults.
func NewRegistry(ttl time.Duration, maxGames int) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if maxGames < 1 {
		maxGames = DefaultMaxGames
	}
	return &Registry{
		entries:  make(map[string]entry),
		ttl:      ttl,
		maxGames: maxGames,
		now:      time.Now,
	}
}

// Create registers a game under a fresh opaque id. Expired entries are
// evicted first; if the registry is still at capacity the oldest
// entries go until the new session fits under the cap.
func (r *Registry) Create(g *Game) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpiredLocked()
	r.evictOverflowLocked()

	id := uuid.New().String()
	r.entries[id] = entry{game: g, createdAt: r.now()}
	return id
}

// Get returns the session for an id.
func (r *Registry) Get(id string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.game, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts expired sessions and returns how many were removed.
// The background sweeper calls this periodically so long-idle processes
// do not hoard finished games.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictExpiredLocked()
}

func (r *Registry) evictExpiredLocked() int {
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.entries {
		if e.createdAt.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("Evicted expired game sessions")
	}
	return removed
}

// evictOverflowLocked drops the oldest entries until a new session fits
// under the capacity cap.
func (r *Registry) evictOverflowLocked() {
	if len(r.entries) < r.maxGames {
		return
	}

	type aged struct {
		id string
		at time.Time
	}
	all := make([]aged, 0, len(r.entries))
	for id, e := range r.entries {
		all = append(all, aged{id: id, at: e.createdAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })

	for _, a := range all {
		if len(r.entries) < r.maxGames {
			break
		}
		delete(r.entries, a.id)
	}
	logging.Warn().Int("max_games", r.maxGames).Msg("Session registry at capacity, evicted oldest sessions")
}
