// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package puzzle

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/cinelinks/cinelinks/internal/graph"
	"github.com/cinelinks/cinelinks/internal/logging"
)

// exclusionWindows are tried in order: prefer not reusing an actor for
// 20 days, relaxing the window when the remaining pool is too small.
var exclusionWindows = []int{20, 15, 10, 0}

const (
	// pairAttempts bounds random sampling per exclusion window.
	pairAttempts = 100

	// recentRetentionDays keeps recent-use history slightly longer than
	// the largest exclusion window.
	recentRetentionDays = 25

	// keyLayout is the puzzle key date format.
	keyLayout = "20060102"
)

// ErrPoolTooSmall indicates the starting pool cannot produce a pair.
var ErrPoolTooSmall = errors.New("puzzle: starting pool has fewer than two actors")

// Selector deterministically picks the daily START/TARGET pair.
//
// For a given puzzle key the pick is a pure function of the key and the
// state at first call: the RNG is seeded from the integer key, so every
// replica generating the same missing key from the same state arrives at
// the same pair. One mutex covers read, pick-and-record, and persist.
type Selector struct {
	mu sync.Mutex

	graph   *graph.Store
	state   *State
	persist *StateStore

	rng *rand.Rand
	loc *time.Location

	// now is swappable for tests.
	now func() time.Time
}

// NewSelector builds a selector over the loaded graph and previously
// persisted state. persist may be nil in tests; picks then live only in
// memory.
func NewSelector(g *graph.Store, state *State, persist *StateStore, loc *time.Location) *Selector {
	if state == nil {
		state = NewState()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Selector{
		graph:   g,
		state:   state,
		persist: persist,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		loc:     loc,
		now:     time.Now,
	}
}

// TodayKey returns the puzzle key for the current civil date.
func (s *Selector) TodayKey() string {
	return s.now().In(s.loc).Format(keyLayout)
}

// PairForKey returns the START/TARGET pair for a puzzle key, generating
// and persisting it on first call. Subsequent calls for the same key
// return the identical pair.
func (s *Selector) PairForKey(key string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.state.Puzzles[key]; ok {
		return rec.StartActor, rec.TargetActor, nil
	}

	pool := s.graph.StartingPool()
	if len(pool) < 2 {
		return "", "", ErrPoolTooSmall
	}

	// Deterministic seeding: the integer form of the key.
	if seed, err := strconv.ParseInt(key, 10, 64); err == nil {
		s.rng = rand.New(rand.NewSource(seed))
	}
	// The RNG returns to a nondeterministic source after the pick.
	defer func() {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}()

	for _, window := range exclusionWindows {
		available := s.availableActors(pool, window)
		if len(available) < 2 {
			logging.Debug().Int("exclusion_days", window).Int("available", len(available)).
				Msg("Pool too small for exclusion window, relaxing")
			continue
		}

		for attempt := 1; attempt <= pairAttempts; attempt++ {
			start, target := s.samplePair(available)
			if start == target || s.graph.HasEdge(start, target) {
				continue
			}
			logging.Info().Str("puzzle_key", key).Int("exclusion_days", window).
				Int("attempts", attempt).Msg("Picked daily puzzle pair")
			s.record(key, start, target, window, false)
			return start, target, nil
		}
	}

	// Every window exhausted: accept any distinct pair, directness
	// notwithstanding.
	start, target := s.samplePair(pool)
	for start == target {
		start, target = s.samplePair(pool)
	}
	logging.Warn().Str("puzzle_key", key).Msg("No valid pair found, using fallback pair")
	s.record(key, start, target, 0, true)
	return start, target, nil
}

// availableActors returns pool members not used within the window.
// A zero window excludes only actors used today or later-dated keys.
func (s *Selector) availableActors(pool []string, exclusionDays int) []string {
	cutoff := s.now().In(s.loc).AddDate(0, 0, -exclusionDays).Format(keyLayout)

	available := make([]string, 0, len(pool))
	for _, id := range pool {
		if usedOn, ok := s.state.RecentActors[id]; ok && usedOn >= cutoff {
			continue
		}
		available = append(available, id)
	}
	return available
}

// samplePair draws two positions without replacement.
func (s *Selector) samplePair(pool []string) (string, string) {
	i := s.rng.Intn(len(pool))
	j := s.rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	return pool[i], pool[j]
}

// record stores the pick in memory, garbage-collects stale recent-use
// entries, and commits to the state store. A persist failure is logged
// and swallowed: the pick stays authoritative in memory, and a replica
// that lost it recomputes the same pair from the same key.
func (s *Selector) record(key, start, target string, exclusionDays int, fallback bool) {
	rec := Record{
		StartActor:    start,
		TargetActor:   target,
		GeneratedAt:   s.now(),
		ExclusionDays: exclusionDays,
		Fallback:      fallback,
	}
	s.state.Puzzles[key] = rec
	s.state.RecentActors[start] = key
	s.state.RecentActors[target] = key

	cutoff := s.now().In(s.loc).AddDate(0, 0, -recentRetentionDays).Format(keyLayout)
	var removed []string
	for actorID, usedOn := range s.state.RecentActors {
		if usedOn < cutoff {
			delete(s.state.RecentActors, actorID)
			removed = append(removed, actorID)
		}
	}
	if len(removed) > 0 {
		logging.Debug().Int("removed", len(removed)).Msg("Cleaned up old recent-actor entries")
	}

	if s.persist == nil {
		return
	}
	recent := map[string]string{start: key, target: key}
	if err := s.persist.Commit(key, rec, recent, removed); err != nil {
		logging.Err(err).Str("puzzle_key", key).Msg("Failed to persist puzzle state")
	}
}
