// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package puzzle picks the deterministic daily START/TARGET pair and
// persists pick history through a BadgerDB key-value store.
package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/cinelinks/cinelinks/internal/logging"
)

// Key prefixes for BadgerDB storage.
const (
	puzzleKeyPrefix = "puzzle:"
	recentKeyPrefix = "recent:"
)

// Record is one persisted daily pick.
type Record struct {
	StartActor    string    `json:"start_actor"`
	TargetActor   string    `json:"target_actor"`
	GeneratedAt   time.Time `json:"generated_at"`
	ExclusionDays int       `json:"exclusion_days"`
	Fallback      bool      `json:"fallback,omitempty"`
}

// State is the in-memory image of the persisted puzzle history:
// picks by puzzle key, and the puzzle key each actor was last used on.
type State struct {
	Puzzles      map[string]Record
	RecentActors map[string]string
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Puzzles:      make(map[string]Record),
		RecentActors: make(map[string]string),
	}
}

// StateStore persists puzzle state in BadgerDB. Values are JSON; keys
// are prefixed so picks and recent-use entries share one database.
type StateStore struct {
	db *badger.DB
}

// OpenStateStore opens (or creates) the Badger database at path.
func OpenStateStore(path string) (*StateStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("puzzle: open state store at %s: %w", path, err)
	}
	return &StateStore{db: db}, nil
}

// Close releases the underlying database.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// Load reads the full persisted state. A fresh database yields an empty
// state; corrupt entries are skipped with a warning so one bad value
// cannot wedge startup.
func (s *StateStore) Load() (*State, error) {
	state := NewState()

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, puzzleKeyPrefix):
				var rec Record
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &rec)
				}); err != nil {
					logging.Warn().Str("key", key).Err(err).Msg("Skipping corrupt puzzle record")
					continue
				}
				state.Puzzles[strings.TrimPrefix(key, puzzleKeyPrefix)] = rec

			case strings.HasPrefix(key, recentKeyPrefix):
				var usedOn string
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &usedOn)
				}); err != nil {
					logging.Warn().Str("key", key).Err(err).Msg("Skipping corrupt recent-actor record")
					continue
				}
				state.RecentActors[strings.TrimPrefix(key, recentKeyPrefix)] = usedOn
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("puzzle: load state: %w", err)
	}

	logging.Info().
		Int("puzzles", len(state.Puzzles)).
		Int("recent_actors", len(state.RecentActors)).
		Msg("Loaded daily puzzle state")
	return state, nil
}

// Commit persists one pick atomically: the puzzle record, the updated
// recent-use entries, and the deletion of garbage-collected ones.
func (s *StateStore) Commit(key string, rec Record, recent map[string]string, removed []string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal puzzle record: %w", err)
		}
		if err := txn.Set([]byte(puzzleKeyPrefix+key), data); err != nil {
			return fmt.Errorf("set puzzle record: %w", err)
		}

		for actorID, usedOn := range recent {
			val, err := json.Marshal(usedOn)
			if err != nil {
				return fmt.Errorf("marshal recent entry: %w", err)
			}
			if err := txn.Set([]byte(recentKeyPrefix+actorID), val); err != nil {
				return fmt.Errorf("set recent entry: %w", err)
			}
		}

		for _, actorID := range removed {
			if err := txn.Delete([]byte(recentKeyPrefix + actorID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete recent entry: %w", err)
			}
		}
		return nil
	})
}
