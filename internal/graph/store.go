// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package graph

import (
	"errors"
	"fmt"

	"github.com/lvlath/go/core"
)

// ErrActorNotFound indicates a query referenced an actor id outside the graph.
var ErrActorNotFound = errors.New("graph: actor not found")

// Store is the immutable actor-actor graph plus its attribute tables.
// Construction happens once at load time; all methods afterwards are
// read-only and safe for concurrent use.
type Store struct {
	adj    *core.Graph
	actors map[string]Actor

	// edgeMovies maps a canonical "u|v" (u <= v) pair key to the movie
	// connectors of that edge, sorted by popularity descending and
	// truncated to 100 entries by the build tool.
	edgeMovies map[string][]MovieConnector

	index *Index

	playable     []string
	startingPool []string
}

// NewStore assembles a Store from build artifacts. Edges referencing
// unknown actors are rejected.
func NewStore(actors []Actor, edges []Edge, index *Index) (*Store, error) {
	adj, err := core.NewGraph()
	if err != nil {
		return nil, fmt.Errorf("graph: new graph: %w", err)
	}
	s := &Store{
		adj:        adj,
		actors:     make(map[string]Actor, len(actors)),
		edgeMovies: make(map[string][]MovieConnector, len(edges)),
		index:      index,
	}
	if s.index == nil {
		s.index = &Index{Movies: map[int]MovieInfo{}, ActorMovies: map[int][]Credit{}}
	}

	for _, a := range actors {
		if a.ID == "" {
			return nil, fmt.Errorf("graph: actor with empty id")
		}
		if err := s.adj.AddVertex(a.ID); err != nil {
			return nil, fmt.Errorf("graph: add vertex %s: %w", a.ID, err)
		}
		s.actors[a.ID] = a
		if a.InPlayableGraph {
			s.playable = append(s.playable, a.ID)
		}
		if a.InStartingPool {
			s.startingPool = append(s.startingPool, a.ID)
		}
	}

	for _, e := range edges {
		if _, ok := s.actors[e.Source]; !ok {
			return nil, fmt.Errorf("graph: edge references unknown actor %s", e.Source)
		}
		if _, ok := s.actors[e.Target]; !ok {
			return nil, fmt.Errorf("graph: edge references unknown actor %s", e.Target)
		}
		if _, err := s.adj.AddEdge(e.Source, e.Target, 0); err != nil {
			return nil, fmt.Errorf("graph: add edge %s-%s: %w", e.Source, e.Target, err)
		}
		s.edgeMovies[pairKey(e.Source, e.Target)] = e.Movies
	}

	return s, nil
}

// pairKey builds the canonical undirected edge key.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// HasActor reports whether the actor id is a node of the graph.
func (s *Store) HasActor(id string) bool {
	_, ok := s.actors[id]
	return ok
}

// Actor returns the attributes of the given actor.
func (s *Store) Actor(id string) (Actor, error) {
	a, ok := s.actors[id]
	if !ok {
		return Actor{}, fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	return a, nil
}

// Neighbors returns the ids of all co-stars of the given actor,
// sorted for determinism.
func (s *Store) Neighbors(id string) ([]string, error) {
	ids, err := s.adj.NeighborIDs(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	return ids, nil
}

// HasEdge reports whether two actors co-starred directly.
func (s *Store) HasEdge(a, b string) bool {
	return s.adj.HasEdge(a, b)
}

// EdgeMovies returns the movie connectors of the edge between two actors,
// ordered by popularity descending. Nil when no edge exists.
func (s *Store) EdgeMovies(a, b string) []MovieConnector {
	return s.edgeMovies[pairKey(a, b)]
}

// Index returns the actor-movie index.
func (s *Store) Index() *Index {
	return s.index
}

// PlayableActors returns the ids of actors marked in_playable_graph.
func (s *Store) PlayableActors() []string {
	return s.playable
}

// StartingPool returns the ids of actors eligible as puzzle endpoints.
func (s *Store) StartingPool() []string {
	return s.startingPool
}

// Actors returns the attribute table. Callers must not mutate it.
func (s *Store) Actors() map[string]Actor {
	return s.actors
}

// ActorCount returns the total number of actor nodes.
func (s *Store) ActorCount() int {
	return s.adj.VertexCount()
}

// EdgeCount returns the number of co-star edges.
func (s *Store) EdgeCount() int {
	return s.adj.EdgeCount()
}

// MovieCount returns the number of distinct movies in the index.
func (s *Store) MovieCount() int {
	return len(s.index.Movies)
}
