// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package pathfind computes optimal connection paths between actors:
// the single best shortest path by movie popularity, and a small set of
// mutually diverse shortest paths for hints.
package pathfind

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cinelinks/cinelinks/internal/graph"
)

const (
	// MaxEnumeratedPaths caps shortest-path enumeration.
	MaxEnumeratedPaths = 100

	// MaxDiversePaths caps the diverse-path selection size.
	MaxDiversePaths = 3

	// Weighted Jaccard components of path similarity.
	movieSimWeight = 0.7
	actorSimWeight = 0.3
)

// ErrNoPath indicates the two actors are not connected. On a connected
// playable graph this surfaces as an internal error.
var ErrNoPath = errors.New("pathfind: no path between actors")

// ErrActorNotInGraph indicates an endpoint outside the graph.
var ErrActorNotInGraph = errors.New("pathfind: actor not in graph")

// Segment reifies one hop of a path: the most popular movie on the edge
// and the actor it leads to.
type Segment struct {
	Movie graph.MovieConnector
	Actor string
}

// Engine computes paths over the immutable graph store.
type Engine struct {
	graph *graph.Store
}

// New creates a path engine.
func New(g *graph.Store) *Engine {
	return &Engine{graph: g}
}

// AllShortestPaths enumerates every minimum-hop path between two actors,
// capped at MaxEnumeratedPaths. Enumeration order is deterministic:
// neighbor expansion and parent backtracking are both sorted.
func (e *Engine) AllShortestPaths(start, target string) ([][]string, error) {
	if !e.graph.HasActor(start) {
		return nil, fmt.Errorf("%w: %s", ErrActorNotInGraph, start)
	}
	if !e.graph.HasActor(target) {
		return nil, fmt.Errorf("%w: %s", ErrActorNotInGraph, target)
	}
	if start == target {
		return [][]string{{start}}, nil
	}

	// Multi-parent BFS: record every predecessor on a shortest path.
	dist := map[string]int{start: 0}
	parents := map[string][]string{}
	queue := []string{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		// Past the target's BFS layer nothing can extend a shortest path.
		if targetDist, ok := dist[target]; ok && dist[node] >= targetDist {
			break
		}

		neighbors, err := e.graph.Neighbors(node)
		if err != nil {
			return nil, err
		}
		for _, next := range neighbors {
			d, seen := dist[next]
			switch {
			case !seen:
				dist[next] = dist[node] + 1
				parents[next] = []string{node}
				queue = append(queue, next)
			case d == dist[node]+1:
				parents[next] = append(parents[next], node)
			}
		}
	}

	if _, ok := dist[target]; !ok {
		return nil, fmt.Errorf("%w: %s and %s", ErrNoPath, start, target)
	}

	var paths [][]string
	var backtrack func(node string, suffix []string)
	backtrack = func(node string, suffix []string) {
		if len(paths) >= MaxEnumeratedPaths {
			return
		}
		chain := append([]string{node}, suffix...)
		if node == start {
			paths = append(paths, chain)
			return
		}
		ps := append([]string(nil), parents[node]...)
		sort.Strings(ps)
		for _, p := range ps {
			backtrack(p, chain)
		}
	}
	backtrack(target, nil)

	return paths, nil
}

// BestPath returns the shortest path whose edges carry the highest
// summed maximum movie popularity. Ties resolve to the first path in
// enumeration order.
func (e *Engine) BestPath(start, target string) ([]string, error) {
	paths, err := e.AllShortestPaths(start, target)
	if err != nil {
		return nil, err
	}
	if len(paths) == 1 {
		return paths[0], nil
	}

	best := paths[0]
	bestScore := e.pathScore(best)
	for _, p := range paths[1:] {
		if score := e.pathScore(p); score > bestScore {
			best, bestScore = p, score
		}
	}
	return best, nil
}

// DiversePaths returns up to k mutually diverse shortest paths, seeded
// with the best path. k is clamped to MaxDiversePaths. Each subsequent
// pick is the candidate whose nearest already-selected neighbor is the
// least similar, under the weighted Jaccard over picked movies and
// intermediate actors.
func (e *Engine) DiversePaths(start, target string, k int) ([][]string, error) {
	if k > MaxDiversePaths {
		k = MaxDiversePaths
	}
	if k < 1 {
		k = 1
	}

	paths, err := e.AllShortestPaths(start, target)
	if err != nil {
		return nil, err
	}

	best, err := e.BestPath(start, target)
	if err != nil {
		return nil, err
	}

	selected := [][]string{best}
	remaining := make([][]string, 0, len(paths))
	for _, p := range paths {
		if !equalPath(p, best) {
			remaining = append(remaining, p)
		}
	}

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestNearest := 2.0 // above any similarity
		for i, candidate := range remaining {
			nearest := 0.0
			for _, s := range selected {
				if sim := e.similarity(candidate, s); sim > nearest {
					nearest = sim
				}
			}
			if nearest < bestNearest {
				bestNearest = nearest
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected, nil
}

// Segments reifies each adjacent pair of a path as its most popular
// shared movie plus the next actor.
func (e *Engine) Segments(path []string) []Segment {
	if len(path) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		segments = append(segments, Segment{
			Movie: topMovie(e.graph.EdgeMovies(path[i], path[i+1])),
			Actor: path[i+1],
		})
	}
	return segments
}

// pathScore sums the maximum movie popularity over the path's edges.
func (e *Engine) pathScore(path []string) float64 {
	score := 0.0
	for i := 0; i+1 < len(path); i++ {
		score += topMovie(e.graph.EdgeMovies(path[i], path[i+1])).Popularity
	}
	return score
}

// similarity is the weighted Jaccard over the paths' picked movie ids
// and intermediate actors. Jaccard of two empty sets is 0.
func (e *Engine) similarity(p, q []string) float64 {
	return movieSimWeight*jaccardInt(e.pathMovies(p), e.pathMovies(q)) +
		actorSimWeight*jaccardString(intermediates(p), intermediates(q))
}

// pathMovies is the set of most-popular movie ids, one per edge.
func (e *Engine) pathMovies(path []string) map[int]struct{} {
	movies := make(map[int]struct{}, len(path))
	for i := 0; i+1 < len(path); i++ {
		movies[topMovie(e.graph.EdgeMovies(path[i], path[i+1])).ID] = struct{}{}
	}
	return movies
}

// intermediates is the set of actors strictly between the endpoints.
func intermediates(path []string) map[string]struct{} {
	out := make(map[string]struct{})
	for i := 1; i+1 < len(path); i++ {
		out[path[i]] = struct{}{}
	}
	return out
}

// topMovie returns the connector with the highest popularity. Edge
// lists arrive sorted by popularity descending, but the scan keeps the
// result robust to unsorted artifacts.
func topMovie(movies []graph.MovieConnector) graph.MovieConnector {
	var top graph.MovieConnector
	for i, m := range movies {
		if i == 0 || m.Popularity > top.Popularity {
			top = m
		}
	}
	return top
}

func jaccardInt(a, b map[int]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func jaccardString(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
