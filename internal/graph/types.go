// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package graph holds the immutable in-memory actor co-starring graph.
//
// The graph is produced by the offline build pipeline and loaded once at
// startup; every runtime query is read-only. Adjacency lives in a
// lvlath core.Graph; node attributes and per-edge movie connector lists
// live in side tables owned by the Store.
package graph

import "github.com/goccy/go-json"

// MovieConnector is the metadata for one movie on a co-star edge:
// a movie both endpoint actors appeared in.
type MovieConnector struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Popularity  float64 `json:"popularity"`
	CastSize    int     `json:"cast_size"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// Actor carries the node attributes of one actor.
type Actor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfilePath     string `json:"profile_path,omitempty"`
	TMDBID          int    `json:"tmdb_id"`
	InPlayableGraph bool   `json:"in_playable_graph"`
	InStartingPool  bool   `json:"in_starting_pool"`
}

// UnmarshalJSON defaults in_playable_graph to true when the artifact
// omits it: nodes predating the flag are all playable.
func (a *Actor) UnmarshalJSON(data []byte) error {
	type plain Actor
	aux := struct {
		InPlayableGraph *bool `json:"in_playable_graph"`
		plain
	}{plain: plain(*a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Actor(aux.plain)
	a.InPlayableGraph = aux.InPlayableGraph == nil || *aux.InPlayableGraph
	return nil
}

// Edge is one undirected co-star edge of the build artifact.
type Edge struct {
	Source string           `json:"source"`
	Target string           `json:"target"`
	Movies []MovieConnector `json:"movies"`
}

// MovieInfo is the per-movie record of the actor-movie index.
type MovieInfo struct {
	Title       string  `json:"title"`
	Popularity  float64 `json:"popularity"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	CastSize    int     `json:"cast_size"`
}

// Credit is one filmography entry of the actor-movie index.
// CastOrder is the 0-based billing position.
type Credit struct {
	MovieID   int    `json:"movie_id"`
	CastOrder int    `json:"cast_order"`
	VoteCount int    `json:"vote_count"`
	Title     string `json:"title"`
	Language  string `json:"original_language,omitempty"`
	Character string `json:"character,omitempty"`
}

// Index is the actor-movie side structure supporting move validation
// and autocomplete enrichment. Actor keys are external TMDB ids.
type Index struct {
	Movies      map[int]MovieInfo `json:"movies"`
	ActorMovies map[int][]Credit  `json:"actor_movies"`
}

// ActorHasMovie reports whether the actor's filmography lists the movie.
func (ix *Index) ActorHasMovie(tmdbID, movieID int) bool {
	for _, credit := range ix.ActorMovies[tmdbID] {
		if credit.MovieID == movieID {
			return true
		}
	}
	return false
}
