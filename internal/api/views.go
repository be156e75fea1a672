// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package api

import (
	"github.com/cinelinks/cinelinks/internal/game"
	"github.com/cinelinks/cinelinks/internal/graph"
	"github.com/cinelinks/cinelinks/internal/index"
	"github.com/cinelinks/cinelinks/internal/pathfind"
)

// ActorRef is the actor shape embedded in responses.
type ActorRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MovieRef is the movie shape embedded in responses.
type MovieRef struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	PosterURL string `json:"posterUrl,omitempty"`
}

// GameView is the observable session state shipped with every game
// response.
type GameView struct {
	GameID        string     `json:"gameId"`
	State         game.State `json:"state"`
	StartActor    ActorRef   `json:"startActor"`
	TargetActor   ActorRef   `json:"targetActor"`
	CurrentActor  ActorRef   `json:"currentActor"`
	VisitedActors []ActorRef `json:"visitedActors"`
	MoviesUsed    []MovieRef `json:"moviesUsed"`
	PendingMovie  *MovieRef  `json:"pendingMovie,omitempty"`

	TotalGuesses        int `json:"totalGuesses"`
	IncorrectGuesses    int `json:"incorrectGuesses"`
	MaxIncorrectGuesses int `json:"maxIncorrectGuesses"`

	Completed bool `json:"completed"`
	GaveUp    bool `json:"gaveUp"`
	Won       bool `json:"won"`
}

// GuessResponse reports a single guess plus the resulting game state.
// Rule failures are Success=false with a 200 status; the request itself
// was fine, the move just did not hold up.
type GuessResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Won     bool      `json:"won"`
	Movie   *MovieRef `json:"movie,omitempty"`
	Game    GameView  `json:"game"`
}

// PathSegment is one hop of an optimal path.
type PathSegment struct {
	Movie MovieRef `json:"movie"`
	Actor ActorRef `json:"actor"`
}

// PathResponse is one reified path between the session endpoints.
type PathResponse struct {
	StartActor  ActorRef      `json:"startActor"`
	TargetActor ActorRef      `json:"targetActor"`
	Segments    []PathSegment `json:"segments"`
}

// actorRef shapes an actor id into a reference, tolerating ids the
// store no longer knows.
func (h *Handler) actorRef(id string) ActorRef {
	a, err := h.store.Actor(id)
	if err != nil {
		return ActorRef{ID: id}
	}
	return ActorRef{
		ID:       a.ID,
		Name:     a.Name,
		ImageURL: index.TMDBImage(a.ProfilePath, "w300"),
	}
}

func movieRef(m graph.MovieConnector) MovieRef {
	return MovieRef{
		ID:        m.ID,
		Title:     m.Title,
		PosterURL: index.TMDBImage(m.PosterPath, "w500"),
	}
}

// gameView shapes a session snapshot for the wire.
func (h *Handler) gameView(id string, snap game.Snapshot) GameView {
	visited := make([]ActorRef, 0, len(snap.Visited))
	for _, actorID := range snap.Visited {
		visited = append(visited, h.actorRef(actorID))
	}
	movies := make([]MovieRef, 0, len(snap.MoviesUsed))
	for _, m := range snap.MoviesUsed {
		movies = append(movies, movieRef(m))
	}

	view := GameView{
		GameID:              id,
		State:               snap.State,
		StartActor:          h.actorRef(snap.Start),
		TargetActor:         h.actorRef(snap.Target),
		CurrentActor:        h.actorRef(snap.Current),
		VisitedActors:       visited,
		MoviesUsed:          movies,
		TotalGuesses:        snap.TotalGuesses,
		IncorrectGuesses:    snap.IncorrectGuesses,
		MaxIncorrectGuesses: snap.MaxIncorrect,
		Completed:           snap.Completed,
		GaveUp:              snap.GaveUp,
		Won:                 snap.Won,
	}
	if snap.Pending != nil {
		pending := movieRef(*snap.Pending)
		view.PendingMovie = &pending
	}
	return view
}

// pathResponse shapes an enumerated path into segments.
func (h *Handler) pathResponse(path []string, segments []pathfind.Segment) PathResponse {
	out := PathResponse{
		StartActor:  h.actorRef(path[0]),
		TargetActor: h.actorRef(path[len(path)-1]),
		Segments:    make([]PathSegment, 0, len(segments)),
	}
	for _, seg := range segments {
		out.Segments = append(out.Segments, PathSegment{
			Movie: movieRef(seg.Movie),
			Actor: h.actorRef(seg.Actor),
		})
	}
	return out
}
