// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

// Package game implements the per-session move validation state machine
// and the registry of live sessions.
//
// A game progresses by two-step guessing: the player first names a movie
// the current actor appeared in (AWAITING_MOVE -> AWAITING_ACTOR), then an
// actor who co-starred in that movie (AWAITING_ACTOR -> AWAITING_MOVE, or a
// terminal state). A legacy one-shot path validates movie and actor
// atomically. Rule failures are values, never errors: the engine reports
// them as unsuccessful Results with a human-readable message.
package game

import (
	"fmt"
	"sync"

	"github.com/cinelinks/cinelinks/internal/graph"
)

// State identifies the position of a session in its lifecycle.
type State string

const (
	StateAwaitingMove    State = "AWAITING_MOVE"
	StateAwaitingActor   State = "AWAITING_ACTOR"
	StateCompletedWin    State = "COMPLETED_WIN"
	StateCompletedLoss   State = "COMPLETED_LOSS_OUT_OF_TRIES"
	StateCompletedGaveUp State = "COMPLETED_GAVE_UP"
)

// completeMessage is returned verbatim for any guess on a finished game.
const completeMessage = "Game is already complete."

// ActorResolver maps a free-text actor name to candidate actor ids.
type ActorResolver interface {
	ResolveActor(name string) []string
}

// Result reports the outcome of a single guess.
type Result struct {
	// Success is true when the guess advanced the game (or, for the
	// first step, armed a pending movie).
	Success bool

	// Message is the player-facing outcome description.
	Message string

	// Won is true when this guess reached the target actor.
	Won bool

	// Movie is the connector accepted by this guess, when any.
	Movie *graph.MovieConnector
}

// Game is one live session. All exported methods hold the session lock
// for their full duration; within a session, moves are totally ordered.
type Game struct {
	mu sync.Mutex

	store    *graph.Store
	resolver ActorResolver

	start   string
	target  string
	current string

	visited    []string
	moviesUsed []graph.MovieConnector
	pending    *graph.MovieConnector

	totalGuesses     int
	incorrectGuesses int
	maxIncorrect     int

	completed bool
	gaveUp    bool
	won       bool
}

// New creates a session at the start actor in AWAITING_MOVE state.
func New(store *graph.Store, resolver ActorResolver, start, target string, maxIncorrect int) *Game {
	return &Game{
		store:        store,
		resolver:     resolver,
		start:        start,
		target:       target,
		current:      start,
		visited:      []string{start},
		maxIncorrect: maxIncorrect,
	}
}

// Guess dispatches by argument pattern: movie only arms the first step,
// actor only resolves against the pending movie, both run the legacy
// one-shot path, neither is a validation miss that leaves counters alone.
func (g *Game) Guess(movieID *int, actorName *string) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.completed {
		return Result{Message: completeMessage}
	}
	if movieID == nil && actorName == nil {
		return Result{Message: "You must provide a movie or an actor."}
	}

	g.totalGuesses++

	switch {
	case movieID != nil && actorName != nil:
		return g.guessPair(*movieID, *actorName)
	case movieID != nil:
		return g.guessMovie(*movieID)
	default:
		return g.guessActor(*actorName)
	}
}

// guessMovie is the first step of progressive guessing: the movie must
// exist in the index and appear in the current actor's filmography.
func (g *Game) guessMovie(movieID int) Result {
	if g.pending != nil {
		return Result{Message: fmt.Sprintf("%q is already pending. Name an actor who was in it.", g.pending.Title)}
	}

	info, ok := g.store.Index().Movies[movieID]
	if !ok {
		g.recordIncorrect()
		return Result{Message: "That movie is not in our database. Try the autocomplete."}
	}

	current, _ := g.store.Actor(g.current)
	if !g.store.Index().ActorHasMovie(current.TMDBID, movieID) {
		g.recordIncorrect()
		return Result{Message: fmt.Sprintf("%s was not in %q. Try a different movie.", current.Name, info.Title)}
	}

	g.pending = &graph.MovieConnector{
		ID:          movieID,
		Title:       info.Title,
		PosterPath:  info.PosterPath,
		Popularity:  info.Popularity,
		CastSize:    info.CastSize,
		ReleaseDate: info.ReleaseDate,
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("%s was in %q. Now name your next actor.", current.Name, info.Title),
		Movie:   g.pending,
	}
}

// guessActor is the second step: the named actor must share an edge with
// the current actor and the shared filmography must contain the pending
// movie.
func (g *Game) guessActor(name string) Result {
	if g.pending == nil {
		return Result{Message: "Guess a movie first."}
	}

	candidates := g.resolver.ResolveActor(name)
	if len(candidates) == 0 {
		g.recordIncorrect()
		return Result{Message: fmt.Sprintf("Could not find an actor matching %q. Try the autocomplete.", name)}
	}

	for _, candidate := range candidates {
		if !g.store.HasEdge(g.current, candidate) {
			continue
		}
		if !g.sharedMovie(g.current, candidate, g.pending.ID) {
			continue
		}
		movie := *g.pending
		return g.advance(candidate, movie)
	}

	g.recordIncorrect()
	return Result{Message: fmt.Sprintf("%s was not in %q with your current actor.", name, g.pending.Title)}
}

// guessPair is the legacy one-shot path: validate the movie and the next
// actor atomically.
func (g *Game) guessPair(movieID int, name string) Result {
	candidates := g.resolver.ResolveActor(name)
	if len(candidates) == 0 {
		g.recordIncorrect()
		return Result{Message: fmt.Sprintf("Could not find an actor matching %q. Try the autocomplete.", name)}
	}

	anyConnected := false
	for _, candidate := range candidates {
		if !g.store.HasEdge(g.current, candidate) {
			continue
		}
		anyConnected = true
		if !g.sharedMovie(g.current, candidate, movieID) {
			continue
		}
		return g.advance(candidate, g.connector(g.current, candidate, movieID))
	}

	g.recordIncorrect()
	if anyConnected {
		return Result{Message: "Those actors are connected, but not by that movie."}
	}
	return Result{Message: fmt.Sprintf("%s did not co-star directly with your current actor.", name)}
}

// sharedMovie checks whether movieID connects the two actors, consulting
// the actor-movie index first and the edge connector list as fallback.
func (g *Game) sharedMovie(a, b string, movieID int) bool {
	actorA, errA := g.store.Actor(a)
	actorB, errB := g.store.Actor(b)
	if errA == nil && errB == nil {
		ix := g.store.Index()
		if len(ix.ActorMovies[actorA.TMDBID]) > 0 && len(ix.ActorMovies[actorB.TMDBID]) > 0 {
			return ix.ActorHasMovie(actorA.TMDBID, movieID) && ix.ActorHasMovie(actorB.TMDBID, movieID)
		}
	}
	for _, m := range g.store.EdgeMovies(a, b) {
		if m.ID == movieID {
			return true
		}
	}
	return false
}

// connector materializes the movie connector for an accepted one-shot
// guess, preferring index metadata over the edge list.
func (g *Game) connector(a, b string, movieID int) graph.MovieConnector {
	if info, ok := g.store.Index().Movies[movieID]; ok {
		return graph.MovieConnector{
			ID:          movieID,
			Title:       info.Title,
			PosterPath:  info.PosterPath,
			Popularity:  info.Popularity,
			CastSize:    info.CastSize,
			ReleaseDate: info.ReleaseDate,
		}
	}
	for _, m := range g.store.EdgeMovies(a, b) {
		if m.ID == movieID {
			return m
		}
	}
	return graph.MovieConnector{ID: movieID}
}

// advance is the single state-mutating primitive: append the accepted
// actor and movie, clear the pending movie, test for the win.
func (g *Game) advance(candidate string, movie graph.MovieConnector) Result {
	g.visited = append(g.visited, candidate)
	g.moviesUsed = append(g.moviesUsed, movie)
	g.current = candidate
	g.pending = nil

	next, _ := g.store.Actor(candidate)
	if g.current == g.target {
		g.completed = true
		g.won = true
		return Result{
			Success: true,
			Won:     true,
			Message: fmt.Sprintf("Connected to %s. You win!", next.Name),
			Movie:   &movie,
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Valid move to %s.", next.Name),
		Movie:   &movie,
	}
}

// recordIncorrect bumps the miss counter and finishes the game when the
// allowance is exhausted.
func (g *Game) recordIncorrect() {
	g.incorrectGuesses++
	if g.incorrectGuesses >= g.maxIncorrect {
		g.completed = true
	}
}

// GiveUp finishes the game, burning all remaining attempts. A no-op on
// an already finished game.
func (g *Game) GiveUp() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.completed {
		return
	}
	g.completed = true
	g.gaveUp = true
	g.incorrectGuesses = g.maxIncorrect
}

// ErrSwapAfterMove rejects a swap once any move has been completed.
var ErrSwapAfterMove = fmt.Errorf("game: cannot swap actors after the first move")

// SwapActors exchanges start and target on a fresh session: current
// returns to the new start, the visited path resets and any pending
// movie is cleared. Counters are untouched.
func (g *Game) SwapActors() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.moviesUsed) > 0 {
		return ErrSwapAfterMove
	}
	g.start, g.target = g.target, g.start
	g.current = g.start
	g.visited = []string{g.start}
	g.pending = nil
	return nil
}

// Snapshot is a point-in-time copy of observable session state.
type Snapshot struct {
	State State

	Start   string
	Target  string
	Current string

	Visited    []string
	MoviesUsed []graph.MovieConnector
	Pending    *graph.MovieConnector

	TotalGuesses     int
	IncorrectGuesses int
	MaxIncorrect     int

	Completed bool
	GaveUp    bool
	Won       bool
}

// Snapshot returns a copy of the session state safe to read without the
// session lock.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{
		State:            g.state(),
		Start:            g.start,
		Target:           g.target,
		Current:          g.current,
		Visited:          append([]string(nil), g.visited...),
		MoviesUsed:       append([]graph.MovieConnector(nil), g.moviesUsed...),
		TotalGuesses:     g.totalGuesses,
		IncorrectGuesses: g.incorrectGuesses,
		MaxIncorrect:     g.maxIncorrect,
		Completed:        g.completed,
		GaveUp:           g.gaveUp,
		Won:              g.won,
	}
	if g.pending != nil {
		pending := *g.pending
		snap.Pending = &pending
	}
	return snap
}

// state derives the tagged state (must be called with the lock held).
func (g *Game) state() State {
	switch {
	case g.gaveUp:
		return StateCompletedGaveUp
	case g.won:
		return StateCompletedWin
	case g.completed:
		return StateCompletedLoss
	case g.pending != nil:
		return StateAwaitingActor
	default:
		return StateAwaitingMove
	}
}
