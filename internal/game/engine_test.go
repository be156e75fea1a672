// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelinks/cinelinks/internal/graph"
	"github.com/cinelinks/cinelinks/internal/index"
)

// chainStore builds actor_1 - actor_2 - actor_3 connected by movies 100
// and 200 respectively, plus an unconnected actor_4.
func chainStore(t *testing.T) *graph.Store {
	t.Helper()

	actors := []graph.Actor{
		{ID: "actor_1", Name: "Alice Astor", TMDBID: 1, InPlayableGraph: true},
		{ID: "actor_2", Name: "Bob Birch", TMDBID: 2, InPlayableGraph: true},
		{ID: "actor_3", Name: "Cara Cole", TMDBID: 3, InPlayableGraph: true},
		{ID: "actor_4", Name: "Dan Dukes", TMDBID: 4, InPlayableGraph: true},
	}
	edges := []graph.Edge{
		{Source: "actor_1", Target: "actor_2", Movies: []graph.MovieConnector{
			{ID: 100, Title: "First Light", Popularity: 40},
		}},
		{Source: "actor_2", Target: "actor_3", Movies: []graph.MovieConnector{
			{ID: 200, Title: "Second Wind", Popularity: 30},
		}},
	}
	ix := &graph.Index{
		Movies: map[int]graph.MovieInfo{
			100: {Title: "First Light", Popularity: 40},
			200: {Title: "Second Wind", Popularity: 30},
			999: {Title: "Unrelated", Popularity: 1},
		},
		ActorMovies: map[int][]graph.Credit{
			1: {{MovieID: 100}},
			2: {{MovieID: 100}, {MovieID: 200}},
			3: {{MovieID: 200}},
			4: {{MovieID: 999}},
		},
	}

	store, err := graph.NewStore(actors, edges, ix)
	require.NoError(t, err)
	return store
}

func chainGame(t *testing.T) *Game {
	t.Helper()
	store := chainStore(t)
	return New(store, index.Build(store), "actor_1", "actor_3", 3)
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestTwoStepWin(t *testing.T) {
	g := chainGame(t)

	// Step one: movie in the current actor's filmography arms pending.
	res := g.Guess(intPtr(100), nil)
	assert.True(t, res.Success)
	require.NotNil(t, res.Movie)
	assert.Equal(t, 100, res.Movie.ID)
	assert.Equal(t, StateAwaitingActor, g.Snapshot().State)

	// Step two: co-star in the pending movie advances.
	res = g.Guess(nil, strPtr("Bob Birch"))
	assert.True(t, res.Success)
	assert.False(t, res.Won)

	snap := g.Snapshot()
	assert.Equal(t, StateAwaitingMove, snap.State)
	assert.Equal(t, "actor_2", snap.Current)
	assert.Nil(t, snap.Pending)
	assert.Equal(t, []string{"actor_1", "actor_2"}, snap.Visited)

	// Second hop reaches the target.
	res = g.Guess(intPtr(200), nil)
	require.True(t, res.Success)
	res = g.Guess(nil, strPtr("Cara Cole"))
	assert.True(t, res.Won)

	snap = g.Snapshot()
	assert.Equal(t, StateCompletedWin, snap.State)
	assert.True(t, snap.Completed)
	assert.Equal(t, 4, snap.TotalGuesses)
	assert.Equal(t, 0, snap.IncorrectGuesses)
}

func TestMovieNotInFilmography(t *testing.T) {
	g := chainGame(t)

	// Movie exists but the current actor was not in it.
	res := g.Guess(intPtr(200), nil)
	assert.False(t, res.Success)

	snap := g.Snapshot()
	assert.Equal(t, StateAwaitingMove, snap.State)
	assert.Equal(t, 1, snap.IncorrectGuesses)
	assert.Nil(t, snap.Pending)
}

func TestUnknownMovie(t *testing.T) {
	g := chainGame(t)

	res := g.Guess(intPtr(12345), nil)
	assert.False(t, res.Success)
	assert.Equal(t, 1, g.Snapshot().IncorrectGuesses)
}

func TestActorGuessWithoutPending(t *testing.T) {
	g := chainGame(t)

	res := g.Guess(nil, strPtr("Bob Birch"))
	assert.False(t, res.Success)
	assert.Equal(t, "Guess a movie first.", res.Message)
	// A sequencing miss is not an incorrect guess.
	assert.Equal(t, 0, g.Snapshot().IncorrectGuesses)
}

func TestWrongActorForPendingMovie(t *testing.T) {
	g := chainGame(t)

	require.True(t, g.Guess(intPtr(100), nil).Success)
	res := g.Guess(nil, strPtr("Dan Dukes"))
	assert.False(t, res.Success)

	snap := g.Snapshot()
	assert.Equal(t, 1, snap.IncorrectGuesses)
	// Pending survives a wrong actor so the player can retry.
	require.NotNil(t, snap.Pending)
	assert.Equal(t, 100, snap.Pending.ID)
}

func TestOutOfTries(t *testing.T) {
	g := chainGame(t)

	for i := 0; i < 3; i++ {
		res := g.Guess(intPtr(12345), nil)
		assert.False(t, res.Success)
	}

	snap := g.Snapshot()
	assert.Equal(t, StateCompletedLoss, snap.State)
	assert.True(t, snap.Completed)

	// Terminal games answer verbatim and mutate nothing.
	res := g.Guess(intPtr(100), nil)
	assert.Equal(t, "Game is already complete.", res.Message)
	assert.Equal(t, snap.TotalGuesses, g.Snapshot().TotalGuesses)
}

func TestLegacyPairGuess(t *testing.T) {
	g := chainGame(t)

	res := g.Guess(intPtr(100), strPtr("Bob Birch"))
	assert.True(t, res.Success)
	assert.Equal(t, "actor_2", g.Snapshot().Current)
}

func TestLegacyPairWrongMovieMessage(t *testing.T) {
	g := chainGame(t)

	// Connected actors, wrong movie.
	res := g.Guess(intPtr(999), strPtr("Bob Birch"))
	assert.False(t, res.Success)
	assert.Equal(t, "Those actors are connected, but not by that movie.", res.Message)

	// Not connected at all.
	res = g.Guess(intPtr(100), strPtr("Dan Dukes"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "did not co-star directly")
}

func TestNeitherArgumentLeavesCounters(t *testing.T) {
	g := chainGame(t)

	res := g.Guess(nil, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "You must provide a movie or an actor.", res.Message)

	snap := g.Snapshot()
	assert.Equal(t, 0, snap.TotalGuesses)
	assert.Equal(t, 0, snap.IncorrectGuesses)
}

func TestGiveUp(t *testing.T) {
	g := chainGame(t)

	g.GiveUp()
	snap := g.Snapshot()
	assert.Equal(t, StateCompletedGaveUp, snap.State)
	assert.True(t, snap.GaveUp)
	assert.Equal(t, snap.MaxIncorrect, snap.IncorrectGuesses)

	// Idempotent.
	g.GiveUp()
	assert.Equal(t, StateCompletedGaveUp, g.Snapshot().State)
}

func TestGiveUpAfterWinKeepsWin(t *testing.T) {
	g := chainGame(t)
	require.True(t, g.Guess(intPtr(100), strPtr("Bob Birch")).Success)
	require.True(t, g.Guess(intPtr(200), strPtr("Cara Cole")).Won)

	g.GiveUp()
	assert.Equal(t, StateCompletedWin, g.Snapshot().State)
}

func TestSwapActors(t *testing.T) {
	g := chainGame(t)

	// Arming a pending movie is not a completed move; swap clears it.
	require.True(t, g.Guess(intPtr(100), nil).Success)
	require.NoError(t, g.SwapActors())

	snap := g.Snapshot()
	assert.Equal(t, "actor_3", snap.Start)
	assert.Equal(t, "actor_1", snap.Target)
	assert.Equal(t, "actor_3", snap.Current)
	assert.Equal(t, []string{"actor_3"}, snap.Visited)
	assert.Nil(t, snap.Pending)
}

func TestSwapActorsAfterMove(t *testing.T) {
	g := chainGame(t)
	require.True(t, g.Guess(intPtr(100), strPtr("Bob Birch")).Success)

	assert.ErrorIs(t, g.SwapActors(), ErrSwapAfterMove)
}

func TestUnresolvedActorName(t *testing.T) {
	g := chainGame(t)
	require.True(t, g.Guess(intPtr(100), nil).Success)

	res := g.Guess(nil, strPtr("Nobody Atall"))
	assert.False(t, res.Success)
	assert.Equal(t, 1, g.Snapshot().IncorrectGuesses)
}

func TestSnapshotIsACopy(t *testing.T) {
	g := chainGame(t)
	snap := g.Snapshot()
	snap.Visited = append(snap.Visited, "actor_999")

	assert.Equal(t, []string{"actor_1"}, g.Snapshot().Visited)
}
