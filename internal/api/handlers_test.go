// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelinks/cinelinks/internal/config"
	"github.com/cinelinks/cinelinks/internal/game"
	"github.com/cinelinks/cinelinks/internal/graph"
	"github.com/cinelinks/cinelinks/internal/index"
	"github.com/cinelinks/cinelinks/internal/pathfind"
	"github.com/cinelinks/cinelinks/internal/puzzle"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              8000,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			Timeout:           10 * time.Second,
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Minute,
		},
		Game: config.GameConfig{
			MaxIncorrect: 3,
			SessionTTL:   time.Hour,
			MaxGames:     100,
		},
	}
}

// testServer builds a ready server over the chain
// actor_1 - actor_2 - actor_3.
func testServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	actors := []graph.Actor{
		{ID: "actor_1", Name: "Alice Astor", TMDBID: 1, InPlayableGraph: true, InStartingPool: true},
		{ID: "actor_2", Name: "Bob Birch", TMDBID: 2, InPlayableGraph: true, InStartingPool: true},
		{ID: "actor_3", Name: "Cara Cole", TMDBID: 3, InPlayableGraph: true, InStartingPool: true},
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
		},
		ActorMovies: map[int][]graph.Credit{
			1: {{MovieID: 100}},
			2: {{MovieID: 100}, {MovieID: 200}},
			3: {{MovieID: 200}},
		},
	}
	store, err := graph.NewStore(actors, edges, ix)
	require.NoError(t, err)

	cfg := testConfig()
	catalog := index.Build(store)
	registry := game.NewRegistry(cfg.Game.SessionTTL, cfg.Game.MaxGames)
	selector := puzzle.NewSelector(store, puzzle.NewState(), nil, time.UTC)
	paths := pathfind.New(store)

	handler := NewHandler(cfg, store, catalog, registry, selector, paths)
	srv := httptest.NewServer(NewRouter(cfg, handler).Setup())
	t.Cleanup(srv.Close)
	return srv, handler
}

// notReadyServer builds a server without graph artifacts.
func notReadyServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	registry := game.NewRegistry(cfg.Game.SessionTTL, cfg.Game.MaxGames)
	handler := NewHandler(cfg, nil, nil, registry, nil, nil)
	srv := httptest.NewServer(NewRouter(cfg, handler).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func decodeData(t *testing.T, envelope APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}

func createGame(t *testing.T, srv *httptest.Server, start, target string) string {
	t.Helper()

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game",
		CreateGameRequest{StartActorID: start, TargetActorID: target})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreateGameResponse
	decodeData(t, envelope, &created)
	require.NotEmpty(t, created.GameID)
	return created.GameID
}

func TestHealthAlways200(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)

	var data struct {
		OK    bool `json:"ok"`
		Ready bool `json:"ready"`
	}
	decodeData(t, envelope, &data)
	assert.True(t, data.OK)
	assert.True(t, data.Ready)
}

func TestHealthNotReady(t *testing.T) {
	srv := notReadyServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Ready bool `json:"ready"`
	}
	decodeData(t, envelope, &data)
	assert.False(t, data.Ready)
}

func TestMeta(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/meta", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Actors         int    `json:"actors"`
		Edges          int    `json:"edges"`
		PlayableActors int    `json:"playable_actors"`
		StartingPool   int    `json:"starting_pool_actors"`
		Checksum       string `json:"checksum"`
	}
	decodeData(t, envelope, &data)
	assert.Equal(t, 3, data.Actors)
	assert.Equal(t, 2, data.Edges)
	assert.Equal(t, 3, data.PlayableActors)
	assert.Len(t, data.Checksum, 64)
}

func TestNotReadyTaxonomy(t *testing.T) {
	srv := notReadyServer(t)

	for _, url := range []string{
		srv.URL + "/meta",
		srv.URL + "/api/daily-pair",
		srv.URL + "/autocomplete/actors?q=a",
	} {
		resp, envelope := doJSON(t, http.MethodGet, url, nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, url)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, ErrCodeServiceUnavailable, envelope.Error.Code)
	}

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/game", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestDailyPair(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/daily-pair", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		PuzzleID    string   `json:"puzzleId"`
		StartActor  ActorRef `json:"startActor"`
		TargetActor ActorRef `json:"targetActor"`
	}
	decodeData(t, envelope, &data)
	assert.Len(t, data.PuzzleID, 8)
	assert.NotEmpty(t, data.StartActor.ID)
	assert.NotEqual(t, data.StartActor.ID, data.TargetActor.ID)
}

func TestCreateGameCustomPair(t *testing.T) {
	srv, _ := testServer(t)

	id := createGame(t, srv, "actor_1", "actor_3")

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/game/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view GameView
	decodeData(t, envelope, &view)
	assert.Equal(t, game.StateAwaitingMove, view.State)
	assert.Equal(t, "actor_1", view.StartActor.ID)
	assert.Equal(t, "actor_3", view.TargetActor.ID)
	assert.Equal(t, 3, view.MaxIncorrectGuesses)
}

func TestCreateGameRandomPair(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreateGameResponse
	decodeData(t, envelope, &created)
	assert.NotEmpty(t, created.GameID)
	assert.NotEqual(t, created.StartActor.ID, created.TargetActor.ID)
}

func TestCreateGameValidation(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name string
		body CreateGameRequest
	}{
		{name: "only start", body: CreateGameRequest{StartActorID: "actor_1"}},
		{name: "unknown actor", body: CreateGameRequest{StartActorID: "actor_1", TargetActorID: "actor_99"}},
		{name: "same actor", body: CreateGameRequest{StartActorID: "actor_1", TargetActorID: "actor_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, envelope.Success)
		})
	}
}

func TestGuessFlowToWin(t *testing.T) {
	srv, _ := testServer(t)
	id := createGame(t, srv, "actor_1", "actor_3")

	steps := []struct {
		body    GuessRequest
		success bool
		won     bool
		state   game.State
	}{
		{body: GuessRequest{MovieID: intPtr(100)}, success: true, state: game.StateAwaitingActor},
		{body: GuessRequest{ActorName: strPtr("Bob Birch")}, success: true, state: game.StateAwaitingMove},
		{body: GuessRequest{MovieID: intPtr(200)}, success: true, state: game.StateAwaitingActor},
		{body: GuessRequest{ActorName: strPtr("Cara Cole")}, success: true, won: true, state: game.StateCompletedWin},
	}

	for i, step := range steps {
		resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game/"+id+"/guess", step.body)
		require.Equal(t, http.StatusOK, resp.StatusCode, "step %d", i)

		var guess GuessResponse
		decodeData(t, envelope, &guess)
		assert.Equal(t, step.success, guess.Success, "step %d", i)
		assert.Equal(t, step.won, guess.Won, "step %d", i)
		assert.Equal(t, step.state, guess.Game.State, "step %d", i)
	}
}

func TestGuessRuleFailureIs200(t *testing.T) {
	srv, _ := testServer(t)
	id := createGame(t, srv, "actor_1", "actor_3")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game/"+id+"/guess",
		GuessRequest{MovieID: intPtr(200)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)

	var guess GuessResponse
	decodeData(t, envelope, &guess)
	assert.False(t, guess.Success)
	assert.NotEmpty(t, guess.Message)
	assert.Equal(t, 1, guess.Game.IncorrectGuesses)
}

func TestGuessUnknownSession(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game/nope/guess",
		GuessRequest{MovieID: intPtr(100)})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, ErrCodeNotFound, envelope.Error.Code)
}

func TestSwapActors(t *testing.T) {
	srv, _ := testServer(t)
	id := createGame(t, srv, "actor_1", "actor_3")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game/"+id+"/swap-actors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view GameView
	decodeData(t, envelope, &view)
	assert.Equal(t, "actor_3", view.StartActor.ID)
	assert.Equal(t, "actor_1", view.TargetActor.ID)

	// After a completed move the swap is rejected.
	doJSON(t, http.MethodPost, srv.URL+"/api/game/"+id+"/guess", GuessRequest{MovieID: intPtr(200), ActorName: strPtr("Bob Birch")})
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/game/"+id+"/swap-actors", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGiveUp(t *testing.T) {
	srv, _ := testServer(t)
	id := createGame(t, srv, "actor_1", "actor_3")

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/game/"+id+"/give-up", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view GameView
	decodeData(t, envelope, &view)
	assert.Equal(t, game.StateCompletedGaveUp, view.State)
	assert.True(t, view.GaveUp)
}

func TestOptimalPath(t *testing.T) {
	srv, _ := testServer(t)
	id := createGame(t, srv, "actor_1", "actor_3")

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/game/"+id+"/optimal-path", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var path PathResponse
	decodeData(t, envelope, &path)
	assert.Equal(t, "actor_1", path.StartActor.ID)
	assert.Equal(t, "actor_3", path.TargetActor.ID)
	require.Len(t, path.Segments, 2)
	assert.Equal(t, 100, path.Segments[0].Movie.ID)
	assert.Equal(t, "actor_2", path.Segments[0].Actor.ID)
}

func TestOptimalPaths(t *testing.T) {
	srv, _ := testServer(t)
	id := createGame(t, srv, "actor_1", "actor_3")

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/game/"+id+"/optimal-paths?max_paths=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Paths []PathResponse `json:"paths"`
	}
	decodeData(t, envelope, &data)
	require.Len(t, data.Paths, 1)
	assert.Len(t, data.Paths[0].Segments, 2)

	// Out-of-range k clamps to the 3-path ceiling instead of erroring.
	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/game/"+id+"/optimal-paths?max_paths=9", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, envelope, &data)
	assert.NotEmpty(t, data.Paths)
	assert.LessOrEqual(t, len(data.Paths), pathfind.MaxDiversePaths)

	// Non-integer k is still malformed input.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/game/"+id+"/optimal-paths?max_paths=many", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAutocompleteActors(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/autocomplete/actors?q=Alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Results []ActorRef `json:"results"`
	}
	decodeData(t, envelope, &data)
	require.Len(t, data.Results, 1)
	assert.Equal(t, "actor_1", data.Results[0].ID)
}

func TestAutocompleteValidation(t *testing.T) {
	srv, _ := testServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/autocomplete/actors", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/autocomplete/movies?q=x&limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAutocompleteLimitClamps(t *testing.T) {
	srv, _ := testServer(t)

	var data struct {
		Results []ActorRef `json:"results"`
	}

	// Above the ceiling clamps to 50 and still serves.
	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/autocomplete/actors?q=a&limit=100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, envelope, &data)
	assert.NotEmpty(t, data.Results)
	assert.LessOrEqual(t, len(data.Results), 50)

	// Below the floor clamps to a single result.
	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/autocomplete/actors?q=a&limit=0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, envelope, &data)
	assert.Len(t, data.Results, 1)
}

func TestAutocompleteMovies(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/autocomplete/movies?q=wind", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Results []MovieRef `json:"results"`
	}
	decodeData(t, envelope, &data)
	require.Len(t, data.Results, 1)
	assert.Equal(t, 200, data.Results[0].ID)
}

func TestRequestIDEchoed(t *testing.T) {
	srv, _ := testServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "upstream-id")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "upstream-id", resp.Header.Get("X-Request-ID"))
}

func TestDevIndex(t *testing.T) {
	srv, _ := testServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
