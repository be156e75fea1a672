// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package api

import (
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/cinelinks/cinelinks/internal/config"
	"github.com/cinelinks/cinelinks/internal/game"
	"github.com/cinelinks/cinelinks/internal/graph"
	"github.com/cinelinks/cinelinks/internal/index"
	"github.com/cinelinks/cinelinks/internal/logging"
	"github.com/cinelinks/cinelinks/internal/metrics"
	"github.com/cinelinks/cinelinks/internal/pathfind"
	"github.com/cinelinks/cinelinks/internal/puzzle"
)

// notReadyMessage is returned on graph endpoints while artifacts are
// missing.
const notReadyMessage = "Graph data is not loaded. The service is starting or misconfigured."

// randomPairAttempts bounds sampling for a non-adjacent custom-game pair.
const randomPairAttempts = 100

// Autocomplete limit bounds; out-of-range values clamp rather than 400.
const (
	autocompleteLimitDefault = 10
	autocompleteLimitMax     = 50
)

// Handler carries the handler dependencies. store and catalog are nil
// until graph artifacts load; graph endpoints answer 503 meanwhile.
type Handler struct {
	cfg      *config.Config
	store    *graph.Store
	catalog  *index.Catalog
	registry *game.Registry
	selector *puzzle.Selector
	paths    *pathfind.Engine
}

// NewHandler creates the handler set. store, catalog, selector, and
// paths may be nil when the graph failed to load.
func NewHandler(cfg *config.Config, store *graph.Store, catalog *index.Catalog,
	registry *game.Registry, selector *puzzle.Selector, paths *pathfind.Engine) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    store,
		catalog:  catalog,
		registry: registry,
		selector: selector,
		paths:    paths,
	}
}

// ready reports whether graph-backed endpoints can serve.
func (h *Handler) ready() bool {
	return h.store != nil && h.catalog != nil
}

// Health handles GET /health. Always 200; readiness is a field, not a
// status code, so load balancers keep routing while artifacts rebuild.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"ok":      true,
		"ready":   h.ready(),
		"service": "cinelinks",
	})
}

// Meta handles GET /meta: dataset totals and the graph checksum.
func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.ready() {
		rw.ServiceUnavailable(notReadyMessage)
		return
	}

	rw.Success(map[string]interface{}{
		"actors":               h.store.ActorCount(),
		"edges":                h.store.EdgeCount(),
		"movies":               h.store.MovieCount(),
		"playable_actors":      len(h.store.PlayableActors()),
		"starting_pool_actors": len(h.store.StartingPool()),
		"checksum":             h.store.Checksum(),
	})
}

// DailyPair handles GET /api/daily-pair.
func (h *Handler) DailyPair(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.ready() {
		rw.ServiceUnavailable(notReadyMessage)
		return
	}

	key := h.selector.TodayKey()
	start, target, err := h.selector.PairForKey(key)
	if err != nil {
		logging.Err(err).Str("puzzle_key", key).Msg("Daily pair selection failed")
		rw.InternalError("Could not generate the daily puzzle.")
		return
	}

	rw.Success(map[string]interface{}{
		"puzzleId":    key,
		"startActor":  h.actorRef(start),
		"targetActor": h.actorRef(target),
	})
}

// CreateGameResponse is the payload for POST /api/game.
type CreateGameResponse struct {
	GameID              string   `json:"gameId"`
	StartActor          ActorRef `json:"startActor"`
	TargetActor         ActorRef `json:"targetActor"`
	MaxIncorrectGuesses int      `json:"maxIncorrectGuesses"`
}

// CreateGame handles POST /api/game. An empty body or both ids omitted
// picks a random valid pair from the starting pool.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.ready() {
		rw.ServiceUnavailable(notReadyMessage)
		return
	}

	var req CreateGameRequest
	if err := decodeBody(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body.")
		return
	}
	if details, err := validateRequest(&req); err != nil {
		rw.ValidationError("Invalid request.", details)
		return
	}

	hasStart := req.StartActorID != ""
	hasTarget := req.TargetActorID != ""
	if hasStart != hasTarget {
		rw.BadRequest("Provide both startActorId and targetActorId, or neither.")
		return
	}

	var start, target string
	if hasStart {
		for _, id := range []string{req.StartActorID, req.TargetActorID} {
			a, err := h.store.Actor(id)
			if err != nil || !a.InPlayableGraph {
				rw.BadRequest("Actor " + id + " is not in the playable graph.")
				return
			}
		}
		if req.StartActorID == req.TargetActorID {
			rw.BadRequest("Start and target must be distinct actors.")
			return
		}
		start, target = req.StartActorID, req.TargetActorID
	} else {
		var err error
		start, target, err = h.randomPair()
		if err != nil {
			rw.InternalError("Could not pick a starting pair.")
			return
		}
	}

	g := game.New(h.store, h.catalog, start, target, h.cfg.Game.MaxIncorrect)
	id := h.registry.Create(g)

	metrics.GamesCreated.Inc()
	metrics.SessionsLive.Set(float64(h.registry.Len()))
	logging.Info().Str("game_id", id).Str("start", start).Str("target", target).Msg("Created game session")

	rw.Created(CreateGameResponse{
		GameID:              id,
		StartActor:          h.actorRef(start),
		TargetActor:         h.actorRef(target),
		MaxIncorrectGuesses: h.cfg.Game.MaxIncorrect,
	})
}

// randomPair samples a distinct non-adjacent pair from the starting
// pool, relaxing adjacency when sampling keeps colliding.
func (h *Handler) randomPair() (string, string, error) {
	pool := h.store.StartingPool()
	if len(pool) < 2 {
		return "", "", puzzle.ErrPoolTooSmall
	}

	for attempt := 0; attempt < randomPairAttempts; attempt++ {
		start := pool[rand.Intn(len(pool))]
		target := pool[rand.Intn(len(pool))]
		if start == target || h.store.HasEdge(start, target) {
			continue
		}
		return start, target, nil
	}

	start := pool[rand.Intn(len(pool))]
	target := pool[rand.Intn(len(pool))]
	for start == target {
		target = pool[rand.Intn(len(pool))]
	}
	return start, target, nil
}

// GetGame handles GET /api/game/{id}.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, g, ok := h.session(rw, r)
	if !ok {
		return
	}
	rw.Success(h.gameView(id, g.Snapshot()))
}

// Guess handles POST /api/game/{id}/guess. Rule failures come back 200
// with success=false; only malformed requests are 4xx.
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, g, ok := h.session(rw, r)
	if !ok {
		return
	}

	var req GuessRequest
	if err := decodeBody(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body.")
		return
	}
	if details, err := validateRequest(&req); err != nil {
		rw.ValidationError("Invalid request.", details)
		return
	}

	result := g.Guess(req.MovieID, req.ActorName)
	snap := g.Snapshot()

	h.recordGuessMetrics(req, result, snap)

	resp := GuessResponse{
		Success: result.Success,
		Message: result.Message,
		Won:     result.Won,
		Game:    h.gameView(id, snap),
	}
	if result.Movie != nil {
		movie := movieRef(*result.Movie)
		resp.Movie = &movie
	}
	rw.Success(resp)
}

// recordGuessMetrics classifies one guess for the counters.
func (h *Handler) recordGuessMetrics(req GuessRequest, result game.Result, snap game.Snapshot) {
	kind := "pair"
	switch {
	case req.MovieID != nil && req.ActorName == nil:
		kind = "movie"
	case req.MovieID == nil && req.ActorName != nil:
		kind = "actor"
	}
	outcome := "rejected"
	if result.Success {
		outcome = "accepted"
	}
	metrics.GuessesTotal.WithLabelValues(kind, outcome).Inc()

	switch {
	case result.Won:
		metrics.GamesCompleted.WithLabelValues("win").Inc()
	case snap.State == game.StateCompletedLoss:
		metrics.GamesCompleted.WithLabelValues("loss").Inc()
	}
}

// SwapActors handles POST /api/game/{id}/swap-actors.
func (h *Handler) SwapActors(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, g, ok := h.session(rw, r)
	if !ok {
		return
	}

	if err := g.SwapActors(); err != nil {
		rw.BadRequest("Actors can only be swapped before the first move.")
		return
	}
	rw.Success(h.gameView(id, g.Snapshot()))
}

// GiveUp handles POST /api/game/{id}/give-up.
func (h *Handler) GiveUp(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, g, ok := h.session(rw, r)
	if !ok {
		return
	}

	already := g.Snapshot().Completed
	g.GiveUp()
	if !already {
		metrics.GamesCompleted.WithLabelValues("gave_up").Inc()
	}
	rw.Success(h.gameView(id, g.Snapshot()))
}

// OptimalPath handles GET /api/game/{id}/optimal-path: the single best
// shortest path between the session endpoints.
func (h *Handler) OptimalPath(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, g, ok := h.session(rw, r)
	if !ok {
		return
	}

	snap := g.Snapshot()
	path, err := h.paths.BestPath(snap.Start, snap.Target)
	if err != nil {
		h.pathError(rw, err)
		return
	}
	rw.Success(h.pathResponse(path, h.paths.Segments(path)))
}

// OptimalPaths handles GET /api/game/{id}/optimal-paths?max_paths=k:
// up to k mutually diverse shortest paths.
func (h *Handler) OptimalPaths(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, g, ok := h.session(rw, r)
	if !ok {
		return
	}

	maxPaths := pathfind.MaxDiversePaths
	if raw := r.URL.Query().Get("max_paths"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("max_paths must be an integer.")
			return
		}
		maxPaths = n
	}
	// Out-of-range k clamps; only non-integer input is rejected.
	if maxPaths < 1 {
		maxPaths = 1
	}
	if maxPaths > pathfind.MaxDiversePaths {
		maxPaths = pathfind.MaxDiversePaths
	}

	snap := g.Snapshot()
	paths, err := h.paths.DiversePaths(snap.Start, snap.Target, maxPaths)
	if err != nil {
		h.pathError(rw, err)
		return
	}

	out := make([]PathResponse, 0, len(paths))
	for _, p := range paths {
		out = append(out, h.pathResponse(p, h.paths.Segments(p)))
	}
	rw.Success(map[string]interface{}{
		"startActor":  h.actorRef(snap.Start),
		"targetActor": h.actorRef(snap.Target),
		"paths":       out,
	})
}

// pathError maps path engine failures to status codes. A missing path
// on a loaded graph means a broken artifact, an internal fault.
func (h *Handler) pathError(rw *ResponseWriter, err error) {
	if errors.Is(err, pathfind.ErrActorNotInGraph) {
		rw.BadRequest("One of the actors is not in the graph.")
		return
	}
	logging.Err(err).Msg("Path computation failed")
	rw.InternalError("Could not compute a path between the actors.")
}

// AutocompleteActors handles GET /autocomplete/actors.
func (h *Handler) AutocompleteActors(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.ready() {
		rw.ServiceUnavailable(notReadyMessage)
		return
	}

	req, ok := autocompleteParams(rw, r)
	if !ok {
		return
	}

	entries := h.catalog.AutocompleteActors(req.Query, req.Limit)
	out := make([]ActorRef, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActorRef{ID: e.ID, Name: e.Name, ImageURL: e.ImageURL})
	}
	rw.Success(map[string]interface{}{"results": out})
}

// AutocompleteMovies handles GET /autocomplete/movies.
func (h *Handler) AutocompleteMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.ready() {
		rw.ServiceUnavailable(notReadyMessage)
		return
	}

	req, ok := autocompleteParams(rw, r)
	if !ok {
		return
	}

	entries := h.catalog.AutocompleteMovies(req.Query, req.Limit)
	out := make([]MovieRef, 0, len(entries))
	for _, e := range entries {
		out = append(out, MovieRef{
			ID:        e.ID,
			Title:     e.Title,
			PosterURL: index.TMDBImage(e.PosterPath, "w185"),
		})
	}
	rw.Success(map[string]interface{}{"results": out})
}

// autocompleteParams parses q and limit. Out-of-range limits clamp to
// [1, 50]; only a missing q or non-integer limit is rejected.
func autocompleteParams(rw *ResponseWriter, r *http.Request) (AutocompleteRequest, bool) {
	req := AutocompleteRequest{
		Query: r.URL.Query().Get("q"),
		Limit: autocompleteLimitDefault,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("limit must be an integer.")
			return req, false
		}
		req.Limit = n
	}
	if req.Limit < 1 {
		req.Limit = 1
	}
	if req.Limit > autocompleteLimitMax {
		req.Limit = autocompleteLimitMax
	}
	if details, err := validateRequest(&req); err != nil {
		rw.ValidationError("q is required.", details)
		return req, false
	}
	return req, true
}

// Index handles GET / outside production: a JSON map of the API surface.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"service": "cinelinks",
		"endpoints": []string{
			"GET /health",
			"GET /meta",
			"GET /api/daily-pair",
			"POST /api/game",
			"GET /api/game/{id}",
			"POST /api/game/{id}/guess",
			"POST /api/game/{id}/swap-actors",
			"POST /api/game/{id}/give-up",
			"GET /api/game/{id}/optimal-path",
			"GET /api/game/{id}/optimal-paths",
			"GET /autocomplete/actors",
			"GET /autocomplete/movies",
			"GET /metrics",
		},
	})
}

// session resolves the {id} path parameter to a live game, writing the
// 404 or 503 itself when it cannot.
func (h *Handler) session(rw *ResponseWriter, r *http.Request) (string, *game.Game, bool) {
	if !h.ready() {
		rw.ServiceUnavailable(notReadyMessage)
		return "", nil, false
	}

	id := chi.URLParam(r, "id")
	g, err := h.registry.Get(id)
	if err != nil {
		rw.NotFound("Game session not found or expired.")
		return "", nil, false
	}
	return id, g, true
}

// decodeBody decodes a JSON request body, treating an empty body as the
// zero request.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
