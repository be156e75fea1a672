// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cinelinks/cinelinks/internal/graph"
)

// TMDBImageBase is the CDN prefix for TMDB-hosted images.
const TMDBImageBase = "https://image.tmdb.org/t/p/"

// TMDBImage builds a CDN URL for a TMDB image path, or "" for none.
// Common sizes: w185 (autocomplete), w300 (actor refs), w500 (posters).
func TMDBImage(path, size string) string {
	if path == "" {
		return ""
	}
	return TMDBImageBase + size + path
}

// ActorEntry is one actor of the autocomplete catalog.
type ActorEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NormName string `json:"-"`
	ImageURL string `json:"imageUrl,omitempty"`
	TMDBID   int    `json:"tmdbId"`
}

// MovieEntry is one movie of the autocomplete catalog, deduplicated by
// movie id. Titles shared by several distinct movies carry a " (YYYY)"
// release-year suffix.
type MovieEntry struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	NormTitle  string `json:"-"`
	PosterPath string `json:"-"`
}

// Catalog holds the deduplicated autocomplete catalogs and the
// normalized name lookup tables. Built once at load time, read-only
// afterwards.
type Catalog struct {
	// Actors lists playable actors only, the autocomplete population.
	Actors []ActorEntry

	// Movies lists every distinct movie seen on an edge or in the
	// actor-movie index.
	Movies []MovieEntry

	actorLookup *Lookup[string]
	movieLookup *Lookup[int]
}

// Build assembles the catalog from a loaded graph store. Iteration
// orders are fixed (sorted ids) so the lookup tables and catalogs are
// identical across restarts of the same dataset.
func Build(store *graph.Store) *Catalog {
	c := &Catalog{
		actorLookup: NewLookup[string](),
		movieLookup: NewLookup[int](),
	}

	actorIDs := make([]string, 0, len(store.Actors()))
	for id := range store.Actors() {
		actorIDs = append(actorIDs, id)
	}
	sort.Strings(actorIDs)

	for _, id := range actorIDs {
		a := store.Actors()[id]
		normName := Normalize(a.Name)
		c.actorLookup.Add(normName, a.ID)
		if !a.InPlayableGraph {
			continue
		}
		c.Actors = append(c.Actors, ActorEntry{
			ID:       a.ID,
			Name:     a.Name,
			NormName: normName,
			ImageURL: TMDBImage(a.ProfilePath, "w185"),
			TMDBID:   a.TMDBID,
		})
	}

	c.Movies = collectMovies(store)
	for i := range c.Movies {
		c.Movies[i].NormTitle = Normalize(c.Movies[i].Title)
		c.movieLookup.Add(c.Movies[i].NormTitle, c.Movies[i].ID)
	}

	return c
}

// collectMovies gathers every distinct movie. Edge connector lists are
// the primary source; the actor-movie index supplies movies absent from
// every edge and fills missing posters and release dates. Duplicate
// titles across distinct ids get a release year suffix for
// disambiguation.
func collectMovies(store *graph.Store) []MovieEntry {
	type movieMeta struct {
		title       string
		posterPath  string
		releaseDate string
	}
	seen := make(map[int]movieMeta)

	for _, a := range store.Actors() {
		neighbors, err := store.Neighbors(a.ID)
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			for _, m := range store.EdgeMovies(a.ID, n) {
				meta, ok := seen[m.ID]
				if !ok {
					seen[m.ID] = movieMeta{title: m.Title, posterPath: m.PosterPath, releaseDate: m.ReleaseDate}
					continue
				}
				if meta.posterPath == "" && m.PosterPath != "" {
					meta.posterPath = m.PosterPath
					seen[m.ID] = meta
				}
			}
		}
	}
	for id, info := range store.Index().Movies {
		meta, ok := seen[id]
		if !ok {
			seen[id] = movieMeta{title: info.Title, posterPath: info.PosterPath, releaseDate: info.ReleaseDate}
			continue
		}
		if meta.posterPath == "" {
			meta.posterPath = info.PosterPath
		}
		if meta.releaseDate == "" {
			meta.releaseDate = info.ReleaseDate
		}
		seen[id] = meta
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	titleCount := make(map[string]int, len(seen))
	for _, meta := range seen {
		titleCount[meta.title]++
	}

	movies := make([]MovieEntry, 0, len(ids))
	for _, id := range ids {
		meta := seen[id]
		title := meta.title
		if titleCount[meta.title] > 1 && len(meta.releaseDate) >= 4 {
			title = fmt.Sprintf("%s (%s)", meta.title, meta.releaseDate[:4])
		}
		movies = append(movies, MovieEntry{
			ID:         id,
			Title:      title,
			PosterPath: meta.posterPath,
		})
	}
	return movies
}

// ResolveActor maps a user-supplied actor name to candidate actor ids.
func (c *Catalog) ResolveActor(name string) []string {
	return c.actorLookup.Resolve(name)
}

// ResolveMovie maps a user-supplied title to candidate movie ids.
func (c *Catalog) ResolveMovie(title string) []int {
	return c.movieLookup.Resolve(title)
}

// AutocompleteActors returns playable actors whose normalized name
// contains the normalized query, up to limit.
func (c *Catalog) AutocompleteActors(query string, limit int) []ActorEntry {
	needle := Normalize(query)
	if needle == "" || limit < 1 {
		return nil
	}
	out := make([]ActorEntry, 0, limit)
	for _, a := range c.Actors {
		if !strings.Contains(a.NormName, needle) {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// AutocompleteMovies returns movies whose normalized title contains the
// normalized query, up to limit.
func (c *Catalog) AutocompleteMovies(query string, limit int) []MovieEntry {
	needle := Normalize(query)
	if needle == "" || limit < 1 {
		return nil
	}
	out := make([]MovieEntry, 0, limit)
	for _, m := range c.Movies {
		if !strings.Contains(m.NormTitle, needle) {
			continue
		}
		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out
}
