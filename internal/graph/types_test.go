// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package graph

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorUnmarshalPlayableDefault(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{name: "flag absent", data: `{"id":"actor_9","name":"Old Node","tmdb_id":9}`, want: true},
		{name: "flag true", data: `{"id":"actor_1","name":"A","tmdb_id":1,"in_playable_graph":true}`, want: true},
		{name: "flag false", data: `{"id":"actor_2","name":"B","tmdb_id":2,"in_playable_graph":false}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Actor
			require.NoError(t, json.Unmarshal([]byte(tt.data), &a))
			assert.Equal(t, tt.want, a.InPlayableGraph, tt.name)
		})
	}
}

func TestActorUnmarshalKeepsOtherFields(t *testing.T) {
	var a Actor
	data := `{"id":"actor_5","name":"Ada Lang","profile_path":"/ada.jpg","tmdb_id":5,"in_starting_pool":true}`
	require.NoError(t, json.Unmarshal([]byte(data), &a))

	assert.Equal(t, "actor_5", a.ID)
	assert.Equal(t, "Ada Lang", a.Name)
	assert.Equal(t, "/ada.jpg", a.ProfilePath)
	assert.Equal(t, 5, a.TMDBID)
	assert.True(t, a.InStartingPool)
	assert.True(t, a.InPlayableGraph)
}
