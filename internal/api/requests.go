// CineLinks - Six Degrees of Co-Starring Game Server
// Copyright 2026 CineLinks contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelinks/cinelinks

package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. go-playground/validator is
// safe for concurrent use and caches struct metadata.
var validate = validator.New()

// CreateGameRequest is the request body for POST /api/game. The pair is
// both-or-neither: omitting both selects a random valid pair from the
// starting pool.
type CreateGameRequest struct {
	StartActorID  string `json:"startActorId" validate:"omitempty,min=1"`
	TargetActorID string `json:"targetActorId" validate:"omitempty,min=1"`
}

// GuessRequest is the request body for POST /api/game/{id}/guess.
// Pointer fields distinguish "absent" from zero values; at least one
// must be present, checked by the handler.
type GuessRequest struct {
	MovieID   *int    `json:"movieId" validate:"omitempty,min=1"`
	ActorName *string `json:"actorName" validate:"omitempty,min=1"`
}

// AutocompleteRequest holds the query parameters for the autocomplete
// endpoints. Limit is clamped by the handler, not validated.
type AutocompleteRequest struct {
	Query string `validate:"required,min=1"`
	Limit int
}

// validateRequest runs struct validation and converts failures to a
// field-by-field detail map for the 400 response body.
func validateRequest(req interface{}) (map[string]string, error) {
	err := validate.Struct(req)
	if err == nil {
		return nil, nil
	}

	details := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fmt.Sprintf("failed %q validation", fe.Tag())
		}
	}
	return details, err
}
