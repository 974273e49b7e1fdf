// Package assistant defines the port to the external AI assistant and its
// HTTP implementation.
package assistant

import (
	"context"

	recipemodels "larder/internal/recipe/models"
)

// Request carries one user turn plus the context the assistant needs to
// answer it.
type Request struct {
	UserID  string   `json:"user_id"`
	Message string   `json:"message"`
	History []Turn   `json:"history,omitempty"`
	Pantry  []string `json:"pantry,omitempty"`
}

// Turn is a prior exchange in the conversation, oldest first.
type Turn struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Response is the assistant's reply. Recipes are suggestions extracted by the
// assistant; they go through full validation before being stored.
type Response struct {
	Content string                `json:"content"`
	Recipes []recipemodels.Recipe `json:"recipes,omitempty"`
}

// Assistant produces a reply for one user turn.
type Assistant interface {
	Reply(ctx context.Context, req Request) (*Response, error)
}
