// Package events captures domain events emitted by services (ingredient
// created, list generated, ...). Events are transport-agnostic so sinks can
// fan out: an in-memory store backs tests and single-node deployments, a
// Kafka sink backs shared ones.
package events

import (
	"context"
	"time"
)

// Action is the verb of a domain event.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionGenerated Action = "generated"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Action    Action    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Device    string    `json:"device,omitempty"`
}

// Publisher accepts events for delivery. Emit is best effort from the
// caller's perspective; a failed emit never rolls back the domain write.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
