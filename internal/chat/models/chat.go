// Package models defines conversation and chat message shapes. A message's
// recipes field embeds full recipe values, so validating a message
// transitively validates every embedded recipe.
package models

import (
	"time"

	recipemodels "larder/internal/recipe/models"
	id "larder/pkg/domain"
)

// Senders form a closed set.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Conversation groups the messages of one assistant session.
type Conversation struct {
	ID        id.ConversationID `json:"id" validate:"required"`
	UserID    id.UserID         `json:"user_id" validate:"required"`
	Title     string            `json:"title" validate:"required,min=1,max=255"`
	Device    string            `json:"device" validate:"max=100"`
	CreatedAt time.Time         `json:"created_at" validate:"required"`
	UpdatedAt time.Time         `json:"updated_at" validate:"required"`
}

type ConversationInsert struct {
	UserID id.UserID `json:"user_id" validate:"required"`
	Title  string    `json:"title" validate:"required,min=1,max=255"`
	Device string    `json:"device" validate:"max=100"`
}

type ConversationUpdate struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
}

func NewConversation(conversationID id.ConversationID, ins ConversationInsert, now time.Time) *Conversation {
	return &Conversation{
		ID:        conversationID,
		UserID:    ins.UserID,
		Title:     ins.Title,
		Device:    ins.Device,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Conversation) Apply(upd ConversationUpdate, now time.Time) {
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	c.UpdatedAt = now
}

// Message is one chat turn. Recipes is optional and nullable; when present,
// every element is held to the full recipe contract.
type Message struct {
	ID             id.MessageID          `json:"id" validate:"required"`
	ConversationID id.ConversationID     `json:"conversation_id" validate:"required"`
	Sender         string                `json:"sender" validate:"required,oneof=user ai"`
	Content        string                `json:"content" validate:"required,min=1,max=10000"`
	Recipes        []recipemodels.Recipe `json:"recipes,omitempty" validate:"omitempty,dive"`
	CreatedAt      time.Time             `json:"created_at" validate:"required"`
	UpdatedAt      time.Time             `json:"updated_at" validate:"required"`
}

type MessageInsert struct {
	ConversationID id.ConversationID     `json:"conversation_id" validate:"required"`
	Sender         string                `json:"sender" validate:"required,oneof=user ai"`
	Content        string                `json:"content" validate:"required,min=1,max=10000"`
	Recipes        []recipemodels.Recipe `json:"recipes,omitempty" validate:"omitempty,dive"`
}

func NewMessage(messageID id.MessageID, ins MessageInsert, now time.Time) *Message {
	return &Message{
		ID:             messageID,
		ConversationID: ins.ConversationID,
		Sender:         ins.Sender,
		Content:        ins.Content,
		Recipes:        ins.Recipes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
