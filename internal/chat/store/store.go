// Package store persists conversations and chat messages.
package store

import (
	"context"

	"larder/internal/chat/models"
	id "larder/pkg/domain"
)

// ConversationStore is the persistence contract for conversations.
type ConversationStore interface {
	Create(ctx context.Context, c *models.Conversation) error
	FindByID(ctx context.Context, conversationID id.ConversationID) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Conversation, error)
	Update(ctx context.Context, c *models.Conversation) error
	// Delete removes the conversation and all of its messages.
	Delete(ctx context.Context, conversationID id.ConversationID) error
}

// MessageStore is the persistence contract for chat messages.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	// ListByConversation returns messages oldest first.
	ListByConversation(ctx context.Context, conversationID id.ConversationID) ([]models.Message, error)
}
