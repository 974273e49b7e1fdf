package store

import (
	"context"
	"sort"
	"sync"

	"larder/internal/chat/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// InMemoryConversations keeps conversations in process memory. Deleting a
// conversation cascades to its messages when the message store is attached.
type InMemoryConversations struct {
	mu    sync.RWMutex
	items map[id.ConversationID]models.Conversation

	messageStore *InMemoryMessages
}

func NewInMemoryConversations() *InMemoryConversations {
	return &InMemoryConversations{items: make(map[id.ConversationID]models.Conversation)}
}

// AttachMessages wires the message store for delete cascades.
func (s *InMemoryConversations) AttachMessages(messages *InMemoryMessages) {
	s.messageStore = messages
}

func (s *InMemoryConversations) Create(_ context.Context, c *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[c.ID] = *c
	return nil
}

func (s *InMemoryConversations) FindByID(_ context.Context, conversationID id.ConversationID) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[conversationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryConversations) ListByUser(_ context.Context, userID id.UserID) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Conversation, 0)
	for _, c := range s.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	// Most recently active first.
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *InMemoryConversations) Update(_ context.Context, c *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[c.ID] = *c
	return nil
}

func (s *InMemoryConversations) Delete(ctx context.Context, conversationID id.ConversationID) error {
	s.mu.Lock()
	if _, ok := s.items[conversationID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.items, conversationID)
	s.mu.Unlock()

	if s.messageStore != nil {
		s.messageStore.deleteByConversation(ctx, conversationID)
	}
	return nil
}

// InMemoryMessages keeps chat messages in process memory. Insertion order
// breaks timestamp ties, since both turns of an exchange share the request's
// pinned clock.
type InMemoryMessages struct {
	mu    sync.RWMutex
	items map[id.MessageID]models.Message
	seq   map[id.MessageID]int
	next  int
}

func NewInMemoryMessages() *InMemoryMessages {
	return &InMemoryMessages{
		items: make(map[id.MessageID]models.Message),
		seq:   make(map[id.MessageID]int),
	}
}

func (s *InMemoryMessages) Create(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[m.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[m.ID] = *m
	s.seq[m.ID] = s.next
	s.next++
	return nil
}

func (s *InMemoryMessages) ListByConversation(_ context.Context, conversationID id.ConversationID) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, 0)
	for _, m := range s.items {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

func (s *InMemoryMessages) deleteByConversation(_ context.Context, conversationID id.ConversationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for messageID, m := range s.items {
		if m.ConversationID == conversationID {
			delete(s.items, messageID)
			delete(s.seq, messageID)
		}
	}
}
