package store

import (
	"context"
	"sync"

	"larder/internal/profile/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// InMemory keeps profiles in process memory.
type InMemory struct {
	mu    sync.RWMutex
	items map[id.UserID]models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[id.UserID]models.Profile)}
}

func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[p.UserID]; exists {
		return sentinel.ErrConflict
	}
	s.items[p.UserID] = *p
	return nil
}

func (s *InMemory) FindByUser(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemory) Update(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.UserID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[p.UserID] = *p
	return nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[userID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, userID)
	return nil
}
