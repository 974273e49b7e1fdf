package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"larder/internal/pantry/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// InMemoryIngredients keeps ingredients in process memory. It backs tests
// and credential-less development mode; semantics mirror the postgres store.
type InMemoryIngredients struct {
	mu    sync.RWMutex
	items map[id.IngredientID]models.Ingredient
}

func NewInMemoryIngredients() *InMemoryIngredients {
	return &InMemoryIngredients{items: make(map[id.IngredientID]models.Ingredient)}
}

func (s *InMemoryIngredients) Create(_ context.Context, ing *models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[ing.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[ing.ID] = *ing
	return nil
}

func (s *InMemoryIngredients) FindByID(_ context.Context, ingredientID id.IngredientID) (*models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ing, ok := s.items[ingredientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &ing, nil
}

func (s *InMemoryIngredients) ListByUser(_ context.Context, userID id.UserID) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ingredient, 0)
	for _, ing := range s.items {
		if ing.UserID == userID {
			out = append(out, ing)
		}
	}
	sortIngredients(out)
	return out, nil
}

func (s *InMemoryIngredients) Update(_ context.Context, ing *models.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[ing.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[ing.ID] = *ing
	return nil
}

func (s *InMemoryIngredients) Delete(_ context.Context, ingredientID id.IngredientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[ingredientID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, ingredientID)
	return nil
}

func (s *InMemoryIngredients) ListExpiring(_ context.Context, userID id.UserID, cutoff time.Time) ([]models.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ingredient, 0)
	for _, ing := range s.items {
		if ing.UserID == userID && ing.ExpiresBefore(cutoff) {
			out = append(out, ing)
		}
	}
	sortIngredients(out)
	return out, nil
}

// InMemoryLeftovers keeps leftovers in process memory.
type InMemoryLeftovers struct {
	mu    sync.RWMutex
	items map[id.LeftoverID]models.Leftover
}

func NewInMemoryLeftovers() *InMemoryLeftovers {
	return &InMemoryLeftovers{items: make(map[id.LeftoverID]models.Leftover)}
}

func (s *InMemoryLeftovers) Create(_ context.Context, l *models.Leftover) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[l.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[l.ID] = *l
	return nil
}

func (s *InMemoryLeftovers) FindByID(_ context.Context, leftoverID id.LeftoverID) (*models.Leftover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.items[leftoverID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &l, nil
}

func (s *InMemoryLeftovers) ListByUser(_ context.Context, userID id.UserID) ([]models.Leftover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Leftover, 0)
	for _, l := range s.items {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sortLeftovers(out)
	return out, nil
}

func (s *InMemoryLeftovers) Update(_ context.Context, l *models.Leftover) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[l.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[l.ID] = *l
	return nil
}

func (s *InMemoryLeftovers) Delete(_ context.Context, leftoverID id.LeftoverID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[leftoverID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, leftoverID)
	return nil
}

func (s *InMemoryLeftovers) ListExpiring(_ context.Context, userID id.UserID, cutoff time.Time) ([]models.Leftover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Leftover, 0)
	for _, l := range s.items {
		if l.UserID == userID && l.ExpiresBefore(cutoff) {
			out = append(out, l)
		}
	}
	sortLeftovers(out)
	return out, nil
}

// Map iteration order is random; stable name order keeps list responses and
// tests deterministic.
func sortIngredients(items []models.Ingredient) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}

func sortLeftovers(items []models.Leftover) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
