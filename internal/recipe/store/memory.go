package store

import (
	"context"
	"sort"
	"sync"

	"larder/internal/recipe/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// InMemory keeps recipes in process memory.
type InMemory struct {
	mu    sync.RWMutex
	items map[id.RecipeID]models.Recipe
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[id.RecipeID]models.Recipe)}
}

func (s *InMemory) Create(_ context.Context, r *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[r.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[r.ID] = *r
	return nil
}

func (s *InMemory) FindByID(_ context.Context, recipeID id.RecipeID) (*models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[recipeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Recipe, 0)
	for _, r := range s.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, r *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[r.ID] = *r
	return nil
}

func (s *InMemory) Delete(_ context.Context, recipeID id.RecipeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[recipeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, recipeID)
	return nil
}

func (s *InMemory) Match(_ context.Context, userID id.UserID, params MatchParams) ([]models.Match, error) {
	pantry := make(map[string]struct{}, len(params.Pantry))
	for _, name := range params.Pantry {
		pantry[name] = struct{}{}
	}

	s.mu.RLock()
	matches := make([]models.Match, 0)
	for _, r := range s.items {
		if r.UserID != userID {
			continue
		}
		names := r.IngredientNames()
		if len(names) == 0 {
			continue
		}
		covered := 0
		for _, name := range names {
			if _, ok := pantry[name]; ok {
				covered++
			}
		}
		percent := float64(covered) / float64(len(names)) * 100
		if percent < params.MinPercent {
			continue
		}
		matches = append(matches, models.Match{
			Recipe:       r,
			MatchPercent: percent,
			MissingCount: len(names) - covered,
		})
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchPercent != matches[j].MatchPercent {
			return matches[i].MatchPercent > matches[j].MatchPercent
		}
		return matches[i].Recipe.Title < matches[j].Recipe.Title
	})
	return page(matches, params.Limit, params.Offset), nil
}

// page applies the same paging defaults as the SQL store: a non-positive
// limit falls back to 50, a negative offset reads from the start.
func page(matches []models.Match, limit, offset int) []models.Match {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		return []models.Match{}
	}
	matches = matches[offset:]
	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches
}
