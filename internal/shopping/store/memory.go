package store

import (
	"context"
	"sort"
	"sync"

	"larder/internal/shopping/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// InMemoryLists keeps shopping lists in process memory. Deleting a list
// cascades to its items when the item store is attached, mirroring the
// foreign-key cascade in postgres.
type InMemoryLists struct {
	mu    sync.RWMutex
	items map[id.ListID]models.List

	itemStore *InMemoryItems
}

func NewInMemoryLists() *InMemoryLists {
	return &InMemoryLists{items: make(map[id.ListID]models.List)}
}

// AttachItems wires the item store for delete cascades.
func (s *InMemoryLists) AttachItems(items *InMemoryItems) {
	s.itemStore = items
}

func (s *InMemoryLists) Create(_ context.Context, l *models.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[l.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[l.ID] = *l
	return nil
}

func (s *InMemoryLists) FindByID(_ context.Context, listID id.ListID) (*models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.items[listID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &l, nil
}

func (s *InMemoryLists) ListByUser(_ context.Context, userID id.UserID) ([]models.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.List, 0)
	for _, l := range s.items {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryLists) Update(_ context.Context, l *models.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[l.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[l.ID] = *l
	return nil
}

func (s *InMemoryLists) Delete(ctx context.Context, listID id.ListID) error {
	s.mu.Lock()
	if _, ok := s.items[listID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.items, listID)
	s.mu.Unlock()

	if s.itemStore != nil {
		s.itemStore.deleteByList(ctx, listID)
	}
	return nil
}

// InMemoryItems keeps shopping list items in process memory.
type InMemoryItems struct {
	mu    sync.RWMutex
	items map[id.ListItemID]models.Item
}

func NewInMemoryItems() *InMemoryItems {
	return &InMemoryItems{items: make(map[id.ListItemID]models.Item)}
}

func (s *InMemoryItems) Create(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[item.ID] = *item
	return nil
}

func (s *InMemoryItems) FindByID(_ context.Context, itemID id.ListItemID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &item, nil
}

func (s *InMemoryItems) ListByList(_ context.Context, listID id.ListID) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Item, 0)
	for _, item := range s.items {
		if item.ListID == listID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryItems) Update(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[item.ID] = *item
	return nil
}

func (s *InMemoryItems) Delete(_ context.Context, itemID id.ListItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *InMemoryItems) deleteByList(_ context.Context, listID id.ListID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for itemID, item := range s.items {
		if item.ListID == listID {
			delete(s.items, itemID)
		}
	}
}
