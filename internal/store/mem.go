package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/kodhane/mevra/internal/model"
)

// MemStore is an in-memory LocalStore used by tests and as a seed source.
type MemStore struct {
	mu    sync.RWMutex
	items []model.CatalogItem
	next  int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{next: 1}
}

// Add inserts an item, assigning a local numeric id, and returns the id.
func (s *MemStore) Add(item model.CatalogItem) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = strconv.Itoa(s.next)
	item.Origin = model.OriginLocal
	s.next++
	s.items = append(s.items, item)
	return item.ID
}

// FindByText returns matching items ranked by weighted score.
func (s *MemStore) FindByText(ctx context.Context, words []string, filters model.Filters) ([]model.CatalogItem, error) {
	if len(words) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.CatalogItem
	scores := make(map[string]int)
	for _, item := range s.items {
		if !filters.Matches(item) {
			continue
		}
		if score := scoreItem(item, words); score > 0 {
			scores[item.ID] = score
			matched = append(matched, item)
		}
	}
	rankItems(matched, scores)

	return matched, nil
}

// FindByNumber returns the first item with the given number, or nil.
func (s *MemStore) FindByNumber(ctx context.Context, number string) (*model.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.Number == number {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

// FindByID returns the item with the given local id, or nil.
func (s *MemStore) FindByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error {
	return nil
}
