package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/omarshaarawi/leaguehub/internal/news"
)

// NewsStore keeps news items for the life of the process.
type NewsStore struct {
	mu    sync.Mutex
	items []news.Item
}

func NewNewsStore() *NewsStore {
	return &NewsStore{}
}

func (s *NewsStore) Load(context.Context) ([]news.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *NewsStore) Save(_ context.Context, items []news.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	return nil
}
