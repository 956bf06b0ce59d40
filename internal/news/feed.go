package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	ErrEmptyContent = errors.New("news content is empty")
	ErrNotFound     = errors.New("news item not found")
)

// StoreKey is the single key the whole feed is persisted under.
const StoreKey = "leagueNews"

// Item is one admin-posted update. ID and Date are unix milliseconds.
type Item struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	Date     int64  `json:"date"`
	Archived bool   `json:"isArchived"`
}

func (i Item) Posted() time.Time {
	return time.UnixMilli(i.Date)
}

// Store persists the full item list, newest first.
type Store interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// Feed is the in-process news list. Every change rewrites the store; a failed
// write leaves the in-memory list unchanged.
type Feed struct {
	store Store
	clock clockwork.Clock

	mu    sync.RWMutex
	items []Item
}

func NewFeed(store Store, clock clockwork.Clock) *Feed {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Feed{store: store, clock: clock}
}

// Open loads persisted items. An unreadable store starts the feed empty.
func (f *Feed) Open(ctx context.Context) {
	items, err := f.store.Load(ctx)
	if err != nil {
		slog.Error("Failed to load stored news", "error", err)
		items = nil
	}

	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
}

func (f *Feed) Add(ctx context.Context, content string) (Item, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Item{}, ErrEmptyContent
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now().UnixMilli()
	id := now
	for _, it := range f.items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	item := Item{ID: id, Content: content, Date: now}

	next := append([]Item{item}, f.items...)
	if err := f.commit(ctx, next); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (f *Feed) Archive(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := slices.IndexFunc(f.items, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		return ErrNotFound
	}
	next := slices.Clone(f.items)
	next[idx].Archived = true
	return f.commit(ctx, next)
}

// ClearArchived permanently removes archived items and reports how many went.
func (f *Feed) ClearArchived(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(f.items), func(it Item) bool { return it.Archived })
	removed := len(f.items) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := f.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

func (f *Feed) Visible() []Item {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []Item{}
	for _, it := range f.items {
		if !it.Archived {
			out = append(out, it)
		}
	}
	return out
}

func (f *Feed) ArchivedCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for _, it := range f.items {
		if it.Archived {
			n++
		}
	}
	return n
}

func (f *Feed) commit(ctx context.Context, items []Item) error {
	if err := f.store.Save(ctx, items); err != nil {
		return fmt.Errorf("failed to save news: %w", err)
	}
	f.items = items
	return nil
}
