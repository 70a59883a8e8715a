package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Repository is the in-memory product store. The demo boots with a seeded
// catalog; owners and admins can grow and edit it at runtime, but nothing
// persists across restarts.
type Repository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	items map[uuid.UUID]Item
}

// NewRepository builds a store holding the provided items in order.
func NewRepository(items []Item) *Repository {
	repo := &Repository{
		items: make(map[uuid.UUID]Item, len(items)),
	}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		repo.order = append(repo.order, item.ID)
		repo.items[item.ID] = item
	}
	return repo
}

// ListFilter narrows List results.
type ListFilter struct {
	Query    string
	Category string
}

// List returns active items matching the filter, in catalog order.
func (r *Repository) List(_ context.Context, filter ListFilter) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)

	var result []Item
	for _, id := range r.order {
		item := r.items[id]
		if !item.IsActive {
			continue
		}
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(item.Barcode, query) {
			continue
		}
		result = append(result, item)
	}
	return result
}

// GetByID returns the item when present.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item, ok
}

// GetByBarcode returns the active item with the exact barcode.
func (r *Repository) GetByBarcode(_ context.Context, barcode string) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		item := r.items[id]
		if item.Barcode == barcode && item.IsActive {
			return item, true
		}
	}
	return Item{}, false
}

// Create appends a new item, assigning an id when absent.
func (r *Repository) Create(_ context.Context, item Item) Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.order = append(r.order, item.ID)
	r.items[item.ID] = item
	return item
}

// Update replaces a stored item, keeping its catalog position. Open carts see
// the new price on their next computation.
func (r *Repository) Update(_ context.Context, item Item) (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return Item{}, false
	}
	r.items[item.ID] = item
	return item, true
}

// SetActive toggles an item without touching its other fields. A deactivated
// item disappears from listings and scans but keeps pricing lines already in
// carts resolvable.
func (r *Repository) SetActive(_ context.Context, id uuid.UUID, active bool) (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return Item{}, false
	}
	item.IsActive = active
	r.items[id] = item
	return item, true
}
