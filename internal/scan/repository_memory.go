package scan

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"menuscan/internal/menu"

	"github.com/google/uuid"
)

// InMemoryRepository keeps scans in process memory. It backs the API when
// no DATABASE_URL is configured and serves as the fake in tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	scans map[string]*Scan
	items map[string][]menu.MenuItem
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		scans: make(map[string]*Scan),
		items: make(map[string][]menu.MenuItem),
	}
}

func (r *InMemoryRepository) CreateScan(_ context.Context, s *Scan) error {
	prepareScan(s)

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	r.scans[s.ID] = &cp
	r.order = append(r.order, s.ID)
	return nil
}

func (r *InMemoryRepository) InsertItems(_ context.Context, scanID string, items []menu.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scans[scanID]; !ok {
		return ErrNotFound
	}
	r.appendItems(scanID, items, time.Now().UTC())
	return nil
}

func (r *InMemoryRepository) CreateScanWithItems(_ context.Context, s *Scan, items []menu.MenuItem) error {
	prepareScan(s)

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	r.scans[s.ID] = &cp
	r.order = append(r.order, s.ID)
	r.appendItems(s.ID, items, s.CreatedAt)

	s.ItemCount = len(items)
	return nil
}

func (r *InMemoryRepository) appendItems(scanID string, items []menu.MenuItem, createdAt time.Time) {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.ScanID = scanID
		ts := createdAt
		it.CreatedAt = &ts
		r.items[scanID] = append(r.items[scanID], cloneItem(*it))
	}
}

func (r *InMemoryRepository) GetScan(_ context.Context, scanID string) (*Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scans[scanID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	cp.ItemCount = len(r.items[scanID])
	return &cp, nil
}

func (r *InMemoryRepository) ListScansByUser(_ context.Context, userID string, limit int) ([]Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scans := []Scan{}
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		s := r.scans[id]
		if s.UserID != userID {
			continue
		}
		cp := *s
		cp.ItemCount = len(r.items[id])
		scans = append(scans, cp)
	}
	sort.SliceStable(scans, func(i, j int) bool {
		return scans[i].CreatedAt.After(scans[j].CreatedAt)
	})
	if limit > 0 && len(scans) > limit {
		scans = scans[:limit]
	}
	return scans, nil
}

func (r *InMemoryRepository) ListItemsByScan(_ context.Context, scanID string) ([]menu.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]menu.MenuItem, 0, len(r.items[scanID]))
	for _, it := range r.items[scanID] {
		items = append(items, cloneItem(it))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DishName < items[j].DishName
	})
	return items, nil
}

func (r *InMemoryRepository) QueryItems(_ context.Context, q ItemQuery) ([]menu.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(q.NameContains)
	restaurant := strings.ToLower(q.RestaurantName)

	items := []menu.MenuItem{}
	// newest scan first, matching the Postgres ordering
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		s := r.scans[id]
		if q.ScanID != "" && q.ScanID != id {
			continue
		}
		if restaurant != "" && !scanMentions(s, restaurant) {
			continue
		}
		for _, it := range r.items[id] {
			if name != "" && !strings.Contains(strings.ToLower(it.DishName), name) {
				continue
			}
			if q.MaxPrice != nil && (it.Price == nil || *it.Price > *q.MaxPrice) {
				continue
			}
			items = append(items, cloneItem(it))
		}
	}
	return items, nil
}

func (r *InMemoryRepository) UpdateItem(_ context.Context, scanID string, item *menu.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, it := range r.items[scanID] {
		if it.ID != item.ID {
			continue
		}
		item.ScanID = scanID
		item.CreatedAt = it.CreatedAt
		r.items[scanID][i] = cloneItem(*item)
		return nil
	}
	return ErrItemMissing
}

func (r *InMemoryRepository) DeleteItem(_ context.Context, scanID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.items[scanID]
	for i, it := range items {
		if it.ID == itemID {
			r.items[scanID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrItemMissing
}

func (r *InMemoryRepository) DeleteScan(_ context.Context, scanID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scans[scanID]; !ok {
		return ErrNotFound
	}
	delete(r.scans, scanID)
	delete(r.items, scanID)
	for i, id := range r.order {
		if id == scanID {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func scanMentions(s *Scan, lowered string) bool {
	if s.RestaurantName != nil && strings.Contains(strings.ToLower(*s.RestaurantName), lowered) {
		return true
	}
	return strings.Contains(strings.ToLower(s.RawText), lowered)
}

// cloneItem copies the slices so callers cannot mutate stored state.
func cloneItem(it menu.MenuItem) menu.MenuItem {
	it.Ingredients = cloneStrings(it.Ingredients)
	it.Allergens = cloneStrings(it.Allergens)
	it.DietaryTags = cloneStrings(it.DietaryTags)
	return it
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
