package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"menuscan/internal/menu"
	"menuscan/internal/scan"

	"github.com/google/uuid"
)

// ItemSource is the read side of the scan store.
type ItemSource interface {
	QueryItems(ctx context.Context, q scan.ItemQuery) ([]menu.MenuItem, error)
}

// FilterOptions lists the values a search UI can offer.
type FilterOptions struct {
	Categories  []string `json:"categories"`
	DietaryTags []string `json:"dietaryTags"`
	Allergens   []string `json:"allergens"`
}

type Service struct {
	items ItemSource
	log   *slog.Logger
}

func NewService(items ItemSource, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{items: items, log: log}
}

// Search narrows candidates at the store, then applies the full matching
// rules in process.
func (s *Service) Search(ctx context.Context, q Query) ([]menu.MenuItem, error) {
	if q.ScanID != "" {
		if _, err := uuid.Parse(q.ScanID); err != nil {
			return []menu.MenuItem{}, nil
		}
	}

	candidates, err := s.items.QueryItems(ctx, scan.ItemQuery{
		NameContains:   strings.TrimSpace(q.Term),
		MaxPrice:       q.MaxPrice,
		RestaurantName: q.RestaurantName,
		ScanID:         q.ScanID,
	})
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	results := SearchMenuItems(candidates, q)
	s.log.Debug("search done",
		"term", q.Term,
		"candidates", len(candidates),
		"results", len(results),
	)
	return results, nil
}

func (s *Service) SearchIngredients(ctx context.Context, q IngredientQuery) ([]menu.MenuItem, error) {
	if len(lowerSet(q.Ingredients)) == 0 {
		return nil, ErrNoIngredients
	}

	candidates, err := s.items.QueryItems(ctx, scan.ItemQuery{MaxPrice: q.MaxPrice})
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return SearchByIngredients(candidates, q)
}

func (s *Service) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	items, err := s.items.QueryItems(ctx, scan.ItemQuery{})
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return &FilterOptions{
		Categories:  menu.Categories(items),
		DietaryTags: menu.DietaryTags(items),
		Allergens:   menu.Allergens(items),
	}, nil
}
