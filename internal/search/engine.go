package search

import (
	"errors"
	"strings"

	"menuscan/internal/menu"
)

var ErrNoIngredients = errors.New("ingredients array is required and must not be empty")

// Query filters items by name and attributes. All set filters must hold.
type Query struct {
	Term string

	// Fuzzy is accepted for compatibility; matching is substring either way.
	Fuzzy bool

	// Allergens excludes items carrying any of them.
	Allergens []string

	// DietaryPreferences must all be present in an item's dietary tags.
	DietaryPreferences []string

	// Categories keeps items whose category is one of these, exactly.
	Categories []string

	// MaxPrice is inclusive; items without a price never match it.
	MaxPrice *float64

	// RestaurantName and ScanID narrow the candidate set at the store.
	RestaurantName string
	ScanID         string
}

type IngredientQuery struct {
	Ingredients      []string
	MatchAll         bool
	ExcludeAllergens []string
	MaxPrice         *float64
}

// SearchMenuItems returns the items matching q, in input order.
func SearchMenuItems(items []menu.MenuItem, q Query) []menu.MenuItem {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	excluded := lowerSet(q.Allergens)
	required := lowerSet(q.DietaryPreferences)
	categories := exactSet(q.Categories)

	out := []menu.MenuItem{}
	for _, it := range items {
		if term != "" && !strings.Contains(strings.ToLower(it.DishName), term) {
			continue
		}
		if len(excluded) > 0 && intersects(it.Allergens, excluded) {
			continue
		}
		if len(required) > 0 && !containsAll(it.DietaryTags, required) {
			continue
		}
		if len(categories) > 0 && (it.Category == nil || !categories[*it.Category]) {
			continue
		}
		if !withinPrice(it, q.MaxPrice) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SearchByIngredients matches items by ingredient, any of them by default
// or all of them with MatchAll. An empty ingredient list is rejected.
func SearchByIngredients(items []menu.MenuItem, q IngredientQuery) ([]menu.MenuItem, error) {
	wanted := lowerSet(q.Ingredients)
	if len(wanted) == 0 {
		return nil, ErrNoIngredients
	}
	excluded := lowerSet(q.ExcludeAllergens)

	out := []menu.MenuItem{}
	for _, it := range items {
		if q.MatchAll {
			if !containsAll(it.Ingredients, wanted) {
				continue
			}
		} else if !intersects(it.Ingredients, wanted) {
			continue
		}
		if len(excluded) > 0 && intersects(it.Allergens, excluded) {
			continue
		}
		if !withinPrice(it, q.MaxPrice) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func withinPrice(it menu.MenuItem, limit *float64) bool {
	if limit == nil {
		return true
	}
	return it.Price != nil && *it.Price <= *limit
}

func intersects(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[normalize(v)] {
			return true
		}
	}
	return false
}

func containsAll(values []string, set map[string]bool) bool {
	have := lowerSet(values)
	for k := range set {
		if !have[k] {
			return false
		}
	}
	return true
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if k := normalize(v); k != "" {
			set[k] = true
		}
	}
	return set
}

func exactSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
