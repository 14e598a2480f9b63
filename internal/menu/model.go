package menu

import (
	"sort"
	"strings"
)

// MenuData is the structured result of one structuring call.
type MenuData struct {
	RestaurantName *string    `json:"restaurant_name"`
	MenuType       *string    `json:"menu_type"`
	CuisineType    *string    `json:"cuisine_type"`
	MenuItems      []MenuItem `json:"menu_items"`
}

// Allergens returns the distinct allergens across items, sorted.
func Allergens(items []MenuItem) []string {
	return distinct(items, func(it MenuItem) []string { return it.Allergens })
}

// DietaryTags returns the distinct dietary tags across items, sorted.
func DietaryTags(items []MenuItem) []string {
	return distinct(items, func(it MenuItem) []string { return it.DietaryTags })
}

// Categories returns the distinct non-null categories across items, sorted.
func Categories(items []MenuItem) []string {
	return distinct(items, func(it MenuItem) []string {
		if it.Category == nil {
			return nil
		}
		return []string{*it.Category}
	})
}

func distinct(items []MenuItem, field func(MenuItem) []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, it := range items {
		for _, v := range field(it) {
			key := strings.ToLower(v)
			if v == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
