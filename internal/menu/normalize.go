package menu

import "strings"

// Normalize trims item fields, turns negative prices into null, drops
// items that fail validation and keeps at most limit items (limit <= 0 keeps
// everything). The returned slice is never nil.
func Normalize(items []MenuItem, limit int) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		it.DishName = strings.TrimSpace(it.DishName)
		if it.Price != nil && *it.Price < 0 {
			it.Price = nil
		}
		if err := ValidateItem(&it); err != nil {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
