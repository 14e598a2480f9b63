package menu

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MenuItem is one dish parsed from a menu. Nullable fields stay nil when
// the model did not report them.
type MenuItem struct {
	ID          string     `json:"id,omitempty"`
	ScanID      string     `json:"menu_scan_id,omitempty"`
	DishName    string     `json:"dish_name" validate:"required,max=300"`
	Description *string    `json:"description"`
	Ingredients []string   `json:"ingredients"`
	Allergens   []string   `json:"allergens"`
	Price       *float64   `json:"price" validate:"omitempty,gte=0"`
	Category    *string    `json:"category"`
	DietaryTags []string   `json:"dietary_tags"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// UnmarshalJSON accepts the loose shapes models tend to emit: prices as
// strings, lists as comma separated strings, "name" instead of "dish_name".
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	item := MenuItem{
		ID:          stringValue(raw["id"]),
		ScanID:      stringValue(raw["menu_scan_id"]),
		DishName:    stringValue(raw["dish_name"]),
		Description: optionalString(raw["description"]),
		Ingredients: stringList(raw["ingredients"]),
		Allergens:   stringList(raw["allergens"]),
		Price:       price(raw["price"]),
		Category:    optionalString(raw["category"]),
		DietaryTags: stringList(raw["dietary_tags"]),
	}
	if item.DishName == "" {
		item.DishName = stringValue(raw["name"])
	}
	if ts, ok := raw["created_at"]; ok {
		var t time.Time
		if err := json.Unmarshal(ts, &t); err == nil {
			item.CreatedAt = &t
		}
	}

	*m = item
	return nil
}

var placeholders = map[string]bool{
	"":        true,
	"null":    true,
	"none":    true,
	"n/a":     true,
	"unknown": true,
}

func stringValue(raw json.RawMessage) string {
	if s := optionalString(raw); s != nil {
		return *s
	}
	return ""
}

func optionalString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if placeholders[strings.ToLower(s)] {
		return nil
	}
	return &s
}

func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		s := optionalString(raw)
		if s == nil {
			return nil
		}
		for _, part := range strings.Split(*s, ",") {
			values = append(values, part)
		}
	}
	if values == nil {
		return nil
	}

	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if placeholders[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

var (
	priceChars   = regexp.MustCompile(`[^0-9.,\-]`)
	decimalComma = regexp.MustCompile(`^-?\d+,\d{1,2}$`)
	groupedComma = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d*)?$`)
)

func price(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}

	s := optionalString(raw)
	if s == nil {
		return nil
	}
	cleaned := priceChars.ReplaceAllString(*s, "")
	switch {
	case !strings.Contains(cleaned, ","):
	case decimalComma.MatchString(cleaned):
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case groupedComma.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	default:
		// Mixed or irregular separators.
		return nil
	}
	if cleaned == "" {
		return nil
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &n
}
