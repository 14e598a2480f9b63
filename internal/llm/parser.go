package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"menuscan/internal/jsonrepair"
	"menuscan/internal/menu"
)

// ErrNotJSON means the structuring output did not even start like JSON,
// so repair was not attempted.
var ErrNotJSON = errors.New("invalid JSON format returned from model")

var (
	openingFence = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	closingFence = regexp.MustCompile("\\s*```\\s*$")
)

// StripCodeFence removes a markdown code fence wrapped around the output.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseMenuData turns raw structuring output into MenuData. Keys that are
// missing or of the wrong shape keep their zero values, so a partially
// structured answer still yields whatever it did contain. Items are not
// normalized here.
func ParseMenuData(raw string) (*menu.MenuData, error) {
	content := StripCodeFence(raw)
	if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
		return nil, ErrNotJSON
	}

	repaired := jsonrepair.Repair(content)
	data := &menu.MenuData{MenuItems: []menu.MenuItem{}}

	if strings.HasPrefix(strings.TrimSpace(repaired), "[") {
		data.MenuItems = decodeItems([]byte(repaired))
		return data, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return data, nil
	}

	if items, ok := doc["menu_items"]; ok {
		data.MenuItems = decodeItems(items)
	}
	if v, ok := doc["restaurant_name"]; ok {
		data.RestaurantName = metadata(v)
	}
	if v, ok := doc["menu_type"]; ok {
		data.MenuType = metadata(v)
	}
	if v, ok := doc["cuisine_type"]; ok {
		data.CuisineType = metadata(v)
	}

	return data, nil
}

// decodeItems decodes each array element on its own so one malformed
// element does not discard the rest.
func decodeItems(raw []byte) []menu.MenuItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []menu.MenuItem{}
	}

	items := make([]menu.MenuItem, 0, len(elems))
	for _, e := range elems {
		var item menu.MenuItem
		if err := json.Unmarshal(e, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

func metadata(raw json.RawMessage) *string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "none", "unknown", "n/a":
		return nil
	}
	return &s
}
