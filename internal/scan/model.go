package scan

import (
	"errors"
	"time"

	"menuscan/internal/menu"
)

var (
	ErrNotFound    = errors.New("scan not found")
	ErrItemMissing = errors.New("menu item not found")
	ErrInvalidItem = errors.New("invalid menu item")
)

// Scan is one upload or paste event and its raw extracted text. A scan
// with zero items is valid.
type Scan struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	RawText        string    `json:"raw_text"`
	RestaurantName *string   `json:"restaurant_name"`
	MenuType       *string   `json:"menu_type"`
	CuisineType    *string   `json:"cuisine_type"`
	ImageKey       *string   `json:"image_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ItemCount      int       `json:"item_count"`
}

// Detail is a scan together with its items.
type Detail struct {
	Scan      *Scan           `json:"scan"`
	MenuItems []menu.MenuItem `json:"menu_items"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// ItemQuery narrows QueryItems. Zero fields do not filter.
type ItemQuery struct {
	NameContains   string
	MaxPrice       *float64
	RestaurantName string
	ScanID         string
}

// SaveInput is everything persisted for one successful extraction.
type SaveInput struct {
	UserID      string
	RawText     string
	Data        *menu.MenuData
	Image       []byte
	ContentType string
}

const dateLayout = "January 2, 2006"

// DisplayName labels a scan by its date, prefixed with the restaurant
// name when one was extracted.
func DisplayName(restaurant *string, createdAt time.Time) string {
	date := createdAt.Format(dateLayout)
	if restaurant != nil && *restaurant != "" {
		return *restaurant + " - " + date
	}
	return date
}
