package scan

import (
	"context"

	"menuscan/internal/menu"
)

// Repository stores scans and the items extracted from them.
type Repository interface {

	// -------------------------------
	// Writes
	// -------------------------------

	// CreateScan stores a scan without items and fills in its ID.
	CreateScan(ctx context.Context, s *Scan) error

	// InsertItems attaches items to an existing scan.
	InsertItems(ctx context.Context, scanID string, items []menu.MenuItem) error

	// CreateScanWithItems stores a scan and its items in one transaction.
	CreateScanWithItems(ctx context.Context, s *Scan, items []menu.MenuItem) error

	UpdateItem(ctx context.Context, scanID string, item *menu.MenuItem) error
	DeleteItem(ctx context.Context, scanID, itemID string) error

	// DeleteScan removes a scan and, by cascade, its items.
	DeleteScan(ctx context.Context, scanID string) error

	// -------------------------------
	// Reads
	// -------------------------------

	GetScan(ctx context.Context, scanID string) (*Scan, error)
	ListScansByUser(ctx context.Context, userID string, limit int) ([]Scan, error)

	// ListItemsByScan returns items ordered by dish name.
	ListItemsByScan(ctx context.Context, scanID string) ([]menu.MenuItem, error)

	// QueryItems returns items across all scans, newest scan first,
	// in extraction order within a scan.
	QueryItems(ctx context.Context, q ItemQuery) ([]menu.MenuItem, error)
}
