package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"menuscan/internal/menu"
	"menuscan/internal/storage"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ImageStore archives uploaded menu images.
type ImageStore interface {
	PutImage(ctx context.Context, key string, body []byte, contentType string) error
	PublicURL(key string) string
}

type Service struct {
	repo   Repository
	images ImageStore
	log    *slog.Logger
	now    func() time.Time
}

// NewService wires the scan service. images may be nil to disable archival.
func NewService(repo Repository, images ImageStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:   repo,
		images: images,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// --------------------------------------------------
// Save one extraction (scan + items)
// --------------------------------------------------
func (s *Service) Save(ctx context.Context, in SaveInput) (*Scan, error) {
	data := in.Data
	if data == nil {
		data = &menu.MenuData{}
	}

	createdAt := s.now()
	sc := &Scan{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		Name:           DisplayName(data.RestaurantName, createdAt),
		RawText:        in.RawText,
		RestaurantName: data.RestaurantName,
		MenuType:       data.MenuType,
		CuisineType:    data.CuisineType,
		CreatedAt:      createdAt,
	}

	if key, ok := s.archive(ctx, in); ok {
		sc.ImageKey = &key
	}

	items := append([]menu.MenuItem(nil), data.MenuItems...)
	if err := s.repo.CreateScanWithItems(ctx, sc, items); err != nil {
		return nil, fmt.Errorf("save scan: %w", err)
	}

	s.log.Info("scan saved",
		"scan_id", sc.ID,
		"user_id", sc.UserID,
		"items", len(items),
	)
	return sc, nil
}

// archive uploads the source image. Failures are logged and the scan is
// saved without an image key.
func (s *Service) archive(ctx context.Context, in SaveInput) (string, bool) {
	if s.images == nil || len(in.Image) == 0 {
		return "", false
	}
	key := storage.ImageKey(in.UserID, in.ContentType)
	if err := s.images.PutImage(ctx, key, in.Image, in.ContentType); err != nil {
		s.log.Warn("image archive failed", "key", key, "error", err)
		return "", false
	}
	return key, true
}

// --------------------------------------------------
// History (owner only)
// --------------------------------------------------
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.ListScansByUser(ctx, userID, limit)
}

func (s *Service) Get(ctx context.Context, userID, scanID string) (*Detail, error) {
	sc, err := s.owned(ctx, userID, scanID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItemsByScan(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	d := &Detail{Scan: sc, MenuItems: items}
	if s.images != nil && sc.ImageKey != nil {
		d.ImageURL = s.images.PublicURL(*sc.ImageKey)
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, userID, scanID string) error {
	if _, err := s.owned(ctx, userID, scanID); err != nil {
		return err
	}
	return s.repo.DeleteScan(ctx, scanID)
}

// UpdateItem replaces the editable fields of one item.
func (s *Service) UpdateItem(ctx context.Context, userID, scanID string, item menu.MenuItem) (*menu.MenuItem, error) {
	if _, err := s.owned(ctx, userID, scanID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(item.ID); err != nil {
		return nil, ErrItemMissing
	}

	item.DishName = strings.TrimSpace(item.DishName)
	if err := menu.ValidateItem(&item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	if err := s.repo.UpdateItem(ctx, scanID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) DeleteItem(ctx context.Context, userID, scanID, itemID string) error {
	if _, err := s.owned(ctx, userID, scanID); err != nil {
		return err
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return ErrItemMissing
	}
	return s.repo.DeleteItem(ctx, scanID, itemID)
}

// owned loads a scan and hides scans that belong to someone else.
func (s *Service) owned(ctx context.Context, userID, scanID string) (*Scan, error) {
	if _, err := uuid.Parse(scanID); err != nil {
		return nil, ErrNotFound
	}
	sc, err := s.repo.GetScan(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if sc.UserID != userID {
		return nil, ErrNotFound
	}
	return sc, nil
}
