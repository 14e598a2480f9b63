package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"menuscan/internal/menu"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const scanColumns = `
	s.id::text, s.user_id, s.name, s.raw_text,
	s.restaurant_name, s.menu_type, s.cuisine_type, s.image_key,
	s.created_at, COUNT(i.id)
`

const itemColumns = `
	i.id::text, i.menu_scan_id::text, i.dish_name, i.description,
	i.ingredients, i.allergens, i.price, i.category, i.dietary_tags,
	i.created_at
`

const insertScanSQL = `
	INSERT INTO menu_scans (
		id, user_id, name, raw_text,
		restaurant_name, menu_type, cuisine_type, image_key, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const insertItemSQL = `
	INSERT INTO menu_items (
		id, menu_scan_id, position, dish_name, description,
		ingredients, allergens, price, category, dietary_tags, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// --------------------------------------------------
// CREATE SCAN
// --------------------------------------------------
func (r *PostgresRepository) CreateScan(ctx context.Context, s *Scan) error {
	prepareScan(s)
	_, err := r.db.Exec(ctx, insertScanSQL, scanArgs(s)...)
	return err
}

// --------------------------------------------------
// INSERT ITEMS (SECOND STEP)
// --------------------------------------------------
func (r *PostgresRepository) InsertItems(ctx context.Context, scanID string, items []menu.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	queueItems(batch, scanID, items, time.Now().UTC())
	return r.db.SendBatch(ctx, batch).Close()
}

// --------------------------------------------------
// CREATE SCAN + ITEMS (ONE TRANSACTION)
// --------------------------------------------------
func (r *PostgresRepository) CreateScanWithItems(ctx context.Context, s *Scan, items []menu.MenuItem) error {
	prepareScan(s)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(insertScanSQL, scanArgs(s)...)
	queueItems(batch, s.ID, items, s.CreatedAt)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert scan %s: %w", s.ID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.ItemCount = len(items)
	return nil
}

// --------------------------------------------------
// GET SCAN
// --------------------------------------------------
func (r *PostgresRepository) GetScan(ctx context.Context, scanID string) (*Scan, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+scanColumns+`
		FROM menu_scans s
		LEFT JOIN menu_items i ON i.menu_scan_id = s.id
		WHERE s.id = $1
		GROUP BY s.id
	`, scanID)

	s, err := scanScan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// --------------------------------------------------
// LIST SCANS (NEWEST FIRST)
// --------------------------------------------------
func (r *PostgresRepository) ListScansByUser(ctx context.Context, userID string, limit int) ([]Scan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+scanColumns+`
		FROM menu_scans s
		LEFT JOIN menu_items i ON i.menu_scan_id = s.id
		WHERE s.user_id = $1
		GROUP BY s.id
		ORDER BY s.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := []Scan{}
	for rows.Next() {
		s, err := scanScan(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, *s)
	}
	return scans, rows.Err()
}

// --------------------------------------------------
// LIST ITEMS OF ONE SCAN
// --------------------------------------------------
func (r *PostgresRepository) ListItemsByScan(ctx context.Context, scanID string) ([]menu.MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items i
		WHERE i.menu_scan_id = $1
		ORDER BY i.dish_name, i.position
	`, scanID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// --------------------------------------------------
// QUERY ITEMS ACROSS SCANS
// --------------------------------------------------
func (r *PostgresRepository) QueryItems(ctx context.Context, q ItemQuery) ([]menu.MenuItem, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.NameContains != "" {
		add(`i.dish_name ILIKE $%d ESCAPE '\'`, likePattern(q.NameContains))
	}
	if q.MaxPrice != nil {
		add(`i.price IS NOT NULL AND i.price <= $%d`, *q.MaxPrice)
	}
	if q.RestaurantName != "" {
		add(`(s.restaurant_name ILIKE $%[1]d ESCAPE '\' OR s.raw_text ILIKE $%[1]d ESCAPE '\')`, likePattern(q.RestaurantName))
	}
	if q.ScanID != "" {
		add(`i.menu_scan_id = $%d`, q.ScanID)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items i
		JOIN menu_scans s ON s.id = i.menu_scan_id
		`+where+`
		ORDER BY s.created_at DESC, i.menu_scan_id, i.position
	`, args...)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// --------------------------------------------------
// UPDATE / DELETE
// --------------------------------------------------
func (r *PostgresRepository) UpdateItem(ctx context.Context, scanID string, item *menu.MenuItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET dish_name = $1,
		    description = $2,
		    ingredients = $3,
		    allergens = $4,
		    price = $5,
		    category = $6,
		    dietary_tags = $7
		WHERE id = $8 AND menu_scan_id = $9
	`,
		item.DishName, item.Description, item.Ingredients, item.Allergens,
		item.Price, item.Category, item.DietaryTags,
		item.ID, scanID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemMissing
	}
	item.ScanID = scanID
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, scanID, itemID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM menu_items
		WHERE id = $1 AND menu_scan_id = $2
	`, itemID, scanID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemMissing
	}
	return nil
}

func (r *PostgresRepository) DeleteScan(ctx context.Context, scanID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_scans WHERE id = $1`, scanID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func prepareScan(s *Scan) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}

func scanArgs(s *Scan) []any {
	return []any{
		s.ID, s.UserID, s.Name, s.RawText,
		s.RestaurantName, s.MenuType, s.CuisineType, s.ImageKey, s.CreatedAt,
	}
}

// queueItems assigns ids in place and queues one insert per item.
func queueItems(batch *pgx.Batch, scanID string, items []menu.MenuItem, createdAt time.Time) {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.ScanID = scanID
		ts := createdAt
		it.CreatedAt = &ts

		batch.Queue(insertItemSQL,
			it.ID, scanID, i, it.DishName, it.Description,
			it.Ingredients, it.Allergens, it.Price, it.Category, it.DietaryTags, createdAt,
		)
	}
}

func scanScan(row pgx.Row) (*Scan, error) {
	var s Scan
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.RawText,
		&s.RestaurantName, &s.MenuType, &s.CuisineType, &s.ImageKey,
		&s.CreatedAt, &s.ItemCount,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectItems(rows pgx.Rows) ([]menu.MenuItem, error) {
	defer rows.Close()

	items := []menu.MenuItem{}
	for rows.Next() {
		var (
			it      menu.MenuItem
			created time.Time
		)
		err := rows.Scan(
			&it.ID, &it.ScanID, &it.DishName, &it.Description,
			&it.Ingredients, &it.Allergens, &it.Price, &it.Category, &it.DietaryTags,
			&created,
		)
		if err != nil {
			return nil, err
		}
		it.CreatedAt = &created
		items = append(items, it)
	}
	return items, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
