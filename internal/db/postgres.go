package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens a pool, pings it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string, log *slog.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	log.Info("connected to postgres")

	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	log.Info("schema initialized")

	return pool, nil
}

// InitSchema creates the scan tables if they do not exist yet.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	// -------------------------------
	// MENU SCANS
	// -------------------------------
	menuScansSQL := `
		CREATE TABLE IF NOT EXISTS menu_scans (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			raw_text TEXT NOT NULL DEFAULT '',
			restaurant_name TEXT NULL,
			menu_type TEXT NULL,
			cuisine_type TEXT NULL,
			image_key TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, menuScansSQL); err != nil {
		return err
	}

	// -------------------------------
	// MENU ITEMS
	// -------------------------------
	menuItemsSQL := `
		CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			menu_scan_id UUID NOT NULL REFERENCES menu_scans(id) ON DELETE CASCADE,
			position INT NOT NULL DEFAULT 0,
			dish_name TEXT NOT NULL,
			description TEXT NULL,
			ingredients TEXT[] NULL,
			allergens TEXT[] NULL,
			price DOUBLE PRECISION NULL,
			category TEXT NULL,
			dietary_tags TEXT[] NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, menuItemsSQL); err != nil {
		return err
	}

	indexSQL := `
		CREATE INDEX IF NOT EXISTS idx_menu_items_scan ON menu_items(menu_scan_id);
		CREATE INDEX IF NOT EXISTS idx_menu_scans_user ON menu_scans(user_id, created_at DESC);
	`
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		return err
	}

	return nil
}
