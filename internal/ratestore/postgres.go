package ratestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rgehrsitz/hiquote/internal/rates"
)

// PostgresStore implements Store backed by PostgreSQL
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects to dsn and creates the schema if needed
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the rate_configs table
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rate_configs (
			product_id  TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			config_json JSONB NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create rate_configs table: %w", err)
	}
	return nil
}

type configRow struct {
	ConfigJSON []byte `db:"config_json"`
}

func (s *PostgresStore) Get(ctx context.Context, productID string) (*rates.Config, error) {
	var row configRow
	err := s.db.GetContext(ctx, &row,
		`SELECT config_json FROM rate_configs WHERE product_id = $1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get rate configuration: %w", err)
	}

	return decodeConfig(row.ConfigJSON)
}

func (s *PostgresStore) Put(ctx context.Context, cfg *rates.Config) error {
	data, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rate_configs (product_id, description, config_json, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (product_id)
		DO UPDATE SET
			description = EXCLUDED.description,
			config_json = EXCLUDED.config_json,
			updated_at = NOW()
	`, cfg.ProductID, cfg.Description, data)
	if err != nil {
		return fmt.Errorf("save rate configuration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, productID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rate_configs WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete rate configuration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]ProductInfo, error) {
	out := []ProductInfo{}
	if err := s.db.SelectContext(ctx, &out,
		`SELECT product_id, description, updated_at FROM rate_configs ORDER BY product_id`); err != nil {
		return nil, fmt.Errorf("list rate configurations: %w", err)
	}
	return out, nil
}
