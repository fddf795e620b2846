package ratestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rgehrsitz/hiquote/internal/rates"
)

// SQLiteStore implements Store on a SQLite file. Use ":memory:" for an in-memory database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens the database at path and creates the schema if needed
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rate_configs (
		product_id TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, productID string) (*rates.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT config_json FROM rate_configs WHERE product_id = ?`, productID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate configuration: %w", err)
	}

	return decodeConfig([]byte(data))
}

func (s *SQLiteStore) Put(ctx context.Context, cfg *rates.Config) error {
	data, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rate_configs (product_id, description, config_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET
			description = excluded.description,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`, cfg.ProductID, cfg.Description, string(data), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save rate configuration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM rate_configs WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete rate configuration: %w", err)
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

func (s *SQLiteStore) List(ctx context.Context) ([]ProductInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, description, updated_at FROM rate_configs ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate configurations: %w", err)
	}
	defer rows.Close()

	out := []ProductInfo{}
	for rows.Next() {
		var info ProductInfo
		var updatedAt string
		if err := rows.Scan(&info.ProductID, &info.Description, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate configuration: %w", err)
		}
		info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid updated_at for %s: %w", info.ProductID, err)
		}
		out = append(out, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate configurations: %w", err)
	}
	return out, nil
}
