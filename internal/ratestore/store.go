// Package ratestore persists rate configurations keyed by product id and resolves the
// configuration a calculation should use.
//
// Three Store implementations share one contract: MemoryStore for tests and
// single-process use, SQLiteStore for a local file and PostgresStore for a shared
// database. Every Get returns a freshly decoded, initialized *rates.Config, so callers
// may hand it to the engine without cloning.
//
// Resolver sits in front of a Store with a TTL cache and falls back to the built-in
// defaults when a product is unknown or the store fails. RefreshScheduler reloads the
// cache on a cron schedule.
package ratestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/rates"
)

// ErrNotFound is returned when no configuration is stored for a product
var ErrNotFound = errors.New("rate configuration not found")

// Store manages rate configuration persistence
type Store interface {
	// Get returns the initialized configuration of a product or ErrNotFound
	Get(ctx context.Context, productID string) (*rates.Config, error)

	// Put creates or replaces the configuration named by cfg.ProductID
	Put(ctx context.Context, cfg *rates.Config) error

	// Delete removes a product's configuration or returns ErrNotFound
	Delete(ctx context.Context, productID string) error

	// List returns every stored product ordered by id
	List(ctx context.Context) ([]ProductInfo, error)
}

// ProductInfo describes one stored configuration without its tables
type ProductInfo struct {
	ProductID   string    `json:"productId" db:"product_id"`
	Description string    `json:"description" db:"description"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// encodeConfig validates cfg and returns its JSON form. The caller's copy is not initialized.
func encodeConfig(cfg *rates.Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rate configuration is nil")
	}
	if err := ValidateProductID(cfg.ProductID); err != nil {
		return nil, err
	}
	check := cfg.Clone()
	if err := check.Init(); err != nil {
		return nil, fmt.Errorf("invalid rate configuration: %w", err)
	}
	data, err := json.Marshal(cfg.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode rate configuration: %w", err)
	}
	return data, nil
}

func decodeConfig(data []byte) (*rates.Config, error) {
	cfg, err := config.ParseRateConfig(data, true)
	if err != nil {
		return nil, fmt.Errorf("decode rate configuration: %w", err)
	}
	return cfg, nil
}

// ValidateProductID rejects empty ids and ids that cannot appear in a URL path segment
func ValidateProductID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("product id is required")
	}
	if len(id) > 64 {
		return fmt.Errorf("product id %q is longer than 64 characters", id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("product id %q may only contain letters, digits, '-', '_' and '.'", id)
		}
	}
	return nil
}
