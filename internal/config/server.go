package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends for rate tables
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// ServerConfig holds the settings of the HTTP service
type ServerConfig struct {
	Addr            string
	Store           string
	DSN             string
	CacheTTL        time.Duration
	RefreshEnabled  bool
	RefreshSchedule string // five-field cron expression
	RefreshTimeout  time.Duration
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// LoadServerConfig reads the server settings from the environment
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            getEnv("HIQUOTE_ADDR", ":8080"),
		Store:           getEnv("HIQUOTE_STORE", StoreMemory),
		DSN:             getEnv("HIQUOTE_DSN", "hiquote.db"),
		CacheTTL:        getDurationEnv("HIQUOTE_CACHE_TTL", 5*time.Minute),
		RefreshEnabled:  getBoolEnv("HIQUOTE_REFRESH_ENABLED", true),
		RefreshSchedule: getEnv("HIQUOTE_REFRESH_SCHEDULE", "*/15 * * * *"),
		RefreshTimeout:  getDurationEnv("HIQUOTE_REFRESH_TIMEOUT", 30*time.Second),
		AllowedOrigins:  splitList(getEnv("HIQUOTE_ALLOWED_ORIGINS", "http://localhost:3000")),
		ShutdownTimeout: getDurationEnv("HIQUOTE_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate checks the settings for consistency
func (c *ServerConfig) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.DSN == "" {
			return fmt.Errorf("store %s requires a DSN", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite or postgres)", c.Store)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}
	if c.RefreshEnabled && strings.TrimSpace(c.RefreshSchedule) == "" {
		return fmt.Errorf("refresh schedule is required when refresh is enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
