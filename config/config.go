// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	// Addr is the listen address of the HTTP API.
	Addr string
	// DatabaseDSN is the postgres connection string.
	DatabaseDSN string
	// RemoteBaseURL and RemoteAPIKey point at the upstream data store. Both
	// empty means the service runs purely off its own database.
	RemoteBaseURL string
	RemoteAPIKey  string

	DefaultPageSize int
	MaxPageSize     int
}

// Load reads the given .env file (or ./.env when path is empty) and then the
// environment. A missing .env file is fine; the environment alone decides.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "load env file %s", path)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Addr:            getenv("CRM_ADDR", ":8080"),
		DatabaseDSN:     os.Getenv("CRM_DATABASE_DSN"),
		RemoteBaseURL:   os.Getenv("CRM_REMOTE_URL"),
		RemoteAPIKey:    os.Getenv("CRM_REMOTE_API_KEY"),
		DefaultPageSize: 25,
		MaxPageSize:     100,
	}

	var err error
	if cfg.DefaultPageSize, err = getenvInt("CRM_DEFAULT_PAGE_SIZE", cfg.DefaultPageSize); err != nil {
		return nil, err
	}
	if cfg.MaxPageSize, err = getenvInt("CRM_MAX_PAGE_SIZE", cfg.MaxPageSize); err != nil {
		return nil, err
	}
	if cfg.DefaultPageSize < 1 || cfg.MaxPageSize < cfg.DefaultPageSize {
		return nil, errors.Errorf("invalid page sizes: default %d, max %d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	if cfg.DatabaseDSN == "" {
		return nil, errors.New("CRM_DATABASE_DSN must be set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return n, nil
}
