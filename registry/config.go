package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/animus-labs/animus-views/internal/platform/env"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

type serviceConfig struct {
	Addr               string
	ShutdownTimeout    time.Duration
	Store              string
	SeedFile           string
	ObjectStoreEnabled bool
}

func serviceConfigFromEnv() (serviceConfig, error) {
	shutdownTimeout, err := env.Duration("REGISTRY_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return serviceConfig{}, err
	}
	objectStoreEnabled, err := env.Bool("REGISTRY_OBJECTSTORE_ENABLED", false)
	if err != nil {
		return serviceConfig{}, err
	}
	cfg := serviceConfig{
		Addr:               env.String("REGISTRY_HTTP_ADDR", ":8085"),
		ShutdownTimeout:    shutdownTimeout,
		Store:              strings.ToLower(env.String("REGISTRY_STORE", storePostgres)),
		SeedFile:           env.String("REGISTRY_SEED_FILE", ""),
		ObjectStoreEnabled: objectStoreEnabled,
	}
	if err := cfg.Validate(); err != nil {
		return serviceConfig{}, err
	}
	return cfg, nil
}

func (c serviceConfig) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("REGISTRY_HTTP_ADDR is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("REGISTRY_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Store {
	case storePostgres:
	case storeMemory:
		if strings.TrimSpace(c.SeedFile) == "" {
			return errors.New("REGISTRY_SEED_FILE is required when REGISTRY_STORE=memory")
		}
	default:
		return fmt.Errorf("REGISTRY_STORE must be one of: postgres, memory (got %q)", c.Store)
	}
	return nil
}

// logLevelFromEnv reads LOG_LEVEL as debug, info, warn or error.
func logLevelFromEnv() (slog.Level, error) {
	var level slog.Level
	raw := env.String("LOG_LEVEL", "info")
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
