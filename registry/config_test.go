package main

import (
	"log/slog"
	"testing"

	"github.com/animus-labs/animus-views/internal/catalog/memory"
)

func TestServiceConfigFromEnv(t *testing.T) {
	t.Setenv("REGISTRY_STORE", "Memory")
	t.Setenv("REGISTRY_SEED_FILE", "/etc/animus/seed.yaml")
	cfg, err := serviceConfigFromEnv()
	if err != nil {
		t.Fatalf("serviceConfigFromEnv() err=%v", err)
	}
	if cfg.Store != storeMemory || cfg.Addr != ":8085" || cfg.ObjectStoreEnabled {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	base := serviceConfig{Addr: ":8085", ShutdownTimeout: 1, Store: storePostgres}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate()=%v", err)
	}
	noSeed := base
	noSeed.Store = storeMemory
	if err := noSeed.Validate(); err == nil {
		t.Fatalf("Validate() expected error for memory store without seed")
	}
	unknown := base
	unknown.Store = "sqlite"
	if err := unknown.Validate(); err == nil {
		t.Fatalf("Validate() expected error for unknown store")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	level, err := logLevelFromEnv()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("logLevelFromEnv()=%v, %v, want debug", level, err)
	}
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := logLevelFromEnv(); err == nil {
		t.Fatalf("logLevelFromEnv() expected error")
	}
}

func TestSampleSeedLoads(t *testing.T) {
	seed, err := memory.LoadFile("testdata/seed.yaml")
	if err != nil {
		t.Fatalf("LoadFile() err=%v", err)
	}
	if _, err := memory.New(seed); err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if len(seed.Versions) != 2 {
		t.Fatalf("versions=%d, want 2", len(seed.Versions))
	}
}
