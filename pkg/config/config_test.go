package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stackscan/pkg/config"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.CacheEntries != config.DefaultCacheEntries {
		t.Errorf("CacheEntries = %d, want %d", cfg.CacheEntries, config.DefaultCacheEntries)
	}
	if cfg.CacheTTL != config.DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, config.DefaultCacheTTL)
	}
	if cfg.RetryAttempts != config.DefaultRetryAttempts {
		t.Errorf("RetryAttempts = %d, want %d", cfg.RetryAttempts, config.DefaultRetryAttempts)
	}
	if cfg.RunTimeout != config.DefaultRunTimeout {
		t.Errorf("RunTimeout = %v, want %v", cfg.RunTimeout, config.DefaultRunTimeout)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	withTempHome(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheEntries != config.DefaultCacheEntries {
		t.Errorf("Expected defaults for a missing file, got %+v", cfg)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	home := withTempHome(t)

	dir := filepath.Join(home, ".config", "stackscan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{broken"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := config.Load(); err == nil {
		t.Error("Expected a malformed config file to fail loudly")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	home := withTempHome(t)

	dir := filepath.Join(home, ".config", "stackscan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	partial, _ := json.Marshal(map[string]any{"cache_entries": 16})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), partial, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CacheEntries != 16 {
		t.Errorf("Expected the file value 16, got %d", cfg.CacheEntries)
	}
	if cfg.RetryAttempts != config.DefaultRetryAttempts {
		t.Errorf("Expected untouched fields to keep defaults, got %d", cfg.RetryAttempts)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	withTempHome(t)

	cfg := config.DefaultConfig()
	cfg.CacheEntries = 42
	cfg.RunTimeout = 5 * time.Second

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.CacheEntries != 42 {
		t.Errorf("CacheEntries = %d, want 42", loaded.CacheEntries)
	}
	if loaded.RunTimeout != 5*time.Second {
		t.Errorf("RunTimeout = %v, want 5s", loaded.RunTimeout)
	}
}
