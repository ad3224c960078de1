package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the tool-level settings for detection runs
type Config struct {
	CacheEntries    int           `json:"cache_entries"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	RetryAttempts   uint64        `json:"retry_attempts"`
	RetryInitial    time.Duration `json:"retry_initial_interval"`
	RetryMax        time.Duration `json:"retry_max_interval"`
	RunTimeout      time.Duration `json:"run_timeout"`
	ScanDepth       int           `json:"scan_depth"`
	DisableCache    bool          `json:"disable_cache,omitempty"`
	VerboseLogging  bool          `json:"verbose_logging,omitempty"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		CacheEntries:  DefaultCacheEntries,
		CacheTTL:      DefaultCacheTTL,
		RetryAttempts: DefaultRetryAttempts,
		RetryInitial:  DefaultRetryInitialInterval,
		RetryMax:      DefaultRetryMaxInterval,
		RunTimeout:    DefaultRunTimeout,
		ScanDepth:     DefaultScanDepth,
	}
}

// ConfigPath returns the location of the config file
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "stackscan", "config.json"), nil
}

// Load reads the config file, falling back to defaults when it is missing.
// A malformed file is an error; silently ignoring it would hide typos.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config file, creating its directory when needed
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), PermDirectory); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, PermConfigFile)
}
