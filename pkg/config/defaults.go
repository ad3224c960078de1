package config

import "time"

// Cache
const (
	// DefaultCacheEntries bounds the in-memory result cache
	DefaultCacheEntries = 128

	// DefaultCacheTTL is how long a cached detection result stays valid
	DefaultCacheTTL = 10 * time.Minute
)

// Retry
const (
	// DefaultRetryAttempts is the maximum number of attempts for retryable
	// pipeline steps
	DefaultRetryAttempts = 3

	// DefaultRetryInitialInterval is the first backoff delay
	DefaultRetryInitialInterval = 100 * time.Millisecond

	// DefaultRetryMaxInterval caps the backoff delay
	DefaultRetryMaxInterval = 2 * time.Second
)

// Run limits
const (
	// DefaultRunTimeout bounds a whole detection run
	DefaultRunTimeout = 30 * time.Second

	// DefaultScanDepth bounds filesystem recursion during project scans
	DefaultScanDepth = 6
)

// File Permissions
const (
	// PermDirectory is the file permission for created directories
	PermDirectory = 0755

	// PermConfigFile is the file permission for the config file
	PermConfigFile = 0644
)
