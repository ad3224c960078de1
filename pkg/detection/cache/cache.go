package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"stackscan/pkg/detection/types"
)

// Defaults for the whole-pipeline result cache
const (
	DefaultMaxEntries = 128
	DefaultTTL        = 10 * time.Minute
)

// ResultCache memoizes whole-pipeline results keyed by project fingerprint.
// It is safe for concurrent use; a miss never blocks other callers, so
// duplicate computation under racing lookups is possible and acceptable.
type ResultCache struct {
	lru *expirable.LRU[string, *types.DetectionResult]
}

// New creates a cache bounded by maxEntries with per-entry TTL expiry.
// Non-positive arguments fall back to the defaults.
func New(maxEntries int, ttl time.Duration) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		lru: expirable.NewLRU[string, *types.DetectionResult](maxEntries, nil, ttl),
	}
}

// Get returns the cached result for a fingerprint, if present and fresh
func (c *ResultCache) Get(key string) (*types.DetectionResult, bool) {
	return c.lru.Get(key)
}

// Set stores a result under a fingerprint
func (c *ResultCache) Set(key string, result *types.DetectionResult) {
	c.lru.Add(key, result)
}

// Len reports the number of live entries
func (c *ResultCache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry
func (c *ResultCache) Purge() {
	c.lru.Purge()
}

// Fingerprint derives a stable cache key from the project metadata and path.
// Field order is fixed so identical inputs always hash identically.
func Fingerprint(info *types.ProjectInfo, projectPath string) string {
	if info == nil {
		return ""
	}

	h := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.WriteString("\x00")
		}
	}

	write(info.Name, info.Description, projectPath)
	write(strings.Join(info.Languages, "\x01"))
	write(strings.Join(info.Dependencies, "\x01"))
	write(strings.Join(info.BuildCommands, "\x01"))
	write(strings.Join(info.TestCommands, "\x01"))
	write(strings.Join(info.InstallSteps, "\x01"))
	write(strings.Join(info.ConfigFiles, "\x01"))
	write(info.RawContent)

	return fmt.Sprintf("%016x", h.Sum64())
}
