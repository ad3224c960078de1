package cache_test

import (
	"testing"
	"time"

	"stackscan/pkg/detection/cache"
	"stackscan/pkg/detection/types"
)

func sampleInfo() *types.ProjectInfo {
	return &types.ProjectInfo{
		Name:         "demo",
		Description:  "a demo service",
		Languages:    []string{"Go"},
		Dependencies: []string{"gin-gonic/gin"},
		ConfigFiles:  []string{"go.mod"},
		RawContent:   "# demo\nA Gin service.",
	}
}

func TestFingerprintStable(t *testing.T) {
	a := cache.Fingerprint(sampleInfo(), "/tmp/demo")
	b := cache.Fingerprint(sampleInfo(), "/tmp/demo")

	if a == "" {
		t.Fatal("Expected a non-empty fingerprint")
	}
	if a != b {
		t.Errorf("Expected identical inputs to fingerprint identically: %s != %s", a, b)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := cache.Fingerprint(sampleInfo(), "/tmp/demo")

	tests := []struct {
		name   string
		mutate func(*types.ProjectInfo) string
	}{
		{"name change", func(i *types.ProjectInfo) string { i.Name = "other"; return "/tmp/demo" }},
		{"dependency change", func(i *types.ProjectInfo) string { i.Dependencies = []string{"labstack/echo"}; return "/tmp/demo" }},
		{"raw content change", func(i *types.ProjectInfo) string { i.RawContent = "different"; return "/tmp/demo" }},
		{"path change", func(i *types.ProjectInfo) string { return "/tmp/other" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := sampleInfo()
			path := tt.mutate(info)
			if got := cache.Fingerprint(info, path); got == base {
				t.Error("Expected the fingerprint to change")
			}
		})
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	// ["ab", "c"] and ["a", "bc"] must not collide
	a := &types.ProjectInfo{Languages: []string{"ab", "c"}}
	b := &types.ProjectInfo{Languages: []string{"a", "bc"}}

	if cache.Fingerprint(a, "") == cache.Fingerprint(b, "") {
		t.Error("Expected list element boundaries to be part of the hash")
	}
}

func TestFingerprintNilInfo(t *testing.T) {
	if got := cache.Fingerprint(nil, "/tmp/demo"); got != "" {
		t.Errorf("Expected empty fingerprint for nil info, got %q", got)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := cache.New(4, time.Minute)
	result := &types.DetectionResult{Confidence: types.OverallConfidence{Score: 0.9}}
	key := cache.Fingerprint(sampleInfo(), "/tmp/demo")

	if _, ok := c.Get(key); ok {
		t.Fatal("Expected a miss before Set")
	}

	c.Set(key, result)

	cached, ok := c.Get(key)
	if !ok {
		t.Fatal("Expected a hit after Set")
	}
	if cached != result {
		t.Error("Expected the cached pointer to be returned as-is")
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c := cache.New(2, time.Minute)

	c.Set("a", &types.DetectionResult{})
	c.Set("b", &types.DetectionResult{})
	c.Set("c", &types.DetectionResult{})

	if c.Len() != 2 {
		t.Errorf("Expected the size bound to hold, got %d entries", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Expected the oldest entry to be evicted")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := cache.New(4, 20*time.Millisecond)
	c.Set("k", &types.DetectionResult{})

	if _, ok := c.Get("k"); !ok {
		t.Fatal("Expected a hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Expected the entry to expire")
	}
}

func TestCachePurge(t *testing.T) {
	c := cache.New(4, time.Minute)
	c.Set("a", &types.DetectionResult{})
	c.Set("b", &types.DetectionResult{})

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Expected an empty cache after Purge, got %d entries", c.Len())
	}
}

func TestCacheDefaults(t *testing.T) {
	c := cache.New(0, 0)
	c.Set("k", &types.DetectionResult{})
	if _, ok := c.Get("k"); !ok {
		t.Error("Expected defaults to produce a working cache")
	}
}
