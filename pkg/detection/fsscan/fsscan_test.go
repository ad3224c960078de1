package fsscan_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stackscan/pkg/detection/fsscan"
)

// Test helper to create temporary test project directories
func createTestProject(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		dir := filepath.Dir(fullPath)

		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}

		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}

	return tmpDir
}

func TestHasAndRead(t *testing.T) {
	dir := createTestProject(t, map[string]string{
		"go.mod":       "module example\n",
		"src/main.go":  "package main\n",
		"empty/.keep":  "",
	})
	scanner := fsscan.New(dir)

	if !scanner.Has("go.mod") {
		t.Error("Expected go.mod to exist")
	}
	if scanner.Has("missing.txt") {
		t.Error("Expected missing.txt to not exist")
	}
	if !scanner.DirExists("src") {
		t.Error("Expected src directory to exist")
	}
	if scanner.DirExists("go.mod") {
		t.Error("Expected go.mod to not be a directory")
	}
	if got := scanner.Read("go.mod"); got != "module example\n" {
		t.Errorf("Read returned %q", got)
	}
	if got := scanner.Read("missing.txt"); got != "" {
		t.Errorf("Expected empty string for missing file, got %q", got)
	}
}

func TestReadConfig(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		checkKey string
		wantRaw  bool
	}{
		{
			name:     "json",
			file:     "settings.json",
			content:  `{"name": "demo"}`,
			checkKey: "name",
		},
		{
			name:     "yaml",
			file:     "compose.yaml",
			content:  "services:\n  web:\n    image: nginx\n",
			checkKey: "services",
		},
		{
			name:     "toml",
			file:     "pyproject.toml",
			content:  "[project]\nname = \"demo\"\n",
			checkKey: "project",
		},
		{
			name:     "ini",
			file:     "setup.cfg",
			content:  "[metadata]\nname = demo\n",
			checkKey: "metadata",
		},
		{
			name:    "malformed json falls back to raw",
			file:    "broken.json",
			content: "{not json",
			wantRaw: true,
		},
		{
			name:    "unknown extension falls back to raw",
			file:    "Makefile",
			content: "build:\n\tgo build ./...\n",
			wantRaw: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := createTestProject(t, map[string]string{tt.file: tt.content})
			scanner := fsscan.New(dir)

			parsed, err := scanner.ReadConfig(tt.file)
			if err != nil {
				t.Fatalf("ReadConfig failed: %v", err)
			}

			if tt.wantRaw {
				raw, ok := parsed["raw"].(string)
				if !ok {
					t.Fatal("Expected raw fallback content")
				}
				if raw != tt.content {
					t.Errorf("Expected raw content %q, got %q", tt.content, raw)
				}
				return
			}

			if _, ok := parsed[tt.checkKey]; !ok {
				t.Errorf("Expected parsed config to contain key %q, got %v", tt.checkKey, parsed)
			}
		})
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	scanner := fsscan.New(t.TempDir())
	if _, err := scanner.ReadConfig("absent.json"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestScanTreeSkipsIgnoredDirs(t *testing.T) {
	dir := createTestProject(t, map[string]string{
		"main.go":                  "package main",
		"node_modules/lib/x.js":    "ignored",
		".git/config":              "ignored",
		"internal/server/serve.go": "package server",
	})
	scanner := fsscan.New(dir)

	files, extCounts, err := scanner.ScanTree()
	if err != nil {
		t.Fatalf("ScanTree failed: %v", err)
	}

	for _, f := range files {
		if strings.HasPrefix(f, "node_modules") || strings.HasPrefix(f, ".git") {
			t.Errorf("Expected %s to be skipped", f)
		}
	}
	if extCounts[".go"] != 2 {
		t.Errorf("Expected 2 .go files, got %d", extCounts[".go"])
	}
	if extCounts[".js"] != 0 {
		t.Errorf("Expected node_modules .js files to be skipped, got %d", extCounts[".js"])
	}
}

func TestScanTreeDepthBound(t *testing.T) {
	dir := createTestProject(t, map[string]string{
		"top.go":         "package main",
		"a/b/c/deep.go":  "package deep",
	})
	scanner := fsscan.New(dir).WithMaxDepth(2)

	files, _, err := scanner.ScanTree()
	if err != nil {
		t.Fatalf("ScanTree failed: %v", err)
	}

	for _, f := range files {
		if filepath.Base(f) == "deep.go" {
			t.Error("Expected deep.go beyond the depth bound to be skipped")
		}
	}
}

func TestContainsAndFilterExt(t *testing.T) {
	files := []string{"a.go", "b.go", "c.py", "d.GO", "sub/e.go"}

	if !fsscan.ContainsExt(files, ".py") {
		t.Error("Expected .py to be found")
	}
	if fsscan.ContainsExt(files, ".rs") {
		t.Error("Expected .rs to be absent")
	}

	got := fsscan.FilterExt(files, ".go", 3)
	if len(got) != 3 {
		t.Errorf("Expected the limit to cap results at 3, got %d", len(got))
	}
}

func TestDominantLanguage(t *testing.T) {
	tests := []struct {
		name      string
		extCounts map[string]int
		want      string
	}{
		{"python heavy", map[string]int{".py": 10, ".js": 2}, "Python"},
		{"mixed js/ts counted together", map[string]int{".ts": 3, ".jsx": 3, ".go": 4}, "JavaScript/TypeScript"},
		{"only unknown extensions", map[string]int{".xyz": 5}, "Unknown"},
		{"empty", map[string]int{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fsscan.DominantLanguage(tt.extCounts); got != tt.want {
				t.Errorf("DominantLanguage = %q, want %q", got, tt.want)
			}
		})
	}
}
