package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestBuildProjectInfo(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"README.md":    "# demo\nA Gin service.",
		"go.mod":       "module demo\n",
		"go.sum":       "",
		"main.go":      "package main",
		"api/serve.go": "package api",
	})

	info := buildProjectInfo(dir)

	if info.Name != filepath.Base(dir) {
		t.Errorf("Expected the directory base as project name, got %q", info.Name)
	}
	if info.RawContent == "" {
		t.Error("Expected README content to be captured")
	}

	configs := map[string]bool{}
	for _, cf := range info.ConfigFiles {
		configs[cf] = true
	}
	if !configs["go.mod"] || !configs["go.sum"] {
		t.Errorf("Expected go.mod and go.sum in config files, got %v", info.ConfigFiles)
	}

	foundGo := false
	for _, lang := range info.Languages {
		if lang == "Go" {
			foundGo = true
		}
	}
	if !foundGo {
		t.Errorf("Expected Go in detected languages, got %v", info.Languages)
	}
}

func TestBuildProjectInfoReadmePrecedence(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"README.md":  "markdown readme",
		"README.txt": "plain readme",
	})

	info := buildProjectInfo(dir)
	if info.RawContent != "markdown readme" {
		t.Errorf("Expected README.md to win, got %q", info.RawContent)
	}
}

func TestBuildProjectInfoEmptyDir(t *testing.T) {
	info := buildProjectInfo(t.TempDir())

	if info.RawContent != "" {
		t.Errorf("Expected empty raw content, got %q", info.RawContent)
	}
	if len(info.ConfigFiles) != 0 {
		t.Errorf("Expected no config files, got %v", info.ConfigFiles)
	}
	if info.Languages == nil || info.Dependencies == nil {
		t.Error("Expected non-nil empty slices")
	}
}
