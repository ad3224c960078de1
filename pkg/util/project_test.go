package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"stackscan/pkg/util"
)

func TestValidateProjectPath(t *testing.T) {
	dir := t.TempDir()

	got, err := util.ValidateProjectPath(dir)
	if err != nil {
		t.Fatalf("ValidateProjectPath failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected an absolute path, got %q", got)
	}

	if _, err := util.ValidateProjectPath(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected an error for a missing path")
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := util.ValidateProjectPath(file); err == nil {
		t.Error("Expected an error for a non-directory path")
	}
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/user/my-app", "my-app"},
		{"/home/user/my-app/", "my-app"},
		{".", "."},
	}

	for _, tt := range tests {
		if got := util.ProjectName(tt.in); got != tt.want {
			t.Errorf("ProjectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
