package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateProjectPath cleans a project path and verifies it is an existing
// directory, returning the absolute form
func ValidateProjectPath(projectPath string) (string, error) {
	projectPath = filepath.Clean(projectPath)

	info, err := os.Stat(projectPath)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", projectPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", projectPath)
	}

	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return projectPath, nil
	}
	return absPath, nil
}

// ProjectName derives a display name for a project from its path
func ProjectName(projectPath string) string {
	return filepath.Base(filepath.Clean(projectPath))
}
