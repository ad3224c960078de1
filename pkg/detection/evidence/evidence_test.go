package evidence_test

import (
	"os"
	"path/filepath"
	"testing"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/types"
)

func TestWeightTable(t *testing.T) {
	tests := []struct {
		evType types.EvidenceType
		weight float64
	}{
		{types.EvidenceImportStatement, 0.9},
		{types.EvidenceConfigFile, 0.8},
		{types.EvidenceDependency, 0.7},
		{types.EvidenceFilePattern, 0.6},
		{types.EvidenceVersionInfo, 0.6},
		{types.EvidenceCommandPattern, 0.5},
		{types.EvidenceScriptCommand, 0.5},
		{types.EvidenceAnnotation, 0.4},
		{types.EvidenceDirectoryStructure, 0.3},
		{types.EvidenceTextMention, 0.2},
	}

	for _, tt := range tests {
		t.Run(string(tt.evType), func(t *testing.T) {
			if got := evidence.WeightFor(tt.evType); got != tt.weight {
				t.Errorf("WeightFor(%s) = %v, want %v", tt.evType, got, tt.weight)
			}
		})
	}
}

func TestNewUsesDefaultWeight(t *testing.T) {
	ev := evidence.New(types.EvidenceDependency, "dependencies", "gin")
	if ev.Weight != 0.7 {
		t.Errorf("Expected default dependency weight 0.7, got %v", ev.Weight)
	}
	if ev.Source != "dependencies" || ev.Value != "gin" {
		t.Errorf("Unexpected evidence fields: %+v", ev)
	}
}

func TestCollectNilInfo(t *testing.T) {
	items, err := evidence.NewCollector().Collect(nil, "")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if items != nil {
		t.Errorf("Expected nil evidence for nil info, got %d items", len(items))
	}
}

func TestCollectFromMetadata(t *testing.T) {
	info := &types.ProjectInfo{
		Name:          "demo",
		Dependencies:  []string{"gin-gonic/gin", "  ", "stretchr/testify"},
		ConfigFiles:   []string{"go.mod", ""},
		BuildCommands: []string{"go build ./..."},
		TestCommands:  []string{"go test ./..."},
		RawContent:    "A web service built with Gin and deployed via Docker.",
	}

	items, err := evidence.NewCollector().Collect(info, "")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	counts := map[types.EvidenceType]int{}
	for _, ev := range items {
		counts[ev.Type]++
	}

	if counts[types.EvidenceDependency] != 2 {
		t.Errorf("Expected 2 dependency items (blank dropped), got %d", counts[types.EvidenceDependency])
	}
	if counts[types.EvidenceConfigFile] != 1 {
		t.Errorf("Expected 1 config file item (blank dropped), got %d", counts[types.EvidenceConfigFile])
	}
	if counts[types.EvidenceCommandPattern] != 2 {
		t.Errorf("Expected 2 command items, got %d", counts[types.EvidenceCommandPattern])
	}
	if counts[types.EvidenceTextMention] < 2 {
		t.Errorf("Expected text mentions for gin and docker, got %d", counts[types.EvidenceTextMention])
	}
}

func TestCollectInstallSteps(t *testing.T) {
	info := &types.ProjectInfo{
		InstallSteps: []string{"npm ci", "  ", "npx playwright install"},
	}

	items, err := evidence.NewCollector().Collect(info, "")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	var scripts []types.Evidence
	for _, ev := range items {
		if ev.Type == types.EvidenceScriptCommand {
			scripts = append(scripts, ev)
		}
	}
	if len(scripts) != 2 {
		t.Fatalf("Expected 2 script items (blank dropped), got %d", len(scripts))
	}
	for _, ev := range scripts {
		if ev.Source != "install_steps" {
			t.Errorf("Expected source install_steps, got %q", ev.Source)
		}
		if ev.Weight != 0.5 {
			t.Errorf("Expected script weight 0.5, got %v", ev.Weight)
		}
	}
}

func TestCollectCommandContext(t *testing.T) {
	info := &types.ProjectInfo{
		BuildCommands: []string{"npm run build"},
		TestCommands:  []string{"npm test"},
	}

	items, err := evidence.NewCollector().Collect(info, "")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := map[string]string{"npm run build": "build", "npm test": "test"}
	for _, ev := range items {
		if ev.Type != types.EvidenceCommandPattern {
			continue
		}
		if ev.Context["command_type"] != want[ev.Value] {
			t.Errorf("Command %q carried command_type %q, want %q",
				ev.Value, ev.Context["command_type"], want[ev.Value])
		}
	}
}

func TestCollectFilesystemEvidence(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"package.json", "Dockerfile"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	info := &types.ProjectInfo{Name: "demo"}
	items, err := evidence.NewCollector().Collect(info, dir)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	found := map[string]bool{}
	for _, ev := range items {
		if ev.Source == "filesystem" {
			found[ev.Value] = true
			if ev.Location == "" {
				t.Errorf("Expected filesystem evidence for %s to carry a location", ev.Value)
			}
		}
	}
	if !found["package.json"] || !found["Dockerfile"] {
		t.Errorf("Expected filesystem evidence for package.json and Dockerfile, got %v", found)
	}
}

func TestCollectInaccessiblePathDegrades(t *testing.T) {
	info := &types.ProjectInfo{Dependencies: []string{"flask"}}

	items, err := evidence.NewCollector().Collect(info, "/nonexistent/path/nowhere")
	if err != nil {
		t.Fatalf("Expected inaccessible path to not fail collection: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected metadata evidence to survive, got %d items", len(items))
	}
}
