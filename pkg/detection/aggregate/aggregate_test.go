package aggregate_test

import (
	"testing"

	"stackscan/pkg/detection/aggregate"
	"stackscan/pkg/detection/types"
)

func result(eco types.Ecosystem, frameworks []types.FrameworkInfo, tools []types.BuildToolInfo) *types.LanguageDetectionResult {
	return &types.LanguageDetectionResult{
		Ecosystem:  eco,
		Frameworks: frameworks,
		BuildTools: tools,
	}
}

func TestMergeDeduplicatesFrameworks(t *testing.T) {
	results := []*types.LanguageDetectionResult{
		result(types.EcosystemNode, []types.FrameworkInfo{
			{Name: "React", Ecosystem: types.EcosystemFrontend, Confidence: 0.7},
		}, nil),
		result(types.EcosystemFrontend, []types.FrameworkInfo{
			{Name: "react", Ecosystem: types.EcosystemFrontend, Confidence: 0.9},
		}, nil),
	}

	merged := aggregate.Merge(results)

	if len(merged.Frameworks) != 1 {
		t.Fatalf("Expected 1 framework after dedup, got %d", len(merged.Frameworks))
	}
	if merged.Frameworks[0].Confidence != 0.9 {
		t.Errorf("Expected the higher-confidence entry to win, got %v", merged.Frameworks[0].Confidence)
	}
	if len(merged.Warnings) != 1 {
		t.Fatalf("Expected a duplicate-resolution warning, got %d", len(merged.Warnings))
	}
	if merged.Warnings[0].ID != "duplicate_detections_resolved" {
		t.Errorf("Unexpected warning ID %q", merged.Warnings[0].ID)
	}
}

func TestMergeKeepsDistinctEcosystems(t *testing.T) {
	// React from the frontend analyzer and Express from the node analyzer
	// share nothing; both survive
	results := []*types.LanguageDetectionResult{
		result(types.EcosystemFrontend, []types.FrameworkInfo{
			{Name: "React", Ecosystem: types.EcosystemFrontend, Confidence: 0.9},
		}, nil),
		result(types.EcosystemNode, []types.FrameworkInfo{
			{Name: "Express", Ecosystem: types.EcosystemNode, Confidence: 0.85},
		}, nil),
	}

	merged := aggregate.Merge(results)

	if len(merged.Frameworks) != 2 {
		t.Errorf("Expected 2 frameworks, got %d", len(merged.Frameworks))
	}
	if len(merged.Warnings) != 0 {
		t.Errorf("Expected no warnings without duplicates, got %d", len(merged.Warnings))
	}
}

func TestMergeFirstWinsTies(t *testing.T) {
	first := types.FrameworkInfo{Name: "Gin", Ecosystem: types.EcosystemGo, Confidence: 0.9, Version: "1.9.1"}
	second := types.FrameworkInfo{Name: "Gin", Ecosystem: types.EcosystemGo, Confidence: 0.9, Version: "1.8.0"}

	merged := aggregate.Merge([]*types.LanguageDetectionResult{
		result(types.EcosystemGo, []types.FrameworkInfo{first}, nil),
		result(types.EcosystemGo, []types.FrameworkInfo{second}, nil),
	})

	if len(merged.Frameworks) != 1 {
		t.Fatalf("Expected 1 framework, got %d", len(merged.Frameworks))
	}
	if merged.Frameworks[0].Version != "1.9.1" {
		t.Errorf("Expected the first entry to win a tie, got version %q", merged.Frameworks[0].Version)
	}
}

func TestMergeBuildTools(t *testing.T) {
	merged := aggregate.Merge([]*types.LanguageDetectionResult{
		result(types.EcosystemNode, nil, []types.BuildToolInfo{{Name: "npm", Confidence: 0.7}}),
		result(types.EcosystemFrontend, nil, []types.BuildToolInfo{
			{Name: "NPM", Confidence: 0.9},
			{Name: "vite", Confidence: 0.8},
		}),
	})

	if len(merged.BuildTools) != 2 {
		t.Fatalf("Expected npm deduplicated case-insensitively, got %d tools", len(merged.BuildTools))
	}
	for _, bt := range merged.BuildTools {
		if bt.Name == "NPM" && bt.Confidence != 0.9 {
			t.Errorf("Expected the stronger npm entry to win, got %v", bt.Confidence)
		}
	}
}

func TestMergeSkipsNilResults(t *testing.T) {
	merged := aggregate.Merge([]*types.LanguageDetectionResult{
		nil,
		result(types.EcosystemGo, []types.FrameworkInfo{{Name: "Gin", Ecosystem: types.EcosystemGo, Confidence: 0.9}}, nil),
		nil,
	})

	if len(merged.Frameworks) != 1 {
		t.Errorf("Expected nil results to be skipped, got %d frameworks", len(merged.Frameworks))
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	input := result(types.EcosystemGo, []types.FrameworkInfo{
		{Name: "Gin", Ecosystem: types.EcosystemGo, Confidence: 0.5},
		{Name: "Gin", Ecosystem: types.EcosystemGo, Confidence: 0.9},
	}, nil)

	aggregate.Merge([]*types.LanguageDetectionResult{input})

	if len(input.Frameworks) != 2 {
		t.Errorf("Expected the input slice to stay untouched, got %d entries", len(input.Frameworks))
	}
	if input.Frameworks[0].Confidence != 0.5 {
		t.Errorf("Expected input entries to keep their values, got %v", input.Frameworks[0].Confidence)
	}
}
