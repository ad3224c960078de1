package alternatives_test

import (
	"testing"

	"stackscan/pkg/detection/alternatives"
	"stackscan/pkg/detection/types"
)

func lowConfidence() *types.OverallConfidence {
	return &types.OverallConfidence{Score: 0.3, Level: types.ConfidenceLow}
}

func highConfidence() *types.OverallConfidence {
	return &types.OverallConfidence{Score: 0.9, Level: types.ConfidenceHigh}
}

func TestGenerateFromTextMentions(t *testing.T) {
	ctx := &types.DetectionContext{
		Info:       &types.ProjectInfo{},
		Confidence: lowConfidence(),
		Evidence: []types.Evidence{
			{Type: types.EvidenceTextMention, Source: "readme_content", Value: "svelte", Weight: 0.2},
		},
	}

	suggestions := alternatives.Generate(ctx)

	found := false
	for _, s := range suggestions {
		if s.Name == "Svelte" && s.Type == types.SuggestionFramework {
			found = true
			if s.Confidence != 0.2*0.6 {
				t.Errorf("Expected confidence 0.12 (0.6x weight), got %v", s.Confidence)
			}
			if len(s.SuggestedActions) == 0 {
				t.Error("Expected suggested actions")
			}
		}
	}
	if !found {
		t.Errorf("Expected a Svelte suggestion from the text mention, got %+v", suggestions)
	}
}

func TestTextMentionsGatedByConfidence(t *testing.T) {
	ctx := &types.DetectionContext{
		Info:       &types.ProjectInfo{},
		Confidence: highConfidence(),
		Evidence: []types.Evidence{
			{Type: types.EvidenceTextMention, Source: "readme_content", Value: "svelte", Weight: 0.2},
		},
	}

	for _, s := range alternatives.Generate(ctx) {
		if s.Name == "Svelte" {
			t.Error("Expected text mention mining to be skipped at high confidence")
		}
	}
}

func TestGenerateSkipsDetected(t *testing.T) {
	ctx := &types.DetectionContext{
		Info:       &types.ProjectInfo{ConfigFiles: []string{"vue.config.js"}},
		Confidence: lowConfidence(),
		Frameworks: []types.FrameworkInfo{{Name: "Vue.js", Confidence: 0.9}},
	}

	for _, s := range alternatives.Generate(ctx) {
		if s.Name == "Vue.js" && s.Type == types.SuggestionFramework {
			t.Error("Expected already-detected frameworks to be excluded")
		}
	}
}

func TestGenerateFromConfigFiles(t *testing.T) {
	ctx := &types.DetectionContext{
		Info:       &types.ProjectInfo{ConfigFiles: []string{"webpack.config.js"}},
		Confidence: highConfidence(),
	}

	suggestions := alternatives.Generate(ctx)

	found := false
	for _, s := range suggestions {
		if s.Name == "webpack" && s.Type == types.SuggestionBuildTool {
			found = true
			if s.Confidence != 0.7 {
				t.Errorf("Expected fixed confidence 0.7, got %v", s.Confidence)
			}
		}
	}
	if !found {
		t.Errorf("Expected a webpack suggestion from its config file, got %+v", suggestions)
	}
}

func TestGenerateFromLanguages(t *testing.T) {
	ctx := &types.DetectionContext{
		Info:       &types.ProjectInfo{Languages: []string{"Python"}},
		Confidence: highConfidence(),
	}

	suggestions := alternatives.Generate(ctx)

	names := map[string]bool{}
	for _, s := range suggestions {
		names[s.Name] = true
		if s.Type == types.SuggestionFramework && s.Confidence != 0.3 {
			t.Errorf("Expected convention suggestions at 0.3, got %v for %s", s.Confidence, s.Name)
		}
	}
	if !names["Django"] || !names["Flask"] {
		t.Errorf("Expected conventional Python frameworks, got %v", names)
	}
}

func TestGenerateLanguageSuggestionFromMismatch(t *testing.T) {
	ctx := &types.DetectionContext{
		Info:       &types.ProjectInfo{Languages: []string{"Python"}},
		Confidence: highConfidence(),
		Frameworks: []types.FrameworkInfo{{Name: "Gin", Confidence: 0.9}},
	}

	suggestions := alternatives.Generate(ctx)

	found := false
	for _, s := range suggestions {
		if s.Type == types.SuggestionLanguage && s.Name == "go" {
			found = true
			if s.Confidence != 0.8 {
				t.Errorf("Expected mismatch suggestions at 0.8, got %v", s.Confidence)
			}
			if len(s.ConflictsWith) == 0 {
				t.Error("Expected the declared languages listed as conflicting")
			}
		}
	}
	if !found {
		t.Errorf("Expected a go language suggestion, got %+v", suggestions)
	}
}

func TestGenerateCapAndOrder(t *testing.T) {
	// plenty of generators firing at once: mentions, config hints and three
	// declared languages worth of conventions
	ctx := &types.DetectionContext{
		Info: &types.ProjectInfo{
			Languages:   []string{"Python", "JavaScript", "Rust"},
			ConfigFiles: []string{"webpack.config.js", "vite.config.ts"},
		},
		Confidence: lowConfidence(),
		Evidence: []types.Evidence{
			{Type: types.EvidenceTextMention, Source: "readme_content", Value: "rails", Weight: 0.2},
			{Type: types.EvidenceTextMention, Source: "readme_content", Value: "laravel", Weight: 0.2},
		},
	}

	suggestions := alternatives.Generate(ctx)

	if len(suggestions) > 5 {
		t.Fatalf("Expected at most 5 suggestions, got %d", len(suggestions))
	}
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i].Confidence > suggestions[i-1].Confidence {
			t.Errorf("Expected descending confidence, got %v after %v",
				suggestions[i].Confidence, suggestions[i-1].Confidence)
		}
	}

	seen := map[string]bool{}
	for _, s := range suggestions {
		key := s.Name + "|" + string(s.Type)
		if seen[key] {
			t.Errorf("Duplicate suggestion %q", key)
		}
		seen[key] = true
	}
}

func TestGenerateEmptyContext(t *testing.T) {
	suggestions := alternatives.Generate(&types.DetectionContext{})
	if len(suggestions) != 0 {
		t.Errorf("Expected no suggestions from an empty context, got %d", len(suggestions))
	}
}
