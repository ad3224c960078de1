package alternatives

import (
	"fmt"
	"sort"
	"strings"

	"stackscan/pkg/detection/conflicts"
	"stackscan/pkg/detection/types"
)

// maxSuggestions caps the returned list
const maxSuggestions = 5

// lowConfidenceThreshold gates the text-mention generator: mining weak
// mentions only pays off when the pipeline is unsure
const lowConfidenceThreshold = 0.6

// mentionFrameworks maps text-mention keywords to presentable framework names
var mentionFrameworks = map[string]string{
	"react":   "React",
	"vue":     "Vue.js",
	"angular": "Angular",
	"svelte":  "Svelte",
	"django":  "Django",
	"flask":   "Flask",
	"fastapi": "FastAPI",
	"express": "Express",
	"next.js": "Next.js",
	"gin":     "Gin",
	"echo":    "Echo",
	"spring":  "Spring",
	"rails":   "Rails",
	"laravel": "Laravel",
}

// configFileHints maps filename substrings to suggestions
var configFileHints = []struct {
	substring string
	name      string
	stype     types.SuggestionType
}{
	{"webpack", "webpack", types.SuggestionBuildTool},
	{"vite", "vite", types.SuggestionBuildTool},
	{"next", "Next.js", types.SuggestionFramework},
	{"vue", "Vue.js", types.SuggestionFramework},
	{"angular", "Angular", types.SuggestionFramework},
	{"django", "Django", types.SuggestionFramework},
	{"flask", "Flask", types.SuggestionFramework},
}

// languageFrameworks maps declared languages to conventional framework picks
var languageFrameworks = map[string][]string{
	"python":     {"Django", "Flask", "FastAPI"},
	"javascript": {"React", "Express"},
	"typescript": {"React", "NestJS"},
	"go":         {"Gin", "Echo"},
	"java":       {"Spring Boot"},
	"rust":       {"Actix Web", "Axum"},
	"ruby":       {"Rails"},
	"php":        {"Laravel"},
}

// Generate proposes additional candidates not already detected, driven by
// weak evidence, config-file hints and ecosystem conventions. Never more than
// five, sorted by descending confidence, deduplicated by (name, type).
func Generate(ctx *types.DetectionContext) []types.AlternativeSuggestion {
	detected := detectedNames(ctx.Frameworks)

	var suggestions []types.AlternativeSuggestion
	suggestions = append(suggestions, fromTextMentions(ctx, detected)...)
	suggestions = append(suggestions, fromConfigFiles(ctx, detected)...)
	suggestions = append(suggestions, fromLanguages(ctx, detected)...)
	suggestions = append(suggestions, fromLanguageMismatches(ctx)...)

	suggestions = dedupe(suggestions)

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		return suggestions[i].Name < suggestions[j].Name
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func detectedNames(frameworks []types.FrameworkInfo) map[string]bool {
	names := map[string]bool{}
	for _, fw := range frameworks {
		names[conflicts.NormalizeName(fw.Name)] = true
	}
	return names
}

// fromTextMentions mines weak text_mention evidence when overall confidence
// is low; each undetected mention becomes a suggestion at 0.6x its weight
func fromTextMentions(ctx *types.DetectionContext, detected map[string]bool) []types.AlternativeSuggestion {
	if ctx.Confidence != nil && ctx.Confidence.Score >= lowConfidenceThreshold {
		return nil
	}

	var out []types.AlternativeSuggestion
	for _, ev := range ctx.Evidence {
		if ev.Type != types.EvidenceTextMention {
			continue
		}
		name, ok := mentionFrameworks[strings.ToLower(ev.Value)]
		if !ok || detected[conflicts.NormalizeName(name)] {
			continue
		}
		out = append(out, types.AlternativeSuggestion{
			Name:       name,
			Type:       types.SuggestionFramework,
			Reason:     fmt.Sprintf("%q is mentioned in the README but was not detected", ev.Value),
			Confidence: ev.Weight * 0.6,
			Evidence:   []string{fmt.Sprintf("text mention of %q in %s", ev.Value, ev.Source)},
			SuggestedActions: []string{
				fmt.Sprintf("check whether the project actually depends on %s", name),
			},
		})
	}
	return out
}

// fromConfigFiles maps config filename substrings to suggestions at fixed
// confidence 0.7
func fromConfigFiles(ctx *types.DetectionContext, detected map[string]bool) []types.AlternativeSuggestion {
	if ctx.Info == nil {
		return nil
	}

	var out []types.AlternativeSuggestion
	for _, cf := range ctx.Info.ConfigFiles {
		lower := strings.ToLower(cf)
		for _, hint := range configFileHints {
			if !strings.Contains(lower, hint.substring) {
				continue
			}
			if hint.stype == types.SuggestionFramework && detected[conflicts.NormalizeName(hint.name)] {
				continue
			}
			out = append(out, types.AlternativeSuggestion{
				Name:       hint.name,
				Type:       hint.stype,
				Reason:     fmt.Sprintf("config file %q suggests %s", cf, hint.name),
				Confidence: 0.7,
				Evidence:   []string{fmt.Sprintf("config file name %q", cf)},
				SuggestedActions: []string{
					fmt.Sprintf("inspect %s to confirm %s usage", cf, hint.name),
				},
			})
		}
	}
	return out
}

// fromLanguages proposes each declared language's conventional frameworks at
// low confidence
func fromLanguages(ctx *types.DetectionContext, detected map[string]bool) []types.AlternativeSuggestion {
	if ctx.Info == nil {
		return nil
	}

	var out []types.AlternativeSuggestion
	for _, lang := range ctx.Info.Languages {
		for _, name := range languageFrameworks[strings.ToLower(strings.TrimSpace(lang))] {
			if detected[conflicts.NormalizeName(name)] {
				continue
			}
			out = append(out, types.AlternativeSuggestion{
				Name:       name,
				Type:       types.SuggestionFramework,
				Reason:     fmt.Sprintf("%s is a common choice for %s projects", name, lang),
				Confidence: 0.3,
				Evidence:   []string{fmt.Sprintf("declared language %q", lang)},
				SuggestedActions: []string{
					fmt.Sprintf("look for %s dependencies in the project manifests", name),
				},
			})
		}
	}
	return out
}

// fromLanguageMismatches suggests adding a language when a detected
// framework's expected language is missing from the declared set
func fromLanguageMismatches(ctx *types.DetectionContext) []types.AlternativeSuggestion {
	if ctx.Info == nil {
		return nil
	}

	declared := strings.ToLower(strings.Join(ctx.Info.Languages, " "))

	var out []types.AlternativeSuggestion
	for _, fw := range ctx.Frameworks {
		expected := conflicts.ExpectedLanguages(conflicts.NormalizeName(fw.Name))
		if len(expected) == 0 {
			continue
		}
		found := false
		for _, lang := range expected {
			if strings.Contains(declared, lang) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		out = append(out, types.AlternativeSuggestion{
			Name:       expected[0],
			Type:       types.SuggestionLanguage,
			Reason:     fmt.Sprintf("detected framework %s implies %s", fw.Name, expected[0]),
			Confidence: 0.8,
			Evidence:   []string{fmt.Sprintf("framework %s detected at confidence %.2f", fw.Name, fw.Confidence)},
			SuggestedActions: []string{
				fmt.Sprintf("add %s to the project's declared languages", expected[0]),
			},
			ConflictsWith: ctx.Info.Languages,
		})
	}
	return out
}

// dedupe removes repeated (name, type) pairs, keeping the first occurrence
func dedupe(suggestions []types.AlternativeSuggestion) []types.AlternativeSuggestion {
	seen := map[string]bool{}
	var out []types.AlternativeSuggestion
	for _, s := range suggestions {
		key := conflicts.NormalizeName(s.Name) + "|" + string(s.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
