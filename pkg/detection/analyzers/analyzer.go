package analyzers

import (
	"context"
	"strings"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/types"
)

// Analyzer inspects project metadata (plus optional filesystem access) for
// one ecosystem. CanAnalyze must stay cheap: it gates whether the engine
// invokes Analyze at all.
type Analyzer interface {
	Ecosystem() types.Ecosystem
	CanAnalyze(info *types.ProjectInfo) bool
	Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error)
}

// Registry returns the fixed analyzer set in deterministic order. Analyzers
// are selected by ecosystem tag at startup, never loaded dynamically.
func Registry() []Analyzer {
	return []Analyzer{
		NewGoAnalyzer(),
		NewNodeAnalyzer(),
		NewPythonAnalyzer(),
		NewJavaAnalyzer(),
		NewRustAnalyzer(),
		NewFrontendAnalyzer(),
		NewContainerAnalyzer(),
	}
}

// depPattern maps a dependency identifier substring to a framework
type depPattern struct {
	match      string
	name       string
	ftype      types.FrameworkType
	confidence float64
}

// matchDependencies scans declared dependency names against a pattern table
// and builds one FrameworkInfo per matched framework, each carrying its own
// evidence subset.
func matchDependencies(info *types.ProjectInfo, patterns []depPattern, eco types.Ecosystem) []types.FrameworkInfo {
	var frameworks []types.FrameworkInfo
	seen := map[string]bool{}

	for _, p := range patterns {
		if seen[p.name] {
			continue
		}
		for _, dep := range info.Dependencies {
			if !strings.Contains(strings.ToLower(dep), p.match) {
				continue
			}
			ev := evidence.New(types.EvidenceDependency, "dependencies", dep)
			frameworks = append(frameworks, types.FrameworkInfo{
				Name:       p.name,
				Type:       p.ftype,
				Confidence: p.confidence,
				Evidence:   []types.Evidence{ev},
				Ecosystem:  eco,
			})
			seen[p.name] = true
			break
		}
	}
	return frameworks
}

// combinedConfidence is the analyzer-level confidence formula: manifest
// presence +0.4, build tool +0.3, frameworks found +0.2, more than one
// framework +0.1, capped at 1.0.
func combinedConfidence(hasManifest, hasBuildTool bool, frameworkCount int) float64 {
	c := 0.0
	if hasManifest {
		c += 0.4
	}
	if hasBuildTool {
		c += 0.3
	}
	if frameworkCount > 0 {
		c += 0.2
	}
	if frameworkCount > 1 {
		c += 0.1
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// degradedResult is what an analyzer returns when file I/O or parsing failed:
// empty detections at floor confidence plus a warning, never an error.
func degradedResult(eco types.Ecosystem, language, warning string) *types.LanguageDetectionResult {
	return &types.LanguageDetectionResult{
		Ecosystem:  eco,
		Language:   language,
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Confidence: 0.1,
		Warnings:   []string{warning},
	}
}

// hasLanguage checks the declared language list case-insensitively
func hasLanguage(info *types.ProjectInfo, names ...string) bool {
	for _, lang := range info.Languages {
		l := strings.ToLower(lang)
		for _, n := range names {
			if strings.Contains(l, n) {
				return true
			}
		}
	}
	return false
}

// hasConfigFile checks the declared config file list for a base name
func hasConfigFile(info *types.ProjectInfo, names ...string) bool {
	for _, cf := range info.ConfigFiles {
		base := strings.ToLower(strings.TrimSpace(cf))
		for _, n := range names {
			if base == n || strings.HasSuffix(base, "/"+n) {
				return true
			}
		}
	}
	return false
}

// hasCommandPrefix checks build/test command strings for a leading token
func hasCommandPrefix(info *types.ProjectInfo, prefixes ...string) bool {
	check := func(cmds []string) bool {
		for _, cmd := range cmds {
			c := strings.TrimSpace(strings.ToLower(cmd))
			for _, p := range prefixes {
				if strings.HasPrefix(c, p) {
					return true
				}
			}
		}
		return false
	}
	return check(info.BuildCommands) || check(info.TestCommands)
}

// hasDependencyContaining checks declared dependencies for a substring
func hasDependencyContaining(info *types.ProjectInfo, sub string) bool {
	for _, dep := range info.Dependencies {
		if strings.Contains(strings.ToLower(dep), sub) {
			return true
		}
	}
	return false
}
