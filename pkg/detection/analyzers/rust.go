package analyzers

import (
	"context"
	"fmt"
	"sort"

	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"

	"github.com/pelletier/go-toml/v2"
)

var rustDepPatterns = []depPattern{
	{match: "actix-web", name: "Actix Web", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "axum", name: "Axum", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "rocket", name: "Rocket", ftype: types.FrameworkWeb, confidence: 0.85},
	{match: "warp", name: "Warp", ftype: types.FrameworkWeb, confidence: 0.8},
	{match: "tokio", name: "Tokio", ftype: types.FrameworkWeb, confidence: 0.6},
	{match: "diesel", name: "Diesel", ftype: types.FrameworkORM, confidence: 0.8},
}

// RustAnalyzer detects Rust frameworks and the cargo toolchain
type RustAnalyzer struct{}

// NewRustAnalyzer creates the Rust ecosystem analyzer
func NewRustAnalyzer() *RustAnalyzer { return &RustAnalyzer{} }

func (a *RustAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemRust }

func (a *RustAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	return hasLanguage(info, "rust") ||
		hasConfigFile(info, "cargo.toml", "cargo.lock") ||
		hasCommandPrefix(info, "cargo ")
}

func (a *RustAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemRust,
		Language:   "Rust",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Metadata:   map[string]string{},
	}

	result.Frameworks = append(result.Frameworks, matchDependencies(info, rustDepPatterns, types.EcosystemRust)...)

	hasManifest := hasConfigFile(info, "cargo.toml")
	hasLockfile := hasConfigFile(info, "cargo.lock")

	if projectPath != "" {
		scanner := fsscan.New(projectPath)

		if scanner.Has("Cargo.toml") {
			hasManifest = true
			deps, meta, err := parseCargoToml(scanner.Read("Cargo.toml"))
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Cargo.toml could not be parsed: %v", err))
			} else {
				result.Frameworks = mergeManifestFrameworks(result.Frameworks, deps, rustDepPatterns, types.EcosystemRust, "Cargo.toml")
				for k, v := range meta {
					result.Metadata[k] = v
				}
			}
		}
		hasLockfile = hasLockfile || scanner.Has("Cargo.lock")

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	if hasManifest {
		tool := types.BuildToolInfo{
			Name:       "cargo",
			ConfigFile: "Cargo.toml",
			Confidence: 0.8,
			Commands: []types.BuildCommand{
				{Name: "build", Command: "cargo build --release", IsPrimary: true},
				{Name: "test", Command: "cargo test"},
			},
		}
		if hasLockfile {
			tool.Confidence = 0.95
		}
		result.BuildTools = append(result.BuildTools, tool)
	}

	if hasManifest && !hasLockfile {
		result.Recommendations = append(result.Recommendations,
			"commit Cargo.lock for reproducible builds")
	}

	result.Confidence = combinedConfidence(hasManifest, len(result.BuildTools) > 0, len(result.Frameworks))
	return result, nil
}

type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Edition string `toml:"edition"`
	} `toml:"package"`
	Workspace    map[string]any `toml:"workspace"`
	Dependencies map[string]any `toml:"dependencies"`
}

func parseCargoToml(content string) ([]string, map[string]string, error) {
	var manifest cargoManifest
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, nil, err
	}

	deps := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		deps = append(deps, name)
	}
	sort.Strings(deps)

	meta := map[string]string{}
	if manifest.Package.Name != "" {
		meta["package_name"] = manifest.Package.Name
	}
	if manifest.Package.Edition != "" {
		meta["edition"] = manifest.Package.Edition
	}
	if len(manifest.Workspace) > 0 {
		meta["workspace"] = "true"
	}
	return deps, meta, nil
}
