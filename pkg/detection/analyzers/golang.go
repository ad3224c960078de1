package analyzers

import (
	"context"
	"strings"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
)

var goDepPatterns = []depPattern{
	{match: "gin-gonic/gin", name: "Gin", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "labstack/echo", name: "Echo", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "gofiber/fiber", name: "Fiber", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "go-chi/chi", name: "Chi", ftype: types.FrameworkWeb, confidence: 0.85},
	{match: "gorilla/mux", name: "Gorilla Mux", ftype: types.FrameworkWeb, confidence: 0.8},
	{match: "spf13/cobra", name: "Cobra", ftype: types.FrameworkCLI, confidence: 0.8},
	{match: "gorm.io/gorm", name: "GORM", ftype: types.FrameworkORM, confidence: 0.85},
	{match: "stretchr/testify", name: "Testify", ftype: types.FrameworkTesting, confidence: 0.8},
}

// GoAnalyzer detects Go frameworks and the Go toolchain
type GoAnalyzer struct{}

// NewGoAnalyzer creates the Go ecosystem analyzer
func NewGoAnalyzer() *GoAnalyzer { return &GoAnalyzer{} }

func (a *GoAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemGo }

func (a *GoAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	return hasLanguage(info, "go", "golang") ||
		hasConfigFile(info, "go.mod", "go.sum") ||
		hasCommandPrefix(info, "go build", "go test", "go run") ||
		hasDependencyContaining(info, "github.com/")
}

func (a *GoAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemGo,
		Language:   "Go",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Metadata:   map[string]string{},
	}

	result.Frameworks = append(result.Frameworks, matchDependencies(info, goDepPatterns, types.EcosystemGo)...)

	hasManifest := hasConfigFile(info, "go.mod")
	hasLockfile := hasConfigFile(info, "go.sum")

	if projectPath != "" {
		scanner := fsscan.New(projectPath)
		if scanner.Has("go.mod") {
			hasManifest = true
			mod := parseGoMod(scanner.Read("go.mod"))
			if mod.module != "" {
				result.Metadata["module"] = mod.module
			}
			if mod.goVersion != "" {
				result.Metadata["go_version"] = mod.goVersion
			}
			if mod.workspace {
				result.Metadata["workspace"] = "true"
			}
			result.Frameworks = mergeManifestFrameworks(result.Frameworks, mod.requires, goDepPatterns, types.EcosystemGo, "go.mod")
		}
		hasLockfile = hasLockfile || scanner.Has("go.sum")

		if v := runtimeVersion(scanner, "go"); v != "" {
			result.Metadata["runtime_version"] = v
		}

		result.Frameworks = a.sampleSourceImports(scanner, result.Frameworks)

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	if hasManifest {
		tool := types.BuildToolInfo{
			Name:       "go",
			ConfigFile: "go.mod",
			Confidence: 0.8,
			Commands: []types.BuildCommand{
				{Name: "build", Command: "go build ./...", IsPrimary: true},
				{Name: "test", Command: "go test ./..."},
			},
		}
		if hasLockfile {
			tool.Confidence = 0.95
		}
		result.BuildTools = append(result.BuildTools, tool)
	}

	if hasManifest && !hasLockfile {
		result.Recommendations = append(result.Recommendations,
			"commit go.sum for reproducible builds")
	}

	result.Confidence = combinedConfidence(hasManifest, len(result.BuildTools) > 0, len(result.Frameworks))
	return result, nil
}

// sampleSourceImports inspects a bounded sample of .go files for framework
// import paths, upgrading dependency evidence to import evidence
func (a *GoAnalyzer) sampleSourceImports(scanner *fsscan.Scanner, frameworks []types.FrameworkInfo) []types.FrameworkInfo {
	files, _, err := scanner.ScanTree()
	if err != nil {
		return frameworks
	}

	for _, f := range fsscan.FilterExt(files, ".go", maxSourceSamples) {
		content := scanner.Read(f)
		for i := range frameworks {
			for _, p := range goDepPatterns {
				if p.name != frameworks[i].Name {
					continue
				}
				if strings.Contains(content, `"`+p.match) || strings.Contains(content, p.match+`"`) {
					ev := evidence.New(types.EvidenceImportStatement, f, p.match)
					ev.Location = f
					frameworks[i].Evidence = append(frameworks[i].Evidence, ev)
					if frameworks[i].Confidence < 0.95 {
						frameworks[i].Confidence = 0.95
					}
				}
			}
		}
	}
	return frameworks
}

type goModFile struct {
	module    string
	goVersion string
	workspace bool
	requires  []string
}

// parseGoMod is a permissive line-oriented go.mod reader. It tolerates
// comments, multi-line require blocks and unknown directives; it never fails.
func parseGoMod(content string) goModFile {
	var mod goModFile
	inRequire := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		switch {
		case strings.HasPrefix(line, "module "):
			mod.module = strings.TrimSpace(strings.TrimPrefix(line, "module "))
		case strings.HasPrefix(line, "go "):
			mod.goVersion = strings.TrimSpace(strings.TrimPrefix(line, "go "))
		case strings.HasPrefix(line, "use "), line == "use (":
			mod.workspace = true
		case strings.HasPrefix(line, "require ("):
			inRequire = true
		case line == ")":
			inRequire = false
		case strings.HasPrefix(line, "require "):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "require "))
			if fields := strings.Fields(rest); len(fields) > 0 {
				mod.requires = append(mod.requires, fields[0])
			}
		case inRequire:
			if fields := strings.Fields(line); len(fields) > 0 {
				mod.requires = append(mod.requires, fields[0])
			}
		}
	}
	return mod
}

// mergeManifestFrameworks adds frameworks matched in a parsed manifest that
// the declared-dependency pass missed, with config-file-grade evidence
func mergeManifestFrameworks(existing []types.FrameworkInfo, deps []string, patterns []depPattern, eco types.Ecosystem, source string) []types.FrameworkInfo {
	present := map[string]int{}
	for i, f := range existing {
		present[f.Name] = i
	}

	for _, p := range patterns {
		for _, dep := range deps {
			if !strings.Contains(strings.ToLower(dep), p.match) {
				continue
			}
			ev := evidence.New(types.EvidenceConfigFile, source, dep)
			if i, ok := present[p.name]; ok {
				existing[i].Evidence = append(existing[i].Evidence, ev)
				if existing[i].Confidence < p.confidence {
					existing[i].Confidence = p.confidence
				}
			} else {
				existing = append(existing, types.FrameworkInfo{
					Name:       p.name,
					Type:       p.ftype,
					Confidence: p.confidence,
					Evidence:   []types.Evidence{ev},
					Ecosystem:  eco,
				})
				present[p.name] = len(existing) - 1
			}
			break
		}
	}
	return existing
}
