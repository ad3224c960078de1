package analyzers

import (
	"context"
	"strings"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
)

var frontendDepPatterns = []depPattern{
	{match: "react", name: "React", ftype: types.FrameworkFrontend, confidence: 0.9},
	{match: "vue", name: "Vue.js", ftype: types.FrameworkFrontend, confidence: 0.9},
	{match: "@angular/core", name: "Angular", ftype: types.FrameworkFrontend, confidence: 0.9},
	{match: "svelte", name: "Svelte", ftype: types.FrameworkFrontend, confidence: 0.9},
	{match: "solid-js", name: "SolidJS", ftype: types.FrameworkFrontend, confidence: 0.85},
}

var frontendBuildTools = []struct {
	configFiles []string
	name        string
}{
	{[]string{"vite.config.js", "vite.config.ts"}, "vite"},
	{[]string{"webpack.config.js", "webpack.config.ts"}, "webpack"},
	{[]string{"rollup.config.js", "rollup.config.mjs"}, "rollup"},
	{[]string{"angular.json"}, "angular-cli"},
}

// FrontendAnalyzer detects browser UI frameworks and bundlers. It overlaps
// the node analyzer deliberately: frontend frameworks get the "frontend"
// ecosystem tag so React detected here never collides with Express detected
// there.
type FrontendAnalyzer struct{}

// NewFrontendAnalyzer creates the frontend ecosystem analyzer
func NewFrontendAnalyzer() *FrontendAnalyzer { return &FrontendAnalyzer{} }

func (a *FrontendAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemFrontend }

func (a *FrontendAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	if hasLanguage(info, "javascript", "typescript") || hasConfigFile(info, "package.json") {
		return true
	}
	for _, p := range frontendDepPatterns {
		if hasDependencyContaining(info, p.match) {
			return true
		}
	}
	return false
}

func (a *FrontendAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemFrontend,
		Language:   "JavaScript/TypeScript",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Metadata:   map[string]string{},
	}

	result.Frameworks = append(result.Frameworks, matchDependencies(info, frontendDepPatterns, types.EcosystemFrontend)...)

	for _, bt := range frontendBuildTools {
		if hasConfigFile(info, bt.configFiles...) {
			result.BuildTools = append(result.BuildTools, types.BuildToolInfo{
				Name:       bt.name,
				ConfigFile: bt.configFiles[0],
				Confidence: 0.8,
				Commands: []types.BuildCommand{
					{Name: "build", Command: "npm run build", IsPrimary: true},
				},
			})
		}
	}

	hasManifest := hasConfigFile(info, "package.json")

	if projectPath != "" {
		scanner := fsscan.New(projectPath)

		if scanner.Has("package.json") {
			hasManifest = true
			pkg, err := parsePackageJSON(scanner.Read("package.json"))
			if err == nil {
				result.Frameworks = mergeManifestFrameworks(result.Frameworks, pkg.dependencyNames(), frontendDepPatterns, types.EcosystemFrontend, "package.json")
				result.Frameworks = attachVersions(result.Frameworks, pkg, frontendDepPatterns)
			}
		}

		for _, bt := range frontendBuildTools {
			for _, cf := range bt.configFiles {
				if scanner.Has(cf) && !hasBuildTool(result.BuildTools, bt.name) {
					result.BuildTools = append(result.BuildTools, types.BuildToolInfo{
						Name:       bt.name,
						ConfigFile: cf,
						Confidence: 0.85,
						Commands: []types.BuildCommand{
							{Name: "build", Command: "npm run build", IsPrimary: true},
						},
					})
				}
			}
		}

		// .vue/.svelte file patterns back the dependency signal
		files, _, err := scanner.ScanTree()
		if err == nil {
			result.Frameworks = a.checkFilePatterns(files, result.Frameworks)
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	result.Confidence = combinedConfidence(hasManifest, len(result.BuildTools) > 0, len(result.Frameworks))
	return result, nil
}

// filePatterns is ordered so repeated scans of the same tree append
// frameworks and evidence in a fixed sequence.
var filePatterns = []struct {
	ext  string
	name string
}{
	{".vue", "Vue.js"},
	{".svelte", "Svelte"},
	{".jsx", "React"},
	{".tsx", "React"},
}

func (a *FrontendAnalyzer) checkFilePatterns(files []string, frameworks []types.FrameworkInfo) []types.FrameworkInfo {
	for _, p := range filePatterns {
		ext, name := p.ext, p.name
		if !fsscan.ContainsExt(files, ext) {
			continue
		}
		ev := evidence.New(types.EvidenceFilePattern, "filesystem", "*"+ext)
		found := false
		for i := range frameworks {
			if frameworks[i].Name == name {
				frameworks[i].Evidence = append(frameworks[i].Evidence, ev)
				found = true
			}
		}
		if !found && (ext == ".vue" || ext == ".svelte") {
			frameworks = append(frameworks, types.FrameworkInfo{
				Name:       name,
				Type:       types.FrameworkFrontend,
				Confidence: 0.7,
				Evidence:   []types.Evidence{ev},
				Ecosystem:  types.EcosystemFrontend,
			})
		}
	}
	return frameworks
}

func hasBuildTool(tools []types.BuildToolInfo, name string) bool {
	for _, t := range tools {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
