package analyzers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
)

var nodeDepPatterns = []depPattern{
	{match: "next", name: "Next.js", ftype: types.FrameworkFullstack, confidence: 0.9},
	{match: "nuxt", name: "Nuxt.js", ftype: types.FrameworkFullstack, confidence: 0.9},
	{match: "@nestjs/core", name: "NestJS", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "express", name: "Express", ftype: types.FrameworkWeb, confidence: 0.85},
	{match: "fastify", name: "Fastify", ftype: types.FrameworkWeb, confidence: 0.85},
	{match: "koa", name: "Koa", ftype: types.FrameworkWeb, confidence: 0.8},
	{match: "gatsby", name: "Gatsby", ftype: types.FrameworkStaticSite, confidence: 0.85},
	{match: "astro", name: "Astro", ftype: types.FrameworkStaticSite, confidence: 0.85},
	{match: "jest", name: "Jest", ftype: types.FrameworkTesting, confidence: 0.8},
	{match: "vitest", name: "Vitest", ftype: types.FrameworkTesting, confidence: 0.8},
	{match: "mocha", name: "Mocha", ftype: types.FrameworkTesting, confidence: 0.75},
}

// NodeAnalyzer detects Node.js server-side frameworks and JS build tooling
type NodeAnalyzer struct{}

// NewNodeAnalyzer creates the Node.js ecosystem analyzer
func NewNodeAnalyzer() *NodeAnalyzer { return &NodeAnalyzer{} }

func (a *NodeAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemNode }

func (a *NodeAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	return hasLanguage(info, "javascript", "typescript", "node") ||
		hasConfigFile(info, "package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "tsconfig.json") ||
		hasCommandPrefix(info, "npm ", "yarn ", "pnpm ", "bun ", "npx ")
}

func (a *NodeAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemNode,
		Language:   "JavaScript/TypeScript",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Metadata:   map[string]string{},
	}

	result.Frameworks = append(result.Frameworks, matchDependencies(info, nodeDepPatterns, types.EcosystemNode)...)

	hasManifest := hasConfigFile(info, "package.json")
	pm := "npm"
	pmFromLockfile := false

	if projectPath != "" {
		scanner := fsscan.New(projectPath)

		if scanner.Has("package.json") {
			hasManifest = true
			pkg, err := parsePackageJSON(scanner.Read("package.json"))
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("package.json could not be parsed: %v", err))
				result.Confidence = 0.1
				return result, nil
			}

			if pkg.Name != "" {
				result.Metadata["package_name"] = pkg.Name
			}
			if len(pkg.Workspaces) > 0 {
				result.Metadata["workspace"] = "true"
			}

			result.Frameworks = mergeManifestFrameworks(result.Frameworks, pkg.dependencyNames(), nodeDepPatterns, types.EcosystemNode, "package.json")
			result.Frameworks = attachVersions(result.Frameworks, pkg, nodeDepPatterns)

			for name, script := range pkg.Scripts {
				if name == "build" || name == "test" || name == "start" {
					result.Metadata["script_"+name] = script
				}
			}
		}

		pm, pmFromLockfile = detectJSPackageManager(scanner)

		if v := runtimeVersion(scanner, "nodejs"); v != "" {
			result.Metadata["runtime_version"] = v
		}
		for k, v := range monorepoHints(scanner) {
			result.Metadata[k] = v
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	} else if hasConfigFile(info, "pnpm-lock.yaml") {
		pm, pmFromLockfile = "pnpm", true
	} else if hasConfigFile(info, "yarn.lock") {
		pm, pmFromLockfile = "yarn", true
	} else if hasConfigFile(info, "package-lock.json") {
		pm, pmFromLockfile = "npm", true
	}

	if hasManifest {
		tool := types.BuildToolInfo{
			Name:             pm,
			ConfigFile:       "package.json",
			Confidence:       0.7,
			IsPackageManager: true,
			Commands: []types.BuildCommand{
				{Name: "install", Command: jsInstallCommand(pm)},
				{Name: "build", Command: jsRunCommand(pm, "build"), IsPrimary: true},
				{Name: "test", Command: jsRunCommand(pm, "test")},
			},
		}
		if pmFromLockfile {
			tool.Confidence = 0.9
		}
		result.BuildTools = append(result.BuildTools, tool)
	}

	if hasManifest && !pmFromLockfile {
		result.Recommendations = append(result.Recommendations,
			"commit a lockfile for reproducible installs")
	}

	result.Confidence = combinedConfidence(hasManifest, len(result.BuildTools) > 0, len(result.Frameworks))
	return result, nil
}

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Workspaces      []string          `json:"workspaces"`
}

func parsePackageJSON(content string) (*packageJSON, error) {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		// workspaces may be an object form; retry without it
		var loose map[string]json.RawMessage
		if err2 := json.Unmarshal([]byte(content), &loose); err2 != nil {
			return nil, err
		}
		delete(loose, "workspaces")
		rebuilt, _ := json.Marshal(loose)
		if err2 := json.Unmarshal(rebuilt, &pkg); err2 != nil {
			return nil, err
		}
		pkg.Workspaces = []string{"detected"}
	}
	return &pkg, nil
}

func (p *packageJSON) dependencyNames() []string {
	var names []string
	for name := range p.Dependencies {
		names = append(names, name)
	}
	for name := range p.DevDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *packageJSON) versionOf(dep string) string {
	if v, ok := p.Dependencies[dep]; ok {
		return strings.TrimLeft(v, "^~>=< ")
	}
	if v, ok := p.DevDependencies[dep]; ok {
		return strings.TrimLeft(v, "^~>=< ")
	}
	return ""
}

// attachVersions copies manifest version strings onto matched frameworks
func attachVersions(frameworks []types.FrameworkInfo, pkg *packageJSON, patterns []depPattern) []types.FrameworkInfo {
	for i := range frameworks {
		if frameworks[i].Version != "" {
			continue
		}
		for _, p := range patterns {
			if p.name != frameworks[i].Name {
				continue
			}
			if v := pkg.versionOf(p.match); v != "" {
				frameworks[i].Version = v
				ev := evidence.New(types.EvidenceVersionInfo, "package.json", p.match+"@"+v)
				frameworks[i].Evidence = append(frameworks[i].Evidence, ev)
			}
		}
	}
	return frameworks
}

// detectJSPackageManager applies lockfile precedence: bun beats yarn-berry
// beats pnpm beats yarn beats npm. The second return reports whether a
// lockfile actually pinned the choice.
func detectJSPackageManager(scanner *fsscan.Scanner) (string, bool) {
	switch {
	case scanner.Has("bun.lockb") || scanner.Has("bun.lock"):
		return "bun", true
	case scanner.Has(".yarnrc.yml"):
		return "yarn-berry", true
	case scanner.Has("pnpm-lock.yaml"):
		return "pnpm", true
	case scanner.Has("yarn.lock"):
		return "yarn", true
	case scanner.Has("package-lock.json"):
		return "npm", true
	default:
		return "npm", false
	}
}

func jsInstallCommand(pm string) string {
	switch pm {
	case "bun":
		return "bun install"
	case "pnpm":
		return "pnpm install"
	case "yarn", "yarn-berry":
		return "yarn install"
	default:
		return "npm ci"
	}
}

func jsRunCommand(pm, script string) string {
	switch pm {
	case "bun":
		return "bun run " + script
	case "pnpm":
		return "pnpm run " + script
	case "yarn", "yarn-berry":
		return "yarn " + script
	default:
		return "npm run " + script
	}
}
