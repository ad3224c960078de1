package cmd

import (
	"strings"

	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
	"stackscan/pkg/util"
)

// readmeNames are probed in order for raw project text
var readmeNames = []string{"README.md", "README.rst", "README.txt", "README", "readme.md"}

// manifestNames are surfaced as declared config files when present on disk
var manifestNames = []string{
	"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"go.mod", "go.sum", "requirements.txt", "pyproject.toml", "Pipfile",
	"Cargo.toml", "Cargo.lock", "pom.xml", "build.gradle", "build.gradle.kts",
	"Dockerfile", "docker-compose.yml", "docker-compose.yaml",
	"webpack.config.js", "vite.config.js", "vite.config.ts",
	"tsconfig.json", "Makefile",
}

// buildProjectInfo assembles a ProjectInfo directly from the filesystem. The
// full README parser is an external collaborator; for standalone CLI use the
// raw README text plus on-disk manifests are enough for the pipeline.
func buildProjectInfo(projectPath string) *types.ProjectInfo {
	scanner := fsscan.New(projectPath)

	info := &types.ProjectInfo{
		Name:         util.ProjectName(projectPath),
		Languages:    []string{},
		Dependencies: []string{},
		ConfigFiles:  []string{},
	}

	for _, name := range readmeNames {
		if scanner.Has(name) {
			info.RawContent = scanner.Read(name)
			break
		}
	}

	for _, name := range manifestNames {
		if scanner.Has(name) {
			info.ConfigFiles = append(info.ConfigFiles, name)
		}
	}

	if _, extCounts, err := scanner.ScanTree(); err == nil {
		if lang := fsscan.DominantLanguage(extCounts); lang != "Unknown" {
			for _, l := range strings.Split(lang, "/") {
				info.Languages = append(info.Languages, l)
			}
		}
	}

	return info
}
