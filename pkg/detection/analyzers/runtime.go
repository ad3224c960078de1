package analyzers

import (
	"strings"

	"stackscan/pkg/detection/fsscan"
)

// maxSourceSamples bounds how many source files an analyzer inspects for
// language-specific markers
const maxSourceSamples = 10

// runtimeVersion probes conventional version files for an ecosystem
func runtimeVersion(scanner *fsscan.Scanner, eco string) string {
	switch eco {
	case "nodejs", "frontend":
		if scanner.Has(".nvmrc") {
			return strings.TrimSpace(scanner.Read(".nvmrc"))
		}
		if scanner.Has(".node-version") {
			return strings.TrimSpace(scanner.Read(".node-version"))
		}
	case "python":
		if scanner.Has(".python-version") {
			return strings.TrimSpace(scanner.Read(".python-version"))
		}
		if scanner.Has("runtime.txt") {
			content := strings.TrimSpace(scanner.Read("runtime.txt"))
			return strings.TrimPrefix(content, "python-")
		}
	case "go":
		if scanner.Has(".go-version") {
			return strings.TrimSpace(scanner.Read(".go-version"))
		}
	}
	return ""
}

// monorepoHints detects monorepo tooling from workspace config files
func monorepoHints(scanner *fsscan.Scanner) map[string]string {
	hints := map[string]string{}

	switch {
	case scanner.Has("turbo.json"):
		hints["monorepo_tool"] = "turborepo"
	case scanner.Has("nx.json"):
		hints["monorepo_tool"] = "nx"
	case scanner.Has("lerna.json"):
		hints["monorepo_tool"] = "lerna"
	case scanner.Has("pnpm-workspace.yaml"):
		hints["monorepo_tool"] = "pnpm-workspaces"
	case scanner.Has("package.json"):
		if strings.Contains(scanner.Read("package.json"), `"workspaces"`) {
			hints["monorepo_tool"] = "yarn-workspaces"
		}
	}

	if hints["monorepo_tool"] != "" {
		hints["monorepo"] = "true"
	}
	return hints
}
