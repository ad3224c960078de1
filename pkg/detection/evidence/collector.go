package evidence

import (
	"strings"

	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
)

// textMentionKeywords is the fixed vocabulary scanned for in README text.
// Matches produce weak text_mention evidence only; they never assert a
// detection on their own.
var textMentionKeywords = []string{
	"react", "vue", "angular", "svelte", "next.js", "nuxt",
	"django", "flask", "fastapi", "rails", "laravel",
	"spring", "gin", "echo", "fiber", "actix", "axum", "rocket",
	"express", "nestjs", "fastify",
	"webpack", "vite", "gradle", "maven",
	"docker", "kubernetes", "terraform",
}

// wellKnownConfigs are on-disk config files probed when a project path is
// supplied. Filesystem hits yield stronger config_file evidence than README
// mentions because the file demonstrably exists.
var wellKnownConfigs = []string{
	"package.json", "go.mod", "go.sum", "requirements.txt", "pyproject.toml",
	"Pipfile", "Cargo.toml", "pom.xml", "build.gradle", "build.gradle.kts",
	"Dockerfile", "docker-compose.yml", "docker-compose.yaml",
	"webpack.config.js", "vite.config.js", "vite.config.ts",
	"next.config.js", "tsconfig.json", "Makefile",
}

// Collector turns a ProjectInfo into the flat evidence list every later
// pipeline stage reasons over.
type Collector struct{}

// NewCollector creates an evidence collector
func NewCollector() *Collector {
	return &Collector{}
}

// Collect produces typed evidence from the project metadata and, when a
// project path is given, from on-disk config files. Malformed or empty input
// fields are tolerated; an inaccessible path never fails collection.
func (c *Collector) Collect(info *types.ProjectInfo, projectPath string) ([]types.Evidence, error) {
	if info == nil {
		return nil, nil
	}

	var items []types.Evidence

	for _, dep := range info.Dependencies {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		items = append(items, New(types.EvidenceDependency, "dependencies", dep))
	}

	for _, cf := range info.ConfigFiles {
		cf = strings.TrimSpace(cf)
		if cf == "" {
			continue
		}
		items = append(items, New(types.EvidenceConfigFile, "config_files", cf))
	}

	items = append(items, c.commandEvidence(info.BuildCommands, "build")...)
	items = append(items, c.commandEvidence(info.TestCommands, "test")...)

	for _, step := range info.InstallSteps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		items = append(items, New(types.EvidenceScriptCommand, "install_steps", step))
	}

	items = append(items, c.textMentions(info.RawContent)...)

	if projectPath != "" {
		items = append(items, c.filesystemEvidence(projectPath)...)
	}

	return items, nil
}

func (c *Collector) commandEvidence(commands []string, commandType string) []types.Evidence {
	var items []types.Evidence
	for _, cmd := range commands {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		ev := New(types.EvidenceCommandPattern, commandType+"_commands", cmd)
		ev.Context = map[string]string{"command_type": commandType}
		items = append(items, ev)
	}
	return items
}

func (c *Collector) textMentions(raw string) []types.Evidence {
	if raw == "" {
		return nil
	}
	lower := strings.ToLower(raw)

	var items []types.Evidence
	for _, kw := range textMentionKeywords {
		if strings.Contains(lower, kw) {
			items = append(items, New(types.EvidenceTextMention, "readme_content", kw))
		}
	}
	return items
}

// filesystemEvidence probes well-known config files on disk. This is the
// optional extension point: any I/O problem degrades to no extra evidence.
func (c *Collector) filesystemEvidence(projectPath string) []types.Evidence {
	scanner := fsscan.New(projectPath)

	var items []types.Evidence
	for _, name := range wellKnownConfigs {
		if !scanner.Has(name) {
			continue
		}
		ev := New(types.EvidenceConfigFile, "filesystem", name)
		ev.Location = name
		items = append(items, ev)
	}
	return items
}
