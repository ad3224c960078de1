package analyzers

import (
	"context"
	"strings"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
)

// ContainerAnalyzer detects containerization and orchestration config
type ContainerAnalyzer struct{}

// NewContainerAnalyzer creates the container ecosystem analyzer
func NewContainerAnalyzer() *ContainerAnalyzer { return &ContainerAnalyzer{} }

func (a *ContainerAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemContainer }

func (a *ContainerAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	return hasConfigFile(info, "dockerfile", "docker-compose.yml", "docker-compose.yaml", "compose.yaml") ||
		hasCommandPrefix(info, "docker ", "docker-compose", "kubectl ", "helm ") ||
		strings.Contains(strings.ToLower(info.RawContent), "docker")
}

func (a *ContainerAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemContainer,
		Language:   "Container",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Containers: []types.ContainerInfo{},
		Metadata:   map[string]string{},
	}

	addContainer := func(name, configFile string, confidence float64, ev types.Evidence) {
		for _, c := range result.Containers {
			if c.Name == name {
				return
			}
		}
		result.Containers = append(result.Containers, types.ContainerInfo{
			Name:       name,
			ConfigFile: configFile,
			Confidence: confidence,
			Evidence:   []types.Evidence{ev},
		})
	}

	if hasConfigFile(info, "dockerfile") {
		addContainer("docker", "Dockerfile", 0.8,
			evidence.New(types.EvidenceConfigFile, "config_files", "Dockerfile"))
	}
	if hasConfigFile(info, "docker-compose.yml", "docker-compose.yaml", "compose.yaml") {
		addContainer("docker-compose", "docker-compose.yml", 0.8,
			evidence.New(types.EvidenceConfigFile, "config_files", "docker-compose.yml"))
	}

	if projectPath != "" {
		scanner := fsscan.New(projectPath)

		if scanner.Has("Dockerfile") {
			ev := evidence.New(types.EvidenceConfigFile, "filesystem", "Dockerfile")
			ev.Location = "Dockerfile"
			addContainer("docker", "Dockerfile", 0.95, ev)

			if base := dockerBaseImage(scanner.Read("Dockerfile")); base != "" {
				result.Metadata["base_image"] = base
			}
		}
		for _, composeFile := range []string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml"} {
			if scanner.Has(composeFile) {
				ev := evidence.New(types.EvidenceConfigFile, "filesystem", composeFile)
				ev.Location = composeFile
				addContainer("docker-compose", composeFile, 0.95, ev)
				break
			}
		}
		if scanner.DirExists("k8s") || scanner.DirExists("kubernetes") || scanner.DirExists("manifests") {
			ev := evidence.New(types.EvidenceDirectoryStructure, "filesystem", "k8s manifests directory")
			addContainer("kubernetes", "", 0.6, ev)
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	if len(result.Containers) > 0 {
		result.BuildTools = append(result.BuildTools, types.BuildToolInfo{
			Name:       "docker",
			ConfigFile: "Dockerfile",
			Confidence: result.Containers[0].Confidence,
			Commands: []types.BuildCommand{
				{Name: "build", Command: "docker build -t app .", IsPrimary: true},
			},
		})
	}

	// manifest slot reuses the container signal: a Dockerfile is this
	// ecosystem's manifest
	result.Confidence = combinedConfidence(len(result.Containers) > 0, len(result.BuildTools) > 0, 0)
	return result, nil
}

// dockerBaseImage extracts the first FROM image in a Dockerfile
func dockerBaseImage(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(line), "FROM ") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				return fields[1]
			}
		}
	}
	return ""
}
