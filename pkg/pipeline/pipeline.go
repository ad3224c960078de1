package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"stackscan/pkg/detection/types"
)

// Step is one recommended CI step
type Step struct {
	Name string `json:"name" yaml:"name"`
	Run  string `json:"run" yaml:"run"`
}

// Plan is an ordered list of recommended CI steps derived from a detection
// result. It is a recommendation, not a rendered workflow: the workflow
// template renderer consumes it downstream.
type Plan struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Build synthesizes pipeline steps from the detected build tools, frameworks
// and containers. Build tools contribute their own install/build/test
// commands; containerization appends an image build step.
func Build(res *types.DetectionResult) *Plan {
	plan := &Plan{Name: "ci"}

	addStep := func(name, run string) {
		if run == "" {
			return
		}
		for _, s := range plan.Steps {
			if s.Run == run {
				return
			}
		}
		plan.Steps = append(plan.Steps, Step{Name: name, Run: run})
	}

	if v := runtimeVersionOf(res); v != "" {
		addStep("setup runtime", "# pin runtime version "+v)
	}

	for _, tool := range res.BuildTools {
		for _, cmd := range tool.Commands {
			if cmd.Name == "install" {
				addStep(fmt.Sprintf("install dependencies (%s)", tool.Name), cmd.Command)
			}
		}
	}
	for _, tool := range res.BuildTools {
		for _, cmd := range tool.Commands {
			if cmd.Name == "test" {
				addStep(fmt.Sprintf("test (%s)", tool.Name), cmd.Command)
			}
		}
	}
	for _, tool := range res.BuildTools {
		for _, cmd := range tool.Commands {
			if cmd.Name == "build" && tool.Name != "docker" {
				addStep(fmt.Sprintf("build (%s)", tool.Name), cmd.Command)
			}
		}
	}

	if len(res.Containers) > 0 {
		addStep("build container image", "docker build -t app .")
	}

	if len(plan.Steps) == 0 {
		addStep("build", "# no build tool detected; provide build steps manually")
	}

	return plan
}

// runtimeVersionOf surfaces the strongest runtime version hint carried in
// framework metadata
func runtimeVersionOf(res *types.DetectionResult) string {
	best := ""
	bestConfidence := 0.0
	for _, fw := range res.Frameworks {
		if v, ok := fw.Metadata["runtime_version"]; ok && fw.Confidence > bestConfidence {
			best = v
			bestConfidence = fw.Confidence
		}
	}
	return strings.TrimSpace(best)
}

// ToYAML renders the plan as YAML
func (p *Plan) ToYAML() (string, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to render plan: %w", err)
	}
	return string(data), nil
}

// ToJSON renders the plan as indented JSON
func (p *Plan) ToJSON() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render plan: %w", err)
	}
	return string(data), nil
}
