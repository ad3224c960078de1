package analyzers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"

	"github.com/pelletier/go-toml/v2"
)

var pythonDepPatterns = []depPattern{
	{match: "django", name: "Django", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "flask", name: "Flask", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "fastapi", name: "FastAPI", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "tornado", name: "Tornado", ftype: types.FrameworkWeb, confidence: 0.8},
	{match: "sqlalchemy", name: "SQLAlchemy", ftype: types.FrameworkORM, confidence: 0.8},
	{match: "celery", name: "Celery", ftype: types.FrameworkQueue, confidence: 0.8},
	{match: "pytest", name: "pytest", ftype: types.FrameworkTesting, confidence: 0.8},
}

// PythonAnalyzer detects Python frameworks and packaging tools
type PythonAnalyzer struct{}

// NewPythonAnalyzer creates the Python ecosystem analyzer
func NewPythonAnalyzer() *PythonAnalyzer { return &PythonAnalyzer{} }

func (a *PythonAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemPython }

func (a *PythonAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	return hasLanguage(info, "python") ||
		hasConfigFile(info, "requirements.txt", "pyproject.toml", "pipfile", "setup.py") ||
		hasCommandPrefix(info, "pip ", "pip3 ", "python ", "python3 ", "poetry ", "uv ", "pytest")
}

func (a *PythonAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemPython,
		Language:   "Python",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Metadata:   map[string]string{},
	}

	result.Frameworks = append(result.Frameworks, matchDependencies(info, pythonDepPatterns, types.EcosystemPython)...)

	hasManifest := hasConfigFile(info, "requirements.txt", "pyproject.toml", "pipfile", "setup.py")
	pm := "pip"
	pmFromLockfile := false
	manifestFile := "requirements.txt"

	if projectPath != "" {
		scanner := fsscan.New(projectPath)

		if scanner.Has("requirements.txt") {
			hasManifest = true
			deps := parseRequirements(scanner.Read("requirements.txt"))
			result.Frameworks = mergeManifestFrameworks(result.Frameworks, deps, pythonDepPatterns, types.EcosystemPython, "requirements.txt")
		}

		if scanner.Has("pyproject.toml") {
			hasManifest = true
			manifestFile = "pyproject.toml"
			deps, meta, err := parsePyProject(scanner.Read("pyproject.toml"))
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("pyproject.toml could not be parsed: %v", err))
			} else {
				result.Frameworks = mergeManifestFrameworks(result.Frameworks, deps, pythonDepPatterns, types.EcosystemPython, "pyproject.toml")
				for k, v := range meta {
					result.Metadata[k] = v
				}
			}
		}

		pm, pmFromLockfile = detectPythonPackageManager(scanner)

		if v := runtimeVersion(scanner, "python"); v != "" {
			result.Metadata["runtime_version"] = v
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	if hasManifest {
		tool := types.BuildToolInfo{
			Name:             pm,
			ConfigFile:       manifestFile,
			Confidence:       0.7,
			IsPackageManager: true,
			Commands: []types.BuildCommand{
				{Name: "install", Command: pythonInstallCommand(pm), IsPrimary: true},
				{Name: "test", Command: "pytest"},
			},
		}
		if pmFromLockfile {
			tool.Confidence = 0.9
		}
		result.BuildTools = append(result.BuildTools, tool)
	}

	if hasManifest && !pmFromLockfile {
		result.Recommendations = append(result.Recommendations,
			"pin dependencies with a lockfile (uv.lock, poetry.lock) for reproducible installs")
	}

	result.Confidence = combinedConfidence(hasManifest, len(result.BuildTools) > 0, len(result.Frameworks))
	return result, nil
}

// parseRequirements extracts package names from requirements.txt lines,
// tolerating comments, options and version specifiers
func parseRequirements(content string) []string {
	var deps []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		for _, sep := range []string{"==", ">=", "<=", "~=", ">", "<", "[", ";", " "} {
			if i := strings.Index(line, sep); i >= 0 {
				line = line[:i]
			}
		}
		if line != "" {
			deps = append(deps, line)
		}
	}
	return deps
}

type pyProject struct {
	Project struct {
		Name           string   `toml:"name"`
		RequiresPython string   `toml:"requires-python"`
		Dependencies   []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyProject(content string) ([]string, map[string]string, error) {
	var proj pyProject
	if err := toml.Unmarshal([]byte(content), &proj); err != nil {
		return nil, nil, err
	}

	var deps []string
	for _, d := range proj.Project.Dependencies {
		for _, sep := range []string{"==", ">=", "<=", "~=", ">", "<", "[", ";", " "} {
			if i := strings.Index(d, sep); i >= 0 {
				d = d[:i]
			}
		}
		if d != "" {
			deps = append(deps, d)
		}
	}
	for name := range proj.Tool.Poetry.Dependencies {
		if name != "python" {
			deps = append(deps, name)
		}
	}
	sort.Strings(deps)

	meta := map[string]string{}
	if proj.Project.Name != "" {
		meta["package_name"] = proj.Project.Name
	}
	if proj.Project.RequiresPython != "" {
		meta["requires_python"] = proj.Project.RequiresPython
	}
	return deps, meta, nil
}

// detectPythonPackageManager applies lockfile precedence:
// uv > poetry > pipenv > pip
func detectPythonPackageManager(scanner *fsscan.Scanner) (string, bool) {
	switch {
	case scanner.Has("uv.lock"):
		return "uv", true
	case scanner.Has("poetry.lock"):
		return "poetry", true
	case scanner.Has("Pipfile.lock"):
		return "pipenv", true
	case scanner.Has("Pipfile"):
		return "pipenv", false
	default:
		return "pip", false
	}
}

func pythonInstallCommand(pm string) string {
	switch pm {
	case "uv":
		return "uv sync"
	case "poetry":
		return "poetry install"
	case "pipenv":
		return "pipenv install"
	default:
		return "pip install -r requirements.txt"
	}
}
