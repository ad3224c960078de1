package warnings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"stackscan/pkg/detection/conflicts"
	"stackscan/pkg/detection/types"
)

// minimumMajorVersions maps normalized framework names to the lowest major
// version still considered current
var minimumMajorVersions = map[string]uint64{
	"react":   17,
	"vue":     3,
	"angular": 13,
	"django":  4,
	"next":    13,
	"express": 4,
	"flask":   2,
}

// testingKeywords mark a recognizable testing setup in evidence or commands
var testingKeywords = []string{
	"jest", "vitest", "mocha", "pytest", "unittest", "junit", "testify",
	"rspec", "go test", "cargo test", "phpunit",
}

// rule is one independent (condition, generator) pair. A holding condition
// contributes exactly one warning.
type rule struct {
	condition func(*types.DetectionContext) bool
	generate  func(*types.DetectionContext) types.DetectionWarning
}

// Generate evaluates every registered warning rule against the detection
// context and returns the triggered warnings sorted by severity, category
// priority and title
func Generate(ctx *types.DetectionContext) []types.DetectionWarning {
	var out []types.DetectionWarning
	for _, r := range rules {
		if r.condition(ctx) {
			out = append(out, r.generate(ctx))
		}
	}
	Sort(out)
	return out
}

// Sort orders warnings by severity (critical first), then by fixed category
// priority, then alphabetically by title. The order is stable across runs
// regardless of generation order.
func Sort(list []types.DetectionWarning) {
	sort.SliceStable(list, func(i, j int) bool {
		if a, b := severityRank(list[i].Severity), severityRank(list[j].Severity); a != b {
			return a > b
		}
		if a, b := categoryRank(list[i].Category), categoryRank(list[j].Category); a != b {
			return a < b
		}
		return list[i].Title < list[j].Title
	})
}

func severityRank(s types.WarningSeverity) int {
	switch s {
	case types.SeverityCritical:
		return 4
	case types.SeverityError:
		return 3
	case types.SeverityWarning:
		return 2
	default:
		return 1
	}
}

var categoryPriority = []string{
	"conflicts", "security", "confidence", "evidence", "tooling",
	"testing", "performance", "maintenance", "configuration", "aggregation",
}

func categoryRank(category string) int {
	for i, c := range categoryPriority {
		if c == category {
			return i
		}
	}
	return len(categoryPriority)
}

var rules = []rule{
	{condition: lowConfidence, generate: lowConfidenceWarning},
	{condition: missingConfig, generate: missingConfigWarning},
	{condition: frameworkConflicts, generate: frameworkConflictsWarning},
	{condition: outdatedVersions, generate: outdatedVersionsWarning},
	{condition: missingTesting, generate: missingTestingWarning},
	{condition: performanceConcerns, generate: performanceConcernsWarning},
	{condition: securityConcerns, generate: securityConcernsWarning},
	{condition: maintenanceConcerns, generate: maintenanceConcernsWarning},
	{condition: poorEvidenceQuality, generate: poorEvidenceQualityWarning},
	{condition: multiplePackageManagers, generate: multiplePackageManagersWarning},
}

func lowConfidence(ctx *types.DetectionContext) bool {
	return ctx.Confidence != nil && ctx.Confidence.Score < 0.5
}

func lowConfidenceWarning(ctx *types.DetectionContext) types.DetectionWarning {
	return types.DetectionWarning{
		ID:       "low_confidence",
		Category: "confidence",
		Severity: types.SeverityWarning,
		Title:    "Low detection confidence",
		Message: fmt.Sprintf("overall confidence is %.2f; results may be incomplete or wrong",
			ctx.Confidence.Score),
		Recommendations: []string{
			"provide a project path so manifests can be inspected directly",
			"enrich the README with dependency and build information",
		},
	}
}

func missingConfig(ctx *types.DetectionContext) bool {
	return ctx.Info == nil || len(ctx.Info.ConfigFiles) < 2
}

func missingConfigWarning(ctx *types.DetectionContext) types.DetectionWarning {
	return types.DetectionWarning{
		ID:       "missing_config",
		Category: "configuration",
		Severity: types.SeverityInfo,
		Title:    "Few configuration files found",
		Message:  "fewer than two config files were identified; build tool detection is limited",
		Recommendations: []string{
			"reference manifest files (package.json, go.mod, ...) in the README",
		},
	}
}

func frameworkConflicts(ctx *types.DetectionContext) bool {
	for _, c := range ctx.Conflicts {
		if c.Type == types.ConflictIncompatibleFrameworks {
			return true
		}
	}
	return false
}

func frameworkConflictsWarning(ctx *types.DetectionContext) types.DetectionWarning {
	var items []string
	for _, c := range ctx.Conflicts {
		if c.Type == types.ConflictIncompatibleFrameworks {
			items = append(items, c.AffectedItems...)
		}
	}
	return types.DetectionWarning{
		ID:            "framework_conflicts",
		Category:      "conflicts",
		Severity:      types.SeverityError,
		Title:         "Incompatible frameworks detected",
		Message:       "mutually exclusive frameworks were detected together and need manual review",
		AffectedItems: items,
		Recommendations: []string{
			"verify which framework the project actually uses",
		},
	}
}

// outdatedFrameworks returns detections whose parsed version falls below the
// per-name minimum major version
func outdatedFrameworks(ctx *types.DetectionContext) []string {
	var out []string
	for _, fw := range ctx.Frameworks {
		if fw.Version == "" {
			continue
		}
		minMajor, ok := minimumMajorVersions[conflicts.NormalizeName(fw.Name)]
		if !ok {
			continue
		}
		v, err := semver.NewVersion(strings.TrimLeft(fw.Version, "v^~>=< "))
		if err != nil {
			continue
		}
		if v.Major() < minMajor {
			out = append(out, fmt.Sprintf("%s %s", fw.Name, fw.Version))
		}
	}
	return out
}

func outdatedVersions(ctx *types.DetectionContext) bool {
	return len(outdatedFrameworks(ctx)) > 0
}

func outdatedVersionsWarning(ctx *types.DetectionContext) types.DetectionWarning {
	outdated := outdatedFrameworks(ctx)
	return types.DetectionWarning{
		ID:            "outdated_versions",
		Category:      "security",
		Severity:      types.SeverityWarning,
		Title:         "Outdated framework versions",
		Message:       fmt.Sprintf("detected versions below the supported baseline: %s", strings.Join(outdated, ", ")),
		AffectedItems: outdated,
		Recommendations: []string{
			"upgrade to a currently supported major version",
		},
	}
}

func missingTesting(ctx *types.DetectionContext) bool {
	for _, fw := range ctx.Frameworks {
		if fw.Type == types.FrameworkTesting {
			return false
		}
	}

	haystack := strings.Builder{}
	for _, ev := range ctx.Evidence {
		haystack.WriteString(strings.ToLower(ev.Value))
		haystack.WriteString("\n")
	}
	if ctx.Info != nil {
		haystack.WriteString(strings.ToLower(strings.Join(ctx.Info.TestCommands, "\n")))
	}
	text := haystack.String()

	for _, kw := range testingKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func missingTestingWarning(ctx *types.DetectionContext) types.DetectionWarning {
	return types.DetectionWarning{
		ID:       "missing_testing",
		Category: "testing",
		Severity: types.SeverityInfo,
		Title:    "No testing framework detected",
		Message:  "no recognizable testing setup was found in dependencies or commands",
		Recommendations: []string{
			"add a test framework and a test command to the project",
		},
	}
}

func hasLegacyAngular(ctx *types.DetectionContext) bool {
	for _, fw := range ctx.Frameworks {
		lower := strings.ToLower(fw.Name)
		if strings.Contains(lower, "angularjs") || strings.Contains(lower, "angular.js") {
			return true
		}
	}
	return false
}

func performanceConcerns(ctx *types.DetectionContext) bool {
	return len(ctx.Frameworks) > 3 || hasLegacyAngular(ctx)
}

func performanceConcernsWarning(ctx *types.DetectionContext) types.DetectionWarning {
	msg := "a large number of frameworks was detected; bundle size and startup cost may suffer"
	if hasLegacyAngular(ctx) {
		msg = "legacy AngularJS detected; it is end-of-life and slow compared to modern alternatives"
	}
	return types.DetectionWarning{
		ID:       "performance_concerns",
		Category: "performance",
		Severity: types.SeverityInfo,
		Title:    "Potential performance concerns",
		Message:  msg,
	}
}

func securityConcerns(ctx *types.DetectionContext) bool {
	if outdatedVersions(ctx) {
		return true
	}
	for _, ev := range ctx.Evidence {
		if strings.Contains(strings.ToLower(ev.Value), "http://") ||
			strings.Contains(strings.ToLower(ev.Source), "http://") {
			return true
		}
	}
	return false
}

func securityConcernsWarning(ctx *types.DetectionContext) types.DetectionWarning {
	return types.DetectionWarning{
		ID:       "security_concerns",
		Category: "security",
		Severity: types.SeverityWarning,
		Title:    "Security concerns",
		Message:  "outdated framework versions or insecure http:// references were found",
		Recommendations: []string{
			"upgrade outdated dependencies and prefer https:// sources",
		},
	}
}

func maintenanceConcerns(ctx *types.DetectionContext) bool {
	return len(ctx.Frameworks) > 2 || len(ctx.BuildTools) > 3
}

func maintenanceConcernsWarning(ctx *types.DetectionContext) types.DetectionWarning {
	return types.DetectionWarning{
		ID:       "maintenance_concerns",
		Category: "maintenance",
		Severity: types.SeverityInfo,
		Title:    "Maintenance burden",
		Message: fmt.Sprintf("%d frameworks and %d build tools detected; consider consolidating",
			len(ctx.Frameworks), len(ctx.BuildTools)),
	}
}

func poorEvidenceQuality(ctx *types.DetectionContext) bool {
	strong, weak := 0, 0
	for _, ev := range ctx.Evidence {
		switch {
		case ev.Weight >= 0.7:
			strong++
		case ev.Weight < 0.4:
			weak++
		}
	}
	return weak > strong && strong < 2
}

func poorEvidenceQualityWarning(ctx *types.DetectionContext) types.DetectionWarning {
	return types.DetectionWarning{
		ID:       "poor_evidence_quality",
		Category: "evidence",
		Severity: types.SeverityWarning,
		Title:    "Weak supporting evidence",
		Message:  "weak evidence outnumbers strong evidence; detections rest mostly on text mentions",
		Recommendations: []string{
			"supply manifest files or a project path for stronger signals",
		},
	}
}

func multiplePackageManagers(ctx *types.DetectionContext) bool {
	count := 0
	for _, bt := range ctx.BuildTools {
		if bt.IsPackageManager {
			count++
		}
	}
	return count >= 2
}

func multiplePackageManagersWarning(ctx *types.DetectionContext) types.DetectionWarning {
	var names []string
	for _, bt := range ctx.BuildTools {
		if bt.IsPackageManager {
			names = append(names, bt.Name)
		}
	}
	return types.DetectionWarning{
		ID:            "multiple_package_managers",
		Category:      "tooling",
		Severity:      types.SeverityWarning,
		Title:         "Multiple package managers",
		Message:       fmt.Sprintf("more than one package manager is in use: %s", strings.Join(names, ", ")),
		AffectedItems: names,
		AutoFixable:   true,
		Recommendations: []string{
			"remove the lockfiles of the package managers not actually used",
		},
	}
}
