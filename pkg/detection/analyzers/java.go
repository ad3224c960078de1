package analyzers

import (
	"context"
	"strings"

	"stackscan/pkg/detection/evidence"
	"stackscan/pkg/detection/fsscan"
	"stackscan/pkg/detection/types"
)

var javaDepPatterns = []depPattern{
	{match: "spring-boot", name: "Spring Boot", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "springframework", name: "Spring", ftype: types.FrameworkWeb, confidence: 0.85},
	{match: "quarkus", name: "Quarkus", ftype: types.FrameworkWeb, confidence: 0.9},
	{match: "micronaut", name: "Micronaut", ftype: types.FrameworkWeb, confidence: 0.85},
	{match: "hibernate", name: "Hibernate", ftype: types.FrameworkORM, confidence: 0.8},
	{match: "junit", name: "JUnit", ftype: types.FrameworkTesting, confidence: 0.8},
}

// JavaAnalyzer detects JVM frameworks and the Maven/Gradle toolchain
type JavaAnalyzer struct{}

// NewJavaAnalyzer creates the Java ecosystem analyzer
func NewJavaAnalyzer() *JavaAnalyzer { return &JavaAnalyzer{} }

func (a *JavaAnalyzer) Ecosystem() types.Ecosystem { return types.EcosystemJava }

func (a *JavaAnalyzer) CanAnalyze(info *types.ProjectInfo) bool {
	return hasLanguage(info, "java", "kotlin") ||
		hasConfigFile(info, "pom.xml", "build.gradle", "build.gradle.kts") ||
		hasCommandPrefix(info, "mvn ", "./mvnw", "gradle ", "./gradlew")
}

func (a *JavaAnalyzer) Analyze(ctx context.Context, info *types.ProjectInfo, projectPath string) (*types.LanguageDetectionResult, error) {
	result := &types.LanguageDetectionResult{
		Ecosystem:  types.EcosystemJava,
		Language:   "Java",
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Metadata:   map[string]string{},
	}

	result.Frameworks = append(result.Frameworks, matchDependencies(info, javaDepPatterns, types.EcosystemJava)...)

	hasMaven := hasConfigFile(info, "pom.xml")
	hasGradle := hasConfigFile(info, "build.gradle", "build.gradle.kts")
	hasWrapper := false

	if projectPath != "" {
		scanner := fsscan.New(projectPath)

		if scanner.Has("pom.xml") {
			hasMaven = true
			result.Frameworks = a.scanManifest(scanner, "pom.xml", result.Frameworks)
		}
		for _, gradleFile := range []string{"build.gradle", "build.gradle.kts"} {
			if scanner.Has(gradleFile) {
				hasGradle = true
				result.Frameworks = a.scanManifest(scanner, gradleFile, result.Frameworks)
			}
		}
		hasWrapper = scanner.Has("mvnw") || scanner.Has("gradlew")

		// annotation sampling: Spring markers in source outrank a bare
		// manifest mention
		files, _, err := scanner.ScanTree()
		if err == nil {
			for _, f := range fsscan.FilterExt(files, ".java", maxSourceSamples) {
				content := scanner.Read(f)
				if strings.Contains(content, "@SpringBootApplication") {
					result.Frameworks = upgradeWithAnnotation(result.Frameworks, "Spring Boot", f, "@SpringBootApplication", types.EcosystemJava)
				}
			}
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	if hasMaven {
		result.BuildTools = append(result.BuildTools, types.BuildToolInfo{
			Name:       "maven",
			ConfigFile: "pom.xml",
			Confidence: confidenceWithWrapper(0.8, hasWrapper),
			Commands: []types.BuildCommand{
				{Name: "build", Command: "mvn package", IsPrimary: true},
				{Name: "test", Command: "mvn test"},
			},
		})
	}
	if hasGradle {
		result.BuildTools = append(result.BuildTools, types.BuildToolInfo{
			Name:       "gradle",
			ConfigFile: "build.gradle",
			Confidence: confidenceWithWrapper(0.8, hasWrapper),
			Commands: []types.BuildCommand{
				{Name: "build", Command: "gradle build", IsPrimary: true},
				{Name: "test", Command: "gradle test"},
			},
		})
	}

	if hasMaven && hasGradle {
		result.Warnings = append(result.Warnings,
			"both pom.xml and build.gradle present; pick one build system")
	}
	if (hasMaven || hasGradle) && !hasWrapper && projectPath != "" {
		result.Recommendations = append(result.Recommendations,
			"add a build wrapper (mvnw/gradlew) so CI pins the build tool version")
	}

	result.Confidence = combinedConfidence(hasMaven || hasGradle, len(result.BuildTools) > 0, len(result.Frameworks))
	return result, nil
}

// scanManifest does substring matching against the raw manifest; pom.xml and
// gradle scripts are too free-form for a structural parse to pay off here
func (a *JavaAnalyzer) scanManifest(scanner *fsscan.Scanner, file string, frameworks []types.FrameworkInfo) []types.FrameworkInfo {
	content := strings.ToLower(scanner.Read(file))
	var deps []string
	for _, p := range javaDepPatterns {
		if strings.Contains(content, p.match) {
			deps = append(deps, p.match)
		}
	}
	return mergeManifestFrameworks(frameworks, deps, javaDepPatterns, types.EcosystemJava, file)
}

func upgradeWithAnnotation(frameworks []types.FrameworkInfo, name, file, annotation string, eco types.Ecosystem) []types.FrameworkInfo {
	ev := evidence.New(types.EvidenceAnnotation, file, annotation)
	ev.Location = file

	for i := range frameworks {
		if frameworks[i].Name == name {
			frameworks[i].Evidence = append(frameworks[i].Evidence, ev)
			if frameworks[i].Confidence < 0.95 {
				frameworks[i].Confidence = 0.95
			}
			return frameworks
		}
	}
	return append(frameworks, types.FrameworkInfo{
		Name:       name,
		Type:       types.FrameworkWeb,
		Confidence: 0.9,
		Evidence:   []types.Evidence{ev},
		Ecosystem:  eco,
	})
}

func confidenceWithWrapper(base float64, hasWrapper bool) float64 {
	if hasWrapper {
		return base + 0.15
	}
	return base
}
