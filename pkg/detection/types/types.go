package types

import "time"

// EvidenceType classifies a single detection observation
type EvidenceType string

const (
	EvidenceConfigFile         EvidenceType = "config_file"
	EvidenceDependency         EvidenceType = "dependency"
	EvidenceFilePattern        EvidenceType = "file_pattern"
	EvidenceCommandPattern     EvidenceType = "command_pattern"
	EvidenceScriptCommand      EvidenceType = "script_command"
	EvidenceImportStatement    EvidenceType = "import_statement"
	EvidenceVersionInfo        EvidenceType = "version_info"
	EvidenceTextMention        EvidenceType = "text_mention"
	EvidenceAnnotation         EvidenceType = "annotation"
	EvidenceDirectoryStructure EvidenceType = "directory_structure"
)

// Ecosystem scopes an analyzer to one language/platform grouping
type Ecosystem string

const (
	EcosystemGo        Ecosystem = "go"
	EcosystemNode      Ecosystem = "nodejs"
	EcosystemPython    Ecosystem = "python"
	EcosystemJava      Ecosystem = "java"
	EcosystemRust      Ecosystem = "rust"
	EcosystemContainer Ecosystem = "container"
	EcosystemFrontend  Ecosystem = "frontend"
)

// FrameworkType categorizes a detected framework
type FrameworkType string

const (
	FrameworkWeb        FrameworkType = "web_framework"
	FrameworkFrontend   FrameworkType = "frontend_framework"
	FrameworkFullstack  FrameworkType = "fullstack_framework"
	FrameworkStaticSite FrameworkType = "static_site_generator"
	FrameworkTesting    FrameworkType = "testing_framework"
	FrameworkORM        FrameworkType = "orm"
	FrameworkCLI        FrameworkType = "cli_framework"
	FrameworkDatabase   FrameworkType = "database"
	FrameworkQueue      FrameworkType = "message_queue"
)

// ProjectInfo is the externally produced project metadata the pipeline
// consumes. It is treated as immutable once handed to the engine.
type ProjectInfo struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Languages     []string `json:"languages"`
	Dependencies  []string `json:"dependencies"`
	BuildCommands []string `json:"build_commands"`
	TestCommands  []string `json:"test_commands"`
	InstallSteps  []string `json:"install_steps"`
	ConfigFiles   []string `json:"config_files"`
	RawContent    string   `json:"raw_content"`
}

// Evidence is a single typed, weighted observation supporting a detection.
// Items are created once per run and never mutated; they are the provenance
// trail for every later decision.
type Evidence struct {
	Type     EvidenceType      `json:"type"`
	Source   string            `json:"source"`
	Value    string            `json:"value"`
	Weight   float64           `json:"weight"`
	Location string            `json:"location,omitempty"`
	Context  map[string]string `json:"context,omitempty"`
}

// FrameworkInfo describes one detected framework candidate
type FrameworkInfo struct {
	Name             string            `json:"name"`
	Type             FrameworkType     `json:"type"`
	Version          string            `json:"version,omitempty"`
	Confidence       float64           `json:"confidence"`
	Evidence         []Evidence        `json:"evidence,omitempty"`
	Ecosystem        Ecosystem         `json:"ecosystem"`
	BuildTool        string            `json:"build_tool,omitempty"`
	TestFramework    string            `json:"test_framework,omitempty"`
	DeploymentTarget string            `json:"deployment_target,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// BuildCommand is one invocable command a build tool exposes
type BuildCommand struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	IsPrimary   bool   `json:"is_primary,omitempty"`
}

// BuildToolInfo describes one detected build tool or package manager
type BuildToolInfo struct {
	Name             string            `json:"name"`
	ConfigFile       string            `json:"config_file,omitempty"`
	Commands         []BuildCommand    `json:"commands,omitempty"`
	Version          string            `json:"version,omitempty"`
	Confidence       float64           `json:"confidence"`
	Config           map[string]string `json:"config,omitempty"`
	IsPackageManager bool              `json:"is_package_manager,omitempty"`
}

// ContainerInfo describes detected containerization
type ContainerInfo struct {
	Name       string     `json:"name"`
	ConfigFile string     `json:"config_file,omitempty"`
	Confidence float64    `json:"confidence"`
	Evidence   []Evidence `json:"evidence,omitempty"`
}

// LanguageDetectionResult is the output of a single ecosystem analyzer
type LanguageDetectionResult struct {
	Ecosystem       Ecosystem         `json:"ecosystem"`
	Language        string            `json:"language"`
	Frameworks      []FrameworkInfo   `json:"frameworks"`
	BuildTools      []BuildToolInfo   `json:"build_tools"`
	Containers      []ContainerInfo   `json:"containers,omitempty"`
	Confidence      float64           `json:"confidence"`
	Recommendations []string          `json:"recommendations,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ConflictType classifies a detected inconsistency among candidates
type ConflictType string

const (
	ConflictDuplicateFramework     ConflictType = "duplicate_framework"
	ConflictIncompatibleFrameworks ConflictType = "incompatible_frameworks"
	ConflictVersion                ConflictType = "version_conflict"
	ConflictBuildTool              ConflictType = "build_tool_conflict"
	ConflictLanguageMismatch       ConflictType = "language_mismatch"
	ConflictEvidenceContradiction  ConflictType = "evidence_contradiction"
)

// DetectionConflict describes one inconsistency among candidate detections
type DetectionConflict struct {
	Type                ConflictType `json:"type"`
	Description         string       `json:"description"`
	Severity            string       `json:"severity"`
	AffectedItems       []string     `json:"affected_items"`
	Evidence            []Evidence   `json:"evidence,omitempty"`
	SuggestedResolution string       `json:"suggested_resolution,omitempty"`
	AutoResolvable      bool         `json:"auto_resolvable"`
}

// ConfidenceLevel is the discrete summary of a confidence score
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceNone   ConfidenceLevel = "none"
)

// EvidenceQuality summarizes evidence strength for one confidence component
type EvidenceQuality struct {
	StrongEvidence int     `json:"strong_evidence"`
	MediumEvidence int     `json:"medium_evidence"`
	WeakEvidence   int     `json:"weak_evidence"`
	DiversityScore float64 `json:"diversity_score"`
}

// ComponentConfidence is the per-component breakdown of the overall score
type ComponentConfidence struct {
	Score         float64         `json:"score"`
	DetectedCount int             `json:"detected_count"`
	Quality       EvidenceQuality `json:"evidence_quality"`
	Factors       []string        `json:"factors,omitempty"`
}

// ConfidenceFactor is one narrative contributor to the overall confidence
type ConfidenceFactor struct {
	Type               string   `json:"type"`
	Description        string   `json:"description"`
	Impact             float64  `json:"impact"`
	AffectedComponents []string `json:"affected_components,omitempty"`
	Resolution         string   `json:"resolution,omitempty"`
}

// OverallConfidence is the terminal artifact of the confidence calculator
type OverallConfidence struct {
	Score           float64                        `json:"score"`
	Level           ConfidenceLevel                `json:"level"`
	Breakdown       map[string]ComponentConfidence `json:"breakdown"`
	Factors         []ConfidenceFactor             `json:"factors,omitempty"`
	Recommendations []string                       `json:"recommendations,omitempty"`
}

// SuggestionType classifies an alternative suggestion
type SuggestionType string

const (
	SuggestionFramework SuggestionType = "framework"
	SuggestionBuildTool SuggestionType = "build_tool"
	SuggestionLanguage  SuggestionType = "language"
)

// AlternativeSuggestion is a non-authoritative candidate not confidently
// detected but plausible given the evidence
type AlternativeSuggestion struct {
	Name             string         `json:"name"`
	Type             SuggestionType `json:"type"`
	Reason           string         `json:"reason"`
	Confidence       float64        `json:"confidence"`
	Evidence         []string       `json:"evidence,omitempty"`
	SuggestedActions []string       `json:"suggested_actions,omitempty"`
	ConflictsWith    []string       `json:"conflicts_with,omitempty"`
}

// WarningSeverity orders diagnostics from informational to critical
type WarningSeverity string

const (
	SeverityInfo     WarningSeverity = "info"
	SeverityWarning  WarningSeverity = "warning"
	SeverityError    WarningSeverity = "error"
	SeverityCritical WarningSeverity = "critical"
)

// DetectionWarning is a rule-triggered diagnostic about the run's quality
type DetectionWarning struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	Severity        WarningSeverity `json:"severity"`
	Title           string          `json:"title"`
	Message         string          `json:"message"`
	AffectedItems   []string        `json:"affected_items,omitempty"`
	Evidence        []string        `json:"evidence,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	AutoFixable     bool            `json:"auto_fixable,omitempty"`
	LearnMoreURL    string          `json:"learn_more_url,omitempty"`
}

// DetectionResult is the terminal output of a pipeline run
type DetectionResult struct {
	Frameworks    []FrameworkInfo         `json:"frameworks"`
	BuildTools    []BuildToolInfo         `json:"build_tools"`
	Containers    []ContainerInfo         `json:"containers"`
	Confidence    OverallConfidence       `json:"confidence"`
	Alternatives  []AlternativeSuggestion `json:"alternatives,omitempty"`
	Warnings      []DetectionWarning      `json:"warnings"`
	Conflicts     []DetectionConflict     `json:"conflicts,omitempty"`
	DetectedAt    time.Time               `json:"detected_at"`
	ExecutionTime time.Duration           `json:"execution_time"`
}

// DetectionContext bundles the aggregated run state consumed by the conflict
// resolver, the alternative generator, and the warning system
type DetectionContext struct {
	Info       *ProjectInfo
	Frameworks []FrameworkInfo
	BuildTools []BuildToolInfo
	Containers []ContainerInfo
	Evidence   []Evidence
	Confidence *OverallConfidence
	Conflicts  []DetectionConflict
}
