package confidence

import (
	"fmt"

	"stackscan/pkg/detection/types"
)

// Fixed component weights for the overall score
const (
	weightFrameworks = 0.4
	weightBuildTools = 0.3
	weightContainers = 0.2
	weightLanguages  = 0.1
)

// componentOrder fixes breakdown iteration so output is deterministic
var componentOrder = []string{"frameworks", "buildTools", "containers", "languages"}

// componentEvidenceTypes maps each component to the evidence types it scores
var componentEvidenceTypes = map[string][]types.EvidenceType{
	"frameworks": {types.EvidenceDependency, types.EvidenceConfigFile, types.EvidenceTextMention},
	"buildTools": {types.EvidenceConfigFile, types.EvidenceCommandPattern, types.EvidenceScriptCommand},
	"containers": {types.EvidenceConfigFile, types.EvidenceFilePattern},
	"languages":  {types.EvidenceDependency, types.EvidenceFilePattern, types.EvidenceImportStatement},
}

// Input carries the detections the calculator scores alongside the evidence
type Input struct {
	Frameworks []types.FrameworkInfo
	BuildTools []types.BuildToolInfo
	Containers []types.ContainerInfo
	Languages  []string
}

// Calculate computes the multi-component overall confidence. Deterministic
// and side-effect-free: identical input always yields identical output, which
// the result cache relies on.
func Calculate(evidence []types.Evidence, input Input) *types.OverallConfidence {
	counts := map[string]int{
		"frameworks": len(input.Frameworks),
		"buildTools": len(input.BuildTools),
		"containers": len(input.Containers),
		"languages":  len(input.Languages),
	}

	overall := &types.OverallConfidence{
		Breakdown: map[string]types.ComponentConfidence{},
	}

	score := 0.0
	for _, component := range componentOrder {
		cc := componentScore(evidence, componentEvidenceTypes[component], counts[component])
		overall.Breakdown[component] = cc
		score += cc.Score * componentWeight(component)
	}
	overall.Score = clamp(score)
	overall.Level = levelFor(overall.Score)
	overall.Factors = factors(evidence)
	overall.Recommendations = recommendations(overall.Score, overall.Factors)

	return overall
}

func componentWeight(component string) float64 {
	switch component {
	case "frameworks":
		return weightFrameworks
	case "buildTools":
		return weightBuildTools
	case "containers":
		return weightContainers
	default:
		return weightLanguages
	}
}

// componentScore applies the fixed formula: capped contributions from strong,
// medium and weak evidence counts, detected-item count, and type diversity.
func componentScore(evidence []types.Evidence, evTypes []types.EvidenceType, detectedCount int) types.ComponentConfidence {
	quality := evidenceQuality(evidence, evTypes)

	score := capped(float64(quality.StrongEvidence)*0.3, 0.6) +
		capped(float64(quality.MediumEvidence)*0.2, 0.4) +
		capped(float64(quality.WeakEvidence)*0.1, 0.2) +
		capped(float64(detectedCount)*0.15, 0.3) +
		quality.DiversityScore*0.15

	cc := types.ComponentConfidence{
		Score:         clamp(score),
		DetectedCount: detectedCount,
		Quality:       quality,
	}

	if quality.StrongEvidence > 0 {
		cc.Factors = append(cc.Factors, fmt.Sprintf("%d strong evidence item(s)", quality.StrongEvidence))
	}
	if detectedCount > 0 {
		cc.Factors = append(cc.Factors, fmt.Sprintf("%d item(s) detected", detectedCount))
	}
	if quality.StrongEvidence == 0 && quality.MediumEvidence == 0 && quality.WeakEvidence == 0 {
		cc.Factors = append(cc.Factors, "no supporting evidence")
	}
	return cc
}

// evidenceQuality buckets relevant evidence by weight and measures type
// diversity (distinct types / 5, capped at 1)
func evidenceQuality(evidence []types.Evidence, evTypes []types.EvidenceType) types.EvidenceQuality {
	relevant := map[types.EvidenceType]bool{}
	for _, t := range evTypes {
		relevant[t] = true
	}

	var quality types.EvidenceQuality
	distinctTypes := map[types.EvidenceType]bool{}

	for _, ev := range evidence {
		if !relevant[ev.Type] {
			continue
		}
		distinctTypes[ev.Type] = true
		switch {
		case ev.Weight >= 0.7:
			quality.StrongEvidence++
		case ev.Weight >= 0.4:
			quality.MediumEvidence++
		default:
			quality.WeakEvidence++
		}
	}

	quality.DiversityScore = float64(len(distinctTypes)) / 5.0
	if quality.DiversityScore > 1.0 {
		quality.DiversityScore = 1.0
	}
	return quality
}

func levelFor(score float64) types.ConfidenceLevel {
	switch {
	case score >= 0.8:
		return types.ConfidenceHigh
	case score >= 0.5:
		return types.ConfidenceMedium
	case score >= 0.2:
		return types.ConfidenceLow
	default:
		return types.ConfidenceNone
	}
}

func factors(evidence []types.Evidence) []types.ConfidenceFactor {
	var out []types.ConfidenceFactor

	for _, ev := range evidence {
		if ev.Weight >= 0.8 {
			out = append(out, types.ConfidenceFactor{
				Type:               "strong_evidence",
				Description:        "at least one high-weight evidence item supports the detection",
				Impact:             0.3,
				AffectedComponents: []string{"frameworks", "buildTools"},
			})
			break
		}
	}

	sources := map[string]bool{}
	for _, ev := range evidence {
		sources[ev.Source] = true
	}
	if len(sources) >= 3 {
		out = append(out, types.ConfidenceFactor{
			Type:               "multiple_sources",
			Description:        "evidence comes from three or more distinct sources",
			Impact:             0.2,
			AffectedComponents: componentOrder,
		})
	}

	if len(evidence) < 2 {
		out = append(out, types.ConfidenceFactor{
			Type:               "minimal_evidence",
			Description:        "fewer than two evidence items were collected",
			Impact:             -0.4,
			AffectedComponents: componentOrder,
			Resolution:         "supply a richer README or point the tool at the project directory",
		})
	}

	return out
}

func recommendations(score float64, factors []types.ConfidenceFactor) []string {
	var recs []string

	switch {
	case score >= 0.8:
		recs = append(recs, "detection confidence is high; results are safe to act on")
	case score >= 0.5:
		recs = append(recs, "review detected frameworks before generating pipelines")
	case score >= 0.2:
		recs = append(recs, "detection confidence is low; verify results manually")
	default:
		recs = append(recs, "not enough evidence to produce reliable detections; provide more project metadata")
	}

	for _, f := range factors {
		if f.Resolution != "" {
			recs = append(recs, f.Resolution)
		}
	}

	return dedupe(recs)
}

func dedupe(items []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
