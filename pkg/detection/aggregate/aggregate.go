package aggregate

import (
	"fmt"
	"strings"

	"stackscan/pkg/detection/types"
)

// Merged is the combined candidate set from all analyzers
type Merged struct {
	Frameworks []types.FrameworkInfo
	BuildTools []types.BuildToolInfo
	Containers []types.ContainerInfo
	Warnings   []types.DetectionWarning
}

// Merge combines analyzer results into one candidate list. Frameworks are
// deduplicated by (name, ecosystem) keeping the strictly higher-confidence
// entry (first seen wins ties); build tools are deduplicated by name the same
// way. Inputs are never mutated.
func Merge(results []*types.LanguageDetectionResult) *Merged {
	merged := &Merged{
		Frameworks: []types.FrameworkInfo{},
		BuildTools: []types.BuildToolInfo{},
		Containers: []types.ContainerInfo{},
	}

	frameworkIdx := map[string]int{}
	buildToolIdx := map[string]int{}
	removed := 0

	for _, result := range results {
		if result == nil {
			continue
		}

		for _, fw := range result.Frameworks {
			key := strings.ToLower(fw.Name) + "|" + string(fw.Ecosystem)
			if i, ok := frameworkIdx[key]; ok {
				removed++
				if fw.Confidence > merged.Frameworks[i].Confidence {
					merged.Frameworks[i] = fw
				}
				continue
			}
			frameworkIdx[key] = len(merged.Frameworks)
			merged.Frameworks = append(merged.Frameworks, fw)
		}

		for _, bt := range result.BuildTools {
			key := strings.ToLower(bt.Name)
			if i, ok := buildToolIdx[key]; ok {
				removed++
				if bt.Confidence > merged.BuildTools[i].Confidence {
					merged.BuildTools[i] = bt
				}
				continue
			}
			buildToolIdx[key] = len(merged.BuildTools)
			merged.BuildTools = append(merged.BuildTools, bt)
		}

		merged.Containers = append(merged.Containers, result.Containers...)
	}

	if removed > 0 {
		merged.Warnings = append(merged.Warnings, types.DetectionWarning{
			ID:       "duplicate_detections_resolved",
			Category: "aggregation",
			Severity: types.SeverityInfo,
			Title:    "Conflicting detections resolved",
			Message: fmt.Sprintf(
				"%d duplicate detection(s) from different analyzers were merged, keeping the highest-confidence entry", removed),
		})
	}

	return merged
}
