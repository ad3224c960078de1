package conflicts

import (
	"fmt"

	"stackscan/pkg/detection/types"
)

// Resolution is the outcome of applying auto-resolution strategies
type Resolution struct {
	Context  *types.DetectionContext
	Warnings []types.DetectionWarning
}

// Resolve applies auto-resolution strategies to the resolvable conflicts and
// surfaces the rest for manual review. The input context is not mutated; the
// returned context carries the resolved candidate set. Resolving an
// already-resolved set is a no-op.
func Resolve(conflicts []types.DetectionConflict, ctx *types.DetectionContext) *Resolution {
	resolved := &types.DetectionContext{
		Info:       ctx.Info,
		Frameworks: append([]types.FrameworkInfo(nil), ctx.Frameworks...),
		BuildTools: append([]types.BuildToolInfo(nil), ctx.BuildTools...),
		Containers: ctx.Containers,
		Evidence:   ctx.Evidence,
		Confidence: ctx.Confidence,
	}

	res := &Resolution{Context: resolved}

	for _, conflict := range conflicts {
		if !conflict.AutoResolvable {
			res.Warnings = append(res.Warnings, types.DetectionWarning{
				ID:       "manual_review_" + string(conflict.Type),
				Category: "conflicts",
				Severity: types.SeverityWarning,
				Title:    "Manual review required",
				Message: fmt.Sprintf("%s: %s",
					conflict.Description, conflict.SuggestedResolution),
				AffectedItems: conflict.AffectedItems,
			})
			continue
		}

		switch conflict.Type {
		case types.ConflictDuplicateFramework:
			resolved.Frameworks = resolveDuplicates(resolved.Frameworks)
		case types.ConflictVersion:
			resolved.Frameworks = harmonizeVersions(resolved.Frameworks)
		case types.ConflictBuildTool:
			resolved.BuildTools = resolveBuildTools(resolved.BuildTools)
		}
	}

	resolved.Conflicts = conflicts
	return res
}

// resolveDuplicates keeps, for each normalized name, only the
// highest-confidence detection (first seen wins ties)
func resolveDuplicates(frameworks []types.FrameworkInfo) []types.FrameworkInfo {
	bestIdx := map[string]int{}
	var order []string

	for i, fw := range frameworks {
		key := NormalizeName(fw.Name)
		if j, ok := bestIdx[key]; ok {
			if fw.Confidence > frameworks[j].Confidence {
				bestIdx[key] = i
			}
			continue
		}
		bestIdx[key] = i
		order = append(order, key)
	}

	out := make([]types.FrameworkInfo, 0, len(order))
	for _, key := range order {
		out = append(out, frameworks[bestIdx[key]])
	}
	return out
}

// harmonizeVersions propagates the highest-confidence entry's version onto
// every duplicate sibling. Siblings keep their own confidence; differing
// versions are overwritten so a group never leaves resolution disagreeing.
func harmonizeVersions(frameworks []types.FrameworkInfo) []types.FrameworkInfo {
	type best struct {
		version    string
		confidence float64
	}
	bestVersion := map[string]best{}

	for _, fw := range frameworks {
		if fw.Version == "" {
			continue
		}
		key := NormalizeName(fw.Name)
		if b, ok := bestVersion[key]; !ok || fw.Confidence > b.confidence {
			bestVersion[key] = best{version: fw.Version, confidence: fw.Confidence}
		}
	}

	out := append([]types.FrameworkInfo(nil), frameworks...)
	for i := range out {
		if b, ok := bestVersion[NormalizeName(out[i].Name)]; ok {
			out[i].Version = b.version
		}
	}
	return out
}

// resolveBuildTools keeps the single highest-confidence package manager and
// drops the rest; non-package-manager tools pass through untouched
func resolveBuildTools(tools []types.BuildToolInfo) []types.BuildToolInfo {
	bestIdx := -1
	for i, bt := range tools {
		if !bt.IsPackageManager {
			continue
		}
		if bestIdx == -1 || bt.Confidence > tools[bestIdx].Confidence {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return tools
	}

	out := make([]types.BuildToolInfo, 0, len(tools))
	for i, bt := range tools {
		if bt.IsPackageManager && i != bestIdx {
			continue
		}
		out = append(out, bt)
	}
	return out
}
