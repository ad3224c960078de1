package conflicts

import (
	"fmt"
	"sort"
	"strings"

	"stackscan/pkg/detection/types"
)

// Detect runs all conflict detectors over the aggregated candidate set and
// returns every inconsistency found, auto-resolvable or not
func Detect(ctx *types.DetectionContext) []types.DetectionConflict {
	var conflicts []types.DetectionConflict
	conflicts = append(conflicts, detectDuplicates(ctx)...)
	conflicts = append(conflicts, detectIncompatible(ctx)...)
	conflicts = append(conflicts, detectVersionConflicts(ctx)...)
	conflicts = append(conflicts, detectBuildToolConflicts(ctx)...)
	conflicts = append(conflicts, detectLanguageMismatches(ctx)...)
	conflicts = append(conflicts, detectEvidenceContradictions(ctx)...)
	return conflicts
}

// groupByNormalizedName indexes frameworks by their canonical name,
// preserving input order inside each group
func groupByNormalizedName(frameworks []types.FrameworkInfo) (map[string][]int, []string) {
	groups := map[string][]int{}
	var order []string
	for i, fw := range frameworks {
		key := NormalizeName(fw.Name)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	return groups, order
}

func detectDuplicates(ctx *types.DetectionContext) []types.DetectionConflict {
	groups, order := groupByNormalizedName(ctx.Frameworks)

	var conflicts []types.DetectionConflict
	for _, key := range order {
		idxs := groups[key]
		if len(idxs) < 2 {
			continue
		}
		var names []string
		for _, i := range idxs {
			names = append(names, ctx.Frameworks[i].Name)
		}
		conflicts = append(conflicts, types.DetectionConflict{
			Type:                types.ConflictDuplicateFramework,
			Description:         fmt.Sprintf("%q was detected %d times", key, len(idxs)),
			Severity:            "medium",
			AffectedItems:       names,
			SuggestedResolution: "keep the highest-confidence detection",
			AutoResolvable:      true,
		})
	}
	return conflicts
}

func detectIncompatible(ctx *types.DetectionContext) []types.DetectionConflict {
	var conflicts []types.DetectionConflict
	for i := 0; i < len(ctx.Frameworks); i++ {
		for j := i + 1; j < len(ctx.Frameworks); j++ {
			a := NormalizeName(ctx.Frameworks[i].Name)
			b := NormalizeName(ctx.Frameworks[j].Name)
			if a == b || !Incompatible(a, b) {
				continue
			}
			conflicts = append(conflicts, types.DetectionConflict{
				Type:     types.ConflictIncompatibleFrameworks,
				Description: fmt.Sprintf("%s and %s are not normally used together",
					ctx.Frameworks[i].Name, ctx.Frameworks[j].Name),
				Severity:      "high",
				AffectedItems: []string{ctx.Frameworks[i].Name, ctx.Frameworks[j].Name},
				SuggestedResolution: fmt.Sprintf(
					"verify which of %s and %s the project actually uses and remove the other",
					ctx.Frameworks[i].Name, ctx.Frameworks[j].Name),
				AutoResolvable: false,
			})
		}
	}
	return conflicts
}

func detectVersionConflicts(ctx *types.DetectionContext) []types.DetectionConflict {
	groups, order := groupByNormalizedName(ctx.Frameworks)

	var conflicts []types.DetectionConflict
	for _, key := range order {
		idxs := groups[key]
		versions := map[string]bool{}
		var names []string
		for _, i := range idxs {
			if v := ctx.Frameworks[i].Version; v != "" {
				versions[v] = true
			}
			names = append(names, ctx.Frameworks[i].Name)
		}
		if len(versions) < 2 {
			continue
		}

		var list []string
		for v := range versions {
			list = append(list, v)
		}
		sort.Strings(list)
		conflicts = append(conflicts, types.DetectionConflict{
			Type: types.ConflictVersion,
			Description: fmt.Sprintf("%q was detected with conflicting versions: %s",
				key, strings.Join(list, ", ")),
			Severity:            "medium",
			AffectedItems:       names,
			SuggestedResolution: "harmonize on the highest-confidence detection's version",
			AutoResolvable:      true,
		})
	}
	return conflicts
}

func detectBuildToolConflicts(ctx *types.DetectionContext) []types.DetectionConflict {
	var packageManagers []string
	for _, bt := range ctx.BuildTools {
		if bt.IsPackageManager {
			packageManagers = append(packageManagers, bt.Name)
		}
	}
	if len(packageManagers) < 2 {
		return nil
	}

	// managers from different ecosystems legitimately coexist in polyglot
	// repos; still worth flagging, resolution keeps the strongest one
	return []types.DetectionConflict{{
		Type: types.ConflictBuildTool,
		Description: fmt.Sprintf("multiple package managers detected: %s",
			strings.Join(packageManagers, ", ")),
		Severity:            "medium",
		AffectedItems:       packageManagers,
		SuggestedResolution: "standardize on the highest-confidence package manager",
		AutoResolvable:      true,
	}}
}

func detectLanguageMismatches(ctx *types.DetectionContext) []types.DetectionConflict {
	if ctx.Info == nil || len(ctx.Info.Languages) == 0 {
		return nil
	}

	declared := map[string]bool{}
	for _, lang := range ctx.Info.Languages {
		declared[strings.ToLower(strings.TrimSpace(lang))] = true
	}

	var conflicts []types.DetectionConflict
	for _, fw := range ctx.Frameworks {
		expected := ExpectedLanguages(NormalizeName(fw.Name))
		if len(expected) == 0 {
			continue
		}
		found := false
		for _, lang := range expected {
			for d := range declared {
				if strings.Contains(d, lang) {
					found = true
					break
				}
			}
		}
		if found {
			continue
		}
		conflicts = append(conflicts, types.DetectionConflict{
			Type: types.ConflictLanguageMismatch,
			Description: fmt.Sprintf("%s expects %s but the project declares %s",
				fw.Name, strings.Join(expected, "/"), strings.Join(ctx.Info.Languages, ", ")),
			Severity:            "low",
			AffectedItems:       []string{fw.Name},
			SuggestedResolution: fmt.Sprintf("confirm the project uses %s or add %s to the declared languages", fw.Name, strings.Join(expected, "/")),
			AutoResolvable:      false,
		})
	}
	return conflicts
}

// detectEvidenceContradictions flags a single source asserting two
// frameworks the incompatibility table declares mutually exclusive
func detectEvidenceContradictions(ctx *types.DetectionContext) []types.DetectionConflict {
	bySource := map[string][]types.Evidence{}
	var sources []string
	for _, ev := range ctx.Evidence {
		if _, ok := bySource[ev.Source]; !ok {
			sources = append(sources, ev.Source)
		}
		bySource[ev.Source] = append(bySource[ev.Source], ev)
	}

	var conflicts []types.DetectionConflict
	for _, source := range sources {
		evs := bySource[source]
		for i := 0; i < len(evs); i++ {
			for j := i + 1; j < len(evs); j++ {
				a := NormalizeName(evs[i].Value)
				b := NormalizeName(evs[j].Value)
				if a == b || !Incompatible(a, b) {
					continue
				}
				conflicts = append(conflicts, types.DetectionConflict{
					Type: types.ConflictEvidenceContradiction,
					Description: fmt.Sprintf("source %q mentions both %s and %s",
						source, evs[i].Value, evs[j].Value),
					Severity:            "low",
					AffectedItems:       []string{evs[i].Value, evs[j].Value},
					Evidence:            []types.Evidence{evs[i], evs[j]},
					SuggestedResolution: "treat the weaker mention as incidental",
					AutoResolvable:      false,
				})
			}
		}
	}
	return conflicts
}
