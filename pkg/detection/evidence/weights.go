package evidence

import "stackscan/pkg/detection/types"

// defaultWeights maps every evidence type to its default weight. Individual
// evidence instances may override the weight, but the table is the single
// source of the defaults.
var defaultWeights = map[types.EvidenceType]float64{
	types.EvidenceImportStatement:    0.9,
	types.EvidenceConfigFile:         0.8,
	types.EvidenceDependency:         0.7,
	types.EvidenceFilePattern:        0.6,
	types.EvidenceVersionInfo:        0.6,
	types.EvidenceCommandPattern:     0.5,
	types.EvidenceScriptCommand:      0.5,
	types.EvidenceAnnotation:         0.4,
	types.EvidenceDirectoryStructure: 0.3,
	types.EvidenceTextMention:        0.2,
}

// WeightFor returns the default weight for an evidence type
func WeightFor(t types.EvidenceType) float64 {
	return defaultWeights[t]
}

// New builds an evidence item with the default weight for its type
func New(t types.EvidenceType, source, value string) types.Evidence {
	return types.Evidence{
		Type:   t,
		Source: source,
		Value:  value,
		Weight: WeightFor(t),
	}
}
