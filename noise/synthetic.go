package noise

// Synthetic classification fallback
//
// When the tagging model cannot be reached the pipeline still has to produce
// a result (ModelUnavailable is recovered locally, never propagated). The
// substitute is generated here and always carries Synthetic=true so it can
// never masquerade as real model output.

import (
	"math/rand"
	"sort"
)

// SyntheticClassification fabricates a demo classification: one dominant
// category with a confidence in [0.5, 0.9) and small residual confidences for
// the rest. The result obeys the same invariants as a mapped one (clamped,
// one entry per category, sorted descending).
func SyntheticClassification(rng *rand.Rand) Classification {
	dominant := Categories[rng.Intn(len(Categories))]

	scores := make([]CategoryScore, 0, len(Categories))
	for _, category := range Categories {
		var confidence float64
		if category == dominant {
			confidence = 0.5 + rng.Float64()*0.4
		} else {
			confidence = rng.Float64() * 0.3
		}
		scores = append(scores, CategoryScore{Category: category, Confidence: confidence})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	return Classification{Scores: scores, Synthetic: true}
}
