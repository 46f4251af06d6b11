package noise

// Taxonomy mapper
//
// The external tagging model emits an open-ended set of labels ("car engine",
// "jackhammer", "bird vocalization", ...). This file folds those into the six
// fixed categories by case-insensitive substring matching against per-category
// keyword sets. A label is counted toward at most one category: the first one
// in taxonomy order whose keyword set matches. Labels matching nothing
// accumulate into Other.
//
// Scores are summed per category and only then clamped to 1.0, so two
// near-duplicate model labels ("car", "car engine") can double-count into
// Traffic before the clamp. That mirrors the behaviour of the original demo
// and is covered by a test; the ranking distortion it can cause is accepted.

import (
	"sort"
	"strings"
)

var categoryKeywords = map[Category][]string{
	CategoryTraffic: {
		"traffic", "car", "vehicle", "engine", "truck", "bus",
		"motorcycle", "horn", "road", "highway", "siren", "train",
	},
	CategoryConstruction: {
		"construction", "drill", "hammer", "jackhammer", "saw",
		"excavat", "bulldozer", "demolition",
	},
	CategoryNature: {
		"bird", "wind", "rain", "thunder", "water", "stream",
		"insect", "cricket", "animal", "leaves", "nature",
	},
	CategoryHuman: {
		"speech", "voice", "talk", "conversation", "crowd", "music",
		"sing", "laugh", "shout", "children", "footsteps", "applause",
	},
	CategoryIndustrial: {
		"industrial", "factory", "machine", "machinery", "generator",
		"compressor", "motor", "fan", "hum",
	},
}

// categoryForLabel resolves a raw model label to its category. Taxonomy order
// decides when several keyword sets would match.
func categoryForLabel(label string) Category {
	lowered := strings.ToLower(label)
	for _, category := range Categories {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lowered, keyword) {
				return category
			}
		}
	}
	return CategoryOther
}

// MapLabels folds raw (label, score) pairs into the fixed taxonomy. The
// result always carries exactly one entry per category, confidences clamped
// to [0,1] and sorted descending; ties keep taxonomy order.
func MapLabels(labels []LabelScore) Classification {
	totals := make(map[Category]float64, len(Categories))
	for _, ls := range labels {
		if ls.Score <= 0 {
			continue
		}
		totals[categoryForLabel(ls.Label)] += ls.Score
	}

	scores := make([]CategoryScore, 0, len(Categories))
	for _, category := range Categories {
		confidence := totals[category]
		if confidence > 1.0 {
			confidence = 1.0
		}
		scores = append(scores, CategoryScore{Category: category, Confidence: confidence})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	return Classification{Scores: scores}
}
