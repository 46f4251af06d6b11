package noise

// LabelScore is a single (label, score) pair as returned by the external
// audio-tagging model. Labels are free text; scores are nominally in [0,1].
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Category is one of the six fixed sound-source categories every model label
// is folded into.
type Category string

const (
	CategoryTraffic      Category = "Traffic"
	CategoryConstruction Category = "Construction"
	CategoryNature       Category = "Nature"
	CategoryHuman        Category = "Human"
	CategoryIndustrial   Category = "Industrial"
	CategoryOther        Category = "Other"
)

// Categories lists the taxonomy in its fixed order. The order doubles as the
// tie-break for equal confidences and as the match precedence for labels
// whose text would match several categories.
var Categories = []Category{
	CategoryTraffic,
	CategoryConstruction,
	CategoryNature,
	CategoryHuman,
	CategoryIndustrial,
	CategoryOther,
}

// CategoryScore is one category with its accumulated, clamped confidence.
type CategoryScore struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// Classification is the mapped result: exactly one entry per fixed category,
// sorted descending by confidence. Synthetic marks results that were
// fabricated because the tagging model was unavailable; they must never be
// indistinguishable from real model output.
type Classification struct {
	Scores    []CategoryScore `json:"scores"`
	Synthetic bool            `json:"synthetic"`
}

// Top returns the dominant (category, confidence) pair.
func (c Classification) Top() CategoryScore {
	if len(c.Scores) == 0 {
		return CategoryScore{Category: CategoryOther}
	}
	return c.Scores[0]
}

// CategoryProfile holds the static per-category estimator parameters.
type CategoryProfile struct {
	BaselineDb float64 `json:"baselineDb"`
	Weight     float64 `json:"weight"`
}

// Geolocation is a WGS84 coordinate pair.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapAnnotation is the aggregator's output: one marker-ready record per
// classification event. Annotations are immutable once created.
type MapAnnotation struct {
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	EstimatedDb       float64 `json:"estimatedDb"`
	Confidence        float64 `json:"confidence"`
	Verdict           Verdict `json:"verdict"`
	Category          Category `json:"category"`
	Synthetic         bool    `json:"synthetic"`
	SyntheticLocation bool    `json:"syntheticLocation"`
}
