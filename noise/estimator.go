package noise

// Noise-level estimator
//
// estimatedDb = baseline(category) + confidence * 10 * weight(category)
//
// A deliberately simple linear heuristic, not a calibrated acoustic model:
// the baseline is a "typical" loudness for the category and the weight scales
// how much the model's confidence moves the estimate.

// categoryProfiles is the static per-category table. Loaded once, read-only
// thereafter, so it is safe to share across concurrent requests.
var categoryProfiles = map[Category]CategoryProfile{
	CategoryTraffic:      {BaselineDb: 75, Weight: 0.8},
	CategoryConstruction: {BaselineDb: 85, Weight: 0.9},
	CategoryNature:       {BaselineDb: 45, Weight: 0.2},
	CategoryHuman:        {BaselineDb: 60, Weight: 0.6},
	CategoryIndustrial:   {BaselineDb: 80, Weight: 0.85},
	CategoryOther:        {BaselineDb: 55, Weight: 0.5},
}

// defaultProfile backs any category outside the fixed six. The estimator is
// total: an unknown category degrades to this profile instead of failing.
var defaultProfile = CategoryProfile{BaselineDb: 45, Weight: 0.5}

// ProfileFor returns the estimator profile for a category.
func ProfileFor(category Category) CategoryProfile {
	if profile, ok := categoryProfiles[category]; ok {
		return profile
	}
	return defaultProfile
}

// EstimateDb converts the dominant (category, confidence) pair into an
// estimated decibel value. Monotonically non-decreasing in confidence for a
// fixed category.
func EstimateDb(category Category, confidence float64) float64 {
	profile := ProfileFor(category)
	return profile.BaselineDb + confidence*10*profile.Weight
}
