package noise

import "testing"

func TestMapLabelsScenario(t *testing.T) {
	t.Parallel()

	result := MapLabels([]LabelScore{
		{Label: "car engine", Score: 0.6},
		{Label: "speech", Score: 0.3},
	})

	if got := confidenceOf(t, result, CategoryTraffic); got != 0.6 {
		t.Fatalf("expected Traffic=0.6, got %.3f", got)
	}
	if got := confidenceOf(t, result, CategoryHuman); got != 0.3 {
		t.Fatalf("expected Human=0.3, got %.3f", got)
	}
	for _, category := range []Category{CategoryConstruction, CategoryNature, CategoryIndustrial, CategoryOther} {
		if got := confidenceOf(t, result, category); got != 0 {
			t.Fatalf("expected %s=0, got %.3f", category, got)
		}
	}
	if result.Top().Category != CategoryTraffic {
		t.Fatalf("expected Traffic as top category, got %s", result.Top().Category)
	}
	if result.Synthetic {
		t.Fatal("mapped result must not be tagged synthetic")
	}
}

func TestMapLabelsSumsThenClamps(t *testing.T) {
	t.Parallel()

	// Near-duplicate labels double-count into the same category before the
	// clamp; the output confidence still may not exceed 1.0.
	result := MapLabels([]LabelScore{
		{Label: "car", Score: 0.7},
		{Label: "car engine", Score: 0.6},
	})

	if got := confidenceOf(t, result, CategoryTraffic); got != 1.0 {
		t.Fatalf("expected Traffic clamped to 1.0, got %.3f", got)
	}
}

func TestMapLabelsUnmatchedAccumulateIntoOther(t *testing.T) {
	t.Parallel()

	result := MapLabels([]LabelScore{
		{Label: "theremin solo", Score: 0.2},
		{Label: "unidentifiable rumble", Score: 0.3},
	})

	if got := confidenceOf(t, result, CategoryOther); got != 0.5 {
		t.Fatalf("expected Other=0.5, got %.3f", got)
	}
}

func TestMapLabelsOutputInvariants(t *testing.T) {
	t.Parallel()

	inputs := [][]LabelScore{
		nil,
		{},
		{{Label: "jackhammer", Score: 0.9}, {Label: "bird song", Score: 0.4}, {Label: "crowd", Score: 0.4}},
		{{Label: "factory hum", Score: 2.5}},
		{{Label: "wind", Score: -0.3}},
	}

	for _, input := range inputs {
		result := MapLabels(input)
		if len(result.Scores) != len(Categories) {
			t.Fatalf("expected %d entries, got %d", len(Categories), len(result.Scores))
		}
		seen := map[Category]bool{}
		for i, score := range result.Scores {
			if score.Confidence < 0 || score.Confidence > 1 {
				t.Fatalf("confidence out of range for %s: %.3f", score.Category, score.Confidence)
			}
			if i > 0 && result.Scores[i-1].Confidence < score.Confidence {
				t.Fatalf("scores not sorted descending at index %d", i)
			}
			if seen[score.Category] {
				t.Fatalf("duplicate category %s", score.Category)
			}
			seen[score.Category] = true
		}
	}
}

func TestMapLabelsTieBreakIsStable(t *testing.T) {
	t.Parallel()

	// Nature and Human tie; taxonomy order puts Nature first.
	result := MapLabels([]LabelScore{
		{Label: "speech", Score: 0.4},
		{Label: "bird call", Score: 0.4},
	})

	if result.Scores[0].Category != CategoryNature || result.Scores[1].Category != CategoryHuman {
		t.Fatalf("tie-break violated taxonomy order: got %s then %s",
			result.Scores[0].Category, result.Scores[1].Category)
	}
}

func TestCategoryForLabelPrecedence(t *testing.T) {
	t.Parallel()

	// "construction vehicle" matches both Traffic ("vehicle") and
	// Construction; taxonomy order resolves it to Traffic.
	if got := categoryForLabel("construction vehicle"); got != CategoryTraffic {
		t.Fatalf("expected Traffic by precedence, got %s", got)
	}
	if got := categoryForLabel("Jackhammer"); got != CategoryConstruction {
		t.Fatalf("expected Construction for case-insensitive match, got %s", got)
	}
}

func confidenceOf(t *testing.T, c Classification, category Category) float64 {
	t.Helper()
	for _, score := range c.Scores {
		if score.Category == category {
			return score.Confidence
		}
	}
	t.Fatalf("category %s missing from result", category)
	return 0
}
