package noise

import (
	"math"
	"testing"
)

func TestEstimateDbScenario(t *testing.T) {
	t.Parallel()

	// Traffic: baseline 75, weight 0.8 -> 75 + 0.6*10*0.8 = 79.8
	got := EstimateDb(CategoryTraffic, 0.6)
	if math.Abs(got-79.8) > 1e-9 {
		t.Fatalf("expected 79.8, got %.4f", got)
	}
	if EvaluateCompliance(got) != VerdictCritical {
		t.Fatalf("expected critical verdict at %.1f dB", got)
	}
}

func TestEstimateDbMonotoneInConfidence(t *testing.T) {
	t.Parallel()

	for _, category := range Categories {
		prev := math.Inf(-1)
		for confidence := 0.0; confidence <= 1.0; confidence += 0.05 {
			estimate := EstimateDb(category, confidence)
			if estimate < prev {
				t.Fatalf("%s: estimate decreased at confidence %.2f", category, confidence)
			}
			prev = estimate
		}
	}
}

func TestEstimateDbUnknownCategoryFallsBack(t *testing.T) {
	t.Parallel()

	got := EstimateDb(Category("Helicopter"), 1.0)
	want := defaultProfile.BaselineDb + 10*defaultProfile.Weight
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected default profile estimate %.2f, got %.2f", want, got)
	}
}

func TestProfileTableIsComplete(t *testing.T) {
	t.Parallel()

	for _, category := range Categories {
		profile := ProfileFor(category)
		if profile.Weight <= 0 || profile.Weight > 1 {
			t.Fatalf("%s: weight %.2f outside (0,1]", category, profile.Weight)
		}
		if profile.BaselineDb <= 0 {
			t.Fatalf("%s: non-positive baseline %.2f", category, profile.BaselineDb)
		}
	}
}
