package noise

import (
	"math/rand"
	"testing"
)

func TestSyntheticClassificationIsTagged(t *testing.T) {
	t.Parallel()

	result := SyntheticClassification(rand.New(rand.NewSource(1)))
	if !result.Synthetic {
		t.Fatal("synthetic classification must be tagged")
	}
}

func TestSyntheticClassificationObeysInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		result := SyntheticClassification(rng)

		if len(result.Scores) != len(Categories) {
			t.Fatalf("expected %d entries, got %d", len(Categories), len(result.Scores))
		}
		for j, score := range result.Scores {
			if score.Confidence < 0 || score.Confidence > 1 {
				t.Fatalf("confidence out of range: %.3f", score.Confidence)
			}
			if j > 0 && result.Scores[j-1].Confidence < score.Confidence {
				t.Fatalf("scores not sorted descending at index %d", j)
			}
		}
		if result.Top().Confidence < 0.5 {
			t.Fatalf("dominant synthetic confidence below 0.5: %.3f", result.Top().Confidence)
		}
	}
}

func TestSyntheticClassificationDeterministicForSeed(t *testing.T) {
	t.Parallel()

	first := SyntheticClassification(rand.New(rand.NewSource(5)))
	second := SyntheticClassification(rand.New(rand.NewSource(5)))

	for i := range first.Scores {
		if first.Scores[i] != second.Scores[i] {
			t.Fatal("same seed must produce the same synthetic classification")
		}
	}
}
