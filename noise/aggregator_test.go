package noise

import (
	"math"
	"testing"
)

type recordingSink struct {
	annotations []MapAnnotation
}

func (s *recordingSink) AddMarker(annotation MapAnnotation) {
	s.annotations = append(s.annotations, annotation)
}

type recordingNotifier struct {
	messages   []string
	severities []string
}

func (n *recordingNotifier) ShowStatus(message, severity string) {
	n.messages = append(n.messages, message)
	n.severities = append(n.severities, severity)
}

// classificationFor builds a classification with one dominant category,
// bypassing keyword matching.
func classificationFor(category Category, confidence float64) Classification {
	scores := []CategoryScore{{Category: category, Confidence: confidence}}
	for _, other := range Categories {
		if other != category {
			scores = append(scores, CategoryScore{Category: other})
		}
	}
	return Classification{Scores: scores}
}

func TestAnnotateWithRealLocation(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator(1)
	location := &Geolocation{Latitude: 12.9716, Longitude: 77.5946}

	annotation := aggregator.Annotate(classificationFor(CategoryConstruction, 0.8), location)

	if annotation.Latitude != location.Latitude || annotation.Longitude != location.Longitude {
		t.Fatalf("real location must pass through unchanged, got (%.4f, %.4f)",
			annotation.Latitude, annotation.Longitude)
	}
	if annotation.SyntheticLocation {
		t.Fatal("real location must not be flagged synthetic")
	}
	// Construction: 85 + 0.8*10*0.9 = 92.2
	if math.Abs(annotation.EstimatedDb-92.2) > 1e-9 {
		t.Fatalf("expected 92.2 dB, got %.4f", annotation.EstimatedDb)
	}
	if annotation.Verdict != VerdictCritical {
		t.Fatalf("expected critical verdict, got %s", annotation.Verdict)
	}
}

func TestAnnotateSynthesizesLocationWithinJitterBounds(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator(42)
	for i := 0; i < 100; i++ {
		annotation := aggregator.Annotate(classificationFor(CategoryNature, 0.5), nil)

		if !annotation.SyntheticLocation {
			t.Fatal("missing geolocation must flag the annotation")
		}
		if math.Abs(annotation.Latitude-DefaultAnchor.Latitude) > locationJitterDegrees {
			t.Fatalf("latitude jitter out of bounds: %.6f", annotation.Latitude)
		}
		if math.Abs(annotation.Longitude-DefaultAnchor.Longitude) > locationJitterDegrees {
			t.Fatalf("longitude jitter out of bounds: %.6f", annotation.Longitude)
		}
	}
}

func TestAnnotateIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	first := NewAggregator(7).Annotate(classificationFor(CategoryHuman, 0.4), nil)
	second := NewAggregator(7).Annotate(classificationFor(CategoryHuman, 0.4), nil)

	if first.Latitude != second.Latitude || first.Longitude != second.Longitude {
		t.Fatal("same seed must produce the same synthetic coordinate")
	}
}

func TestPublishNotifiesCollaborators(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator(1)
	sink := &recordingSink{}
	notifier := &recordingNotifier{}

	annotation := aggregator.Annotate(classificationFor(CategoryTraffic, 0.6), nil)
	aggregator.Publish(annotation, sink, notifier)

	if len(sink.annotations) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(sink.annotations))
	}
	if len(notifier.severities) != 1 || notifier.severities[0] != "error" {
		t.Fatalf("expected error severity for critical traffic estimate, got %v", notifier.severities)
	}

	// Collaborators are optional; publishing without them must not panic.
	aggregator.Publish(annotation, nil, nil)
}

func TestPublishCarriesSyntheticTag(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator(1)
	sink := &recordingSink{}

	classification := classificationFor(CategoryNature, 0.2)
	classification.Synthetic = true
	aggregator.Publish(aggregator.Annotate(classification, nil), sink, nil)

	if !sink.annotations[0].Synthetic {
		t.Fatal("synthetic classification must stay tagged through aggregation")
	}
}
