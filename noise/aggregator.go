package noise

// Aggregator / marker emitter
//
// Combines a classification with a (possibly absent) geolocation into one
// MapAnnotation and hands it to the map and notification collaborators. The
// aggregator never touches the UI itself; rendering belongs to whoever
// implements MapSink and Notifier.

import (
	"fmt"
	"math/rand"
	"sync"
)

// MapSink receives finished annotations. The socket layer implements it by
// emitting a mapAnnotation event to the browser.
type MapSink interface {
	AddMarker(annotation MapAnnotation)
}

// Notifier receives user-facing status messages. Severity is one of
// "info", "warning", "error".
type Notifier interface {
	ShowStatus(message, severity string)
}

const (
	// locationJitterDegrees bounds the synthetic-location fallback: when no
	// geolocation fix is available the anchor is jittered by at most this
	// much in each axis. A demo affordance, not a geolocation algorithm.
	locationJitterDegrees = 0.05
)

// DefaultAnchor is the fallback map centre used when the client provides no
// geolocation.
var DefaultAnchor = Geolocation{Latitude: 40.7128, Longitude: -74.0060}

// Aggregator owns annotation creation. It holds no per-request state; the
// randomness source exists only for the synthetic-location fallback and is
// injectable so tests can pin it.
type Aggregator struct {
	anchor Geolocation

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAggregator builds an aggregator around the default anchor.
func NewAggregator(seed int64) *Aggregator {
	return NewAggregatorAt(DefaultAnchor, seed)
}

// NewAggregatorAt builds an aggregator with a custom anchor coordinate.
func NewAggregatorAt(anchor Geolocation, seed int64) *Aggregator {
	return &Aggregator{
		anchor: anchor,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Annotate produces the MapAnnotation for a classification event. A nil
// location triggers the synthetic-location fallback, which is flagged on the
// annotation so downstream consumers can tell it apart from a real fix.
func (a *Aggregator) Annotate(classification Classification, location *Geolocation) MapAnnotation {
	top := classification.Top()
	estimated := EstimateDb(top.Category, top.Confidence)

	annotation := MapAnnotation{
		EstimatedDb: estimated,
		Confidence:  top.Confidence,
		Verdict:     EvaluateCompliance(estimated),
		Category:    top.Category,
		Synthetic:   classification.Synthetic,
	}

	if location != nil {
		annotation.Latitude = location.Latitude
		annotation.Longitude = location.Longitude
	} else {
		annotation.Latitude = a.anchor.Latitude + a.jitter()
		annotation.Longitude = a.anchor.Longitude + a.jitter()
		annotation.SyntheticLocation = true
	}

	return annotation
}

// Publish hands the annotation to the collaborators. Either collaborator may
// be nil, in which case that side effect is skipped.
func (a *Aggregator) Publish(annotation MapAnnotation, sink MapSink, notifier Notifier) {
	if sink != nil {
		sink.AddMarker(annotation)
	}
	if notifier != nil {
		notifier.ShowStatus(statusMessage(annotation), statusSeverity(annotation.Verdict))
	}
}

func (a *Aggregator) jitter() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return (a.rng.Float64()*2 - 1) * locationJitterDegrees
}

func statusMessage(annotation MapAnnotation) string {
	message := fmt.Sprintf("%s detected at %.1f dB: %s",
		annotation.Category, annotation.EstimatedDb, annotation.Verdict.Label())
	if annotation.Synthetic {
		message += " (demo estimate)"
	}
	return message
}

func statusSeverity(verdict Verdict) string {
	switch verdict {
	case VerdictCritical:
		return "error"
	case VerdictExceedsLimit:
		return "warning"
	default:
		return "info"
	}
}
