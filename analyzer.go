package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"ecosound/db"
	"ecosound/models"
	"ecosound/noise"
	"ecosound/observations"
	"ecosound/tagging"
	"ecosound/utils"

	"github.com/mdobak/go-xerrors"
)

// analyzer runs the classification pipeline shared by the HTTP and socket
// entrypoints: validate the audio payload, tag it against the model service,
// fold the labels onto the fixed taxonomy, estimate loudness, build the map
// annotation and persist the observation. A tagging failure degrades to a
// synthetic classification instead of failing the request.
type analyzer struct {
	tagger            *tagging.Client
	aggregator        *noise.Aggregator
	database          db.NoiseDB
	persistRecordings bool

	mu  sync.Mutex
	rng *rand.Rand
}

// analysisSummary is the wire shape returned for one classification event,
// shared by the HTTP response and the socket classification emit.
type analysisSummary struct {
	Classification noise.Classification `json:"classification"`
	Annotation     noise.MapAnnotation  `json:"annotation"`
	EstimatedDb    float64              `json:"estimatedDb"`
	Verdict        noise.Verdict        `json:"verdict"`
	VerdictLabel   string               `json:"verdictLabel"`
	Synthetic      bool                 `json:"synthetic"`
	LatencyMs      float64              `json:"latencyMs"`
	Latitude       *float64             `json:"latitude,omitempty"`
	Longitude      *float64             `json:"longitude,omitempty"`
	RecordingPath  string               `json:"recordingPath,omitempty"`
}

func newAnalyzer(tagger *tagging.Client, aggregator *noise.Aggregator, database db.NoiseDB, persist bool) *analyzer {
	return &analyzer{
		tagger:            tagger,
		aggregator:        aggregator,
		database:          database,
		persistRecordings: persist,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// analyze runs the full pipeline for one recording. The returned error is
// always an input problem (bad base64, oversize, unsupported container);
// model and storage failures are absorbed and logged.
func (a *analyzer) analyze(ctx context.Context, recData models.RecordData) (*analysisSummary, error) {
	logger := utils.GetLogger()

	if recData.Audio == "" {
		return nil, fmt.Errorf("no audio data received")
	}

	started := time.Now()

	audioSample, err := noise.PrepareAudioSample(recData, a.persistRecordings)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "prepared audio sample",
		slog.String("format", audioSample.Format),
		slog.Int("bytes", len(audioSample.Data)),
		slog.Float64("duration", audioSample.Duration),
		slog.Bool("persisted", audioSample.Persisted != ""),
	)

	var classification noise.Classification
	labels, err := a.tag(audioSample)
	if err != nil {
		err := xerrors.New(err)
		logger.WarnContext(ctx, "tagging service unavailable, using synthetic classification",
			slog.Any("error", err))
		classification = a.syntheticClassification()
	} else {
		classification = noise.MapLabels(labels)
	}

	var location *noise.Geolocation
	if recData.Latitude != nil && recData.Longitude != nil {
		location = &noise.Geolocation{Latitude: *recData.Latitude, Longitude: *recData.Longitude}
	}

	annotation := a.aggregator.Annotate(classification, location)
	latency := time.Since(started).Seconds() * 1000

	top := classification.Top()
	logger.InfoContext(ctx, "classification complete",
		slog.String("category", string(top.Category)),
		slog.Float64("confidence", top.Confidence),
		slog.Float64("estimatedDb", annotation.EstimatedDb),
		slog.String("verdict", string(annotation.Verdict)),
		slog.Bool("synthetic", classification.Synthetic),
		slog.Float64("latency_ms", latency),
	)

	summary := &analysisSummary{
		Classification: classification,
		Annotation:     annotation,
		EstimatedDb:    annotation.EstimatedDb,
		Verdict:        annotation.Verdict,
		VerdictLabel:   annotation.Verdict.Label(),
		Synthetic:      classification.Synthetic,
		LatencyMs:      latency,
		Latitude:       recData.Latitude,
		Longitude:      recData.Longitude,
		RecordingPath:  audioSample.Persisted,
	}

	a.storeObservation(ctx, summary)

	return summary, nil
}

// tag sends the sample to the tagging service, preferring the on-disk copy
// when one was persisted.
func (a *analyzer) tag(sample *noise.AudioSample) ([]noise.LabelScore, error) {
	if sample.Persisted != "" {
		return a.tagger.Classify(sample.Persisted)
	}
	return a.tagger.ClassifyBytes(sample.Data, "recording."+sample.Format)
}

func (a *analyzer) syntheticClassification() noise.Classification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return noise.SyntheticClassification(a.rng)
}

// storeObservation persists the annotation so it survives restarts. The
// database is preferred; without one the JSON file log keeps the demo map
// populated. Failures are logged, never surfaced to the client.
func (a *analyzer) storeObservation(ctx context.Context, summary *analysisSummary) {
	logger := utils.GetLogger()

	scores, err := json.Marshal(summary.Classification.Scores)
	if err != nil {
		logger.ErrorContext(ctx, "failed to marshal classification scores", slog.Any("error", err))
		scores = nil
	}

	observation := &models.Observation{
		Timestamp:         time.Now(),
		Latitude:          summary.Annotation.Latitude,
		Longitude:         summary.Annotation.Longitude,
		NoiseDb:           summary.Annotation.EstimatedDb,
		Confidence:        summary.Annotation.Confidence,
		Category:          string(summary.Annotation.Category),
		Verdict:           string(summary.Annotation.Verdict),
		Synthetic:         summary.Synthetic,
		SyntheticLocation: summary.Annotation.SyntheticLocation,
		Classification:    scores,
	}
	if summary.Synthetic {
		observation.Metadata = map[string]interface{}{"source": "synthetic"}
	}
	if summary.RecordingPath != "" {
		if observation.Metadata == nil {
			observation.Metadata = map[string]interface{}{}
		}
		observation.Metadata["recordingPath"] = summary.RecordingPath
	}

	if a.database != nil {
		if err := a.database.StoreObservation(observation); err != nil {
			logger.ErrorContext(ctx, "failed to store observation", slog.Any("error", err))
		}
		return
	}

	if err := observations.SaveObservation(observation); err != nil {
		logger.ErrorContext(ctx, "failed to save observation to file log", slog.Any("error", err))
	}
}
