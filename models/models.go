package models

import (
	"encoding/json"
	"time"
)

// RecordData is the payload the browser sends for classification: base64
// audio plus capture metadata and an optional geolocation fix.
type RecordData struct {
	Audio      string   `json:"audio"`
	Duration   float64  `json:"duration"`
	Channels   int      `json:"channels"`
	SampleRate int      `json:"sampleRate"`
	SampleSize int      `json:"sampleSize"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Observation represents one stored noise measurement with its map annotation.
type Observation struct {
	ID                int64                  `json:"id"`
	Timestamp         time.Time              `json:"timestamp"`
	Latitude          float64                `json:"latitude"`
	Longitude         float64                `json:"longitude"`
	NoiseDb           float64                `json:"noiseDb"`
	Confidence        float64                `json:"confidence"`
	Category          string                 `json:"category"`
	Verdict           string                 `json:"verdict"`
	Synthetic         bool                   `json:"synthetic"`
	SyntheticLocation bool                   `json:"syntheticLocation"`
	Classification    json.RawMessage        `json:"classification,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// FeedbackEntry is a citizen noise report together with its text analysis.
type FeedbackEntry struct {
	ID        string          `json:"id"`
	Text      string          `json:"feedback"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
	NoiseDb   *float64        `json:"noiseDb,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
	Status    string          `json:"status"`
}

// FeedbackSourceCount pairs a detected noise source with its report count.
type FeedbackSourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// FeedbackStats summarises the feedback table for the stats endpoint.
type FeedbackStats struct {
	Total        int                   `json:"total"`
	Last24Hours  int                   `json:"last24Hours"`
	Urgent       int                   `json:"urgent"`
	AverageNoise float64               `json:"averageNoise"`
	TopSources   []FeedbackSourceCount `json:"topSources"`
}

// Hotspot is an aggregated cluster of loud observations around a rounded
// coordinate cell.
type Hotspot struct {
	ID               int     `json:"id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	AverageDb        float64 `json:"averageDb"`
	PeakDb           float64 `json:"peakDb"`
	Severity         string  `json:"severity"`
	MeasurementCount int     `json:"measurementCount"`
	AreaDescription  string  `json:"areaDescription"`
}

// PredictionRecord is a stored forecast point, kept for later accuracy review.
type PredictionRecord struct {
	ID          int64     `json:"id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	PredictedDb float64   `json:"predictedDb"`
	Confidence  float64   `json:"confidence"`
	Weather     string    `json:"weather"`
	Timestamp   time.Time `json:"timestamp"`
}
