package db

import (
	"fmt"
	"strings"

	"ecosound/models"
	"ecosound/utils"
)

// NoiseDB is the storage boundary for observations, feedback and stored
// forecasts. Two backends implement it; DB_TYPE selects one at startup.
type NoiseDB interface {
	Close() error

	StoreObservation(observation *models.Observation) error
	GetAllObservations() ([]models.Observation, error)
	GetObservationsNear(lat, lng, radiusKm float64, days int) ([]models.Observation, error)
	GetHotspots(thresholdDb float64, days int) ([]models.Hotspot, error)

	StoreFeedback(entry *models.FeedbackEntry) error
	GetRecentFeedback(limit int) ([]models.FeedbackEntry, error)
	GetFeedbackStats() (*models.FeedbackStats, error)

	StorePrediction(prediction *models.PredictionRecord) error
}

// NewDBClient builds the storage client configured by environment:
// DB_TYPE=sqlite (default) with SQLITE_DB_PATH, or DB_TYPE=mongo with DB_URI.
func NewDBClient() (NoiseDB, error) {
	dbType := strings.ToLower(utils.GetEnv("DB_TYPE", "sqlite"))
	switch dbType {
	case "sqlite":
		return NewSQLiteClient(utils.GetEnv("SQLITE_DB_PATH", "db/ecosound.db"))
	case "mongo", "mongodb":
		return NewMongoClient(utils.GetEnv("DB_URI", "mongodb://localhost:27017"))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
}

// severityFor bands a hotspot average into the reporting severity used by
// both backends.
func severityFor(averageDb float64) string {
	switch {
	case averageDb >= 80:
		return "critical"
	case averageDb >= 70:
		return "high"
	default:
		return "medium"
	}
}
