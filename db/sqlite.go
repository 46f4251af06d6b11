package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ecosound/models"
	"ecosound/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createObservationsTable := `
    CREATE TABLE IF NOT EXISTS observations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        latitude REAL NOT NULL,
        longitude REAL NOT NULL,
        noise_db REAL NOT NULL,
        confidence REAL NOT NULL DEFAULT 0,
        category TEXT,
        verdict TEXT,
        synthetic INTEGER NOT NULL DEFAULT 0,
        synthetic_location INTEGER NOT NULL DEFAULT 0,
        classification TEXT,
        metadata TEXT
    );
    CREATE INDEX IF NOT EXISTS idx_observations_timestamp ON observations(timestamp);
    CREATE INDEX IF NOT EXISTS idx_observations_location ON observations(latitude, longitude);
    `

	createFeedbackTable := `
    CREATE TABLE IF NOT EXISTS feedback (
        id TEXT PRIMARY KEY,
        feedback_text TEXT NOT NULL,
        latitude REAL,
        longitude REAL,
        noise_db REAL,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        analysis TEXT,
        status TEXT NOT NULL DEFAULT 'submitted'
    );
    CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback(timestamp);
    `

	createPredictionsTable := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        latitude REAL,
        longitude REAL,
        predicted_db REAL,
        confidence REAL,
        weather TEXT,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    `

	for _, stmt := range []string{createObservationsTable, createFeedbackTable, createPredictionsTable} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating table: %s", err)
		}
	}

	return nil
}

func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// StoreObservation stores a noise observation in the database
func (c *SQLiteClient) StoreObservation(observation *models.Observation) error {
	var metadataJSON *string
	if observation.Metadata != nil {
		metadataBytes, err := json.Marshal(observation.Metadata)
		if err != nil {
			return fmt.Errorf("error marshaling metadata: %s", err)
		}
		metadataStr := string(metadataBytes)
		metadataJSON = &metadataStr
	}

	if observation.Timestamp.IsZero() {
		observation.Timestamp = time.Now()
	}

	result, err := c.db.Exec(`
		INSERT INTO observations (
			timestamp, latitude, longitude, noise_db, confidence,
			category, verdict, synthetic, synthetic_location,
			classification, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		observation.Timestamp,
		observation.Latitude,
		observation.Longitude,
		observation.NoiseDb,
		observation.Confidence,
		observation.Category,
		observation.Verdict,
		boolToInt(observation.Synthetic),
		boolToInt(observation.SyntheticLocation),
		string(observation.Classification),
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("error storing observation: %s", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		observation.ID = id
	}
	return nil
}

// GetAllObservations retrieves all observations, newest first
func (c *SQLiteClient) GetAllObservations() ([]models.Observation, error) {
	rows, err := c.db.Query(observationSelect + ` ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying observations: %s", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetObservationsNear retrieves observations within a radius of a location,
// using a bounding-box prefilter (1 degree of latitude ~ 111 km).
func (c *SQLiteClient) GetObservationsNear(lat, lng, radiusKm float64, days int) ([]models.Observation, error) {
	since := time.Now().AddDate(0, 0, -days)
	latRange := radiusKm / 111.0
	lngRange := radiusKm / (111.0 * math.Max(math.Cos(lat*math.Pi/180.0), 0.01))

	rows, err := c.db.Query(observationSelect+`
		WHERE latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?
		  AND timestamp > ?
		ORDER BY timestamp DESC
	`, lat-latRange, lat+latRange, lng-lngRange, lng+lngRange, since)
	if err != nil {
		return nil, fmt.Errorf("error querying observations by location: %s", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetHotspots aggregates loud observations into coordinate cells rounded to
// three decimals; a cell needs at least three measurements to count.
func (c *SQLiteClient) GetHotspots(thresholdDb float64, days int) ([]models.Hotspot, error) {
	since := time.Now().AddDate(0, 0, -days)

	rows, err := c.db.Query(`
		SELECT
			ROUND(latitude, 3) AS cell_lat,
			ROUND(longitude, 3) AS cell_lng,
			AVG(noise_db) AS avg_db,
			MAX(noise_db) AS peak_db,
			COUNT(*) AS measurement_count
		FROM observations
		WHERE noise_db >= ? AND timestamp > ?
		GROUP BY cell_lat, cell_lng
		HAVING COUNT(*) >= 3
		ORDER BY avg_db DESC
		LIMIT 20
	`, thresholdDb, since)
	if err != nil {
		return nil, fmt.Errorf("error querying hotspots: %s", err)
	}
	defer rows.Close()

	var hotspots []models.Hotspot
	for rows.Next() {
		var h models.Hotspot
		if err := rows.Scan(&h.Latitude, &h.Longitude, &h.AverageDb, &h.PeakDb, &h.MeasurementCount); err != nil {
			return nil, fmt.Errorf("error scanning hotspot: %s", err)
		}
		h.ID = len(hotspots) + 1
		h.AverageDb = math.Round(h.AverageDb*10) / 10
		h.PeakDb = math.Round(h.PeakDb*10) / 10
		h.Severity = severityFor(h.AverageDb)
		h.AreaDescription = fmt.Sprintf("Area near %.3f, %.3f", h.Latitude, h.Longitude)
		hotspots = append(hotspots, h)
	}

	return hotspots, rows.Err()
}

// StoreFeedback stores a citizen feedback entry
func (c *SQLiteClient) StoreFeedback(entry *models.FeedbackEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Status == "" {
		entry.Status = "submitted"
	}

	_, err := c.db.Exec(`
		INSERT INTO feedback (id, feedback_text, latitude, longitude, noise_db, timestamp, analysis, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Text,
		entry.Latitude,
		entry.Longitude,
		entry.NoiseDb,
		entry.Timestamp,
		string(entry.Analysis),
		entry.Status,
	)
	if err != nil {
		return fmt.Errorf("error storing feedback: %s", err)
	}
	return nil
}

// GetRecentFeedback retrieves the most recent feedback entries
func (c *SQLiteClient) GetRecentFeedback(limit int) ([]models.FeedbackEntry, error) {
	rows, err := c.db.Query(`
		SELECT id, feedback_text, latitude, longitude, noise_db, timestamp, analysis, status
		FROM feedback
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %s", err)
	}
	defer rows.Close()

	var entries []models.FeedbackEntry
	for rows.Next() {
		var entry models.FeedbackEntry
		var analysisJSON sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.Text,
			&entry.Latitude,
			&entry.Longitude,
			&entry.NoiseDb,
			&entry.Timestamp,
			&analysisJSON,
			&entry.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning feedback: %s", err)
		}
		if analysisJSON.Valid && analysisJSON.String != "" {
			entry.Analysis = json.RawMessage(analysisJSON.String)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetFeedbackStats summarises the feedback table
func (c *SQLiteClient) GetFeedbackStats() (*models.FeedbackStats, error) {
	stats := &models.FeedbackStats{}

	if err := c.db.QueryRow(`SELECT COUNT(*) FROM feedback`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("error counting feedback: %s", err)
	}

	yesterday := time.Now().Add(-24 * time.Hour)
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM feedback WHERE timestamp > ?`, yesterday).Scan(&stats.Last24Hours); err != nil {
		return nil, fmt.Errorf("error counting recent feedback: %s", err)
	}

	var avgNoise sql.NullFloat64
	if err := c.db.QueryRow(`SELECT AVG(noise_db) FROM feedback WHERE noise_db IS NOT NULL`).Scan(&avgNoise); err != nil {
		return nil, fmt.Errorf("error averaging noise level: %s", err)
	}
	if avgNoise.Valid {
		stats.AverageNoise = math.Round(avgNoise.Float64*10) / 10
	}

	// Source and urgency tallies come from the stored analysis JSON; the
	// table stays schema-light and the tally happens here.
	rows, err := c.db.Query(`SELECT analysis FROM feedback WHERE analysis IS NOT NULL AND analysis != ''`)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback analyses: %s", err)
	}
	defer rows.Close()

	sourceCounts := map[string]int{}
	for rows.Next() {
		var analysisJSON string
		if err := rows.Scan(&analysisJSON); err != nil {
			return nil, fmt.Errorf("error scanning analysis: %s", err)
		}
		var analysis struct {
			NoiseSources []string `json:"noiseSources"`
			Urgency      string   `json:"urgency"`
		}
		if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
			continue
		}
		for _, source := range analysis.NoiseSources {
			sourceCounts[source]++
		}
		if analysis.Urgency == "high" {
			stats.Urgent++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %s", err)
	}

	stats.TopSources = topSources(sourceCounts, 5)
	return stats, nil
}

// StorePrediction stores a forecast point for later accuracy review
func (c *SQLiteClient) StorePrediction(prediction *models.PredictionRecord) error {
	if prediction.Timestamp.IsZero() {
		prediction.Timestamp = time.Now()
	}

	_, err := c.db.Exec(`
		INSERT INTO predictions (latitude, longitude, predicted_db, confidence, weather, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		prediction.Latitude,
		prediction.Longitude,
		prediction.PredictedDb,
		prediction.Confidence,
		prediction.Weather,
		prediction.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("error storing prediction: %s", err)
	}
	return nil
}

const observationSelect = `
	SELECT id, timestamp, latitude, longitude, noise_db, confidence,
	       category, verdict, synthetic, synthetic_location,
	       classification, metadata
	FROM observations`

func scanObservations(rows *sql.Rows) ([]models.Observation, error) {
	var observations []models.Observation
	for rows.Next() {
		var o models.Observation
		var syntheticInt, syntheticLocationInt int
		var classificationJSON sql.NullString
		var metadataJSON sql.NullString

		err := rows.Scan(
			&o.ID,
			&o.Timestamp,
			&o.Latitude,
			&o.Longitude,
			&o.NoiseDb,
			&o.Confidence,
			&o.Category,
			&o.Verdict,
			&syntheticInt,
			&syntheticLocationInt,
			&classificationJSON,
			&metadataJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning observation: %s", err)
		}

		o.Synthetic = syntheticInt == 1
		o.SyntheticLocation = syntheticLocationInt == 1
		if classificationJSON.Valid && classificationJSON.String != "" {
			o.Classification = json.RawMessage(classificationJSON.String)
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &o.Metadata); err != nil {
				return nil, fmt.Errorf("error unmarshaling metadata: %s", err)
			}
		}

		observations = append(observations, o)
	}

	return observations, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func topSources(counts map[string]int, limit int) []models.FeedbackSourceCount {
	sources := make([]models.FeedbackSourceCount, 0, len(counts))
	for source, count := range counts {
		sources = append(sources, models.FeedbackSourceCount{Source: source, Count: count})
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Count != sources[j].Count {
			return sources[i].Count > sources[j].Count
		}
		return sources[i].Source < sources[j].Source
	})
	if len(sources) > limit {
		sources = sources[:limit]
	}
	return sources
}
