package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"ecosound/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDatabaseName = "ecosound"

type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoClient(uri string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %s", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %s", err)
	}

	return &MongoClient{
		client: client,
		db:     client.Database(mongoDatabaseName),
	}, nil
}

func (c *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

type mongoObservation struct {
	ID                int64     `bson:"id"`
	Timestamp         time.Time `bson:"timestamp"`
	Latitude          float64   `bson:"latitude"`
	Longitude         float64   `bson:"longitude"`
	NoiseDb           float64   `bson:"noiseDb"`
	Confidence        float64   `bson:"confidence"`
	Category          string    `bson:"category"`
	Verdict           string    `bson:"verdict"`
	Synthetic         bool      `bson:"synthetic"`
	SyntheticLocation bool      `bson:"syntheticLocation"`
	Classification    string    `bson:"classification,omitempty"`
	Metadata          bson.M    `bson:"metadata,omitempty"`
}

func (c *MongoClient) StoreObservation(observation *models.Observation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if observation.Timestamp.IsZero() {
		observation.Timestamp = time.Now()
	}
	if observation.ID == 0 {
		observation.ID = time.Now().UnixNano()
	}

	doc := mongoObservation{
		ID:                observation.ID,
		Timestamp:         observation.Timestamp,
		Latitude:          observation.Latitude,
		Longitude:         observation.Longitude,
		NoiseDb:           observation.NoiseDb,
		Confidence:        observation.Confidence,
		Category:          observation.Category,
		Verdict:           observation.Verdict,
		Synthetic:         observation.Synthetic,
		SyntheticLocation: observation.SyntheticLocation,
		Classification:    string(observation.Classification),
	}
	if observation.Metadata != nil {
		doc.Metadata = bson.M(observation.Metadata)
	}

	if _, err := c.db.Collection("observations").InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("error storing observation: %s", err)
	}
	return nil
}

func (c *MongoClient) GetAllObservations() ([]models.Observation, error) {
	return c.findObservations(bson.M{})
}

func (c *MongoClient) GetObservationsNear(lat, lng, radiusKm float64, days int) ([]models.Observation, error) {
	since := time.Now().AddDate(0, 0, -days)
	latRange := radiusKm / 111.0
	lngRange := radiusKm / (111.0 * math.Max(math.Cos(lat*math.Pi/180.0), 0.01))

	return c.findObservations(bson.M{
		"latitude":  bson.M{"$gte": lat - latRange, "$lte": lat + latRange},
		"longitude": bson.M{"$gte": lng - lngRange, "$lte": lng + lngRange},
		"timestamp": bson.M{"$gt": since},
	})
}

func (c *MongoClient) findObservations(filter bson.M) ([]models.Observation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := c.db.Collection("observations").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying observations: %s", err)
	}
	defer cursor.Close(ctx)

	var observations []models.Observation
	for cursor.Next(ctx) {
		var doc mongoObservation
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding observation: %s", err)
		}
		o := models.Observation{
			ID:                doc.ID,
			Timestamp:         doc.Timestamp,
			Latitude:          doc.Latitude,
			Longitude:         doc.Longitude,
			NoiseDb:           doc.NoiseDb,
			Confidence:        doc.Confidence,
			Category:          doc.Category,
			Verdict:           doc.Verdict,
			Synthetic:         doc.Synthetic,
			SyntheticLocation: doc.SyntheticLocation,
		}
		if doc.Classification != "" {
			o.Classification = json.RawMessage(doc.Classification)
		}
		if doc.Metadata != nil {
			o.Metadata = map[string]interface{}(doc.Metadata)
		}
		observations = append(observations, o)
	}

	return observations, cursor.Err()
}

// GetHotspots groups loud observations into 3-decimal coordinate cells via an
// aggregation pipeline, mirroring the SQLite GROUP BY.
func (c *MongoClient) GetHotspots(thresholdDb float64, days int) ([]models.Hotspot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	since := time.Now().AddDate(0, 0, -days)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"noiseDb":   bson.M{"$gte": thresholdDb},
			"timestamp": bson.M{"$gt": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"lat": bson.M{"$round": bson.A{"$latitude", 3}},
				"lng": bson.M{"$round": bson.A{"$longitude", 3}},
			},
			"avgDb":  bson.M{"$avg": "$noiseDb"},
			"peakDb": bson.M{"$max": "$noiseDb"},
			"count":  bson.M{"$sum": 1},
		}}},
		{{Key: "$match", Value: bson.M{"count": bson.M{"$gte": 3}}}},
		{{Key: "$sort", Value: bson.M{"avgDb": -1}}},
		{{Key: "$limit", Value: 20}},
	}

	cursor, err := c.db.Collection("observations").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating hotspots: %s", err)
	}
	defer cursor.Close(ctx)

	var hotspots []models.Hotspot
	for cursor.Next(ctx) {
		var doc struct {
			ID struct {
				Lat float64 `bson:"lat"`
				Lng float64 `bson:"lng"`
			} `bson:"_id"`
			AvgDb  float64 `bson:"avgDb"`
			PeakDb float64 `bson:"peakDb"`
			Count  int     `bson:"count"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding hotspot: %s", err)
		}
		avg := math.Round(doc.AvgDb*10) / 10
		hotspots = append(hotspots, models.Hotspot{
			ID:               len(hotspots) + 1,
			Latitude:         doc.ID.Lat,
			Longitude:        doc.ID.Lng,
			AverageDb:        avg,
			PeakDb:           math.Round(doc.PeakDb*10) / 10,
			Severity:         severityFor(avg),
			MeasurementCount: doc.Count,
			AreaDescription:  fmt.Sprintf("Area near %.3f, %.3f", doc.ID.Lat, doc.ID.Lng),
		})
	}

	return hotspots, cursor.Err()
}

type mongoFeedback struct {
	ID        string    `bson:"_id"`
	Text      string    `bson:"text"`
	Latitude  *float64  `bson:"latitude,omitempty"`
	Longitude *float64  `bson:"longitude,omitempty"`
	NoiseDb   *float64  `bson:"noiseDb,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
	Analysis  string    `bson:"analysis,omitempty"`
	Status    string    `bson:"status"`
}

func (c *MongoClient) StoreFeedback(entry *models.FeedbackEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Status == "" {
		entry.Status = "submitted"
	}

	doc := mongoFeedback{
		ID:        entry.ID,
		Text:      entry.Text,
		Latitude:  entry.Latitude,
		Longitude: entry.Longitude,
		NoiseDb:   entry.NoiseDb,
		Timestamp: entry.Timestamp,
		Analysis:  string(entry.Analysis),
		Status:    entry.Status,
	}

	if _, err := c.db.Collection("feedback").InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("error storing feedback: %s", err)
	}
	return nil
}

func (c *MongoClient) GetRecentFeedback(limit int) ([]models.FeedbackEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := c.db.Collection("feedback").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %s", err)
	}
	defer cursor.Close(ctx)

	var entries []models.FeedbackEntry
	for cursor.Next(ctx) {
		var doc mongoFeedback
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding feedback: %s", err)
		}
		entry := models.FeedbackEntry{
			ID:        doc.ID,
			Text:      doc.Text,
			Latitude:  doc.Latitude,
			Longitude: doc.Longitude,
			NoiseDb:   doc.NoiseDb,
			Timestamp: doc.Timestamp,
			Status:    doc.Status,
		}
		if doc.Analysis != "" {
			entry.Analysis = json.RawMessage(doc.Analysis)
		}
		entries = append(entries, entry)
	}

	return entries, cursor.Err()
}

func (c *MongoClient) GetFeedbackStats() (*models.FeedbackStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := c.db.Collection("feedback")
	stats := &models.FeedbackStats{}

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error counting feedback: %s", err)
	}
	stats.Total = int(total)

	recent, err := collection.CountDocuments(ctx, bson.M{
		"timestamp": bson.M{"$gt": time.Now().Add(-24 * time.Hour)},
	})
	if err != nil {
		return nil, fmt.Errorf("error counting recent feedback: %s", err)
	}
	stats.Last24Hours = int(recent)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %s", err)
	}
	defer cursor.Close(ctx)

	sourceCounts := map[string]int{}
	var noiseSum float64
	var noiseCount int
	for cursor.Next(ctx) {
		var doc mongoFeedback
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding feedback: %s", err)
		}
		if doc.NoiseDb != nil {
			noiseSum += *doc.NoiseDb
			noiseCount++
		}
		if doc.Analysis == "" {
			continue
		}
		var analysis struct {
			NoiseSources []string `json:"noiseSources"`
			Urgency      string   `json:"urgency"`
		}
		if err := json.Unmarshal([]byte(doc.Analysis), &analysis); err != nil {
			continue
		}
		for _, source := range analysis.NoiseSources {
			sourceCounts[source]++
		}
		if analysis.Urgency == "high" {
			stats.Urgent++
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %s", err)
	}

	if noiseCount > 0 {
		stats.AverageNoise = math.Round(noiseSum/float64(noiseCount)*10) / 10
	}

	sources := make([]models.FeedbackSourceCount, 0, len(sourceCounts))
	for source, count := range sourceCounts {
		sources = append(sources, models.FeedbackSourceCount{Source: source, Count: count})
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Count != sources[j].Count {
			return sources[i].Count > sources[j].Count
		}
		return sources[i].Source < sources[j].Source
	})
	if len(sources) > 5 {
		sources = sources[:5]
	}
	stats.TopSources = sources

	return stats, nil
}

func (c *MongoClient) StorePrediction(prediction *models.PredictionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if prediction.Timestamp.IsZero() {
		prediction.Timestamp = time.Now()
	}

	_, err := c.db.Collection("predictions").InsertOne(ctx, bson.M{
		"latitude":    prediction.Latitude,
		"longitude":   prediction.Longitude,
		"predictedDb": prediction.PredictedDb,
		"confidence":  prediction.Confidence,
		"weather":     prediction.Weather,
		"timestamp":   prediction.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("error storing prediction: %s", err)
	}
	return nil
}
