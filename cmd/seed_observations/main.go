package main

// Seeds the configured database with synthetic observations scattered around
// the default map anchor so the map, hotspot and trend endpoints have data
// during development. Not part of the server.

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"time"

	"ecosound/db"
	"ecosound/models"
	"ecosound/noise"

	"github.com/joho/godotenv"
)

func main() {
	count := flag.Int("n", 100, "number of observations to insert")
	seed := flag.Int64("seed", time.Now().UnixNano(), "randomness seed")
	days := flag.Int("days", 14, "spread observations over the past N days")
	flag.Parse()

	_ = godotenv.Load()

	database, err := db.NewDBClient()
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	rng := rand.New(rand.NewSource(*seed))
	aggregator := noise.NewAggregatorAt(noise.DefaultAnchor, *seed)

	now := time.Now()
	for i := 0; i < *count; i++ {
		classification := noise.SyntheticClassification(rng)
		annotation := aggregator.Annotate(classification, nil)

		scores, err := json.Marshal(classification.Scores)
		if err != nil {
			log.Fatalf("failed to marshal scores: %v", err)
		}

		observation := &models.Observation{
			Timestamp:         now.Add(-time.Duration(rng.Intn(*days*24)) * time.Hour),
			Latitude:          annotation.Latitude,
			Longitude:         annotation.Longitude,
			NoiseDb:           annotation.EstimatedDb,
			Confidence:        annotation.Confidence,
			Category:          string(annotation.Category),
			Verdict:           string(annotation.Verdict),
			Synthetic:         true,
			SyntheticLocation: true,
			Classification:    scores,
			Metadata:          map[string]interface{}{"source": "seed"},
		}

		if err := database.StoreObservation(observation); err != nil {
			log.Fatalf("failed to store observation %d: %v", i, err)
		}
	}

	log.Printf("inserted %d synthetic observations", *count)
}
