package observations

// File-backed observation log. Used when no database is configured so the
// demo still keeps markers across restarts; a real deployment points DB_TYPE
// at sqlite or mongo instead.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ecosound/models"
	"ecosound/utils"
)

var (
	observationsFile = "observations.json"
	mu               sync.RWMutex
)

// loadObservationsInternal loads all observations from the JSON file (without lock)
func loadObservationsInternal() ([]models.Observation, error) {
	filePath := filepath.Join("data", observationsFile)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return []models.Observation{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading observations file: %v", err)
	}

	if len(data) == 0 {
		return []models.Observation{}, nil
	}

	var observations []models.Observation
	if err := json.Unmarshal(data, &observations); err != nil {
		return nil, fmt.Errorf("error unmarshaling observations: %v", err)
	}

	return observations, nil
}

// LoadObservations loads all observations from the JSON file
func LoadObservations() ([]models.Observation, error) {
	mu.RLock()
	defer mu.RUnlock()
	return loadObservationsInternal()
}

// SaveObservation appends a new observation to the JSON file
func SaveObservation(observation *models.Observation) error {
	mu.Lock()
	defer mu.Unlock()

	observations, err := loadObservationsInternal()
	if err != nil {
		return err
	}

	if observation.ID == 0 {
		observation.ID = time.Now().UnixNano()
	}
	if observation.Timestamp.IsZero() {
		observation.Timestamp = time.Now()
	}

	observations = append(observations, *observation)

	filePath := filepath.Join("data", observationsFile)
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}

	data, err := json.MarshalIndent(observations, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling observations: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing observations file: %v", err)
	}

	return nil
}
