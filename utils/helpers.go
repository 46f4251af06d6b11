package utils

import (
	"fmt"
	"os"
)

// GetEnv reads an environment variable, returning fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// CreateFolder creates the folder (and parents) if it doesn't already exist.
func CreateFolder(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", path, err)
		}
	}
	return nil
}
