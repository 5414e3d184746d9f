// Package seed holds the demo catalog loaded by cmd/seed.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"funstar-catalog/internal/models"
)

//go:embed movies.json
var demoCatalog []byte

// Demo returns the bundled demo catalog.
func Demo() ([]models.MovieInput, error) {
	return decode(demoCatalog)
}

// FromFile reads a catalog in the same JSON shape as the bundled one.
func FromFile(path string) ([]models.MovieInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]models.MovieInput, error) {
	var movies []models.MovieInput
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("failed to decode seed catalog: %w", err)
	}
	return movies, nil
}
