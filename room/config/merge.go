package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// directivityFile is the JSON layout of a directivity file. Angles are keys in degrees,
// values are attenuation in dB.
type directivityFile struct {
	Horizontal map[string]float64 `json:"horizontal"`
	Vertical   map[string]float64 `json:"vertical"`
}

// MergeDirectivity merges a directivity file with the inline directivity
func (d *Directivity) MergeDirectivity() error {
	if d.FromFile == "" {
		return nil
	}

	// Read and parse the directivity file
	data, err := os.ReadFile(d.FromFile)
	if err != nil {
		return fmt.Errorf("reading directivity file: %w", err)
	}

	var file directivityFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing directivity file: %w", err)
	}

	if d.Horizontal, err = mergeAngles(d.Horizontal, file.Horizontal); err != nil {
		return fmt.Errorf("horizontal: %w", err)
	}
	if d.Vertical, err = mergeAngles(d.Vertical, file.Vertical); err != nil {
		return fmt.Errorf("vertical: %w", err)
	}
	return nil
}

// mergeAngles adds file entries missing from inline; inline takes precedence
func mergeAngles(inline map[float64]float64, file map[string]float64) (map[float64]float64, error) {
	if len(file) == 0 {
		return inline, nil
	}
	// Initialize inline map if it doesn't exist
	if inline == nil {
		inline = make(map[float64]float64, len(file))
	}
	for key, gain := range file {
		angle, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("angle %q: %w", key, err)
		}
		if _, exists := inline[angle]; !exists {
			inline[angle] = gain
		}
	}
	return inline, nil
}

// LoadAndMerge loads all external files and merges their contents
func (c *ExperimentConfig) LoadAndMerge() error {
	if err := c.Source.Directivity.MergeDirectivity(); err != nil {
		return fmt.Errorf("merging directivity: %w", err)
	}
	return nil
}
