// Package nutrition holds the static micronutrient reference dataset
// and the prompt composition for the diet-plan assistant.
package nutrition

import (
	_ "embed"
	"encoding/json"
	"sync"
)

//go:embed micronutrients.json
var rawDataset []byte

// Nutrient is one entry of the reference dataset. RecommendedIntake
// maps an age-bucket key to a number, a string range, or a
// gender-keyed object; normalization happens at lookup time.
type Nutrient struct {
	Name               string         `json:"name"`
	Category           string         `json:"category"`
	Unit               string         `json:"unit"`
	RecommendedIntake  map[string]any `json:"recommended_intake"`
	FoundIn            []string       `json:"found_in"`
	DeficiencyCanCause string         `json:"deficiency_can_cause"`
	DeficiencySymptoms []string       `json:"deficiency_symptoms"`
	AbsorptionTips     string         `json:"absorption_tips"`
}

var (
	loadOnce sync.Once
	dataset  []Nutrient
	loadErr  error
)

// Load parses the embedded dataset once and returns it in file order.
func Load() ([]Nutrient, error) {
	loadOnce.Do(func() {
		loadErr = json.Unmarshal(rawDataset, &dataset)
	})
	return dataset, loadErr
}

// ByCategory filters the dataset, e.g. "vitamin" or "mineral".
// An empty category returns everything.
func ByCategory(category string) ([]Nutrient, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return all, nil
	}
	out := make([]Nutrient, 0, len(all))
	for _, n := range all {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out, nil
}
