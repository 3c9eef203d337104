package recordstore

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed maps a storage key to the value written on first use.
type Seed map[string]any

// DefaultSeed returns the built-in demo dataset.
func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeed)
}

func ParseSeed(data []byte) (Seed, error) {
	seed := Seed{}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for key, value := range seed {
		if value == nil {
			seed[key] = []any{}
		}
	}
	return seed, nil
}
