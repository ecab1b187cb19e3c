package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogConfig represents the structure of the tile catalog YAML file
type CatalogConfig struct {
	Tiles map[string]TileDef `yaml:"tiles"`
}

// LoadFromYAML loads a tile catalog from a YAML file
func LoadFromYAML(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var config CatalogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	c, err := New(config.Tiles)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", filename, err)
	}
	return c, nil
}
