package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/benthic-lab/feature-stats/internal/detect"
)

// LoadParams reads detector tuning from a YAML file. An empty path returns
// the defaults. Keys missing from the file keep their default values, so a
// tuning file only needs the knobs it changes, for example:
//
//	fast_threshold: 30
//	gftt_quality: 0.05
func LoadParams(path string) (detect.Params, error) {
	params := detect.DefaultParams()
	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("failed to read params file: %w", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse params file: %w", err)
	}
	return params, nil
}
