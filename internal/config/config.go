// Package config resolves the run configuration: environment defaults
// (optionally from a .env file), overridden by command-line flags in main,
// plus an optional YAML file with detector tuning parameters.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the run needs besides the input directory.
type Config struct {
	// Detector is the detector selector: a canonical name, a short alias,
	// or a group ("desc", "all").
	Detector string

	// Recurse enters subdirectories looking for images.
	Recurse bool

	// Annotate draws detected features next to each image.
	Annotate bool

	// FullPaths writes full image paths in per-image rows.
	FullPaths bool

	// Jobs is the number of images processed concurrently per directory.
	Jobs int

	// StatsName is the per-directory output file name.
	StatsName string

	// Extensions are the accepted image file extensions.
	Extensions []string

	// ParamsFile is an optional YAML file with detector tuning.
	ParamsFile string
}

// Load builds the default configuration from the environment. A .env file
// in the working directory is honored when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Detector:   getEnv("FEATURE_STATS_DETECTOR", "desc"),
		Jobs:       getEnvAsInt("FEATURE_STATS_JOBS", 1),
		StatsName:  getEnv("FEATURE_STATS_FILE", "stats.csv"),
		Extensions: splitList(getEnv("FEATURE_STATS_EXTENSIONS", ".jpg")),
		ParamsFile: getEnv("FEATURE_STATS_PARAMS", ""),
		FullPaths:  true,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
