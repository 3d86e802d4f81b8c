package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envOverrides holds secrets that may arrive through the environment rather
// than the config file.
type envOverrides struct {
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`
	XIAPIKey         string `env:"XI_API_KEY"`
}

func apiKeyFromEnv() (string, error) {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return "", fmt.Errorf("parse environment: %w", err)
	}
	if key := strings.TrimSpace(overrides.ElevenLabsAPIKey); key != "" {
		return key, nil
	}
	return strings.TrimSpace(overrides.XIAPIKey), nil
}
