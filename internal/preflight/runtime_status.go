package preflight

import (
	"context"
	"strings"

	"phonalign/internal/config"
)

// CheckElevenLabsFromConfig evaluates ElevenLabs status from config and
// connectivity. A missing API key is not a failure; synthesis is optional
// and alignment of stored audio works without it.
func CheckElevenLabsFromConfig(cfg *config.Config) Result {
	const name = "ElevenLabs"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.ElevenLabs.APIKey) == "" {
		return Result{Name: name, Passed: true, Detail: "Not configured"}
	}
	check := CheckElevenLabs(context.Background(), cfg.ElevenLabs.BaseURL, cfg.ElevenLabs.APIKey)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}
