package preflight

import (
	"context"
	"strings"

	"phonalign/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The ElevenLabs check only runs when an API key is configured; alignment
// of already-fetched audio works without one.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Dataset directory", cfg.Paths.DatasetDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if strings.TrimSpace(cfg.ElevenLabs.APIKey) != "" {
		results = append(results, CheckElevenLabs(ctx, cfg.ElevenLabs.BaseURL, cfg.ElevenLabs.APIKey))
	}

	return results
}
