package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"phonalign/internal/logging"
	"phonalign/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Converter runs ffmpeg to produce aligner-ready audio.
type Converter struct {
	binary    string
	logger    *slog.Logger
	run       commandRunner
	overwrite bool
}

// NewConverter constructs an ffmpeg-backed converter.
func NewConverter(binary string, logger *slog.Logger) *Converter {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Converter{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "media"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Converter) WithCommandRunner(r commandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// WithOverwrite controls whether existing output files are regenerated.
// When false, Convert and CutSegment skip destinations that already exist.
func (c *Converter) WithOverwrite(overwrite bool) {
	if c != nil {
		c.overwrite = overwrite
	}
}

// Convert transcodes any input audio into a 16 kHz mono PCM WAV, the corpus
// format the aligner expects.
func (c *Converter) Convert(ctx context.Context, source, destination string) error {
	if c == nil || c.run == nil {
		return services.Wrap(services.ErrConfiguration, "media", "convert", "Converter unavailable", nil)
	}
	if strings.TrimSpace(source) == "" {
		return services.Wrap(services.ErrValidation, "media", "convert", "Source path is empty", nil)
	}
	if strings.TrimSpace(destination) == "" {
		return services.Wrap(services.ErrValidation, "media", "convert", "Destination path is empty", nil)
	}
	if !c.overwrite {
		if _, err := os.Stat(destination); err == nil {
			if c.logger != nil {
				c.logger.Debug("wav already exists, skipping conversion", logging.String("path", destination))
			}
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "media", "convert", "Failed to create output directory", err)
	}

	if err := c.run(ctx, c.binary, convertArgs(source, destination)...); err != nil {
		return services.Wrap(toolMarker(err), "media", "convert", "Failed to convert audio with ffmpeg", err)
	}
	return nil
}

// CutSegment copies one [start, end) window of a WAV into its own clip.
func (c *Converter) CutSegment(ctx context.Context, source, destination string, startSeconds, endSeconds float64) error {
	if c == nil || c.run == nil {
		return services.Wrap(services.ErrConfiguration, "media", "cut segment", "Converter unavailable", nil)
	}
	if endSeconds <= startSeconds {
		return services.Wrap(services.ErrValidation, "media", "cut segment",
			fmt.Sprintf("Segment window [%.4f, %.4f] is empty", startSeconds, endSeconds), nil)
	}
	if !c.overwrite {
		if _, err := os.Stat(destination); err == nil {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "media", "cut segment", "Failed to create segment directory", err)
	}

	if err := c.run(ctx, c.binary, cutArgs(source, destination, startSeconds, endSeconds)...); err != nil {
		return services.Wrap(toolMarker(err), "media", "cut segment", "Failed to cut audio segment with ffmpeg", err)
	}
	return nil
}

func convertArgs(source, destination string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		destination,
	}
}

func cutArgs(source, destination string, startSeconds, endSeconds float64) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.4f", startSeconds),
		"-to", fmt.Sprintf("%.4f", endSeconds),
		"-i", source,
		"-c:a", "pcm_s16le",
		destination,
	}
}

// toolMarker separates "ffmpeg is not installed" (a configuration problem
// that would fail every entry) from "ffmpeg rejected this input" (an entry
// level failure).
func toolMarker(err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return services.ErrConfiguration
	}
	return services.ErrExternalTool
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
