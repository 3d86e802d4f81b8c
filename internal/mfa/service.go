package mfa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"phonalign/internal/config"
	"phonalign/internal/logging"
	"phonalign/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service runs the aligner binary.
type Service struct {
	binary        string
	beam          int
	singleSpeaker bool
	timeout       time.Duration
	logger        *slog.Logger
	run           commandRunner
}

// AlignRequest names the corpus and models for one batch alignment.
type AlignRequest struct {
	CorpusDir     string
	Dictionary    string
	AcousticModel string
	OutputDir     string
}

// NewService constructs an aligner service from configuration.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	binary := strings.TrimSpace(cfg.MFA.Binary)
	if binary == "" {
		binary = "mfa"
	}
	timeout := time.Duration(cfg.MFA.AlignTimeout) * time.Second
	return &Service{
		binary:        binary,
		beam:          cfg.MFA.Beam,
		singleSpeaker: cfg.MFA.SingleSpeaker,
		timeout:       timeout,
		logger:        logging.NewComponentLogger(logger, "mfa"),
		run:           defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (s *Service) WithCommandRunner(r commandRunner) {
	if s != nil && r != nil {
		s.run = r
	}
}

// Align runs one batch alignment over the corpus directory. The output
// directory receives one TextGrid per corpus utterance.
func (s *Service) Align(ctx context.Context, req AlignRequest) error {
	if s == nil || s.run == nil {
		return services.Wrap(services.ErrConfiguration, "mfa", "align", "Aligner service unavailable", nil)
	}
	if strings.TrimSpace(req.CorpusDir) == "" {
		return services.Wrap(services.ErrValidation, "mfa", "align", "Corpus directory is empty", nil)
	}
	if strings.TrimSpace(req.Dictionary) == "" || strings.TrimSpace(req.AcousticModel) == "" {
		return services.Wrap(services.ErrConfiguration, "mfa", "align", "Dictionary and acoustic model are required", nil)
	}
	if _, err := os.Stat(req.CorpusDir); err != nil {
		return services.Wrap(services.ErrNotFound, "mfa", "align", "Corpus directory not found", err)
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "mfa", "align", "Failed to create alignment output directory", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := buildAlignArgs(req, s.beam, s.singleSpeaker)
	if s.logger != nil {
		s.logger.Info("running forced alignment",
			logging.String("corpus", req.CorpusDir),
			logging.String("acoustic_model", req.AcousticModel),
			logging.String("dictionary", req.Dictionary),
		)
	}

	started := time.Now()
	output, err := s.run(ctx, s.binary, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return services.Wrap(services.ErrTimeout, "mfa", "align", "Alignment exceeded the configured timeout", err)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return services.Wrap(services.ErrConfiguration, "mfa", "align", "Aligner binary not found", err)
		}
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, tail(detail, 2048))
		}
		return services.Wrap(services.ErrExternalTool, "mfa", "align", "Forced alignment failed", err)
	}

	if s.logger != nil {
		s.logger.Info("forced alignment complete",
			logging.String("output", req.OutputDir),
			logging.Duration("elapsed", time.Since(started)),
		)
	}
	return nil
}

// Version probes the aligner binary and returns its reported version.
func (s *Service) Version(ctx context.Context) (string, error) {
	if s == nil || s.run == nil {
		return "", services.Wrap(services.ErrConfiguration, "mfa", "version", "Aligner service unavailable", nil)
	}
	output, err := s.run(ctx, s.binary, "version")
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "mfa", "version", "Failed to probe aligner version", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func buildAlignArgs(req AlignRequest, beam int, singleSpeaker bool) []string {
	args := []string{
		"align",
		req.CorpusDir,
		req.Dictionary,
		req.AcousticModel,
		req.OutputDir,
		"--clean",
		"--overwrite",
	}
	if beam > 0 {
		args = append(args, "--beam", strconv.Itoa(beam))
	}
	if singleSpeaker {
		args = append(args, "--single_speaker")
	}
	return args
}

// tail keeps the last max bytes of combined output, where the useful part
// of an aligner failure usually lives.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
