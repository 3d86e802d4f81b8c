package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"phonalign/internal/config"
	"phonalign/internal/logging"
	"phonalign/internal/media"
	"phonalign/internal/services"
	"phonalign/internal/store"
	"phonalign/internal/textutil"
)

// PrepareStage turns a raw entry into aligner corpus files: a 16 kHz mono
// WAV and a .lab transcript, both named by the voice key hash.
type PrepareStage struct {
	cfg       *config.Config
	converter *media.Converter
	logger    *slog.Logger
}

// NewPrepareStage constructs the prepare stage.
func NewPrepareStage(cfg *config.Config, logger *slog.Logger) *PrepareStage {
	converter := media.NewConverter(cfg.FFmpegBinary(), logger)
	converter.WithOverwrite(cfg.Export.OverwriteExisting)
	return &PrepareStage{
		cfg:       cfg,
		converter: converter,
		logger:    logging.NewComponentLogger(logger, "prepare"),
	}
}

// Prepare checks the entry carries everything the corpus files need.
func (s *PrepareStage) Prepare(_ context.Context, entry *store.Entry) error {
	if entry.AudioBase64 == "" {
		return services.Wrap(services.ErrValidation, "prepare", "validate entry", "Entry has no audio payload", nil)
	}
	if entry.Script == "" && entry.NormalizedAlignmentJSON == "" {
		return services.Wrap(services.ErrValidation, "prepare", "validate entry", "Entry has no transcript source", nil)
	}
	return nil
}

// Execute writes the audio, converts it for the aligner, and writes the
// transcript.
func (s *PrepareStage) Execute(ctx context.Context, entry *store.Entry) error {
	datasetEntry, err := DatasetEntry(entry)
	if err != nil {
		return services.Wrap(services.ErrValidation, "prepare", "decode entry", "Entry payload is malformed", err)
	}

	audio, err := datasetEntry.DecodeAudio()
	if err != nil {
		return services.Wrap(services.ErrValidation, "prepare", "decode audio", "Audio payload is not valid base64", err)
	}

	audioPath := filepath.Join(s.cfg.AudioDir(), entry.VoiceKeyHash+".mp3")
	if err := os.MkdirAll(s.cfg.AudioDir(), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "prepare", "ensure audio dir", "Failed to create audio directory", err)
	}
	if _, statErr := os.Stat(audioPath); statErr != nil {
		if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
			return services.Wrap(services.ErrTransient, "prepare", "write audio", "Failed to write source audio", err)
		}
	}

	wavPath := filepath.Join(s.cfg.CorpusDir(), entry.VoiceKeyHash+".wav")
	if err := s.converter.Convert(ctx, audioPath, wavPath); err != nil {
		return err
	}

	transcript := textutil.NormalizeTranscript(datasetEntry.Transcript())
	if transcript == "" {
		return services.Wrap(services.ErrValidation, "prepare", "build transcript", "Transcript is empty after normalization", nil)
	}
	labPath := filepath.Join(s.cfg.CorpusDir(), entry.VoiceKeyHash+".lab")
	if err := os.WriteFile(labPath, []byte(transcript), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "prepare", "write transcript", "Failed to write transcript file", err)
	}

	entry.WavFile = wavPath
	entry.LabFile = labPath

	if s.logger != nil {
		s.logger.Debug("corpus files ready",
			logging.String("wav", wavPath),
			logging.String("lab", labPath),
		)
	}
	return nil
}
