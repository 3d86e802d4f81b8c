package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
	"phonalign/internal/logging"
	"phonalign/internal/media"
	"phonalign/internal/phones"
	"phonalign/internal/services"
	"phonalign/internal/store"
	"phonalign/internal/textgrid"
	"phonalign/internal/textutil"
)

// phonesTierName is the tier the aligner writes phone intervals to.
const phonesTierName = "phones"

// ExportStage parses an entry's TextGrid, postprocesses the phones, and
// publishes the result: catalog column, per-entry JSON export, dataset file
// update, and optional per-phoneme audio clips.
type ExportStage struct {
	cfg       *config.Config
	converter *media.Converter
	logger    *slog.Logger
	now       func() time.Time
}

// NewExportStage constructs the export stage.
func NewExportStage(cfg *config.Config, logger *slog.Logger) *ExportStage {
	converter := media.NewConverter(cfg.FFmpegBinary(), logger)
	converter.WithOverwrite(cfg.Export.OverwriteExisting)
	return &ExportStage{
		cfg:       cfg,
		converter: converter,
		logger:    logging.NewComponentLogger(logger, "export"),
		now:       time.Now,
	}
}

// Prepare locates the TextGrid the aligner produced for this entry.
func (s *ExportStage) Prepare(_ context.Context, entry *store.Entry) error {
	path, err := findTextGrid(s.cfg.AlignedDir(), entry.VoiceKeyHash)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "export", "locate textgrid",
			fmt.Sprintf("No TextGrid found for %s; the aligner may have rejected the utterance", entry.VoiceKeyHash), err)
	}
	entry.TextGridFile = path
	return nil
}

// Execute turns the TextGrid into phoneme segments and publishes them.
func (s *ExportStage) Execute(ctx context.Context, entry *store.Entry) error {
	grid, err := textgrid.ParseFile(entry.TextGridFile)
	if err != nil {
		return services.Wrap(services.ErrValidation, "export", "parse textgrid", "TextGrid is malformed", err)
	}
	tier := grid.Tier(phonesTierName)
	if tier == nil {
		return services.Wrap(services.ErrValidation, "export", "parse textgrid",
			fmt.Sprintf("TextGrid has no %q tier", phonesTierName), nil)
	}

	raw := phones.FromTier(tier, s.cfg.Postprocess.DropLabels)
	if len(raw) == 0 {
		return services.Wrap(services.ErrValidation, "export", "extract phones", "TextGrid contains no usable phones", nil)
	}

	cleaned := phones.Postprocess(raw, phones.OptionsFromConfig(s.cfg))
	segments := phones.ToSegments(cleaned, s.cfg.Export.RoundDecimals)

	alignment := &dataset.PhonemeAlignment{
		Created:   s.now().UTC().Format("2006-01-02T15:04:05Z"),
		Alignment: segments,
	}
	encoded, err := json.Marshal(alignment)
	if err != nil {
		return services.Wrap(services.ErrValidation, "export", "encode alignment", "Failed to encode phoneme alignment", err)
	}

	if _, err := dataset.WriteSegmentsFile(s.cfg.PhonemesDir(), entry.VoiceKeyHash, segments); err != nil {
		return services.Wrap(services.ErrTransient, "export", "write export", "Failed to write phoneme export file", err)
	}

	if _, err := dataset.UpsertPhonemeAlignment(s.cfg.AlignmentFile(), entry.VoiceKeyHash, alignment); err != nil {
		return services.Wrap(services.ErrTransient, "export", "update dataset", "Failed to update dataset file", err)
	}

	if s.cfg.Export.SegmentsEnabled {
		if err := s.cutSegments(ctx, entry, segments); err != nil {
			return err
		}
	}

	alignedAt := s.now().UTC()
	entry.PhonemesJSON = string(encoded)
	entry.AlignedAt = &alignedAt

	if s.logger != nil {
		s.logger.Info("phoneme alignment exported",
			logging.Int("segments", len(segments)),
			logging.String("textgrid", entry.TextGridFile),
		)
	}
	return nil
}

// cutSegments slices the corpus WAV into one clip per phoneme.
func (s *ExportStage) cutSegments(ctx context.Context, entry *store.Entry, segments []dataset.PhonemeSegment) error {
	wav := entry.WavFile
	if wav == "" {
		wav = filepath.Join(s.cfg.CorpusDir(), entry.VoiceKeyHash+".wav")
	}
	if _, err := os.Stat(wav); err != nil {
		return services.Wrap(services.ErrNotFound, "export", "cut segments", "Corpus WAV missing for segment cutting", err)
	}

	dir := filepath.Join(s.cfg.SegmentsDir(), entry.VoiceKeyHash)
	for i, segment := range segments {
		if segment.End <= segment.Start {
			continue
		}
		name := fmt.Sprintf("%03d_%s.wav", i, textutil.SanitizeToken(segment.CMU))
		if err := s.converter.CutSegment(ctx, wav, filepath.Join(dir, name), segment.Start, segment.End); err != nil {
			return err
		}
	}
	return nil
}

// findTextGrid searches the aligner output directory for <hash>.TextGrid.
// The aligner may nest output under speaker directories, so the walk is
// recursive.
func findTextGrid(root, voiceKeyHash string) (string, error) {
	target := voiceKeyHash + ".TextGrid"
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(d.Name(), target) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fs.ErrNotExist
	}
	return found, nil
}
