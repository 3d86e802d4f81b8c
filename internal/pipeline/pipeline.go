package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"phonalign/internal/config"
	"phonalign/internal/logging"
	"phonalign/internal/mfa"
	"phonalign/internal/services"
	"phonalign/internal/store"
)

// Summary reports what one pipeline run did.
type Summary struct {
	RunID    string
	Prepared int
	Aligned  int
	Exported int
	Failed   int
	Elapsed  time.Duration
}

// Pipeline wires the stages to the catalog and runs them in order.
type Pipeline struct {
	cfg     *config.Config
	store   *store.Store
	logger  *slog.Logger
	aligner *mfa.Service
	prepare *PrepareStage
	export  *ExportStage
	limit   int
}

// New builds a pipeline over an open catalog.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		store:   st,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		aligner: mfa.NewService(cfg, logger),
		prepare: NewPrepareStage(cfg, logger),
		export:  NewExportStage(cfg, logger),
	}
}

// Aligner exposes the aligner service, mainly so commands can probe its
// version.
func (p *Pipeline) Aligner() *mfa.Service {
	return p.aligner
}

// WithLimit caps how many pending entries one run prepares. Zero means no
// cap.
func (p *Pipeline) WithLimit(n int) {
	if n < 0 {
		n = 0
	}
	p.limit = n
}

// Run executes the full workflow: prepare every pending entry, align the
// corpus in one batch, export every aligned entry. A file lock prevents
// concurrent runs against the same work directory.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}

	if err := os.MkdirAll(p.cfg.Paths.WorkDir, 0o755); err != nil {
		return summary, fmt.Errorf("ensure work directory: %w", err)
	}
	lock := flock.New(filepath.Join(p.cfg.Paths.WorkDir, "phonalign.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return summary, fmt.Errorf("another alignment run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()

	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, p.logger)

	if reset, err := p.store.ResetStuckProcessing(ctx); err != nil {
		return summary, fmt.Errorf("reset stuck entries: %w", err)
	} else if reset > 0 {
		logger.Warn("reset entries left mid-stage by a previous run", logging.Int64("count", reset))
	}

	if err := p.runPrepare(ctx, logger, &summary); err != nil {
		summary.Elapsed = time.Since(started)
		return summary, err
	}
	if err := p.runAlign(ctx, logger, &summary); err != nil {
		summary.Elapsed = time.Since(started)
		return summary, err
	}
	if err := p.runExport(ctx, logger, &summary); err != nil {
		summary.Elapsed = time.Since(started)
		return summary, err
	}

	summary.Elapsed = time.Since(started)
	logger.Info("pipeline run complete",
		logging.Int("prepared", summary.Prepared),
		logging.Int("aligned", summary.Aligned),
		logging.Int("exported", summary.Exported),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (p *Pipeline) runPrepare(ctx context.Context, logger *slog.Logger, summary *Summary) error {
	pending, err := p.store.List(ctx, store.StatusPending)
	if err != nil {
		return fmt.Errorf("list pending entries: %w", err)
	}
	if p.limit > 0 && len(pending) > p.limit {
		pending = pending[:p.limit]
	}
	for _, entry := range pending {
		err := RunStage(ctx, StageOptions{
			Logger:     logger,
			Store:      p.store,
			Handler:    p.prepare,
			StageName:  "prepare",
			Processing: store.StatusPreparing,
			Done:       store.StatusPrepared,
			Entry:      entry,
		})
		if err != nil {
			summary.Failed++
			if services.IsFatal(err) {
				return err
			}
			continue
		}
		summary.Prepared++
	}
	return nil
}

func (p *Pipeline) runAlign(ctx context.Context, logger *slog.Logger, summary *Summary) error {
	entries, err := p.store.TransitionAll(ctx, store.StatusPrepared, store.StatusAligning)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		logger.Info("no prepared entries, skipping alignment")
		return nil
	}

	alignErr := p.aligner.Align(ctx, mfa.AlignRequest{
		CorpusDir:     p.cfg.CorpusDir(),
		Dictionary:    p.cfg.MFA.Dictionary,
		AcousticModel: p.cfg.MFA.AcousticModel,
		OutputDir:     p.cfg.AlignedDir(),
	})
	if alignErr != nil {
		for _, entry := range entries {
			entry.SetFailed(alignErr.Error())
			if err := p.store.Update(ctx, entry); err != nil {
				logger.Error("failed to persist alignment failure", logging.Error(err))
			}
		}
		summary.Failed += len(entries)
		return alignErr
	}

	aligned, err := p.store.TransitionAll(ctx, store.StatusAligning, store.StatusAligned)
	if err != nil {
		return err
	}
	summary.Aligned = len(aligned)
	return nil
}

func (p *Pipeline) runExport(ctx context.Context, logger *slog.Logger, summary *Summary) error {
	aligned, err := p.store.List(ctx, store.StatusAligned)
	if err != nil {
		return fmt.Errorf("list aligned entries: %w", err)
	}
	for _, entry := range aligned {
		err := RunStage(ctx, StageOptions{
			Logger:     logger,
			Store:      p.store,
			Handler:    p.export,
			StageName:  "export",
			Processing: store.StatusExporting,
			Done:       store.StatusCompleted,
			Entry:      entry,
		})
		if err != nil {
			summary.Failed++
			if services.IsFatal(err) {
				return err
			}
			continue
		}
		summary.Exported++
	}
	return nil
}
