package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"phonalign/internal/logging"
	"phonalign/internal/store"
)

// Handler is the per-entry stage contract. Prepare validates inputs and
// resolves paths; Execute does the work.
type Handler interface {
	Prepare(context.Context, *store.Entry) error
	Execute(context.Context, *store.Entry) error
}

// StageOptions controls stage execution and catalog persistence.
type StageOptions struct {
	Logger     *slog.Logger
	Store      *store.Store
	Handler    Handler
	StageName  string
	Processing store.Status
	Done       store.Status
	Entry      *store.Entry
}

// RunStage executes one stage for one entry and persists the
// processing/done/failed transitions around it.
func RunStage(ctx context.Context, opts StageOptions) error {
	if opts.Handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	if opts.Store == nil {
		return fmt.Errorf("catalog store is required")
	}
	if opts.Entry == nil {
		return fmt.Errorf("catalog entry is required")
	}

	stageCtx := logging.WithStage(ctx, opts.StageName)
	stageCtx = logging.WithEntry(stageCtx, opts.Entry.VoiceKeyHash)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(opts.Processing)),
	)

	opts.Entry.Status = opts.Processing
	opts.Entry.ErrorMessage = ""
	if err := opts.Store.Update(stageCtx, opts.Entry); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := opts.Handler.Prepare(stageCtx, opts.Entry); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Entry, err)
	}
	if err := opts.Store.Update(stageCtx, opts.Entry); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := opts.Handler.Execute(stageCtx, opts.Entry); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Entry, err)
	}

	if opts.Entry.Status == opts.Processing || opts.Entry.Status == "" {
		opts.Entry.Status = opts.Done
	}
	if err := opts.Store.Update(stageCtx, opts.Entry); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(opts.Entry.Status)),
	)
	return nil
}

func handleFailure(ctx context.Context, logger *slog.Logger, st *store.Store, entry *store.Entry, stageErr error) error {
	message := "stage failed"
	if stageErr != nil {
		message = strings.TrimSpace(stageErr.Error())
	}
	entry.SetFailed(message)

	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.Error(stageErr),
	)
	if err := st.Update(ctx, entry); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
	return stageErr
}
