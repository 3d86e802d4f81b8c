package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/logging"
	"phonalign/internal/notifications"
	"phonalign/internal/pipeline"
	"phonalign/internal/preflight"
	"phonalign/internal/store"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var skipChecks bool
	var useARPA bool
	var cleanWorkDir bool
	var limit int

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Run the alignment pipeline over pending entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if useARPA {
					if err := cfg.UseProfile(config.ProfileARPA); err != nil {
						return err
					}
				}
				if cleanWorkDir {
					if err := os.RemoveAll(cfg.Paths.WorkDir); err != nil {
						return fmt.Errorf("clean work directory: %w", err)
					}
					if err := cfg.EnsureDirectories(); err != nil {
						return err
					}
				}
				if !skipChecks {
					if err := runPreflight(cmd, cfg); err != nil {
						return err
					}
				}

				logger, err := ctx.logger()
				if err != nil {
					return err
				}

				p := pipeline.New(cfg, st, logger)
				p.WithLimit(limit)
				summary, runErr := p.Run(cmd.Context())

				notifier := notifications.NewService(cfg)
				if runErr != nil {
					if err := notifier.NotifyRunFailed(cmd.Context(), summary.RunID, runErr); err != nil {
						logger.Warn("run failure notification not delivered", logging.Error(err))
					}
				} else if err := notifier.NotifyRunCompleted(cmd.Context(), summary.RunID, summary.Exported, summary.Failed, summary.Elapsed); err != nil {
					logger.Warn("run completion notification not delivered", logging.Error(err))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.Elapsed.Round(summaryElapsedPrecision))
				fmt.Fprintf(out, "Prepared: %d\nAligned: %d\nExported: %d\nFailed: %d\n",
					summary.Prepared,
					summary.Aligned,
					summary.Exported,
					summary.Failed,
				)
				if runErr != nil {
					return runErr
				}
				if summary.Failed > 0 {
					return fmt.Errorf("%d entries failed", summary.Failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks before running")
	cmd.Flags().BoolVar(&useARPA, "arpa", false, "Use the english_us_arpa model profile for this run")
	cmd.Flags().BoolVar(&cleanWorkDir, "clean", false, "Wipe the work directory before running")
	cmd.Flags().IntVar(&limit, "limit", 0, "Prepare at most N pending entries (0 for all)")
	return cmd
}

// runPreflight aborts the run when directories or required binaries are
// broken; one bad path would otherwise fail every entry individually.
func runPreflight(cmd *cobra.Command, cfg *config.Config) error {
	var problems []string

	for _, result := range preflight.RunAll(cmd.Context(), cfg) {
		if !result.Passed {
			problems = append(problems, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
		if !status.Available && !status.Optional {
			problems = append(problems, fmt.Sprintf("%s: %s", status.Name, status.Detail))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed:\n  %s", strings.Join(problems, "\n  "))
}
