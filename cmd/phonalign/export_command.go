package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
	"phonalign/internal/fileutil"
	"phonalign/internal/pipeline"
	"phonalign/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [hash...]",
		Short: "Re-export stored phoneme alignments",
		Long: "Rewrites the per-entry phoneme JSON files and the dataset file from " +
			"alignments already stored in the catalog. Without arguments every " +
			"completed entry is exported.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var entries []*store.Entry
				if len(args) > 0 {
					for _, hash := range args {
						entry, err := st.GetByHash(cmd.Context(), hash)
						if err != nil {
							return err
						}
						if entry == nil {
							return fmt.Errorf("entry %s not found", hash)
						}
						entries = append(entries, entry)
					}
				} else {
					var err error
					entries, err = st.List(cmd.Context(), store.StatusCompleted)
					if err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No completed entries to export")
					return nil
				}

				datasetPath := cfg.AlignmentFile()
				if _, err := fileutil.Backup(datasetPath); err != nil {
					return fmt.Errorf("back up dataset file: %w", err)
				}

				exported := 0
				for _, entry := range entries {
					if !entry.HasAlignment() {
						fmt.Fprintf(out, "Entry %s has no stored alignment, skipping\n", shortHash(entry.VoiceKeyHash))
						continue
					}
					view, err := pipeline.DatasetEntry(entry)
					if err != nil {
						return fmt.Errorf("entry %s: %w", shortHash(entry.VoiceKeyHash), err)
					}
					alignment := view.PhonemeAlignment
					path, err := dataset.WriteSegmentsFile(cfg.PhonemesDir(), entry.VoiceKeyHash, alignment.Alignment)
					if err != nil {
						return err
					}
					if _, err := dataset.UpsertPhonemeAlignment(datasetPath, entry.VoiceKeyHash, alignment); err != nil {
						return err
					}
					fmt.Fprintf(out, "Wrote %s\n", path)
					exported++
				}

				fmt.Fprintf(out, "Exported %d alignments\n", exported)
				return nil
			})
		},
	}
	return cmd
}
