package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
	"phonalign/internal/fileutil"
	"phonalign/internal/pipeline"
	"phonalign/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var adopt bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import dataset entries into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				path, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				entries, err := dataset.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read dataset file: %w", err)
				}
				if len(entries) == 0 {
					return fmt.Errorf("no entries found in %s", path)
				}

				added := 0
				skipped := 0
				for _, entry := range entries {
					row, err := pipeline.StoreEntry(entry)
					if err != nil {
						return fmt.Errorf("entry %s: %w", shortHash(entry.VoiceKeyHash), err)
					}
					row.Status = store.StatusPending
					if _, err := st.NewEntry(cmd.Context(), row); err != nil {
						if errors.Is(err, store.ErrDuplicateEntry) {
							skipped++
							continue
						}
						return err
					}
					added++
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d entries (%d already present)\n", added, skipped)

				if adopt {
					target := cfg.AlignmentFile()
					srcAbs, _ := filepath.Abs(path)
					dstAbs, _ := filepath.Abs(target)
					if srcAbs == dstAbs {
						return nil
					}
					if err := fileutil.CopyVerified(path, target); err != nil {
						return fmt.Errorf("adopt dataset file: %w", err)
					}
					fmt.Fprintf(out, "Adopted %s as %s\n", path, target)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&adopt, "adopt", false, "Copy the file into the dataset directory as alignment.json")
	return cmd
}
