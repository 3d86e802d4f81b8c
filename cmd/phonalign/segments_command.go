package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/media"
	"phonalign/internal/pipeline"
	"phonalign/internal/store"
	"phonalign/internal/textutil"
)

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments <hash>",
		Short: "Cut per-phoneme audio clips for an aligned entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				entry, err := st.GetByHash(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("entry %s not found", args[0])
				}
				if !entry.HasAlignment() {
					return fmt.Errorf("entry %s has no stored alignment; run align first", shortHash(entry.VoiceKeyHash))
				}

				view, err := pipeline.DatasetEntry(entry)
				if err != nil {
					return err
				}
				segments := view.PhonemeAlignment.Alignment

				wav := entry.WavFile
				if wav == "" {
					wav = filepath.Join(cfg.CorpusDir(), entry.VoiceKeyHash+".wav")
				}
				if _, err := os.Stat(wav); err != nil {
					return fmt.Errorf("corpus WAV missing for %s: %w", shortHash(entry.VoiceKeyHash), err)
				}

				logger, err := ctx.logger()
				if err != nil {
					return err
				}
				converter := media.NewConverter(cfg.FFmpegBinary(), logger)
				converter.WithOverwrite(cfg.Export.OverwriteExisting)

				dir := filepath.Join(cfg.SegmentsDir(), entry.VoiceKeyHash)
				cut := 0
				for i, segment := range segments {
					if segment.End <= segment.Start {
						continue
					}
					name := fmt.Sprintf("%03d_%s.wav", i, textutil.SanitizeToken(segment.CMU))
					if err := converter.CutSegment(cmd.Context(), wav, filepath.Join(dir, name), segment.Start, segment.End); err != nil {
						return err
					}
					cut++
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Cut %d segments into %s\n", cut, dir)
				return nil
			})
		},
	}
	return cmd
}
