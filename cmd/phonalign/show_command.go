package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/pipeline"
	"phonalign/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|hash>",
		Short: "Display one catalog entry in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				entry, err := lookupEntry(cmd, st, args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("entry %s not found", args[0])
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:           %d\n", entry.ID)
				fmt.Fprintf(out, "Hash:         %s\n", entry.VoiceKeyHash)
				fmt.Fprintf(out, "Voice:        %s\n", entry.VoiceID)
				fmt.Fprintf(out, "Status:       %s\n", entry.Status)
				fmt.Fprintf(out, "Script:       %s\n", truncate(entry.Script, 120))
				fmt.Fprintf(out, "Audio stored: %s\n", yesNo(entry.AudioBase64 != ""))
				fmt.Fprintf(out, "Created:      %s\n", formatTimestamp(entry.CreatedAt))
				fmt.Fprintf(out, "Updated:      %s\n", formatTimestamp(entry.UpdatedAt))

				if entry.WavFile != "" {
					fmt.Fprintf(out, "WAV:          %s\n", entry.WavFile)
				}
				if entry.LabFile != "" {
					fmt.Fprintf(out, "Transcript:   %s\n", entry.LabFile)
				}
				if entry.TextGridFile != "" {
					fmt.Fprintf(out, "TextGrid:     %s\n", entry.TextGridFile)
				}
				if entry.AlignedAt != nil {
					fmt.Fprintf(out, "Aligned:      %s\n", formatTimestamp(*entry.AlignedAt))
				}
				if entry.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:        %s\n", entry.ErrorMessage)
				}

				if entry.HasAlignment() {
					view, err := pipeline.DatasetEntry(entry)
					if err != nil {
						return err
					}
					alignment := view.PhonemeAlignment
					fmt.Fprintf(out, "Phonemes:     %d segments (created %s)\n",
						len(alignment.Alignment), alignment.Created)
					for _, segment := range alignment.Alignment {
						fmt.Fprintf(out, "  %-6s %8.4f - %8.4f\n", segment.CMU, segment.Start, segment.End)
					}
				}
				return nil
			})
		},
	}
}

// lookupEntry resolves the argument first as a numeric ID, then as a voice
// key hash.
func lookupEntry(cmd *cobra.Command, st *store.Store, key string) (*store.Entry, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		entry, err := st.GetByID(cmd.Context(), id)
		if err == nil && entry != nil {
			return entry, nil
		}
	}
	return st.GetByHash(cmd.Context(), key)
}
