package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
	"phonalign/internal/elevenlabs"
	"phonalign/internal/pipeline"
	"phonalign/internal/store"
)

func newSynthCommand(ctx *commandContext) *cobra.Command {
	var voiceFlag string
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "synth <text>",
		Short: "Synthesize an utterance and add it to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				text := strings.TrimSpace(strings.Join(args, " "))
				if text == "" {
					return errors.New("text is empty")
				}
				voice := strings.TrimSpace(voiceFlag)
				if voice == "" {
					voice = cfg.ElevenLabs.VoiceID
				}
				model := strings.TrimSpace(modelFlag)
				if model == "" {
					model = cfg.ElevenLabs.ModelID
				}
				if err := requireSynthesis(cfg, voice); err != nil {
					return err
				}

				hash := dataset.VoiceKeyHash(voice, text)
				out := cmd.OutOrStdout()

				if existing, err := st.GetByHash(cmd.Context(), hash); err != nil {
					return err
				} else if existing != nil {
					fmt.Fprintf(out, "Entry %s already in catalog (status %s)\n", hash, existing.Status)
					return nil
				}

				client := elevenlabs.NewClient(cfg)
				result, err := client.SynthesizeWithTimestamps(cmd.Context(), elevenlabs.SpeechRequest{
					VoiceID:      voice,
					Text:         text,
					ModelID:      model,
					OutputFormat: cfg.ElevenLabs.OutputFormat,
				})
				if err != nil {
					return err
				}

				entry := dataset.Entry{
					VoiceKeyHash:        hash,
					Script:              text,
					VoiceID:             voice,
					AudioBase64:         result.AudioBase64,
					Alignment:           result.Alignment,
					NormalisedAlignment: result.NormalizedAlignment,
				}
				if err := dataset.AppendEntry(cfg.AlignmentFile(), entry); err != nil {
					return fmt.Errorf("update dataset file: %w", err)
				}

				row, err := pipeline.StoreEntry(entry)
				if err != nil {
					return err
				}
				row.Status = store.StatusPending
				if _, err := st.NewEntry(cmd.Context(), row); err != nil {
					return err
				}

				fmt.Fprintf(out, "Added %s (voice %s, %d characters)\n", hash, voice, len(text))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Voice ID (defaults to elevenlabs.voice_id)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Model ID (defaults to elevenlabs.model_id)")
	return cmd
}

// requireSynthesis checks the synthesis credentials, allowing the voice to
// come from the --voice flag instead of config.
func requireSynthesis(cfg *config.Config, voice string) error {
	if voice == "" {
		return errors.New("no voice id; set elevenlabs.voice_id or pass --voice")
	}
	if cfg.ElevenLabs.APIKey == "" {
		return cfg.RequireElevenLabs()
	}
	return nil
}
