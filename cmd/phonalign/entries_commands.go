package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/store"
)

func newEntriesCommand(ctx *commandContext) *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Inspect and manage catalog entries",
	}

	entriesCmd.AddCommand(newEntriesStatusCommand(ctx))
	entriesCmd.AddCommand(newEntriesListCommand(ctx))
	entriesCmd.AddCommand(newEntriesRetryCommand(ctx))
	entriesCmd.AddCommand(newEntriesClearCommand(ctx))
	entriesCmd.AddCommand(newEntriesResetCommand(ctx))
	entriesCmd.AddCommand(newEntriesHealthCommand(ctx))

	return entriesCmd
}

func newEntriesStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show entry counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range store.AllStatuses() {
					count, ok := stats[status]
					if !ok {
						continue
					}
					rows = append(rows, []string{string(status), strconv.Itoa(count)})
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}
				table := renderTable([]tableColumn{{Title: "Status"}, {Title: "Count", Right: true}}, rows)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newEntriesListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				statuses := make([]store.Status, 0, len(listStatuses))
				for _, raw := range listStatuses {
					status, ok := store.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}

				entries, err := st.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						shortHash(entry.VoiceKeyHash),
						entry.VoiceID,
						truncate(entry.Script, 40),
						string(entry.Status),
						formatTimestamp(entry.CreatedAt),
					})
				}
				table := renderTable(
					[]tableColumn{
						{Title: "ID", Right: true},
						{Title: "Hash"},
						{Title: "Voice"},
						{Title: "Script"},
						{Title: "Status"},
						{Title: "Created"},
					},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (repeatable)")
	return cmd
}

func newEntriesRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [hash...]",
		Short: "Retry failed entries",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					updated, err := st.RetryFailed(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Retried %d failed entries\n", updated)
					return nil
				}

				for _, hash := range args {
					entry, err := st.GetByHash(cmd.Context(), hash)
					if err != nil {
						return err
					}
					if entry == nil {
						fmt.Fprintf(out, "Entry %s not found\n", hash)
						continue
					}
					if entry.Status != store.StatusFailed {
						fmt.Fprintf(out, "Entry %s is not in failed state\n", shortHash(entry.VoiceKeyHash))
						continue
					}
					entry.Status = store.StatusPending
					entry.ErrorMessage = ""
					if err := st.Update(cmd.Context(), entry); err != nil {
						return err
					}
					fmt.Fprintf(out, "Entry %s reset for retry\n", shortHash(entry.VoiceKeyHash))
				}
				return nil
			})
		},
	}
}

func newEntriesClearCommand(ctx *commandContext) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				removed, err := st.Clear(cmd.Context(), clearAll)
				if err != nil {
					return err
				}
				if clearAll {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", removed)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed entries\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearAll, "all", false, "Remove every entry regardless of status")
	return cmd
}

func newEntriesResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stuck",
		Short: "Roll mid-stage entries back to their last stable status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				updated, err := st.ResetStuckProcessing(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d entries\n", updated)
				return nil
			})
		},
	}
}

func newEntriesHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show catalog health summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				health, err := st.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nPending: %d\nProcessing: %d\nFailed: %d\nCompleted: %d\n",
					health.Total,
					health.Pending,
					health.Processing,
					health.Failed,
					health.Completed,
				)
				return nil
			})
		},
	}
}
