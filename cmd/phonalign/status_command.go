package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phonalign/internal/config"
	"phonalign/internal/preflight"
	"phonalign/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline health: paths, tools, services, catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Paths", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusError
					if result.Passed {
						kind = statusOK
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("External tools", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
					kind := statusError
					message := status.Detail
					switch {
					case status.Available:
						kind = statusOK
						message = status.Command
						if status.Version != "" {
							message = fmt.Sprintf("%s (%s)", status.Command, status.Version)
						}
					case status.Optional:
						kind = statusWarn
					}
					fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
				}

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Services", colorize) {
					fmt.Fprintln(out, line)
				}
				service := preflight.CheckElevenLabsFromConfig(cfg)
				serviceKind := statusError
				if service.Passed {
					serviceKind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(service.Name, serviceKind, service.Detail, colorize))

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Catalog", colorize) {
					fmt.Fprintln(out, line)
				}
				health, err := st.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Database", statusInfo, st.Path(), colorize))
				summary := fmt.Sprintf("%d total (%d pending, %d processing, %d failed, %d completed)",
					health.Total, health.Pending, health.Processing, health.Failed, health.Completed)
				entriesKind := statusOK
				if health.Failed > 0 {
					entriesKind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Entries", entriesKind, summary, colorize))
				return nil
			})
		},
	}
}
