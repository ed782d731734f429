package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change view settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readOnly, func(_ context.Context, svc *api.Service) error {
				s := svc.Settings()
				direction := "ascending"
				if !s.SortAscending {
					direction = "descending"
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Selected list: %s\n", s.SelectedListID)
				fmt.Fprintf(out, "Sort:          %s (%s)\n", s.SortOption.Label(), direction)
				fmt.Fprintf(out, "Adult content: %s\n", yesNo(s.ShowAdultContent))
				return nil
			})
		},
	}
	cmd.AddCommand(newSettingsAdultCommand(ctx))
	return cmd
}

func newSettingsAdultCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "adult on|off",
		Short:     "Include adult titles in searches and imports",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var show bool
			switch strings.ToLower(strings.TrimSpace(args[0])) {
			case "on", "true", "yes":
				show = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.SetShowAdultContent(runCtx, show); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Adult content: %s\n", yesNo(show))
				return nil
			})
		},
	}
}
