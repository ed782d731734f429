package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
	"cinefile/internal/services"
)

func newPreloadCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Import every bundled list marked for preload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				out := cmd.OutOrStdout()
				view := newProgressView(out)
				report, err := svc.Preload(runCtx, force, view.preload)
				view.finish()

				for _, o := range report.Outcomes {
					switch {
					case o.Skipped:
						fmt.Fprintf(out, "%s: already imported (use --force to refresh)\n", o.Name)
					case o.Err != nil:
						fmt.Fprintf(out, "%s: %s: %s\n", o.Name, o.State, services.UserMessage(o.Err))
					default:
						renderResult(out, o.Name, o.Result)
					}
				}
				if errors.Is(err, context.Canceled) {
					fmt.Fprintln(out, "Preload cancelled; completed lists were saved")
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Re-import lists that already have movies")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <list-id>",
		Short: "Import one list from the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				m, err := svc.Manifest()
				if err != nil {
					return err
				}
				entry, ok := m.Find(args[0])
				if !ok {
					return fmt.Errorf("unknown list %q; run `cinefile lists` to see available ids", args[0])
				}
				out := cmd.OutOrStdout()
				view := newProgressView(out)
				result, err := svc.ImportList(runCtx, entry.ID, view.list(entry.Name))
				view.finish()
				if err != nil {
					if errors.Is(err, services.ErrAuth) {
						return errors.New(services.UserMessage(err))
					}
					return err
				}
				renderResult(out, entry.Name, result)
				return nil
			})
		},
	}
}
