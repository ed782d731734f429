package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
	"cinefile/internal/catalog"
	"cinefile/internal/projection"
)

func newListsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show and manage movie lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readOnly, func(_ context.Context, svc *api.Service) error {
				renderLists(cmd, svc)
				return nil
			})
		},
	}
	cmd.AddCommand(
		newListsCreateCommand(ctx),
		newListsRenameCommand(ctx),
		newListsDeleteCommand(ctx),
		newListsAddCommand(ctx),
		newListsRemoveCommand(ctx),
		newListsSelectCommand(ctx),
	)
	return cmd
}

func renderLists(cmd *cobra.Command, svc *api.Service) {
	movies := svc.Catalog().Movies()
	selected := svc.Settings().SelectedListID
	rows := [][]string{listRow(projection.AllListsID, "All Lists", "", movies, selected)}
	for _, l := range svc.Lists() {
		kind := l.Source
		if l.UserCreated() {
			kind = "user"
		}
		rows = append(rows, listRow(l.ID, l.Name, kind, movies, selected))
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"", "ID", "Name", "Source", "Movies", "Watched"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}

func listRow(id, name, source string, movies []catalog.Movie, selected string) []string {
	watched, total := projection.Completion(movies, id)
	marker := ""
	if id == selected {
		marker = "*"
	}
	pct := "-"
	if total > 0 {
		pct = fmt.Sprintf("%d%%", watched*100/total)
	}
	return []string{marker, id, name, orDash(source), strconv.Itoa(total), pct}
}

func newListsCreateCommand(ctx *commandContext) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				l, err := svc.CreateList(runCtx, args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created list %s (%s)\n", l.Name, l.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "List description")
	return cmd
}

func newListsRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list-id> <name>",
		Short: "Rename a user list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				l, err := svc.RenameList(runCtx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed list %s to %s\n", l.ID, l.Name)
				return nil
			})
		},
	}
}

func newListsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a user list; its movies stay in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.DeleteList(runCtx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %s\n", args[0])
				return nil
			})
		},
	}
}

func newListsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list-id> <movie-id>",
		Short: "Append a catalog movie to a user list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.AddToList(runCtx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newListsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list-id> <movie-id>",
		Short: "Remove a movie from a user list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.RemoveFromList(runCtx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newListsSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <list-id>",
		Short: "Choose the list shown when no --list is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				if err := svc.SelectList(runCtx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", args[0])
				return nil
			})
		},
	}
}
