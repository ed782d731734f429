package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
	"cinefile/internal/services"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		year  int
		add   bool
		addTo string
		pick  int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search TMDB and optionally add a result to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			adding := add || strings.TrimSpace(addTo) != ""
			mode := readOnly
			if adding {
				mode = readWrite
			}
			return ctx.withService(cmd, mode, func(runCtx context.Context, svc *api.Service) error {
				results, err := svc.SearchMovies(runCtx, query, year)
				if err != nil {
					return errors.New(services.UserMessage(err))
				}
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintf(out, "No results for %q\n", query)
					return nil
				}

				rows := make([][]string, 0, len(results))
				for i, m := range results {
					rows = append(rows, []string{
						fmt.Sprint(i + 1),
						m.Title,
						formatYear(m.Year),
						orDash(m.Director),
						formatRating(m.CriticRating),
						m.ID,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Year", "Director", "Critic", "ID"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
				))

				if !adding {
					return nil
				}
				if pick < 1 || pick > len(results) {
					return fmt.Errorf("--pick must be between 1 and %d", len(results))
				}
				chosen := results[pick-1]
				id, err := svc.AddMovie(runCtx, chosen, addTo)
				if err != nil {
					return err
				}
				if addTo != "" {
					fmt.Fprintf(out, "Added %s (%s) to %s\n", chosen.Title, id, addTo)
				} else {
					fmt.Fprintf(out, "Added %s (%s) to the catalog\n", chosen.Title, id)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year filter")
	cmd.Flags().BoolVar(&add, "add", false, "Add the picked result to the catalog")
	cmd.Flags().StringVar(&addTo, "add-to", "", "Add the picked result to this user list")
	cmd.Flags().IntVar(&pick, "pick", 1, "Result number to add")
	return cmd
}
