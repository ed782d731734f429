package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
	"cinefile/internal/projection"
)

func newMoviesCommand(ctx *commandContext) *cobra.Command {
	var (
		listID     string
		sortFlag   string
		descending bool
		filterFlag string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Show the movies of a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := api.ViewQuery{ListID: strings.TrimSpace(listID)}
			if sortFlag != "" {
				opt, err := projection.ParseSortOption(sortFlag)
				if err != nil {
					return fmt.Errorf("%w (options: %s)", err, sortOptionNames())
				}
				q.Sort = opt
			}
			if cmd.Flags().Changed("descending") {
				ascending := !descending
				q.Ascending = &ascending
			}
			filter, err := projection.ParseWatchFilter(filterFlag)
			if err != nil {
				return err
			}
			q.Filter = filter

			mode := readOnly
			if save {
				mode = readWrite
			}
			return ctx.withService(cmd, mode, func(runCtx context.Context, svc *api.Service) error {
				view, err := svc.View(q)
				if err != nil {
					return err
				}
				if save {
					if err := svc.SetSort(runCtx, view.Sort, view.Ascending); err != nil {
						return err
					}
					if err := svc.SelectList(runCtx, view.ListID); err != nil {
						return err
					}
				}
				out := cmd.OutOrStdout()
				direction := "ascending"
				if !view.Ascending {
					direction = "descending"
				}
				fmt.Fprintf(out, "%s: %d of %d watched (%.0f%%), sorted by %s %s\n",
					view.ListName, view.Watched, view.Total, view.Progress*100, view.Sort.Label(), direction)
				if len(view.Movies) == 0 {
					fmt.Fprintln(out, "No movies to show")
					return nil
				}
				renderMovies(out, view.Movies, view.ListID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&listID, "list", "l", "", "List id (default: the selected list)")
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "Sort option: "+sortOptionNames())
	cmd.Flags().BoolVar(&descending, "descending", false, "Reverse the sort order")
	cmd.Flags().StringVar(&filterFlag, "filter", "all", "Watched filter: all, watched, or unwatched")
	cmd.Flags().BoolVar(&save, "save", false, "Remember the list and sort for next time")
	return cmd
}

func sortOptionNames() string {
	names := make([]string, len(projection.SortOptions))
	for i, opt := range projection.SortOptions {
		names[i] = opt.String()
	}
	return strings.Join(names, ", ")
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <movie-id>",
		Short: "Show one movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readOnly, func(_ context.Context, svc *api.Service) error {
				m, err := svc.Movie(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				renderMovie(out, m)
				if len(m.ListRankings) > 0 {
					fmt.Fprintln(out)
					rows := make([][]string, 0, len(m.ListRankings))
					for _, l := range svc.Lists() {
						if rank, ok := m.Rank(l.ID); ok {
							rows = append(rows, []string{l.Name, fmt.Sprint(rank)})
						}
					}
					fmt.Fprintln(out, renderTable([]string{"List", "Rank"}, rows, []columnAlignment{alignLeft, alignRight}))
				}
				return nil
			})
		},
	}
}
