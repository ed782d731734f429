package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
	"cinefile/internal/catalog"
)

func newWatchedCommand(ctx *commandContext) *cobra.Command {
	var (
		dateFlag string
		unset    bool
	)

	cmd := &cobra.Command{
		Use:   "watched <movie-id>",
		Short: "Mark a movie watched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date *time.Time
			if strings.TrimSpace(dateFlag) != "" {
				parsed, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(dateFlag), time.Local)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				date = &parsed
			}
			if unset && date != nil {
				return fmt.Errorf("--date and --unset cannot be combined")
			}
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				m, err := svc.SetWatched(runCtx, args[0], !unset, date)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if m.Watched {
					fmt.Fprintf(out, "%s: watched %s\n", m.Title, formatWatched(m))
				} else {
					fmt.Fprintf(out, "%s: not watched\n", m.Title)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "Date watched (YYYY-MM-DD); defaults to now")
	cmd.Flags().BoolVar(&unset, "unset", false, "Mark the movie unwatched")
	return cmd
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	var clearRating bool

	cmd := &cobra.Command{
		Use:   "rate <movie-id> [score]",
		Short: fmt.Sprintf("Rate a movie from %.0f to %.0f", catalog.MinUserRating, catalog.MaxUserRating),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rating *float64
			switch {
			case clearRating && len(args) == 2:
				return fmt.Errorf("pass a score or --clear, not both")
			case clearRating:
			case len(args) == 2:
				score, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid score %q", args[1])
				}
				rating = &score
			default:
				return fmt.Errorf("a score or --clear is required")
			}
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				m, err := svc.RateMovie(runCtx, args[0], rating)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: rating %s\n", m.Title, formatUserRating(m.UserRating))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearRating, "clear", false, "Remove the rating")
	return cmd
}

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show and edit the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readOnly, func(_ context.Context, svc *api.Service) error {
				movies := svc.Watchlist()
				if len(movies) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Watchlist is empty")
					return nil
				}
				renderMovies(cmd.OutOrStdout(), movies, svc.Settings().SelectedListID)
				return nil
			})
		},
	}
	cmd.AddCommand(newWatchlistEditCommand(ctx, "add", true), newWatchlistEditCommand(ctx, "remove", false))
	return cmd
}

func newWatchlistEditCommand(ctx *commandContext, verb string, in bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <movie-id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a movie on the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, readWrite, func(runCtx context.Context, svc *api.Service) error {
				m, err := svc.SetInWatchlist(runCtx, args[0], in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: on watchlist %s\n", m.Title, yesNo(m.InWatchlist))
				return nil
			})
		},
	}
}
