package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kapu/codestats-go/internal/app"
	"github.com/kapu/codestats-go/internal/domain"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func newDashboardCmd() *cobra.Command {
	var (
		uid     string
		token   string
		refresh bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Load the aggregated dashboard for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (uid == "") == (token == "") {
				return fmt.Errorf("exactly one of --uid or --token is required")
			}
			if format != formatText && format != formatJSON {
				return fmt.Errorf("unknown format %q", format)
			}
			out := cmd.OutOrStdout()

			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				var (
					view *domain.AggregatedDashboardView
					err  error
				)
				switch {
				case token != "":
					view, err = c.Dashboard.LoadForToken(ctx, token, refresh)
				case refresh:
					view, err = c.Dashboard.Refresh(ctx, uid)
				case format == formatText:
					view, err = c.Dashboard.Stream(ctx, uid, func(section domain.PlatformSection) {
						fmt.Fprintf(out, "... %s %s\n", section.Platform.DisplayName(), section.Status)
					})
				default:
					view, err = c.Dashboard.Load(ctx, uid)
				}
				if err != nil {
					return err
				}
				return writeView(out, view, format)
			})
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "Profile uid to load")
	cmd.Flags().StringVar(&token, "token", "", "Identity token to resolve the uid from")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the session copy and refetch every platform")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format (text, json)")
	return cmd
}

func writeView(w io.Writer, view *domain.AggregatedDashboardView, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	renderView(w, view)
	return nil
}

func renderView(w io.Writer, view *domain.AggregatedDashboardView) {
	if view.Onboarding {
		fmt.Fprintf(w, "No profile for %s yet. Link a handle with `codestats profile set`.\n", view.UID)
		return
	}
	if len(view.Sections) == 0 {
		fmt.Fprintf(w, "%s has no linked platforms.\n", view.UID)
		return
	}

	fmt.Fprintf(w, "Dashboard for %s\n", view.UID)
	fmt.Fprintf(w, "Total solved: %d\n", view.TotalProblems)
	totals := view.DifficultyTotals
	if view.BucketPolicy == domain.BucketPolicyFold {
		fmt.Fprintf(w, "  easy %d / medium %d / hard %d\n", totals.Easy, totals.Medium, totals.Hard)
	} else {
		fmt.Fprintf(w, "  school %d / basic %d / easy %d / medium %d / hard %d\n",
			totals.School, totals.Basic, totals.Easy, totals.Medium, totals.Hard)
	}

	for _, section := range view.Sections {
		fmt.Fprintf(w, "\n[%s] %s (%s)\n", section.Platform.DisplayName(), section.Handle, section.Status)
		if section.Status == domain.SectionError {
			fmt.Fprintf(w, "  %s\n", section.Error)
			continue
		}
		stats := section.Stats
		fmt.Fprintf(w, "  solved %d, submissions %s\n", stats.TotalSolved, stats.TotalSubmissions)
		switch section.Platform {
		case domain.PlatformCodeForces:
			fmt.Fprintf(w, "  rating %s (max %s), rank %s (max %s)\n", stats.Rating, stats.MaxRating, stats.Rank, stats.MaxRank)
			fmt.Fprintf(w, "  success rate %s%%, accepted %d, wrong answer %d, time limit %d\n", stats.SuccessRate,
				stats.VerdictCounts["OK"], stats.VerdictCounts["WRONG_ANSWER"], stats.VerdictCounts["TIME_LIMIT_EXCEEDED"])
		case domain.PlatformGFG:
			fmt.Fprintf(w, "  coding score %s, rank %s, country rank %s\n", stats.CodingScore, stats.Rank, stats.CountryRank)
		default:
			fmt.Fprintf(w, "  ranking %s, reputation %s, active days %s\n", stats.Rank, stats.Reputation, stats.ActiveDays)
			fmt.Fprintf(w, "  easy %d/%s, medium %d/%s, hard %d/%s\n",
				stats.Difficulty.Easy, stats.Available.Easy,
				stats.Difficulty.Medium, stats.Available.Medium,
				stats.Difficulty.Hard, stats.Available.Hard)
		}
		fmt.Fprintf(w, "  streak %d (longest %d), active days %d\n",
			stats.Streak.Current, stats.Streak.Longest, len(stats.SubmissionCalendar))
		for _, sub := range stats.RecentSubmissions {
			fmt.Fprintf(w, "  - %s [%s] %s\n", sub.Title, sub.Verdict, sub.Language)
		}
		if len(section.Warnings) > 0 {
			fmt.Fprintf(w, "  warnings: %s\n", strings.Join(section.Warnings, "; "))
		}
	}
}
