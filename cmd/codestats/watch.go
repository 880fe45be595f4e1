package main

import (
	"context"
	"errors"

	"github.com/kapu/codestats-go/internal/app"
	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/identity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the identity stream and reload the dashboard on every sign-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				if c.Stream == nil {
					return errors.New("watch needs IDENTITY_WS_URL and IDENTITY_SIGNING_SECRET")
				}

				ctx, cancel := context.WithCancel(ctx)
				defer cancel()

				for _, check := range c.Health(ctx) {
					c.Logger.Info("Dependency health",
						zap.String("name", check.Name),
						zap.Bool("healthy", check.Healthy),
						zap.String("detail", check.Detail))
				}

				c.Stream.OnStateChange(func(state identity.StreamState) {
					c.Logger.Info("Identity stream state", zap.String("state", state.String()))
				})

				streamErr := make(chan error, 1)
				go func() {
					err := c.Stream.Run(ctx)
					cancel()
					streamErr <- err
				}()

				c.Dashboard.Watch(ctx, c.Identity, func(view *domain.AggregatedDashboardView, err error) {
					if err != nil {
						c.Logger.Warn("Dashboard load failed", zap.Error(err))
						return
					}
					if writeErr := writeView(out, view, format); writeErr != nil {
						c.Logger.Warn("Failed to write dashboard", zap.Error(writeErr))
					}
				})

				return <-streamErr
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "Output format (text, json)")
	return cmd
}
