package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/kapu/codestats-go/internal/app"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report the profile cache connection and upstream circuit states",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				unhealthy := 0
				for _, check := range c.Health(ctx) {
					status := "ok"
					if !check.Healthy {
						status = "FAIL " + check.Detail
						unhealthy++
					}
					fmt.Fprintf(out, "%-12s %s\n", check.Name, status)
				}
				if unhealthy > 0 {
					return errors.New("some dependencies are unhealthy")
				}
				return nil
			})
		},
	}
}
