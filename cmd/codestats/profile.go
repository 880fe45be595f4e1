package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kapu/codestats-go/internal/app"
	"github.com/kapu/codestats-go/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Read and edit stored profiles",
	}
	cmd.AddCommand(newProfileGetCmd(), newProfileSetCmd(), newProfileEnsureCmd())
	return cmd
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <uid>",
		Short: "Print a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				profile, err := c.Profiles.GetUserProfile(ctx, args[0])
				if err != nil {
					return err
				}
				return printProfile(cmd, profile)
			})
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	var (
		displayName string
		avatarURL   string
		links       []string
	)

	cmd := &cobra.Command{
		Use:   "set <uid>",
		Short: "Update display fields or link handles (platform=handle, empty handle unlinks)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := domain.ProfileUpdate{Handles: make(map[domain.Platform]*string)}
			if cmd.Flags().Changed("name") {
				update.DisplayName = &displayName
			}
			if cmd.Flags().Changed("avatar") {
				update.AvatarURL = &avatarURL
			}
			for _, link := range links {
				name, handle, ok := strings.Cut(link, "=")
				if !ok {
					return fmt.Errorf("invalid --link %q, want platform=handle", link)
				}
				platform, known := domain.ParsePlatform(name)
				if !known {
					platform = domain.Platform(name)
				}
				update.Handles[platform] = &handle
			}

			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				profile, err := c.Profiles.UpdateUserProfile(ctx, args[0], update)
				if err != nil {
					return err
				}
				return printProfile(cmd, profile)
			})
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	cmd.Flags().StringVar(&avatarURL, "avatar", "", "Avatar URL")
	cmd.Flags().StringArrayVar(&links, "link", nil, "Platform handle as platform=handle (repeatable)")
	return cmd
}

func newProfileEnsureCmd() *cobra.Command {
	var (
		displayName string
		avatarURL   string
	)

	cmd := &cobra.Command{
		Use:   "ensure <uid>",
		Short: "Create an empty profile if none exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				profile, err := c.Profiles.EnsureProfile(ctx, args[0], displayName, avatarURL)
				if err != nil {
					return err
				}
				return printProfile(cmd, profile)
			})
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name for a new profile")
	cmd.Flags().StringVar(&avatarURL, "avatar", "", "Avatar URL for a new profile")
	return cmd
}

func printProfile(cmd *cobra.Command, profile *domain.UserProfile) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}
