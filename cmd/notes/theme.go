package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/notekeeper/internal/service"
)

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the display theme",
		Long:      `Without an argument, print the stored theme. With one, store it.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context, e *service.Engine) error {
				if len(args) == 1 {
					if err := e.SetThemePreference(ctx, args[0] == "dark"); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.Theme().Name())
				return nil
			})
		},
	}
}
