package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			result, _ := a.coordinator.Refresh(cmd.Context())
			if !result.Success {
				return fmt.Errorf("%w: %s", errAuthRequired, result.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session refreshed")
			return nil
		},
	}
}
