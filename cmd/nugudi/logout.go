package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const logoutPath = "/api/auth/logout"

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out on the gateway and forget the stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := a.client.Post(cmd.Context(), logoutPath, struct{}{}); err != nil {
				log.Warn().Err(err).Msg("Gateway logout failed, clearing the local session anyway")
			}
			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
