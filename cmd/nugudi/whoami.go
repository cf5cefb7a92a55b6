package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nugudi/nugudi-gateway/httpclient"
	"github.com/spf13/cobra"
)

const profilePath = "/api/users/me"

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			resp, err := a.client.Get(cmd.Context(), profilePath)
			if err != nil {
				switch httpclient.StatusCode(err) {
				case http.StatusUnauthorized, http.StatusTemporaryRedirect, http.StatusSeeOther, http.StatusFound:
					return fmt.Errorf("%w: %v", errAuthRequired, err)
				}
				return err
			}

			var out bytes.Buffer
			if err := json.Indent(&out, resp.Body, "", "  "); err != nil {
				return fmt.Errorf("unexpected profile response: %w", err)
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
