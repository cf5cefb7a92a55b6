package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/nugudi/nugudi-gateway/token"
	"github.com/spf13/cobra"
)

func newSessionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or edit the stored session",
	}
	cmd.AddCommand(newSessionShowCmd(opts), newSessionSetCmd(opts), newSessionClearCmd(opts))
	return cmd
}

type sessionView struct {
	Path            string `json:"path"`
	AccessToken     string `json:"accessToken,omitempty"`
	AccessExpiresAt string `json:"accessExpiresAt,omitempty"`
	RefreshToken    string `json:"refreshToken,omitempty"`
	UserID          string `json:"userId,omitempty"`
	DeviceID        string `json:"deviceId,omitempty"`
}

func mask(v string) string {
	if len(v) <= 8 {
		if v == "" {
			return ""
		}
		return "****"
	}
	return v[:4] + "…" + v[len(v)-4:]
}

func newSessionShowCmd(opts *rootOptions) *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			sess, err := a.store.Session(cmd.Context())
			if err != nil {
				return err
			}

			view := sessionView{
				Path:         a.store.Path(),
				AccessToken:  sess.AccessToken,
				RefreshToken: sess.RefreshToken,
				UserID:       sess.UserID,
				DeviceID:     sess.DeviceID,
			}
			if claims, ok := token.Inspect(sess.AccessToken); ok && !claims.ExpiresAt.IsZero() {
				view.AccessExpiresAt = claims.ExpiresAt.Format(time.RFC3339)
			}
			if !reveal {
				view.AccessToken = mask(view.AccessToken)
				view.RefreshToken = mask(view.RefreshToken)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print tokens unmasked")
	return cmd
}

func newSessionSetCmd(opts *rootOptions) *cobra.Command {
	var next sessions.Session
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store session values copied from a signed-in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			if next == (sessions.Session{}) {
				return fmt.Errorf("nothing to set: pass at least one of --access-token, --refresh-token, --user-id, --device-id")
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := a.store.SetSession(cmd.Context(), next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session saved to %s\n", a.store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&next.AccessToken, "access-token", "", "access token")
	cmd.Flags().StringVar(&next.RefreshToken, "refresh-token", "", "refresh token")
	cmd.Flags().StringVar(&next.UserID, "user-id", "", "user id")
	cmd.Flags().StringVar(&next.DeviceID, "device-id", "", "device id")
	return cmd
}

func newSessionClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored tokens (the device id is kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		},
	}
}
