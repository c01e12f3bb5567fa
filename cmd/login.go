package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the hosted auth service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.provider.Login(cmd.Context()); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			app.session.Refresh()
			session := app.session.Resolve(cmd.Context())
			if session.Connected {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in. Active wallet: %s\n", session.Address)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed in. No usable wallet linked yet.")
			}

			return nil
		},
	}
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.provider.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			app.session.Refresh()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
