package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whisprhq/whispr-cli/internal/domain"
)

func newWalletCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Inspect the active wallet session",
	}

	cmd.AddCommand(newWalletStatusCmd(app))

	return cmd
}

func newWalletStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the resolved wallet session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session.Refresh()
			session := app.session.Resolve(cmd.Context())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(session)
			}

			out := cmd.OutOrStdout()
			if !session.Ready {
				_, _ = fmt.Fprintln(out, "Session provider is not ready.")
				return nil
			}
			if !session.Connected {
				_, _ = fmt.Fprintln(out, "No wallet connected. Run `whispr login` or set WHISPR_KEYPAIR.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Address: %s\n", session.Address)
			if session.Balance != nil {
				_, _ = fmt.Fprintf(out, "Balance: %.4f SOL\n", float64(*session.Balance)/float64(domain.LamportsPerSOL))
			} else {
				_, _ = fmt.Fprintln(out, "Balance: unavailable")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
