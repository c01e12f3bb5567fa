package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whisprhq/whispr-cli/internal/application"
	"github.com/whisprhq/whispr-cli/internal/domain"
)

func newPremiumCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Buy and check premium eligibility",
	}

	cmd.AddCommand(newPremiumBuyCmd(app), newPremiumStatusCmd(app))

	return cmd
}

func newPremiumBuyCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "buy",
		Short: "Transfer the premium price to the treasury",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var receipt domain.PurchaseReceipt
			err := runSubmitSpinner(cmd.Context(), cmd.OutOrStdout(), "Sending premium payment...", func(ctx context.Context) error {
				var purchaseErr error
				receipt, purchaseErr = app.premium.Purchase(ctx)
				return purchaseErr
			})
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Premium unlocked for %s\n", receipt.Address)
			_, _ = fmt.Fprintf(out, "Paid:        %s\n", formatSOL(receipt.Lamports))
			_, _ = fmt.Fprintf(out, "Transaction: %s\n", receipt.TxSignature)

			return nil
		},
	}
}

func newPremiumStatusCmd(app *app) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether the active wallet holds premium",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eligible, err := app.premium.Eligible(cmd.Context(), refresh)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				return err
			}

			if eligible {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Premium: active")
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Premium: not active. Buy it for %s with 'whispr premium buy'.\n", formatSOL(app.premium.PriceLamports()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cached verdict and query the chain")

	return cmd
}

func formatSOL(lamports uint64) string {
	return fmt.Sprintf("%.4f SOL", float64(lamports)/float64(domain.LamportsPerSOL))
}
