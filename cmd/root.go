package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "whispr",
		Short:         "Whispr CLI: anonymous confessions anchored on Solana",
		Long:          "whispr posts anonymous confessions to the shared feed, anchors each one on Solana with a nominal transfer, and manages wallet sessions, matchmaking registrations, and premium access from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWalletCmd(app),
		newConfessCmd(app),
		newFeedCmd(app),
		newMatchCmd(app),
		newPremiumCmd(app),
	)

	return rootCmd
}
