package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whisprhq/whispr-cli/internal/application"
	"github.com/whisprhq/whispr-cli/internal/domain"
)

func newConfessCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confess",
		Short: "Post and manage confessions",
	}

	cmd.AddCommand(newConfessPostCmd(app), newConfessLikeCmd(app), newConfessLocalCmd(app))

	return cmd
}

func newConfessPostCmd(app *app) *cobra.Command {
	var content string
	var category string
	var premium bool

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a confession to the shared feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var confession domain.Confession
			err := runSubmitSpinner(cmd.Context(), cmd.OutOrStdout(), "Anchoring confession on chain...", func(ctx context.Context) error {
				var submitErr error
				confession, submitErr = app.confessions.Submit(ctx, content, category, premium)
				return submitErr
			})
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Posted. Transaction: %s\n", confession.TxSignature)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", fmt.Sprintf("Confession text (max %d characters)", domain.MaxConfessionLength))
	cmd.Flags().StringVar(&category, "category", "", "Category ("+strings.Join(domain.Categories, "|")+")")
	cmd.Flags().BoolVar(&premium, "premium", false, "Mark as a premium confession")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newConfessLikeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <record-id>",
		Short: "Like a confession in the subscribed feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := subscribeFeed(cmd.Context(), app, defaultFeedLimit); err != nil {
				return err
			}
			defer app.mirror.Unsubscribe()

			if err := app.confessions.Like(cmd.Context(), args[0]); err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Liked.")
			return nil
		},
	}
}

func newConfessLocalCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "local",
		Short: "List confessions saved to the local fallback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			confessions, err := app.confessions.LocalConfessions(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNotConnected) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				}
				return err
			}

			if len(confessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No local confessions.")
				return nil
			}

			for _, confession := range confessions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (tx: %s)\n", confession.Category, confession.Content, confession.TxSignature)
			}

			return nil
		},
	}
}
