package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	feedadapter "github.com/whisprhq/whispr-cli/internal/adapters/render/feed"
	"github.com/whisprhq/whispr-cli/internal/application"
	"github.com/whisprhq/whispr-cli/internal/domain"
)

const defaultFeedLimit = 50

func newFeedCmd(app *app) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the confession feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := subscribeFeed(cmd.Context(), app, limit); err != nil {
				return err
			}
			defer app.mirror.Unsubscribe()

			records := app.mirror.Records()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			rendered, err := app.feedRenderer(records, feedadapter.RenderOptions{
				Now:     app.now(),
				Session: app.session.Resolve(cmd.Context()),
			})
			if err != nil {
				return fmt.Errorf("render feed: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultFeedLimit, "Number of records to fetch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(newFeedWatchCmd(app))

	return cmd
}

func newFeedWatchCmd(app *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the feed live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			updates := make(chan []domain.Confession, 8)
			app.mirror.SetOnChange(func(records []domain.Confession) {
				select {
				case updates <- records:
				default:
					// Drop intermediate frames when the UI lags; the next
					// update carries the full list anyway.
				}
			})
			defer app.mirror.SetOnChange(nil)

			if err := subscribeFeed(cmd.Context(), app, limit); err != nil {
				return err
			}
			defer app.mirror.Unsubscribe()

			model := feedadapter.NewWatchModel(updates, feedadapter.RenderOptions{
				Now:     app.now(),
				Session: app.session.Resolve(cmd.Context()),
			})

			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultFeedLimit, "Number of records to follow")

	return cmd
}

func subscribeFeed(ctx context.Context, app *app, limit int) error {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	if err := app.mirror.Subscribe(ctx, application.ConfessionsPath, limit); err != nil {
		return fmt.Errorf("subscribe feed: %w", err)
	}

	return nil
}
