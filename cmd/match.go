package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whisprhq/whispr-cli/internal/application"
	"github.com/whisprhq/whispr-cli/internal/domain"
)

func newMatchCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Register and inspect your matchmaking profile",
	}

	cmd.AddCommand(newMatchRegisterCmd(app), newMatchShowCmd(app))

	return cmd
}

func newMatchRegisterCmd(app *app) *cobra.Command {
	var interests string
	var age int
	var ageMin int
	var ageMax int
	var lookingFor int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Anchor a matchmaking profile on chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := parseInterests(interests)
			if err != nil {
				return err
			}

			profile := domain.MatchProfile{
				Interests:  tags,
				Age:        age,
				AgeMin:     ageMin,
				AgeMax:     ageMax,
				LookingFor: lookingFor,
			}

			var registered domain.MatchProfile
			err = runSubmitSpinner(cmd.Context(), cmd.OutOrStdout(), "Anchoring profile on chain...", func(ctx context.Context) error {
				var registerErr error
				registered, registerErr = app.matching.Register(ctx, profile)
				return registerErr
			})
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile registered. Transaction: %s\n", registered.TxSignature)
			return nil
		},
	}

	cmd.Flags().StringVar(&interests, "interests", "", fmt.Sprintf("Comma-separated interest tags (max %d)", domain.MaxInterestTags))
	cmd.Flags().IntVar(&age, "age", 0, "Your age")
	cmd.Flags().IntVar(&ageMin, "age-min", domain.MinProfileAge, "Minimum preferred age")
	cmd.Flags().IntVar(&ageMax, "age-max", domain.MaxProfileAge, "Maximum preferred age")
	cmd.Flags().IntVar(&lookingFor, "looking-for", 0, "Preference tag for who you want to meet")
	_ = cmd.MarkFlagRequired("interests")
	_ = cmd.MarkFlagRequired("age")

	return cmd
}

func newMatchShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the locally cached profile registration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := app.matching.CachedProfile(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrRecordNotFound) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No registered profile. Run 'whispr match register' first.")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.UserMessage(err))
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Wallet:      %s\n", profile.Address)
			_, _ = fmt.Fprintf(out, "Age:         %d (seeking %d-%d)\n", profile.Age, profile.AgeMin, profile.AgeMax)
			_, _ = fmt.Fprintf(out, "Interests:   %s\n", formatInterests(profile.Interests))
			_, _ = fmt.Fprintf(out, "Looking for: %d\n", profile.LookingFor)
			_, _ = fmt.Fprintf(out, "Registered:  %s\n", profile.CreatedAt.Format("2006-01-02 15:04"))
			_, _ = fmt.Fprintf(out, "Transaction: %s\n", profile.TxSignature)

			return nil
		},
	}
}

func parseInterests(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	tags := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		tag, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse interest %q: %w", part, err)
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

func formatInterests(tags []int) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, strconv.Itoa(tag))
	}

	return strings.Join(parts, ", ")
}
