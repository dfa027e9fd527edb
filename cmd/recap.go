package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/recap"
)

var (
	flagRecapDate string
	flagRecapPost bool
)

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Build the daily coverage recap",
	Long: `Summarize the articles published on one calendar day (yesterday by default,
in the configured time zone) and print the recap.

With --post the recap is sent to the configured Slack webhook instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		b := e.recaps(e.listing())
		day := recap.Yesterday(time.Now(), b.Location())
		if flagRecapDate != "" {
			day, err = recap.ParseDate(flagRecapDate, b.Location())
			if err != nil {
				return fmt.Errorf("invalid --date value: %w", err)
			}
		}

		var poster recap.Poster
		if flagRecapPost {
			poster, err = recap.NewSlackPoster(e.cfg.SlackWebhook())
			if err != nil {
				return err
			}
		}

		ctx, cancel := signalContext()
		defer cancel()

		var text string
		_, err = e.runJob(ctx, "recap", func(ctx context.Context) (string, error) {
			r, err := b.Build(ctx, day)
			if err != nil {
				return "", err
			}
			text = r.Text
			if poster == nil {
				return fmt.Sprintf("built recap for %s", r.Date), nil
			}
			if err := poster.Post(ctx, r.Text); err != nil {
				return "", fmt.Errorf("posting recap: %w", err)
			}
			return fmt.Sprintf("posted recap for %s", r.Date), nil
		})
		if err != nil {
			return err
		}

		if poster == nil {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Recap posted.")
		}
		return nil
	},
}

func init() {
	recapCmd.Flags().StringVar(&flagRecapDate, "date", "", "day to recap (YYYY-MM-DD), default yesterday")
	recapCmd.Flags().BoolVar(&flagRecapPost, "post", false, "post to the Slack webhook instead of printing")
	rootCmd.AddCommand(recapCmd)
}
