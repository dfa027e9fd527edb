package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/importer"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import articles and scorecard takes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := signalContext()
		defer cancel()

		out, err := e.runJob(ctx, "import", e.importFunc())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Detail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importFunc imports every enabled feed and scorecard, records the refresh time and prunes
// articles past the retention period.
func (e *env) importFunc() func(ctx context.Context) (string, error) {
	im := importer.New(importer.NewRSSFetcher(), e.db, importer.Options{
		RatePerSecond: e.cfg.Import.RatePerSecond,
		Timeout:       e.cfg.ImportTimeout(),
		Logger:        e.log,
	})
	return func(ctx context.Context) (string, error) {
		res, err := im.Run(ctx, e.cfg.Services)
		if err != nil {
			return "", err
		}
		var takes importer.TakeResult
		if len(e.cfg.Scorecards) > 0 {
			takes, err = im.ImportTakes(ctx, importer.NewScorecardFetcher(e.cfg.Import.ScorecardURL), e.db, e.cfg.Scorecards)
			if err != nil {
				return "", err
			}
		}
		if err := e.db.SetLastRefresh(); err != nil {
			return "", fmt.Errorf("recording refresh: %w", err)
		}
		pruned, err := e.db.Prune(ctx, e.cfg.RetentionDuration())
		if err != nil {
			e.log.Warn("auto-prune failed", logger.Error(err))
		}

		detail := fmt.Sprintf("Imported %d article(s), %d ticker(s)", res.Articles, res.Tickers)
		if len(e.cfg.Scorecards) > 0 {
			detail += fmt.Sprintf(", %d take(s)", takes.Takes)
		}
		if pruned > 0 {
			detail += fmt.Sprintf(", pruned %d", pruned)
		}
		if n := len(res.Errors) + len(takes.Errors); n > 0 {
			detail += fmt.Sprintf(" (%d feed error(s))", n)
		}
		return detail + ".", nil
	}
}
