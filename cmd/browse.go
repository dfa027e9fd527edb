package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/tui"
)

var (
	flagBrowseTickers  string
	flagBrowseServices []string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the article browser",
	Long:  "Open satellite in browse mode, the two-pane article browser, optionally pre-filtered.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, true)
	},
}

func init() {
	browseCmd.Flags().StringVar(&flagBrowseTickers, "tickers", "", "comma separated ticker symbols")
	browseCmd.Flags().StringSliceVar(&flagBrowseServices, "services", nil, "service ids to show")
	rootCmd.AddCommand(browseCmd)
}

func runTUI(cmd *cobra.Command, browseMode bool) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	var ids []int
	if browseMode {
		c, err := filter.Resolve(flagBrowseTickers, flagBrowseServices)
		if err != nil {
			return err
		}
		ids = c.ServiceIDs
	}

	if flagRefresh || e.db.NeedsRefresh(e.cfg.RefreshDuration()) {
		fmt.Fprintln(cmd.OutOrStdout(), "Importing feeds...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		out, err := e.runJob(ctx, "import", e.importFunc())
		cancel()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] %v\n", err)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), out.Detail)
		}
	}

	// Log lines would tear the alternate screen; the browser shows errors itself.
	e.log = logger.NewNop()
	importFn := e.importFunc()

	services, err := e.db.Services(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading services: %w", err)
	}

	var lastImport string
	if t, err := e.db.LastRefresh(); err == nil {
		lastImport = t.Local().Format("Jan 2 15:04")
	}

	l := e.listing()
	return tui.Run(tui.RunOpts{
		Listing:      l,
		Recaps:       e.recaps(l),
		Services:     services,
		AuthorWindow: e.cfg.AuthorWindowDuration(),
		BrowseMode:   browseMode,
		Tickers:      flagBrowseTickers,
		ServiceIDs:   ids,
		LastImport:   lastImport,
		Refresh: func(ctx context.Context) (string, error) {
			out, err := e.runJob(ctx, "import", importFn)
			return out.Detail, err
		},
	})
}

