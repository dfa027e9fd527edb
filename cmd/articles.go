package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/recap"
)

var (
	flagTickers  string
	flagServices []string
	flagPage     string
	flagJSON     bool
	flagSince    string
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List articles matching tickers and services",
	Example: `  satellite articles --tickers AAPL,fb
  satellite articles --services 1,3 --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		v, err := e.listing().View(cmd.Context(), listing.Query{
			Tickers:    flagTickers,
			ServiceIDs: flagServices,
			Page:       flagPage,
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), v)
		}
		printView(cmd.OutOrStdout(), v, e.cfg.AuthorWindowDuration())
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show coverage analytics for matching articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		var since time.Time
		if flagSince != "" {
			d, err := config.ParseDuration(flagSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			since = time.Now().Add(-d)
		}

		s, err := e.listing().Summary(cmd.Context(), listing.Query{
			Tickers:    flagTickers,
			ServiceIDs: flagServices,
		}, since, time.Time{})
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), s)
		}
		printSummary(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{articlesCmd, summaryCmd} {
		c.Flags().StringVar(&flagTickers, "tickers", "", "comma separated ticker symbols")
		c.Flags().StringSliceVar(&flagServices, "services", nil, "service ids (repeat or comma separate)")
		c.Flags().BoolVar(&flagJSON, "json", false, "print JSON")
		rootCmd.AddCommand(c)
	}
	articlesCmd.Flags().StringVar(&flagPage, "page", "1", "page number")
	summaryCmd.Flags().StringVar(&flagSince, "since", "", "only count articles from the last duration (e.g., 7d, 24h)")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printView(w io.Writer, v *listing.View, window time.Duration) {
	if v.Criteria.Empty() {
		fmt.Fprintln(w, "All articles")
	}
	if v.TickerDescription != "" {
		fmt.Fprintf(w, "Tickers:  %s\n", v.TickerDescription)
	}
	if v.ServiceDescription != "" {
		fmt.Fprintf(w, "Services: %s\n", v.ServiceDescription)
	}
	if len(v.Unmatched) > 0 {
		fmt.Fprintf(w, "No ticker record for: %s\n", strings.Join(v.Unmatched, ", "))
	}

	if v.Page.TotalItems == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	o := v.Overview
	fmt.Fprintf(w, "%d article(s) by %d author(s), %s to %s\n\n",
		o.ArticleCount, o.AuthorCount, o.Oldest.Format("Jan 2 2006"), o.Newest.Format("Jan 2 2006"))

	for _, e := range v.Page.Items {
		fmt.Fprintf(w, "%s  %-6s %s\n", e.Published.Format("Jan 02"), e.Ticker, e.Title)
		fmt.Fprintf(w, "        %s · %s · %s\n", e.ServiceName, byline(e.Author), authorLine(e.AuthorStats, window))
		fmt.Fprintf(w, "        %s\n", e.URL)
	}

	fmt.Fprintf(w, "\nPage %d of %d\n", v.Page.Number, v.Page.TotalPages)
}

func byline(author string) string {
	if author == "" {
		return "unknown author"
	}
	return author
}

func authorLine(p analytics.AuthorProfile, window time.Duration) string {
	return fmt.Sprintf("%d article(s), %d in the last %s", p.ArticleCount, p.RecentCount, formatDuration(window))
}

func printSummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintf(w, "Articles: %d\n", s.ArticleCount)
	fmt.Fprintf(w, "Tickers:  %d\n", s.UniqueTickerCount)
	if len(s.MostCommonTickers) > 0 {
		fmt.Fprintf(w, "Most coverage: %s\n", recap.FormatTickerCounts(s.MostCommonTickers))
	}
	for _, sc := range s.PerService {
		fmt.Fprintf(w, "  %-20s %4d  %s\n", sc.PrettyName, sc.Count, strings.Join(sc.Tickers, ", "))
	}
}
