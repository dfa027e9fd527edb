package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

// tickerInfo is one ticker with the open takes on it.
type tickerInfo struct {
	store.Ticker
	Known bool        `json:"known"`
	Takes []takeEntry `json:"takes"`
}

type takeEntry struct {
	store.Take
	ServiceName string `json:"service_name"`
}

var tickersCmd = &cobra.Command{
	Use:   "tickers SYMBOLS",
	Short: "Show company details and open takes for comma-separated tickers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols := filter.ParseTickers(args[0])
		if len(symbols) == 0 {
			return fmt.Errorf("no ticker symbols in %q", args[0])
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		known, err := e.db.TickersBySymbols(ctx, symbols)
		if err != nil {
			return fmt.Errorf("loading tickers: %w", err)
		}
		takes, err := e.db.Takes(ctx, symbols)
		if err != nil {
			return fmt.Errorf("loading takes: %w", err)
		}
		services, err := e.db.Services(ctx)
		if err != nil {
			return fmt.Errorf("loading services: %w", err)
		}

		infos := tickerInfos(symbols, known, takes, services)
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), infos)
		}
		printTickers(cmd.OutOrStdout(), infos)
		return nil
	},
}

func init() {
	tickersCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON")
	rootCmd.AddCommand(tickersCmd)
}

// tickerInfos keeps the requested order and reports unknown symbols too.
func tickerInfos(symbols []string, known []store.Ticker, takes []store.Take, services []store.Service) []tickerInfo {
	bySymbol := make(map[string]store.Ticker, len(known))
	for _, t := range known {
		bySymbol[t.Symbol] = t
	}
	names := make(map[int]string, len(services))
	for _, s := range services {
		names[s.ID] = s.PrettyName
	}
	takesBy := make(map[string][]takeEntry)
	for _, tk := range takes {
		takesBy[tk.Ticker] = append(takesBy[tk.Ticker], takeEntry{Take: tk, ServiceName: names[tk.ServiceID]})
	}

	infos := make([]tickerInfo, 0, len(symbols))
	for _, sym := range symbols {
		t, ok := bySymbol[sym]
		if !ok {
			t = store.Ticker{Symbol: sym}
		}
		infos = append(infos, tickerInfo{Ticker: t, Known: ok, Takes: takesBy[sym]})
	}
	return infos
}

func printTickers(w io.Writer, infos []tickerInfo) {
	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if !info.Known {
			fmt.Fprintf(w, "%s  (unknown ticker)\n", info.Symbol)
			continue
		}

		header := info.Symbol
		if info.CompanyName != "" {
			header += "  " + info.CompanyName
		}
		if info.ExchangeSymbol != "" {
			header += "  " + info.ExchangeSymbol
		}
		if info.InstrumentID != 0 {
			header += fmt.Sprintf("  #%d", info.InstrumentID)
		}
		fmt.Fprintln(w, header)

		if len(info.Takes) == 0 {
			fmt.Fprintln(w, "  No open takes.")
			continue
		}
		for _, tk := range info.Takes {
			service := tk.ServiceName
			if service == "" {
				service = fmt.Sprintf("service %d", tk.ServiceID)
			}
			line := fmt.Sprintf("  %-20s %-10s %s", service, tk.Action, tk.OpenDate.Format("2006-01-02"))
			if flags := takeFlags(tk.Take); flags != "" {
				line += "  " + flags
			}
			fmt.Fprintln(w, line)
		}
	}
}

func takeFlags(t store.Take) string {
	var flags []string
	if t.IsCore {
		flags = append(flags, "core")
	}
	if t.IsFirst {
		flags = append(flags, "first")
	}
	if t.IsNewest {
		flags = append(flags, "newest")
	}
	return strings.Join(flags, ", ")
}
