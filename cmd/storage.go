package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/config"
)

var flagPruneOlderThan string

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old articles from the local store",
	Long: `Delete stored articles older than the retention period and reclaim disk space.

Uses the retention value from config (default: 365d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		retention := e.cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDuration(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		var deleted int64
		_, err = e.runJob(cmd.Context(), "prune", func(ctx context.Context) (string, error) {
			n, err := e.db.Prune(ctx, retention)
			if err != nil {
				return "", fmt.Errorf("pruning: %w", err)
			}
			deleted = n
			return fmt.Sprintf("pruned %d article(s)", n), nil
		})
		if err != nil {
			return err
		}

		if deleted == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d article(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		count, size, err := e.db.Stats(e.dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Store: %s\n", e.dbPath)
		fmt.Fprintf(out, "Articles: %d\n", count)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		if t, err := e.db.LastRefresh(); err == nil {
			fmt.Fprintf(out, "Last import: %s\n", t.Local().Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
