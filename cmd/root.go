package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/job"
	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/recap"
	"github.com/ellenbowman/satellite-of-love/internal/store"
	"github.com/ellenbowman/satellite-of-love/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
	flagRefresh  bool
	flagCheck    bool
)

var rootCmd = &cobra.Command{
	Use:   "satellite",
	Short: "Stock-ticker article filtering and analytics",
	Long:  "satellite imports analyst articles tagged with stock tickers, filters and pages through them, and builds daily coverage recaps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, false)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the article database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force an import before launching")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "satellite %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}
		res, err := update.NewChecker("").Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res.Newer() {
			fmt.Fprintf(cmd.OutOrStdout(), "A newer release is available: %s\n", res.Latest)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "You are on the latest release.")
		}
		return nil
	},
}

// env is what every command needs: config, logger and an open store.
type env struct {
	cfg    *config.Config
	log    logger.Logger
	db     *store.Store
	dbPath string
}

func setup() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, err
	}

	dbPath := flagDB
	if dbPath == "" {
		dbPath = config.StorePath()
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db, dbPath: dbPath}, nil
}

func (e *env) Close() {
	e.db.Close()
	_ = e.log.Sync()
}

func (e *env) listing() *listing.Service {
	return listing.New(e.db, listing.Options{
		PageSize:     e.cfg.GetPageSize(),
		TopTickers:   e.cfg.GetTopTickers(),
		AuthorWindow: e.cfg.AuthorWindowDuration(),
	})
}

func (e *env) recaps(l *listing.Service) *recap.Builder {
	return recap.NewBuilder(l.Selector(), e.cfg.GetTopTickers(), e.cfg.Location())
}

// runJob runs fn as a named job and turns a failed outcome into an error.
func (e *env) runJob(ctx context.Context, name string, fn job.Func) (job.Outcome, error) {
	out := job.Run(ctx, e.log, name, fn)
	if !out.OK() {
		return out, out.Err
	}
	return out, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
