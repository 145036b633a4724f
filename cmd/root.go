package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qcheck/internal/config"
	"github.com/abhisek/qcheck/internal/logging"
	"github.com/abhisek/qcheck/internal/report"
	"github.com/abhisek/qcheck/internal/store"
)

var (
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "qcheck",
	Short: "Exam question extraction and repeat checking",
	Long: `qcheck pulls exam questions out of loosely structured spreadsheet exports
and checks them against previously imported papers, flagging each one as
new, reframed or duplicate.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/qcheck/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// URL (overrides QCHECK_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(masterCmd)
	rootCmd.AddCommand(assessmentsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		c.Logging.Level = v
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logging.New(c.Logging)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

// openStore opens the configured database, falling back to the default
// path.
func openStore() (*store.Store, error) {
	dsn := cfg.Database.DSN
	if dsn == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dsn = p
	} else if !strings.Contains(dsn, "://") && dsn != ":memory:" {
		if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	s, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", zap.String("dialect", s.Dialect()))
	return s, nil
}

// render prints v as JSON when --json is set, otherwise through text.
func render(cmd *cobra.Command, v any, text func(io.Writer) error) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return report.JSON(w, v)
	}
	return text(w)
}
