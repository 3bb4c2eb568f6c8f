// Package cli implements the screenctl command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"namescreen/internal/platform/config"
	"namescreen/internal/platform/logger"
)

// Version is stamped at build time with -ldflags "-X namescreen/internal/cli.Version=...".
var Version = "dev"

type rootOptions struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   *slog.Logger
}

// NewRootCommand builds the screenctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "screenctl",
		Short: "Sanctions and watchlist name screening",
		Long: `screenctl runs and operates the name screening service.

Configuration hierarchy (highest to lowest priority):
  1. Environment variables (NAMESCREEN_*)
  2. Config file (--config)
  3. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			opts.cfg = cfg
			// Logs go to stderr so command output stays machine readable.
			opts.logger = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")

	cmd.AddCommand(
		newServeCommand(opts),
		newScreenCommand(opts),
		newIngestCommand(opts),
		newHashCommand(),
		newConfigCommand(opts),
		newTokenCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The root pre-run loads config, which version does not need.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "screenctl %s\n", Version)
		},
	}
}
