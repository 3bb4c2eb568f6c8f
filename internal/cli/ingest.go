package cli

import (
	"github.com/spf13/cobra"

	"namescreen/internal/app"
)

func newIngestCommand(root *rootOptions) *cobra.Command {
	var sources []string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load watchlist sources into the configured registry",
		Long: `Ingest downloads or reads every configured watchlist, rebuilds the registry
snapshot and replaces the registry contents. It is meant for persistent
backends (sqlite, postgres); the memory backend is discarded on exit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := *root.cfg
			if len(sources) > 0 {
				parsed, err := parseSources(sources)
				if err != nil {
					return err
				}
				cfg.Ingest.Sources = parsed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a, err := app.New(ctx, &cfg, root.logger)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.Ingest == nil {
				return errNoSources
			}

			report, err := a.Ingest.Refresh(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().StringArrayVar(&sources, "source", nil, "watchlist as <format>:<location>, replaces ingest.sources (repeatable)")
	return cmd
}
