package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"namescreen/internal/app"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the screening HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			opts.logger.Info("starting namescreen",
				"addr", opts.cfg.Server.Addr,
				"version", Version,
				"scorer", a.Engine.Name(),
				"registry", opts.cfg.Registry.Backend,
			)
			return a.Run(ctx)
		},
	}
}
