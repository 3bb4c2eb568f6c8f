package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"namescreen/pkg/platform/middleware/admin"
)

func newTokenCommand(root *rootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Mint an admin bearer token for the operator endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := root.cfg.Server.AdminSecret
			if secret == "" {
				return errors.New("server.admin_secret is not set")
			}
			token, err := admin.IssueToken([]byte(secret), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject, recorded on audit events")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	return cmd
}
