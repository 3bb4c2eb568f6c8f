package cli

import (
	"github.com/spf13/cobra"

	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
	"namescreen/internal/screening/normalize"
)

type hashOutput struct {
	Tokens       []string `json:"tokens"`
	Composite    string   `json:"composite"`
	BucketKey    string   `json:"bucket_key"`
	IdentityHash string   `json:"identity_hash"`
}

func newHashCommand() *cobra.Command {
	var recordType string
	cmd := &cobra.Command{
		Use:   "hash <name>",
		Short: "Print the normalized tokens and hashes of a name",
		Args:  cobra.ExactArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := models.ParseRecordType(recordType)
			if err != nil {
				return err
			}
			tokens, err := normalize.New().Normalize(args[0])
			if err != nil {
				return err
			}
			h := hashing.Compute(tokens, t)
			return printJSON(cmd, hashOutput{
				Tokens:       tokens,
				Composite:    hashing.Composite(tokens, t),
				BucketKey:    h.BucketKey,
				IdentityHash: h.IdentityHash,
			})
		},
	}
	cmd.Flags().StringVar(&recordType, "type", "individual", "record type: entity or individual")
	return cmd
}
