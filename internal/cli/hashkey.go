package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/auditlog-backend/internal/auth"
)

// NewHashKeyCommand creates the hash-key command.
func NewHashKeyCommand() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Print the bcrypt hash of an admin API key",
		Long: `Print the bcrypt hash to put into admin.api_key_hash.

With --generate a random key is created and printed on the first line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			switch {
			case generate:
				k, err := auth.GenerateSecret()
				if err != nil {
					return err
				}
				key = k
				fmt.Fprintln(cmd.OutOrStdout(), key)
			case len(args) == 1:
				key = args[0]
			default:
				return fmt.Errorf("pass a key or --generate")
			}

			hash, err := auth.HashAdminKey(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random key")

	return cmd
}
