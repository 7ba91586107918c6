// Package cli implements the auditctl operator commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for auditctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "auditctl",
		Short:         "Operate the audit log service",
		Long:          "Schema migrations, tenant onboarding and credential helpers for the audit log service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config.yaml (default: $CONFIG_PATH or ./config.yaml)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTenantCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewHashKeyCommand())

	return cmd
}
