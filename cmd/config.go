// =============================================================================
// XML to CSV Converter - Config Command
// =============================================================================
//
// This file defines the 'config' command, which prints the effective
// configuration after defaults, the config file, XML2CSV_* environment
// variables and flags have been merged.
//
// COMMAND USAGE:
//   xml2csv config [--config xml2csv.yaml]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// newConfigCmd prints the effective configuration (defaults, file,
// environment and flags merged) as YAML.
func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, _, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
}
