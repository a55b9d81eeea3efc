// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage slpp configuration",
		Long:  `Commands for viewing, testing, and clearing slpp configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars are the environment variables that override the config file.
var envVars = []string{
	"SLPP_ENABLED",
	"SLPP_INCLUDE_PATHS",
	"SL_INCLUDE_PATHS",
	"SLPP_MAX_INCLUDE_DEPTH",
	"SLPP_LANGUAGE",
}
