// Package root provides the root command for the slpp CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/completion"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/configcmd"
	initcmd "github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/init"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/lookup"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/preprocess"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/strip"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/tokens"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/version"
)

// NewCmdRoot creates the root command for slpp.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slpp",
		Short: "A preprocessor for LSL and Luau scripts",
		Long: `slpp runs the C-style preprocessor used by Second Life scripts.

It expands #define macros, evaluates #if/#ifdef conditionals and inlines
#include files (and require("...") in Luau), writing line markers so that
runtime errors can be traced back to the original sources.

Get started by running: slpp init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/slpp/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().Bool("verbose", false, "log every diagnostic to stderr as it is found")

	cmd.SetVersionTemplate(version.Template())

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(preprocess.NewCmdPreprocess())
	cmd.AddCommand(tokens.NewCmdTokens())
	cmd.AddCommand(lookup.NewCmdLookup())
	cmd.AddCommand(strip.NewCmdStrip())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
