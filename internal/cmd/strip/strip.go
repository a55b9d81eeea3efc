// Package strip provides the strip command, which removes line marker
// comments from preprocessed output.
package strip

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/completion"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/view"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/linemap"
)

type stripOptions struct {
	lang       string
	write      string
	configPath string
	noColor    bool
	stdout     io.Writer
}

// NewCmdStrip creates the strip command.
func NewCmdStrip() *cobra.Command {
	opts := &stripOptions{}

	cmd := &cobra.Command{
		Use:   "strip <processed-file>",
		Short: "Remove line markers from processed output",
		Long: `Remove the // @line (LSL) or -- @line (Luau) marker comments from a
preprocessed script. Malformed markers are ordinary comments and are kept.`,
		Example: `  # Print out.lsl without its markers
  slpp strip out.lsl

  # Strip in place
  slpp strip out.luau --write out.luau`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runStrip(args[0], opts)
		},
		ValidArgsFunction: completion.ScriptFiles,
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "script language: lsl or luau (default: from the file extension)")
	cmd.Flags().StringVarP(&opts.write, "write", "w", "", "write the result to this file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc("lang", completion.Languages)

	return cmd
}

func runStrip(file string, opts *stripOptions) error {
	cfg, err := config.LoadWithEnv(config.PathOrDefault(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dialect, err := cfg.Dialect(opts.lang, file)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read processed file: %w", err)
	}
	stripped := linemap.Strip(string(data), dialect.MarkerPrefix())

	renderer := view.NewRenderer(view.FormatPlain, opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.write == "" {
		renderer.RenderRaw(stripped)
		return nil
	}
	if err := os.WriteFile(opts.write, []byte(stripped), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	renderer.Success(fmt.Sprintf("Wrote %s", opts.write))
	return nil
}
