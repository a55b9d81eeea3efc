// Package preprocess provides the preprocess command.
package preprocess

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/completion"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/view"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/host"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/literate"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/preprocessor"
)

type preprocessOptions struct {
	lang          string
	includes      []string
	defines       []string
	maxDepth      *int
	noLineMarkers bool
	listMacros    bool
	write         string
	configPath    string
	output        string
	noColor       bool
	verbose       bool
	stdout        io.Writer
	stderr        io.Writer
}

// NewCmdPreprocess creates the preprocess command.
func NewCmdPreprocess() *cobra.Command {
	opts := &preprocessOptions{}
	var maxDepth int

	cmd := &cobra.Command{
		Use:     "preprocess <file>",
		Aliases: []string{"pp"},
		Short:   "Preprocess a script",
		Long: `Run the preprocessor over an LSL or Luau script and print the result.

Include paths from the config file are searched after those given with -I.
Markdown files are accepted: fenced code blocks tagged with the script
language are processed and every other line is left blank, so line markers
refer to lines of the Markdown file.

The command fails when any error diagnostic is reported.`,
		Example: `  # Preprocess a script
  slpp preprocess door.lsl

  # Add an include path and a define, write to a file
  slpp preprocess door.lsl -I 'lib/**' -D DEBUG -D CHANNEL=42 --write out.lsl

  # Which macros does a script and its includes define?
  slpp preprocess door.lsl --list-macros

  # Full result with line mappings
  slpp preprocess main.luau -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			if cmd.Flags().Changed("max-depth") {
				opts.maxDepth = &maxDepth
			}
			return runPreprocess(cmd.Context(), args[0], opts)
		},
		ValidArgsFunction: completion.ScriptFiles,
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "script language: lsl or luau (default: from the file extension)")
	cmd.Flags().StringArrayVarP(&opts.includes, "include", "I", nil, "include path pattern, may be repeated (supports **)")
	cmd.Flags().StringArrayVarP(&opts.defines, "define", "D", nil, "predefine a macro as NAME or NAME=VALUE, may be repeated")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum include depth, 0 forbids includes (default: from config, else 5)")
	cmd.Flags().BoolVar(&opts.noLineMarkers, "no-line-markers", false, "leave line marker comments out of the output")
	cmd.Flags().StringVarP(&opts.write, "write", "w", "", "write the processed content to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.listMacros, "list-macros", false, "list the macros defined at the end of the file instead of the content")

	_ = cmd.RegisterFlagCompletionFunc("lang", completion.Languages)

	return cmd
}

func runPreprocess(ctx context.Context, file string, opts *preprocessOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfg, err := config.LoadWithEnv(config.PathOrDefault(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w (run 'slpp init' to configure)", err)
	}

	dialect, err := cfg.Dialect(opts.lang, file)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", file, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	source := string(data)
	if literate.IsMarkdown(path) {
		doc, err := literate.Extract(data, literate.InfoStrings(dialect.Language)...)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		source = doc.Source
	}

	settings := *cfg
	settings.Include = append(append([]string(nil), opts.includes...), cfg.Include...)
	if opts.maxDepth != nil {
		if *opts.maxDepth < 0 {
			return fmt.Errorf("--max-depth must not be negative")
		}
		settings.MaxDepth = opts.maxDepth
	}

	ppOpts := preprocessor.Options{
		Defines:       opts.defines,
		NoLineMarkers: opts.noLineMarkers || !cfg.Markers(),
	}
	if opts.verbose {
		ppOpts.Logger = log.New(opts.stderr, "slpp: ", 0)
	}

	pp := preprocessor.New(dialect, host.NewOSHost(""), &settings, ppOpts)
	result := pp.Process(ctx, source, path)

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)
	renderer.SetErrWriter(opts.stderr)

	if opts.output == string(view.FormatJSON) {
		if err := renderer.RenderJSON(result); err != nil {
			return err
		}
	} else {
		renderer.RenderDiagnostics(result.Issues)
		if opts.listMacros {
			rows := make([][]string, 0, len(result.Macros))
			for _, name := range result.Macros {
				rows = append(rows, []string{name})
			}
			renderer.RenderTable([]string{"NAME"}, rows)
		} else if opts.write != "" {
			if err := os.WriteFile(opts.write, []byte(result.Content), 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if result.Success {
				renderer.Success(fmt.Sprintf("Wrote %s", opts.write))
			}
		} else {
			renderer.RenderRaw(result.Content)
		}
	}

	if !result.Success {
		return fmt.Errorf("preprocessing %s failed with %d error(s)", file, countErrors(result.Issues))
	}
	return nil
}

func countErrors(diags []preprocessor.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == preprocessor.SeverityError {
			n++
		}
	}
	return n
}
