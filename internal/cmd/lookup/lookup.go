// Package lookup provides the lookup command, which maps a line of
// preprocessed output back to the source file and line it came from.
package lookup

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/completion"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/view"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/linemap"
)

type lookupOptions struct {
	lang        string
	contentLine bool
	configPath  string
	output      string
	noColor     bool
	stdout      io.Writer
}

// NewCmdLookup creates the lookup command.
func NewCmdLookup() *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <processed-file> <line>",
		Short: "Map a processed line back to its source",
		Long: `Find the original file and line of a line in preprocessed output,
using the line marker comments it contains.

By default <line> counts every line of the file, markers included, which is
how a script runtime numbers lines in its error messages. With
--content-line, marker lines are not counted.`,
		Example: `  # Where did line 120 of the uploaded script come from?
  slpp lookup out.lsl 120

  # Count content lines only
  slpp lookup out.lsl 97 --content-line`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runLookup(args[0], args[1], opts)
		},
		ValidArgsFunction: completion.ScriptFiles,
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "script language: lsl or luau (default: from the file extension)")
	cmd.Flags().BoolVar(&opts.contentLine, "content-line", false, "line counts content lines only, not marker lines")

	_ = cmd.RegisterFlagCompletionFunc("lang", completion.Languages)

	return cmd
}

func runLookup(file, lineArg string, opts *lookupOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	line, err := strconv.Atoi(lineArg)
	if err != nil || line < 1 {
		return fmt.Errorf("invalid line number %q", lineArg)
	}

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
	text := string(data)
	prefix := dialect.MarkerPrefix()

	var (
		loc linemap.Location
		ok  bool
	)
	if opts.contentLine {
		loc, ok = linemap.NewMapper(linemap.Parse(text, prefix)).Lookup(line)
	} else {
		loc, ok = linemap.ResolveRaw(text, prefix, line)
	}
	if !ok {
		return fmt.Errorf("no line mapping covers line %d of %s", line, file)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	switch view.Format(opts.output) {
	case view.FormatJSON:
		return renderer.RenderJSON(loc)
	case view.FormatPlain:
		renderer.RenderText(fmt.Sprintf("%s:%d", loc.File, loc.Line))
	default:
		renderer.RenderKeyValue("File", loc.File)
		renderer.RenderKeyValue("Line", strconv.Itoa(loc.Line))
	}
	return nil
}
