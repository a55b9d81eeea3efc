// Package tokens provides the tokens command.
package tokens

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/completion"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/internal/view"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

type tokensOptions struct {
	lang       string
	all        bool
	configPath string
	output     string
	noColor    bool
	stdout     io.Writer
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &tokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Show the token stream of a script",
		Long: `Tokenize a script without preprocessing it and list the tokens.

Whitespace and newline tokens are hidden unless --all is given.`,
		Example: `  # List tokens
  slpp tokens door.lsl

  # Include whitespace, as JSON
  slpp tokens main.luau --all -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runTokens(args[0], opts)
		},
		ValidArgsFunction: completion.ScriptFiles,
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "script language: lsl or luau (default: from the file extension)")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "include whitespace and newline tokens")

	_ = cmd.RegisterFlagCompletionFunc("lang", completion.Languages)

	return cmd
}

func runTokens(file string, opts *tokensOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
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
		return fmt.Errorf("failed to read script: %w", err)
	}

	var toks []lexer.Token
	for _, tok := range lexer.New(string(data), file, dialect).Tokenize() {
		if tok.Type == lexer.TokenEOF || (!opts.all && tok.Type.IsSpace()) {
			continue
		}
		toks = append(toks, tok)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.output == string(view.FormatJSON) {
		if toks == nil {
			toks = []lexer.Token{}
		}
		return renderer.RenderJSON(toks)
	}

	rows := make([][]string, 0, len(toks))
	for _, tok := range toks {
		rows = append(rows, []string{
			strconv.Itoa(tok.Line),
			strconv.Itoa(tok.Column),
			tok.Type.String(),
			strconv.Quote(tok.Value),
		})
	}
	renderer.RenderTable([]string{"LINE", "COL", "TYPE", "TEXT"}, rows)
	return nil
}
