package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// Languages completes the value of a --lang flag.
func Languages(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, lang := range []lexer.Language{lexer.LanguageLSL, lexer.LanguageLuau} {
		if strings.HasPrefix(string(lang), toComplete) {
			out = append(out, string(lang))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// ScriptFiles completes the first positional argument with script and
// Markdown files.
func ScriptFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var exts []string
	for _, cfg := range []*lexer.Config{lexer.LSL(), lexer.Luau()} {
		for _, ext := range cfg.Extensions {
			exts = append(exts, strings.TrimPrefix(ext, "."))
		}
	}
	exts = append(exts, "md")
	return exts, cobra.ShellCompDirectiveFilterFileExt
}
