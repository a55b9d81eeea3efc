package preprocessor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/host"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// errIncludeDepth aborts the whole pass.
var errIncludeDepth = errors.New("maximum include depth exceeded")

// include resolves target relative to the file holding the directive at and
// returns the processed tokens of the included file. A nil slice with a nil
// error means the include site contributes nothing.
func (ps *pass) include(ctx context.Context, target string, at lexer.Token, depth int) ([]lexer.Token, error) {
	resolved, err := ps.host.ResolveFile(ctx, target, at.File, ps.cfg.Extensions, ps.settings.IncludePaths())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, host.ErrNotFound) {
			ps.diags.errorf(at, "cannot resolve include %q", target)
		} else {
			ps.diags.errorf(at, "cannot resolve include %q: %v", target, err)
		}
		return nil, nil
	}

	if slices.Contains(ps.ancestors, resolved) {
		chain := append(append([]string(nil), ps.ancestors...), resolved)
		ps.diags.errorf(at, "circular include: %s", strings.Join(chain, " -> "))
		return nil, nil
	}
	if ps.seen[resolved] {
		return nil, nil
	}
	if limit := ps.maxDepth(); depth+1 > limit {
		ps.diags.errorf(at, "maximum include depth of %d exceeded including %q", limit, target)
		return nil, errIncludeDepth
	}
	ps.seen[resolved] = true

	content, err := ps.host.ReadFile(ctx, resolved)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		ps.diags.errorf(at, "cannot read include %q: %v", resolved, err)
		return nil, nil
	}

	tokens := lexer.New(content, resolved, ps.cfg).Tokenize()
	eof := tokens[len(tokens)-1]
	out, err := ps.process(ctx, tokens, resolved, depth+1)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", resolved, err)
	}

	// Included text always ends its last line so the including file resumes
	// on a fresh line.
	if n := len(out); n > 0 && !strings.HasSuffix(out[n-1].Value, "\n") {
		out = append(out, eof.WithType(lexer.TokenNewline).WithValue("\n"))
	}
	return out, nil
}

// includeTarget extracts the file name of #include "name".
func includeTarget(args []lexer.Token) (string, bool) {
	sig := significant(args)
	if len(sig) != 1 || sig[0].Type != lexer.TokenString {
		return "", false
	}
	return unquote(sig[0].Value)
}

// requireTarget extracts the module name of require("name"). Anything else
// on the line means the call is ordinary code.
func requireTarget(args []lexer.Token) (string, bool) {
	sig := significant(args)
	if len(sig) != 3 || sig[0].Type != lexer.TokenParenOpen ||
		sig[1].Type != lexer.TokenString || sig[2].Type != lexer.TokenParenClose {
		return "", false
	}
	return unquote(sig[1].Value)
}

// unquote strips the delimiters of a simple string literal.
func unquote(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || strings.ContainsRune(lit, '\\') {
		return "", false
	}
	name := lit[1 : len(lit)-1]
	return name, name != ""
}

// significant drops whitespace, newlines and comments.
func significant(tokens []lexer.Token) []lexer.Token {
	var out []lexer.Token
	for _, tok := range tokens {
		if tok.Type.IsSpace() || tok.Type.IsComment() {
			continue
		}
		out = append(out, tok)
	}
	return out
}
