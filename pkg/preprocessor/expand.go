package preprocessor

import (
	"strconv"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// expander performs macro substitution over token runs. Every pending token
// carries a hide set naming the macros whose expansion produced it; a name
// found in its own hide set is left as a plain identifier, which breaks
// direct and mutual recursion.
type expander struct {
	macros *MacroTable
	diags  *diagnostics
}

// hideSet is an immutable list of macro names.
type hideSet []string

func (h hideSet) has(name string) bool {
	for _, n := range h {
		if n == name {
			return true
		}
	}
	return false
}

// with returns h extended by names not already in it.
func (h hideSet) with(names ...string) hideSet {
	out := h
	for _, n := range names {
		if !out.has(n) {
			out = append(out[:len(out):len(out)], n)
		}
	}
	return out
}

// item is a token waiting to be rescanned. site is the outermost invocation
// that produced it, used for __FILE__ and __LINE__ inside bodies.
type item struct {
	tok  lexer.Token
	hide hideSet
	site *lexer.Token
}

func items(tokens []lexer.Token, hide hideSet, site *lexer.Token) []item {
	out := make([]item, len(tokens))
	for i, tok := range tokens {
		out[i] = item{tok: tok, hide: hide, site: site}
	}
	return out
}

// Expand substitutes every macro reference in tokens until no further
// substitution applies.
func (e *expander) Expand(tokens []lexer.Token) []lexer.Token {
	expanded := e.expand(items(tokens, nil, nil), true)
	out := make([]lexer.Token, len(expanded))
	for i, it := range expanded {
		out[i] = it.tok
	}
	return out
}

// expand rescans in until no substitution applies. A replacement is pushed
// back in front of the remaining input, so a body ending in a function-like
// macro name picks up the argument list that follows the invocation. warn
// reports function-like names without arguments; it is off inside argument
// lists, whose result is rescanned with the surrounding text.
func (e *expander) expand(in []item, warn bool) []item {
	out := make([]item, 0, len(in))
	for len(in) > 0 {
		it := in[0]
		in = in[1:]
		tok := it.tok
		if tok.Type != lexer.TokenIdentifier {
			out = append(out, it)
			continue
		}

		m, ok := e.macros.Lookup(tok.Value)
		if !ok {
			it.tok = e.dynamic(tok, it.site)
			out = append(out, it)
			continue
		}
		if it.hide.has(m.Name) {
			out = append(out, it)
			continue
		}

		site := it.site
		if site == nil {
			site = &tok
		}

		if !m.FunctionLike {
			in = pushBack(items(m.Body, it.hide.with(m.Name), site), in)
			continue
		}

		open := 0
		for open < len(in) && in[open].tok.Type == lexer.TokenWhitespace {
			open++
		}
		if open >= len(in) || in[open].tok.Type != lexer.TokenParenOpen {
			if warn && len(m.Params) > 0 {
				e.diags.warnf(tok, "function-like macro %q used without arguments", m.Name)
			}
			out = append(out, it)
			continue
		}

		args, end, ok := collectArgs(in, open)
		if !ok {
			e.diags.warnf(tok, "unterminated argument list for macro %q", m.Name)
			out = append(out, it)
			continue
		}
		if len(m.Params) == 0 && len(args) == 1 && len(args[0]) == 0 {
			args = nil
		}
		if len(args) != len(m.Params) {
			e.diags.warnf(tok, "macro %q expects %d argument(s), got %d", m.Name, len(m.Params), len(args))
		}

		// Arguments are fully expanded before substitution.
		for k := range args {
			args[k] = e.expand(args[k], false)
		}

		in = pushBack(substitute(m, args, it.hide.with(m.Name), site), in[end+1:])
	}
	return out
}

func pushBack(front, rest []item) []item {
	out := make([]item, 0, len(front)+len(rest))
	out = append(out, front...)
	return append(out, rest...)
}

// dynamic replaces __FILE__ and __LINE__ with literals describing site, or
// tok itself when there is no enclosing invocation.
func (e *expander) dynamic(tok lexer.Token, site *lexer.Token) lexer.Token {
	at := tok
	if site != nil {
		at = *site
	}
	switch tok.Value {
	case macroFile:
		return tok.WithType(lexer.TokenString).WithValue(strconv.Quote(at.File))
	case macroLine:
		return tok.WithType(lexer.TokenNumber).WithValue(strconv.Itoa(at.Line))
	}
	return tok
}

// collectArgs reads the argument list whose "(" is at in[open]. It splits on
// commas outside nested brackets and trims each argument. end is the index
// of the closing ")".
func collectArgs(in []item, open int) (args [][]item, end int, ok bool) {
	depth := 0
	var cur []item
	for i := open; i < len(in); i++ {
		tok := in[i].tok
		switch {
		case tok.Type.IsOpenBracket():
			depth++
			if depth == 1 {
				continue
			}
		case tok.Type.IsCloseBracket():
			depth--
			if depth == 0 {
				args = append(args, trimItems(cur))
				return args, i, true
			}
		case depth == 1 && tok.Is(lexer.TokenOperator, ","):
			args = append(args, trimItems(cur))
			cur = nil
			continue
		}
		cur = append(cur, in[i])
	}
	return nil, 0, false
}

func trimItems(in []item) []item {
	start, end := 0, len(in)
	for start < end && in[start].tok.Type.IsSpace() {
		start++
	}
	for end > start && in[end-1].tok.Type.IsSpace() {
		end--
	}
	return in[start:end]
}

// substitute replaces each parameter in the body of m with its argument.
// Missing arguments contribute nothing and extra arguments are ignored.
// Every resulting token is hidden from the macros in hide.
func substitute(m *Macro, args [][]item, hide hideSet, site *lexer.Token) []item {
	out := make([]item, 0, len(m.Body))
	for _, tok := range m.Body {
		if tok.Type == lexer.TokenIdentifier {
			if k := m.paramIndex(tok.Value); k >= 0 {
				if k < len(args) {
					for _, a := range args[k] {
						out = append(out, item{tok: a.tok, hide: a.hide.with(hide...), site: site})
					}
				}
				continue
			}
		}
		out = append(out, item{tok: tok, hide: hide, site: site})
	}
	return out
}
