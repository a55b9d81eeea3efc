package preprocessor

import (
	"context"
	"strings"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// fileState is the per-file part of a pass.
type fileState struct {
	path    string
	depth   int
	conds   condStack
	out     []lexer.Token
	pending []lexer.Token // live tokens not yet macro-expanded
}

// flush expands the pending tokens with the current macro table.
func (ps *pass) flush(fs *fileState) {
	if len(fs.pending) == 0 {
		return
	}
	fs.out = append(fs.out, ps.exp.Expand(fs.pending)...)
	fs.pending = nil
}

// process runs the directive language over the tokens of one file. The
// returned tokens exclude the end-of-input token.
func (ps *pass) process(ctx context.Context, tokens []lexer.Token, path string, depth int) ([]lexer.Token, error) {
	ps.ancestors = append(ps.ancestors, path)
	defer func() { ps.ancestors = ps.ancestors[:len(ps.ancestors)-1] }()

	fs := &fileState{path: path, depth: depth}
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch tok.Type {
		case lexer.TokenEOF:
			i++
		case lexer.TokenDirective:
			args, next := directiveLine(tokens, i+1)
			if ps.cfg.IsCallDirective(tok.Keyword()) {
				if _, ok := requireTarget(args); !ok {
					// Not the whole-line require("name") form: ordinary code.
					if fs.conds.Active() {
						fs.pending = append(fs.pending, tok.WithType(lexer.TokenIdentifier))
					}
					i++
					continue
				}
			}

			ps.flush(fs)
			keepNewline, err := ps.directive(ctx, fs, tok, args)
			if err != nil {
				return nil, err
			}
			i = next
			if i < len(tokens) && tokens[i].Type == lexer.TokenNewline {
				if keepNewline && fs.conds.Active() {
					fs.pending = append(fs.pending, tokens[i])
				}
				i++
			}
		default:
			if fs.conds.Active() {
				fs.pending = append(fs.pending, tok)
			}
			i++
		}
	}
	ps.flush(fs)

	for _, opener := range fs.conds.Unclosed() {
		ps.diags.errorf(opener, "unterminated conditional block: #%s without #endif", opener.Keyword())
	}
	return fs.out, nil
}

// directiveLine collects the tokens of a logical directive line starting at
// i. A backslash directly before a newline continues the line. next is the
// index of the terminating newline or end-of-input token.
func directiveLine(tokens []lexer.Token, i int) (args []lexer.Token, next int) {
	for i < len(tokens) {
		tok := tokens[i]
		if tok.Type == lexer.TokenNewline || tok.Type == lexer.TokenEOF {
			return args, i
		}
		if tok.Is(lexer.TokenOperator, `\`) && i+1 < len(tokens) && tokens[i+1].Type == lexer.TokenNewline {
			args = append(args, tok.WithType(lexer.TokenWhitespace).WithValue(" "))
			i += 2
			continue
		}
		args = append(args, tok)
		i++
	}
	return args, i
}

// directive executes one directive. It reports whether the newline ending
// the directive line stays in the output.
func (ps *pass) directive(ctx context.Context, fs *fileState, dir lexer.Token, args []lexer.Token) (bool, error) {
	keyword := dir.Keyword()
	switch keyword {
	case "ifdef", "ifndef":
		if !fs.conds.Active() {
			fs.conds.Push(false, dir)
			return true, nil
		}
		name, ok := singleName(args)
		if !ok {
			ps.diags.errorf(dir, "#%s expects a single macro name", keyword)
			fs.conds.Push(false, dir)
			return true, nil
		}
		fs.conds.Push(ps.macros.IsDefined(name) == (keyword == "ifdef"), dir)
		return true, nil

	case "if":
		if !fs.conds.Active() {
			fs.conds.Push(false, dir)
			return true, nil
		}
		fs.conds.Push(ps.condition(dir, args), dir)
		return true, nil

	case "elif":
		if fs.conds.Depth() == 0 {
			ps.diags.errorf(dir, "#elif without #if")
			return true, nil
		}
		if fs.conds.top().sawElse {
			ps.diags.errorf(dir, "#elif after #else")
		}
		cond := false
		if fs.conds.Pending() {
			if name, ok := singleName(args); ok {
				cond = ps.macros.IsDefined(name)
			} else {
				cond = ps.condition(dir, args)
			}
		}
		fs.conds.Elif(cond)
		return true, nil

	case "else":
		if fs.conds.Depth() == 0 {
			ps.diags.errorf(dir, "#else without #if")
			return true, nil
		}
		if fs.conds.top().sawElse {
			ps.diags.errorf(dir, "#else after #else")
		}
		fs.conds.Else()
		return true, nil

	case "endif":
		if fs.conds.Depth() == 0 {
			ps.diags.errorf(dir, "#endif without #if")
			return true, nil
		}
		fs.conds.Pop()
		return true, nil
	}

	if !fs.conds.Active() {
		return false, nil
	}

	switch keyword {
	case "define":
		m, err := parseDefine(args)
		if err != nil {
			ps.diags.errorf(dir, "invalid #define: %v", err)
			return true, nil
		}
		ps.macros.Define(m)

	case "undef":
		name, ok := singleName(args)
		if !ok {
			ps.diags.errorf(dir, "#undef expects a single macro name")
			return true, nil
		}
		ps.macros.Undefine(name)

	case "include":
		target, ok := includeTarget(args)
		if !ok {
			ps.diags.errorf(dir, "malformed #include: expected a quoted file name")
			return false, nil
		}
		return false, ps.splice(ctx, fs, target, dir)

	case "error", "warning":
		msg := strings.TrimSpace(lexer.Reassemble(args))
		if msg == "" {
			msg = "#" + keyword
		}
		if keyword == "error" {
			ps.diags.errorf(dir, "%s", msg)
		} else {
			ps.diags.warnf(dir, "%s", msg)
		}

	default:
		if ps.cfg.IsCallDirective(keyword) {
			target, _ := requireTarget(args)
			return false, ps.splice(ctx, fs, target, dir)
		}
	}
	return true, nil
}

// splice merges an included file in place of its directive.
func (ps *pass) splice(ctx context.Context, fs *fileState, target string, dir lexer.Token) error {
	tokens, err := ps.include(ctx, target, dir, fs.depth)
	if err != nil {
		return err
	}
	fs.out = append(fs.out, tokens...)
	return nil
}

// condition evaluates an #if or #elif expression. Invalid expressions are
// reported and count as false.
func (ps *pass) condition(dir lexer.Token, args []lexer.Token) bool {
	v, err := evalCondition(args, ps.cfg, ps.macros)
	if err != nil {
		ps.diags.errorf(dir, "invalid #%s expression: %v", dir.Keyword(), err)
		return false
	}
	return v
}

// singleName returns the only identifier in args.
func singleName(args []lexer.Token) (string, bool) {
	sig := significant(args)
	if len(sig) != 1 || sig[0].Type != lexer.TokenIdentifier {
		return "", false
	}
	return sig[0].Value, true
}
