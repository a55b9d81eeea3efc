package preprocessor

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

var errEmptyExpr = errors.New("empty expression")

// exprParser evaluates #if and #elif conditions:
//
//	expr  = and *( "||" and )
//	and   = rel *( "&&" rel )
//	rel   = unary *( ( "==" | "!=" | "<" | ">" | "<=" | ">=" ) unary )
//	unary = ( "!" | "-" ) unary | term
//	term  = "defined" ( "(" ident ")" | ident ) | integer | ident | "(" expr ")"
//
// An identifier is 0 when undefined, 1 when defined with an empty body, the
// leading integer of its body when there is one, and 1 otherwise.
type exprParser struct {
	toks   []lexer.Token
	pos    int
	macros *MacroTable
}

// joinable lists the two-character operators a dialect may lex as two
// separate characters.
var joinable = map[string]bool{
	"&&": true, "||": true, "==": true, "!=": true, "<=": true, ">=": true,
}

// evalCondition evaluates the tokens following #if or #elif.
func evalCondition(args []lexer.Token, cfg *lexer.Config, macros *MacroTable) (bool, error) {
	p := &exprParser{toks: prepareExpr(args, cfg), macros: macros}
	if len(p.toks) == 0 {
		return false, errEmptyExpr
	}
	v, err := p.or()
	if err != nil {
		return false, err
	}
	if p.pos < len(p.toks) {
		return false, fmt.Errorf("unexpected %q", p.toks[p.pos].Value)
	}
	return v != 0, nil
}

// prepareExpr drops layout tokens, applies the dialect's logical aliases
// and joins adjacent operator characters.
func prepareExpr(args []lexer.Token, cfg *lexer.Config) []lexer.Token {
	var out []lexer.Token
	for _, tok := range args {
		if tok.Type.IsSpace() || tok.Type.IsComment() {
			continue
		}
		if tok.Type == lexer.TokenIdentifier || tok.Type == lexer.TokenOperator {
			if alias := cfg.Alias(tok.Value); alias != tok.Value {
				tok = tok.WithType(lexer.TokenOperator).WithValue(alias)
			}
		}
		if n := len(out); n > 0 && tok.Type == lexer.TokenOperator && out[n-1].Type == lexer.TokenOperator {
			prev := out[n-1]
			adjacent := prev.Line == tok.Line && prev.Column+utf8.RuneCountInString(prev.Value) == tok.Column
			if joined := prev.Value + tok.Value; adjacent && joinable[joined] {
				out[n-1] = prev.WithValue(joined)
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

func (p *exprParser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.toks) {
		return lexer.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *exprParser) acceptOp(ops ...string) (string, bool) {
	tok, ok := p.peek()
	if !ok || tok.Type != lexer.TokenOperator {
		return "", false
	}
	for _, op := range ops {
		if tok.Value == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *exprParser) or() (int64, error) {
	v, err := p.and()
	if err != nil {
		return 0, err
	}
	for {
		if _, ok := p.acceptOp("||"); !ok {
			return v, nil
		}
		r, err := p.and()
		if err != nil {
			return 0, err
		}
		v = boolInt(v != 0 || r != 0)
	}
}

func (p *exprParser) and() (int64, error) {
	v, err := p.rel()
	if err != nil {
		return 0, err
	}
	for {
		if _, ok := p.acceptOp("&&"); !ok {
			return v, nil
		}
		r, err := p.rel()
		if err != nil {
			return 0, err
		}
		v = boolInt(v != 0 && r != 0)
	}
}

func (p *exprParser) rel() (int64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.acceptOp("==", "!=", "<=", ">=", "<", ">")
		if !ok {
			return v, nil
		}
		r, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case "==":
			v = boolInt(v == r)
		case "!=":
			v = boolInt(v != r)
		case "<=":
			v = boolInt(v <= r)
		case ">=":
			v = boolInt(v >= r)
		case "<":
			v = boolInt(v < r)
		case ">":
			v = boolInt(v > r)
		}
	}
}

func (p *exprParser) unary() (int64, error) {
	if op, ok := p.acceptOp("!", "-"); ok {
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "!" {
			return boolInt(v == 0), nil
		}
		return -v, nil
	}
	return p.term()
}

func (p *exprParser) term() (int64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	p.pos++

	switch tok.Type {
	case lexer.TokenNumber:
		v, err := strconv.ParseInt(tok.Value, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", tok.Value)
		}
		return v, nil
	case lexer.TokenParenOpen:
		v, err := p.or()
		if err != nil {
			return 0, err
		}
		if next, ok := p.peek(); !ok || next.Type != lexer.TokenParenClose {
			return 0, fmt.Errorf("missing \")\"")
		}
		p.pos++
		return v, nil
	case lexer.TokenIdentifier:
		if tok.Value == "defined" {
			return p.defined()
		}
		return p.value(tok), nil
	}
	return 0, fmt.Errorf("unexpected %q", tok.Value)
}

func (p *exprParser) defined() (int64, error) {
	paren := false
	if next, ok := p.peek(); ok && next.Type == lexer.TokenParenOpen {
		paren = true
		p.pos++
	}
	name, ok := p.peek()
	if !ok || name.Type != lexer.TokenIdentifier {
		return 0, fmt.Errorf("\"defined\" expects a macro name")
	}
	p.pos++
	if paren {
		if next, ok := p.peek(); !ok || next.Type != lexer.TokenParenClose {
			return 0, fmt.Errorf("missing \")\" after defined(%s", name.Value)
		}
		p.pos++
	}
	return boolInt(p.macros.IsDefined(name.Value)), nil
}

func (p *exprParser) value(tok lexer.Token) int64 {
	m, ok := p.macros.Lookup(tok.Value)
	if !ok {
		switch tok.Value {
		case macroLine:
			return int64(tok.Line)
		case macroFile:
			return 1
		}
		return 0
	}
	for _, b := range m.Body {
		if b.Type.IsSpace() || b.Type.IsComment() {
			continue
		}
		if b.Type == lexer.TokenNumber {
			if v, err := strconv.ParseInt(b.Value, 0, 64); err == nil {
				return v
			}
		}
		break
	}
	return 1
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
