package preprocessor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// Names of the macros whose value depends on where they are used.
const (
	macroFile = "__FILE__"
	macroLine = "__LINE__"
)

// Macro is a named token substitution. A function-like macro with no
// parameters is written NAME() and still requires call syntax.
type Macro struct {
	Name         string
	Params       []string
	FunctionLike bool
	Body         []lexer.Token
}

// paramIndex returns the position of name in the parameter list, or -1.
func (m *Macro) paramIndex(name string) int {
	for i, p := range m.Params {
		if p == name {
			return i
		}
	}
	return -1
}

// BodyText returns the macro body as source text.
func (m *Macro) BodyText() string {
	return lexer.Reassemble(m.Body)
}

// MacroTable holds the macro definitions of one preprocessing pass.
type MacroTable struct {
	macros map[string]*Macro
}

// NewMacroTable returns an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

// Define stores m, replacing any previous definition of the same name.
func (t *MacroTable) Define(m *Macro) {
	t.macros[m.Name] = m
}

// Undefine removes name. Removing an unknown name is not an error.
func (t *MacroTable) Undefine(name string) {
	delete(t.macros, name)
}

// Lookup returns the definition of name.
func (t *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// IsDefined reports whether name is defined, counting __FILE__ and __LINE__.
func (t *MacroTable) IsDefined(name string) bool {
	if _, ok := t.macros[name]; ok {
		return true
	}
	return name == macroFile || name == macroLine
}

// Names returns the defined macro names in sorted order.
func (t *MacroTable) Names() []string {
	names := make([]string, 0, len(t.macros))
	for n := range t.macros {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// parseDefine builds a macro from the tokens following a #define keyword.
// The body keeps its inner whitespace; comments become a single space and
// the body is trimmed at both ends.
func parseDefine(args []lexer.Token) (*Macro, error) {
	i := skipSpace(args, 0)
	if i >= len(args) || args[i].Type != lexer.TokenIdentifier {
		return nil, fmt.Errorf("missing macro name")
	}
	m := &Macro{Name: args[i].Value}
	i++

	// A parameter list must follow the name with no space in between.
	if i < len(args) && args[i].Type == lexer.TokenParenOpen {
		m.FunctionLike = true
		m.Params = []string{}
		i++
		expectName := true
		closed := false
		for i < len(args) && !closed {
			tok := args[i]
			switch {
			case tok.Type.IsSpace() || tok.Type.IsComment():
			case tok.Type == lexer.TokenParenClose:
				if expectName && len(m.Params) > 0 {
					return nil, fmt.Errorf("missing parameter name in %q", m.Name)
				}
				closed = true
			case tok.Type == lexer.TokenIdentifier && expectName:
				if m.paramIndex(tok.Value) >= 0 {
					return nil, fmt.Errorf("duplicate parameter %q in %q", tok.Value, m.Name)
				}
				m.Params = append(m.Params, tok.Value)
				expectName = false
			case tok.Is(lexer.TokenOperator, ",") && !expectName:
				expectName = true
			default:
				return nil, fmt.Errorf("unexpected %q in parameter list of %q", tok.Value, m.Name)
			}
			i++
		}
		if !closed {
			return nil, fmt.Errorf("unterminated parameter list of %q", m.Name)
		}
	}

	var body []lexer.Token
	for _, tok := range args[i:] {
		if tok.Type.IsComment() {
			tok = tok.WithType(lexer.TokenWhitespace).WithValue(" ")
		}
		body = append(body, tok)
	}
	m.Body = trimSpace(body)
	return m, nil
}

// parseDefineFlag turns a command line definition NAME or NAME=VALUE into a
// macro. The value defaults to 1.
func parseDefineFlag(def string, cfg *lexer.Config) (*Macro, error) {
	name, value, found := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !found {
		value = "1"
	}
	toks := lexer.New(name, "", cfg).Tokenize()
	if len(toks) != 2 || toks[0].Type != lexer.TokenIdentifier {
		return nil, fmt.Errorf("invalid macro name %q", name)
	}
	var body []lexer.Token
	for _, tok := range lexer.New(value, "<command line>", cfg).Tokenize() {
		if tok.Type == lexer.TokenEOF || tok.Type == lexer.TokenNewline {
			continue
		}
		body = append(body, tok)
	}
	return &Macro{Name: name, Body: trimSpace(body)}, nil
}

func skipSpace(tokens []lexer.Token, i int) int {
	for i < len(tokens) && tokens[i].Type.IsSpace() {
		i++
	}
	return i
}

// trimSpace drops whitespace and newline tokens at both ends.
func trimSpace(tokens []lexer.Token) []lexer.Token {
	start, end := 0, len(tokens)
	for start < end && tokens[start].Type.IsSpace() {
		start++
	}
	for end > start && tokens[end-1].Type.IsSpace() {
		end--
	}
	return tokens[start:end]
}
