package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// defineArgs lexes a #define line and returns the tokens after the keyword.
func defineArgs(t *testing.T, line string) []lexer.Token {
	t.Helper()
	toks := lexer.New(line, "m.lsl", lexer.LSL()).Tokenize()
	require.Equal(t, lexer.TokenDirective, toks[0].Type)
	args, _ := directiveLine(toks, 1)
	return args
}

func TestParseDefine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		params   []string
		funcLike bool
		body     string
	}{
		{"object", "#define PI 3.14159", "PI", nil, false, "3.14159"},
		{"empty body", "#define GUARD", "GUARD", nil, false, ""},
		{"body keeps inner spacing", "#define MSG  \"a\"  +  \"b\"  ", "MSG", nil, false, `"a"  +  "b"`},
		{"space before paren is object-like", "#define P (1)", "P", nil, false, "(1)"},
		{"function", "#define MAX(a, b) ((a) > (b) ? (a) : (b))", "MAX", []string{"a", "b"}, true, "((a) > (b) ? (a) : (b))"},
		{"zero params", "#define NOW() llGetUnixTime()", "NOW", []string{}, true, "llGetUnixTime()"},
		{"comment in body", "#define X 1 /* one */ + 2", "X", nil, false, "1     + 2"},
		{"continued", "#define LONG a \\\n  b", "LONG", nil, false, "a    b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := parseDefine(defineArgs(t, tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, m.Name)
			assert.Equal(t, tt.params, m.Params)
			assert.Equal(t, tt.funcLike, m.FunctionLike)
			assert.Equal(t, tt.body, m.BodyText())
		})
	}
}

func TestParseDefine_Errors(t *testing.T) {
	tests := []struct {
		line string
		err  string
	}{
		{"#define", "missing macro name"},
		{"#define 42", "missing macro name"},
		{"#define F(a,", "unterminated parameter list"},
		{"#define F(a,)", "missing parameter name"},
		{"#define F(a, a)", "duplicate parameter"},
		{"#define F(1)", "unexpected \"1\""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := parseDefine(defineArgs(t, tt.line))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestParseDefineFlag(t *testing.T) {
	m, err := parseDefineFlag("DEBUG", lexer.LSL())
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", m.Name)
	assert.Equal(t, "1", m.BodyText())

	m, err = parseDefineFlag("GREETING=\"hello world\"", lexer.LSL())
	require.NoError(t, err)
	assert.Equal(t, `"hello world"`, m.BodyText())

	m, err = parseDefineFlag("EMPTY=", lexer.LSL())
	require.NoError(t, err)
	assert.Empty(t, m.Body)

	_, err = parseDefineFlag("A B=1", lexer.LSL())
	require.Error(t, err)
}

func TestMacroTable(t *testing.T) {
	table := NewMacroTable()
	assert.Empty(t, table.Names())
	assert.True(t, table.IsDefined("__FILE__"))
	assert.True(t, table.IsDefined("__LINE__"))
	assert.False(t, table.IsDefined("X"))

	table.Define(&Macro{Name: "X"})
	table.Define(&Macro{Name: "A"})
	assert.True(t, table.IsDefined("X"))
	assert.Equal(t, []string{"A", "X"}, table.Names())

	table.Undefine("X")
	table.Undefine("NEVER_DEFINED")
	_, ok := table.Lookup("X")
	assert.False(t, ok)
	assert.Equal(t, []string{"A"}, table.Names())
}

func TestExpand_ActiveSetIsRestored(t *testing.T) {
	table := NewMacroTable()
	diags := &diagnostics{}
	e := &expander{macros: table, diags: diags}

	for _, line := range []string{"#define A B", "#define B A"} {
		m, err := parseDefine(defineArgs(t, line))
		require.NoError(t, err)
		table.Define(m)
	}

	toks := lexer.Tokenize("A A B", lexer.LSL())
	out := e.Expand(toks[:len(toks)-1])
	assert.Equal(t, "A A B", lexer.Reassemble(out))
	assert.Empty(t, diags.list)
}
