package preprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

func exprTable(t *testing.T) *MacroTable {
	t.Helper()
	table := NewMacroTable()
	for _, line := range []string{
		"#define ZERO 0",
		"#define THREE 3",
		"#define HEX 0x10",
		"#define FLAG",
		"#define NAME \"x\"",
	} {
		m, err := parseDefine(defineArgs(t, line))
		require.NoError(t, err)
		table.Define(m)
	}
	return table
}

func eval(t *testing.T, cfg *lexer.Config, table *MacroTable, expr string) (bool, error) {
	t.Helper()
	toks := lexer.Tokenize(expr, cfg)
	return evalCondition(toks[:len(toks)-1], cfg, table)
}

func TestEvalCondition(t *testing.T) {
	table := exprTable(t)
	tests := []struct {
		expr string
		want bool
	}{
		{"1", true},
		{"0", false},
		{"ZERO", false},
		{"THREE", true},
		{"FLAG", true},
		{"NAME", true},
		{"MISSING", false},
		{"defined(ZERO)", true},
		{"defined ZERO", true},
		{"!defined(MISSING)", true},
		{"THREE == 3", true},
		{"THREE != 3", false},
		{"HEX > 15", true},
		{"HEX >= 16 && HEX <= 16", true},
		{"THREE < 2 || FLAG", true},
		{"!(THREE > 2)", false},
		{"-1 < 0", true},
		{"(1 || 0) && !0", true},
		{"__LINE__ == 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := eval(t, lexer.LSL(), table, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalCondition_LuauAliases(t *testing.T) {
	table := exprTable(t)
	tests := []struct {
		expr string
		want bool
	}{
		{"FLAG and THREE", true},
		{"ZERO or not FLAG", false},
		{"not defined(MISSING)", true},
		{"THREE ~= 3", false},
		{"THREE == 3 && FLAG", true},
		{"ZERO || FLAG", true},
		{"THREE != 2", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := eval(t, lexer.Luau(), table, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalCondition_Errors(t *testing.T) {
	table := exprTable(t)
	tests := []struct {
		expr string
		err  string
	}{
		{"", "empty expression"},
		{"(1", `missing ")"`},
		{"1 +", `unexpected "+"`},
		{"1 2", `unexpected "2"`},
		{"defined", `"defined" expects a macro name`},
		{"defined(X", `missing ")" after defined(X`},
		{"1.5", `invalid integer "1.5"`},
		{"&&", `unexpected "&&"`},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := eval(t, lexer.LSL(), table, tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}
