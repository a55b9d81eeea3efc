// config.go holds the declarative dialect descriptions that drive the lexer.
package lexer

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Language names a supported script dialect.
type Language string

const (
	LanguageLSL  Language = "lsl"  // C-like statement language
	LanguageLuau Language = "luau" // Lua-like language
)

// BlockComment describes a block comment syntax. A leveled comment uses Lua
// long brackets: Start is the prefix before the bracket ("--"), and the
// opening "[" "="* "[" must be closed by "]" with the same number of "=" and "]".
type BlockComment struct {
	Start   string
	End     string
	Leveled bool
}

// BracketPair maps the open and close characters of one bracket kind.
type BracketPair struct {
	Open      rune
	Close     rune
	OpenType  TokenType
	CloseType TokenType
}

// Config is a dialect description. The lexer has no dialect-specific code
// and reads everything it needs from here.
type Config struct {
	Language         Language
	Extensions       []string // file extensions tried when resolving includes
	LineComment      string
	BlockComments    []BlockComment
	StringDelimiters string
	LongStrings      bool     // Lua [[...]] / [==[...]==] strings
	Operators        []string // multi-character operators
	Brackets         []BracketPair
	DirectivePrefix  string
	Directives       []string
	CallDirectives   []string // call heads such as require(...) treated as directives
	LogicalAliases   map[string]string
	VectorLiterals   bool

	once       sync.Once
	sortedOps  []string
	directives map[string]bool
	calls      map[string]bool
}

// prepare builds the lookup structures once. Operators are ordered longest
// first so matching is greedy. The public fields must not change afterwards.
func (c *Config) prepare() {
	c.once.Do(func() {
		c.sortedOps = append([]string(nil), c.Operators...)
		sort.SliceStable(c.sortedOps, func(i, j int) bool {
			return len(c.sortedOps[i]) > len(c.sortedOps[j])
		})
		c.directives = make(map[string]bool, len(c.Directives))
		for _, d := range c.Directives {
			c.directives[d] = true
		}
		c.calls = make(map[string]bool, len(c.CallDirectives))
		for _, d := range c.CallDirectives {
			c.calls[d] = true
		}
	})
}

// IsDirective reports whether keyword is a recognized directive keyword.
func (c *Config) IsDirective(keyword string) bool {
	c.prepare()
	return c.directives[keyword] || c.calls[keyword]
}

// IsCallDirective reports whether keyword is a call-style directive.
func (c *Config) IsCallDirective(keyword string) bool {
	c.prepare()
	return c.calls[keyword]
}

// MarkerPrefix returns the comment prefix used for line markers.
func (c *Config) MarkerPrefix() string {
	return c.LineComment
}

// Alias returns the canonical operator for a logical alias, or text itself.
func (c *Config) Alias(text string) string {
	if v, ok := c.LogicalAliases[text]; ok {
		return v
	}
	return text
}

var defaultBrackets = []BracketPair{
	{Open: '{', Close: '}', OpenType: TokenBraceOpen, CloseType: TokenBraceClose},
	{Open: '(', Close: ')', OpenType: TokenParenOpen, CloseType: TokenParenClose},
	{Open: '[', Close: ']', OpenType: TokenBracketOpen, CloseType: TokenBracketClose},
}

var defaultDirectives = []string{
	"define", "undef", "ifdef", "ifndef", "if", "elif", "else", "endif", "include", "error", "warning",
}

// LSL returns the configuration of the C-like dialect.
func LSL() *Config {
	c := &Config{
		Language:         LanguageLSL,
		Extensions:       []string{".lsl"},
		LineComment:      "//",
		BlockComments:    []BlockComment{{Start: "/*", End: "*/"}},
		StringDelimiters: `"`,
		Operators: []string{
			"<<=", ">>=",
			"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
			"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
		},
		Brackets:        defaultBrackets,
		DirectivePrefix: "#",
		Directives:      defaultDirectives,
		LogicalAliases:  map[string]string{},
		VectorLiterals:  true,
	}
	c.prepare()
	return c
}

// Luau returns the configuration of the Lua-like dialect.
func Luau() *Config {
	c := &Config{
		Language:         LanguageLuau,
		Extensions:       []string{".luau", ".lua"},
		LineComment:      "--",
		BlockComments:    []BlockComment{{Start: "--", Leveled: true}},
		StringDelimiters: "\"'`",
		LongStrings:      true,
		Operators: []string{
			"...", "..=", "//=",
			"..", "==", "~=", "<=", ">=", "//", "+=", "-=", "*=", "/=", "%=", "^=", "::", "->",
		},
		Brackets:        defaultBrackets,
		DirectivePrefix: "#",
		Directives:      defaultDirectives,
		CallDirectives:  []string{"require"},
		LogicalAliases: map[string]string{
			"and": "&&",
			"or":  "||",
			"not": "!",
			"~=":  "!=",
		},
	}
	c.prepare()
	return c
}

// ConfigFor returns the built-in configuration for a language name.
func ConfigFor(lang Language) (*Config, error) {
	switch Language(strings.ToLower(string(lang))) {
	case LanguageLSL:
		return LSL(), nil
	case LanguageLuau, "lua":
		return Luau(), nil
	default:
		return nil, fmt.Errorf("unknown language %q (valid: lsl, luau)", lang)
	}
}

// DetectLanguage picks a dialect from a file name extension.
func DetectLanguage(filename string) (Language, bool) {
	lower := strings.ToLower(filename)
	for _, c := range []*Config{LSL(), Luau()} {
		for _, ext := range c.Extensions {
			if strings.HasSuffix(lower, ext) {
				return c.Language, true
			}
		}
	}
	return "", false
}
