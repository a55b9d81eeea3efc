// token.go defines the token model shared by both script dialects.
package lexer

import "strings"

// TokenType is the closed set of lexical categories produced by the lexer.
type TokenType int

const (
	TokenEOF                 TokenType = iota // end of input, empty text
	TokenIdentifier                           // names and keywords
	TokenNumber                               // integer, decimal and exponent literals
	TokenString                               // quoted or long-bracket string literal
	TokenVector                               // <x, y, z> or <x, y, z, s> (LSL only)
	TokenOperator                             // single or multi-character operator
	TokenDirective                            // #define, #include, require, ...
	TokenLineComment                          // comment running to end of line
	TokenBlockCommentStart                    // /* or --[==[
	TokenBlockCommentContent                  // everything between the delimiters
	TokenBlockCommentEnd                      // */ or ]==]
	TokenBraceOpen                            // {
	TokenBraceClose                           // }
	TokenParenOpen                            // (
	TokenParenClose                           // )
	TokenBracketOpen                          // [
	TokenBracketClose                         // ]
	TokenWhitespace                           // spaces and tabs
	TokenNewline                              // \n or \r\n
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "eof"
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenVector:
		return "vector"
	case TokenOperator:
		return "operator"
	case TokenDirective:
		return "directive"
	case TokenLineComment:
		return "line-comment"
	case TokenBlockCommentStart:
		return "block-comment-start"
	case TokenBlockCommentContent:
		return "block-comment"
	case TokenBlockCommentEnd:
		return "block-comment-end"
	case TokenBraceOpen:
		return "brace-open"
	case TokenBraceClose:
		return "brace-close"
	case TokenParenOpen:
		return "paren-open"
	case TokenParenClose:
		return "paren-close"
	case TokenBracketOpen:
		return "bracket-open"
	case TokenBracketClose:
		return "bracket-close"
	case TokenWhitespace:
		return "whitespace"
	case TokenNewline:
		return "newline"
	default:
		return "unknown"
	}
}

// IsOpenBracket reports whether t opens a brace, paren or bracket pair.
func (t TokenType) IsOpenBracket() bool {
	return t == TokenBraceOpen || t == TokenParenOpen || t == TokenBracketOpen
}

// IsCloseBracket reports whether t closes a brace, paren or bracket pair.
func (t TokenType) IsCloseBracket() bool {
	return t == TokenBraceClose || t == TokenParenClose || t == TokenBracketClose
}

// IsComment reports whether t is any part of a comment.
func (t TokenType) IsComment() bool {
	switch t {
	case TokenLineComment, TokenBlockCommentStart, TokenBlockCommentContent, TokenBlockCommentEnd:
		return true
	}
	return false
}

// IsSpace reports whether t is whitespace or a newline.
func (t TokenType) IsSpace() bool {
	return t == TokenWhitespace || t == TokenNewline
}

// Token is an immutable lexical unit. Value holds the exact source text, so
// concatenating the values of a token sequence reproduces the input.
type Token struct {
	Type   TokenType `json:"type"`
	Value  string    `json:"value"`
	Line   int       `json:"line"`   // 1-based
	Column int       `json:"column"` // 1-based, in runes
	File   string    `json:"file,omitempty"`
}

// Text returns the exact source text of the token.
func (t Token) Text() string {
	return t.Value
}

// Keyword returns the directive keyword without its prefix ("define" for
// "#define", "# define" or "require"). It is empty for non-directive tokens.
func (t Token) Keyword() string {
	if t.Type != TokenDirective {
		return ""
	}
	return strings.TrimLeftFunc(t.Value, func(r rune) bool {
		return !isIdentStart(r)
	})
}

// WithPosition returns a copy of the token placed at a different position.
func (t Token) WithPosition(file string, line, column int) Token {
	t.File = file
	t.Line = line
	t.Column = column
	return t
}

// WithValue returns a copy of the token with different text and the same
// position and type.
func (t Token) WithValue(value string) Token {
	t.Value = value
	return t
}

// WithType returns a copy of the token with a different tag and the same
// position and text.
func (t Token) WithType(typ TokenType) Token {
	t.Type = typ
	return t
}

// Newlines returns the number of line breaks inside the token text.
func (t Token) Newlines() int {
	return strings.Count(t.Value, "\n")
}

// Is reports whether the token has the given type and text.
func (t Token) Is(typ TokenType, value string) bool {
	return t.Type == typ && t.Value == value
}

// Reassemble concatenates the exact text of every token.
func Reassemble(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Value)
	}
	return sb.String()
}
