// Package lexer converts script text into a lossless token sequence.
//
// The lexer is dialect-agnostic: comment syntax, string delimiters,
// operators, brackets and directive keywords all come from a Config. It
// never fails; malformed input degrades to best-effort tokens, and the
// concatenated token text always reproduces the input.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans one source text.
type Lexer struct {
	cfg  *Config
	src  string
	file string

	pos       int
	line      int
	col       int
	lineStart bool

	// Block comments produce up to three tokens at once; the extra ones
	// wait here.
	pending []Token
}

// New creates a lexer for source. filename is recorded on every token.
func New(source, filename string, cfg *Config) *Lexer {
	cfg.prepare()
	return &Lexer{
		cfg:       cfg,
		src:       source,
		file:      filename,
		line:      1,
		col:       1,
		lineStart: true,
	}
}

// Tokenize lexes source with cfg and no file name.
func Tokenize(source string, cfg *Config) []Token {
	return New(source, "", cfg).Tokenize()
}

// Tokenize returns every remaining token, terminated by TokenEOF.
func (lx *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := lx.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

// NextToken returns the next token. After the input is exhausted it keeps
// returning TokenEOF.
func (lx *Lexer) NextToken() Token {
	if len(lx.pending) > 0 {
		tok := lx.pending[0]
		lx.pending = lx.pending[1:]
		return tok
	}
	if lx.pos >= len(lx.src) {
		return Token{Type: TokenEOF, Line: lx.line, Column: lx.col, File: lx.file}
	}
	return lx.scan()
}

func (lx *Lexer) scan() Token {
	rest := lx.src[lx.pos:]
	ch := rest[0]

	switch {
	case ch == '\n':
		return lx.emit(TokenNewline, 1)
	case ch == '\r' && len(rest) > 1 && rest[1] == '\n':
		return lx.emit(TokenNewline, 2)
	case isSpace(rest, 0):
		n := 1
		for n < len(rest) && isSpace(rest, n) {
			n++
		}
		return lx.emit(TokenWhitespace, n)
	}

	if lx.lineStart {
		if n, ok := lx.scanDirective(rest); ok {
			return lx.emit(TokenDirective, n)
		}
	}

	if tok, ok := lx.scanComment(rest); ok {
		return tok
	}

	if lx.cfg.LongStrings {
		if level, openLen, ok := longBracketOpen(rest); ok {
			closer := "]" + strings.Repeat("=", level) + "]"
			end := strings.Index(rest[openLen:], closer)
			if end < 0 {
				return lx.emit(TokenString, len(rest))
			}
			return lx.emit(TokenString, openLen+end+len(closer))
		}
	}

	if strings.IndexByte(lx.cfg.StringDelimiters, ch) >= 0 {
		return lx.emit(TokenString, scanString(rest))
	}

	if lx.cfg.VectorLiterals && ch == '<' {
		if n, ok := scanVector(rest); ok {
			return lx.emit(TokenVector, n)
		}
	}

	if isDigit(ch) || (ch == '.' && len(rest) > 1 && isDigit(rest[1])) {
		return lx.emit(TokenNumber, scanNumber(rest))
	}

	for _, op := range lx.cfg.sortedOps {
		if strings.HasPrefix(rest, op) {
			return lx.emit(TokenOperator, len(op))
		}
	}

	r, size := utf8.DecodeRuneInString(rest)
	for _, bp := range lx.cfg.Brackets {
		switch r {
		case bp.Open:
			return lx.emit(bp.OpenType, size)
		case bp.Close:
			return lx.emit(bp.CloseType, size)
		}
	}

	if isIdentStart(r) {
		return lx.emit(TokenIdentifier, identEnd(rest, 0))
	}

	return lx.emit(TokenOperator, size)
}

// scanDirective recognizes a directive at the start of a logical line:
// the directive prefix, optional blanks and a known keyword, or a call-style
// directive name followed by "(".
func (lx *Lexer) scanDirective(rest string) (int, bool) {
	if prefix := lx.cfg.DirectivePrefix; prefix != "" && strings.HasPrefix(rest, prefix) {
		i := len(prefix)
		for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
			i++
		}
		j := identEnd(rest, i)
		if j > i && lx.cfg.directives[rest[i:j]] {
			return j, true
		}
		return 0, false
	}

	j := identEnd(rest, 0)
	if j == 0 || !lx.cfg.calls[rest[:j]] {
		return 0, false
	}
	k := j
	for k < len(rest) && (rest[k] == ' ' || rest[k] == '\t') {
		k++
	}
	if k < len(rest) && rest[k] == '(' {
		return j, true
	}
	return 0, false
}

func (lx *Lexer) scanComment(rest string) (Token, bool) {
	for _, bc := range lx.cfg.BlockComments {
		if !strings.HasPrefix(rest, bc.Start) {
			continue
		}
		if bc.Leveled {
			level, openLen, ok := longBracketOpen(rest[len(bc.Start):])
			if !ok {
				continue
			}
			closer := "]" + strings.Repeat("=", level) + "]"
			return lx.blockComment(len(bc.Start)+openLen, closer), true
		}
		return lx.blockComment(len(bc.Start), bc.End), true
	}

	if lc := lx.cfg.LineComment; lc != "" && strings.HasPrefix(rest, lc) {
		n := strings.IndexByte(rest, '\n')
		if n < 0 {
			n = len(rest)
		} else if n > 0 && rest[n-1] == '\r' {
			n--
		}
		return lx.emit(TokenLineComment, n), true
	}
	return Token{}, false
}

// blockComment emits the opening delimiter and queues the content and the
// closing delimiter. An unterminated comment runs to the end of input and
// has no end token.
func (lx *Lexer) blockComment(startLen int, closer string) Token {
	start := lx.emit(TokenBlockCommentStart, startLen)
	body := lx.src[lx.pos:]
	idx := strings.Index(body, closer)
	if idx < 0 {
		if len(body) > 0 {
			lx.pending = append(lx.pending, lx.emit(TokenBlockCommentContent, len(body)))
		}
		return start
	}
	if idx > 0 {
		lx.pending = append(lx.pending, lx.emit(TokenBlockCommentContent, idx))
	}
	lx.pending = append(lx.pending, lx.emit(TokenBlockCommentEnd, len(closer)))
	return start
}

// emit consumes n bytes as a token of type typ.
func (lx *Lexer) emit(typ TokenType, n int) Token {
	text := lx.src[lx.pos : lx.pos+n]
	tok := Token{Type: typ, Value: text, Line: lx.line, Column: lx.col, File: lx.file}
	lx.pos += n
	for _, r := range text {
		if r == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
	}
	switch typ {
	case TokenNewline:
		lx.lineStart = true
	case TokenWhitespace:
	default:
		lx.lineStart = false
	}
	return tok
}

// longBracketOpen matches "[" "="* "[" and returns the level and length.
func longBracketOpen(s string) (level, n int, ok bool) {
	if len(s) < 2 || s[0] != '[' {
		return 0, 0, false
	}
	i := 1
	for i < len(s) && s[i] == '=' {
		i++
	}
	if i < len(s) && s[i] == '[' {
		return i - 1, i + 1, true
	}
	return 0, 0, false
}

// scanString returns the length of the string literal at the start of s.
// An unterminated literal stops before the end of the line.
func scanString(s string) int {
	delim := s[0]
	i := 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case delim:
			return i + 1
		case '\n':
			if s[i-1] == '\r' {
				return i - 1
			}
			return i
		}
		i++
	}
	return len(s)
}

// scanNumber returns the length of the numeric literal at the start of s.
func scanNumber(s string) int {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		i := 2
		for i < len(s) && isHexDigit(s[i]) {
			i++
		}
		return i
	}
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		next := i + 1
		if next < len(s) && isDigit(s[next]) {
			i = next
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		} else if i > 0 && (next >= len(s) || s[next] != '.') {
			i = next
		}
	}
	if i > 0 && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			i = j
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
	}
	return i
}

// scanVector tries to read <a, b, c> or <a, b, c, d> where every component
// is an optionally signed number or (dotted) identifier. It backtracks by
// reporting false, leaving "<" to be lexed as an operator.
func scanVector(s string) (int, bool) {
	i := 1
	components := 0
	for {
		i = skipBlanks(s, i)
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			i = skipBlanks(s, i+1)
		}
		if i >= len(s) {
			return 0, false
		}
		switch {
		case isDigit(s[i]) || (s[i] == '.' && i+1 < len(s) && isDigit(s[i+1])):
			i += scanNumber(s[i:])
		default:
			j := identEnd(s, i)
			if j == i {
				return 0, false
			}
			for j < len(s) && s[j] == '.' {
				k := identEnd(s, j+1)
				if k == j+1 {
					break
				}
				j = k
			}
			i = j
		}
		components++
		i = skipBlanks(s, i)
		if i >= len(s) {
			return 0, false
		}
		switch s[i] {
		case ',':
			if components == 4 {
				return 0, false
			}
			i++
		case '>':
			if components == 3 || components == 4 {
				return i + 1, true
			}
			return 0, false
		default:
			return 0, false
		}
	}
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// identEnd returns the end offset of the identifier starting at i, or i.
func identEnd(s string, i int) int {
	r, size := utf8.DecodeRuneInString(s[i:])
	if size == 0 || !isIdentStart(r) {
		return i
	}
	i += size
	for i < len(s) {
		r, size = utf8.DecodeRuneInString(s[i:])
		if !isIdentPart(r) {
			break
		}
		i += size
	}
	return i
}

func isSpace(s string, i int) bool {
	switch s[i] {
	case ' ', '\t', '\f', '\v':
		return true
	case '\r':
		return i+1 >= len(s) || s[i+1] != '\n'
	}
	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
