package preprocessor

import (
	"strings"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/linemap"
)

// render serializes tokens into text. Each output line is attributed to the
// position of the newline that ends it; the final unterminated line, if any,
// to eof. A marker comment precedes every line that starts a discontinuity
// when markers is set.
func render(tokens []lexer.Token, eof lexer.Token, prefix string, markers bool) (string, []linemap.Mapping) {
	var (
		sb   strings.Builder
		line strings.Builder
		b    linemap.Builder
	)
	emit := func(file string, n int) {
		if m, ok := b.Next(file, n); ok && markers {
			sb.WriteString(linemap.Marker(prefix, m.OriginalLine, m.SourceFile))
			sb.WriteByte('\n')
		}
		sb.WriteString(line.String())
		line.Reset()
	}

	for _, tok := range tokens {
		text := tok.Value
		k := 0
		for {
			idx := strings.IndexByte(text, '\n')
			if idx < 0 {
				line.WriteString(text)
				break
			}
			line.WriteString(text[:idx+1])
			emit(tok.File, tok.Line+k)
			text = text[idx+1:]
			k++
		}
	}
	if line.Len() > 0 {
		emit(eof.File, eof.Line)
	}
	return sb.String(), b.Mappings()
}
