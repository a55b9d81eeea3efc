// Package literate pulls script code out of Markdown documents.
//
// Only fenced code blocks tagged with a script language are kept. Every
// other line is blanked rather than removed, so line numbers in the extracted
// source, and therefore in diagnostics and line markers, are line numbers of
// the Markdown file.
package literate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

var mdParser = goldmark.New()

// Block is one extracted code block. Lines are 1-based and inclusive.
type Block struct {
	Language  string `json:"language"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// Document is the extracted script source of a Markdown file.
type Document struct {
	Source string  `json:"source"`
	Blocks []Block `json:"blocks"`
}

// IsMarkdown reports whether filename looks like a Markdown file.
func IsMarkdown(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// InfoStrings returns the fence info strings that select code of lang.
func InfoStrings(lang lexer.Language) []string {
	switch lang {
	case lexer.LanguageLSL:
		return []string{"lsl"}
	case lexer.LanguageLuau:
		return []string{"luau", "lua"}
	}
	return nil
}

// Extract keeps the fenced code blocks whose info string is one of
// languages (case-insensitive) and blanks every other line.
func Extract(markdown []byte, languages ...string) (Document, error) {
	want := make(map[string]bool, len(languages))
	for _, l := range languages {
		want[strings.ToLower(l)] = true
	}

	lines := strings.Split(string(markdown), "\n")
	keep := make([]bool, len(lines))
	starts := lineStarts(markdown)

	var blocks []Block
	doc := mdParser.Parser().Parse(text.NewReader(markdown))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := strings.ToLower(string(fence.Language(markdown)))
		if !want[lang] || fence.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		segs := fence.Lines()
		b := Block{Language: lang}
		for i := 0; i < segs.Len(); i++ {
			line := lineOf(starts, segs.At(i).Start)
			keep[line] = true
			if i == 0 {
				b.StartLine = line + 1
			}
			b.EndLine = line + 1
		}
		blocks = append(blocks, b)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return Document{}, fmt.Errorf("walking markdown: %w", err)
	}

	for i := range lines {
		if !keep[i] {
			lines[i] = ""
		}
	}
	return Document{Source: strings.Join(lines, "\n"), Blocks: blocks}, nil
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the 0-based line holding offset.
func lineOf(starts []int, offset int) int {
	return sort.SearchInts(starts, offset+1) - 1
}
