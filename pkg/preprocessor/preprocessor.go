// Package preprocessor runs the directive language shared by the LSL and
// Luau dialects: macro definition and expansion, conditional compilation and
// file inclusion. It produces processed text together with a mapping from
// output lines back to the files and lines they came from.
//
// A Preprocessor holds only immutable configuration. Every call to Process
// allocates its own macro table, include bookkeeping and diagnostics, so
// independent documents may be processed concurrently.
package preprocessor

import (
	"context"
	"errors"
	"log"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/host"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/linemap"
)

// DefaultMaxIncludeDepth is used when Settings reports a negative depth.
// A depth of zero allows no includes.
const DefaultMaxIncludeDepth = 5

// Settings is the configuration consulted on every pass.
type Settings interface {
	Enabled() bool
	IncludePaths() []string
	MaxIncludeDepth() int
}

// StaticSettings is a fixed Settings value. A nil MaxDepth means the
// default depth.
type StaticSettings struct {
	Disabled bool
	Paths    []string
	MaxDepth *int
}

func (s StaticSettings) Enabled() bool          { return !s.Disabled }
func (s StaticSettings) IncludePaths() []string { return s.Paths }

func (s StaticSettings) MaxIncludeDepth() int {
	if s.MaxDepth == nil {
		return -1
	}
	return *s.MaxDepth
}

// Options tune a Preprocessor.
type Options struct {
	// Defines are predefined macros, NAME or NAME=VALUE.
	Defines []string

	// NoLineMarkers leaves the marker comments out of the content. The
	// mappings are still returned.
	NoLineMarkers bool

	// Logger, when set, receives every diagnostic as it is recorded.
	Logger *log.Logger
}

// Result is the outcome of one pass. On a fatal error Content is the
// original input. Macros names the macros still defined when the pass ended.
type Result struct {
	Success      bool              `json:"success"`
	Content      string            `json:"content"`
	Issues       []Diagnostic      `json:"issues"`
	LineMappings []linemap.Mapping `json:"lineMappings"`
	Macros       []string          `json:"macros,omitempty"`
}

// Preprocessor processes documents of one dialect.
type Preprocessor struct {
	cfg      *lexer.Config
	host     host.Host
	settings Settings
	opts     Options
}

// New returns a preprocessor. A nil host serves no files and nil settings
// mean enabled, no include paths and the default depth.
func New(cfg *lexer.Config, h host.Host, settings Settings, opts Options) *Preprocessor {
	if h == nil {
		h = host.NewMemoryHost(nil)
	}
	if settings == nil {
		settings = StaticSettings{}
	}
	return &Preprocessor{cfg: cfg, host: h, settings: settings, opts: opts}
}

// Language returns the dialect this preprocessor handles.
func (p *Preprocessor) Language() lexer.Language {
	return p.cfg.Language
}

// Process preprocesses source, which was read from path. Includes are
// resolved relative to path. Process never fails outright: problems are
// reported in Result.Issues and Success is false when any of them is an
// error.
func (p *Preprocessor) Process(ctx context.Context, source, path string) Result {
	if !p.settings.Enabled() {
		return Result{Success: true, Content: source}
	}

	ps := p.newPass()
	ps.seen[path] = true

	tokens, eof, err := ps.root(ctx, source, path)
	if err != nil {
		if !errors.Is(err, errIncludeDepth) {
			ps.diags.errorf(lexer.Token{File: path}, "preprocessing aborted: %v", err)
		}
		return Result{Success: false, Content: source, Issues: ps.diags.list}
	}

	content, mappings := render(tokens, eof, p.cfg.MarkerPrefix(), !p.opts.NoLineMarkers)
	return Result{
		Success:      !ps.diags.hasErrors(),
		Content:      content,
		Issues:       ps.diags.list,
		LineMappings: mappings,
		Macros:       ps.macros.Names(),
	}
}

func (p *Preprocessor) maxDepth() int {
	if d := p.settings.MaxIncludeDepth(); d >= 0 {
		return d
	}
	return DefaultMaxIncludeDepth
}

// pass is the mutable state of one Process call.
type pass struct {
	*Preprocessor
	macros    *MacroTable
	exp       *expander
	diags     *diagnostics
	seen      map[string]bool
	ancestors []string
}

func (p *Preprocessor) newPass() *pass {
	ps := &pass{
		Preprocessor: p,
		macros:       NewMacroTable(),
		diags:        &diagnostics{logger: p.opts.Logger},
		seen:         make(map[string]bool),
	}
	ps.exp = &expander{macros: ps.macros, diags: ps.diags}
	for _, def := range p.opts.Defines {
		m, err := parseDefineFlag(def, p.cfg)
		if err != nil {
			ps.diags.errorf(lexer.Token{File: "<command line>"}, "invalid define %q: %v", def, err)
			continue
		}
		ps.macros.Define(m)
	}
	return ps
}

// root processes the top-level document and returns its tokens with the
// end-of-input token separately.
func (ps *pass) root(ctx context.Context, source, path string) ([]lexer.Token, lexer.Token, error) {
	tokens := lexer.New(source, path, ps.cfg).Tokenize()
	eof := tokens[len(tokens)-1]
	out, err := ps.process(ctx, tokens, path, 0)
	return out, eof, err
}
