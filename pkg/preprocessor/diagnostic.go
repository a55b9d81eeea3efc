package preprocessor

import (
	"fmt"
	"log"

	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalText encodes the severity as "warning" or "error".
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "warning" or "error".
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic is a problem found while preprocessing, located at a best-effort
// position in the original sources.
type Diagnostic struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
}

func (d Diagnostic) String() string {
	loc := d.File
	if loc == "" {
		loc = "<input>"
	}
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, d.Line, d.Column)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// diagnostics accumulates the ordered problem list of one pass.
type diagnostics struct {
	list   []Diagnostic
	logger *log.Logger
}

func (d *diagnostics) add(sev Severity, at lexer.Token, format string, args ...any) {
	diag := Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
		File:     at.File,
		Line:     at.Line,
		Column:   at.Column,
	}
	d.list = append(d.list, diag)
	if d.logger != nil {
		prefix := "WARN"
		if sev == SeverityError {
			prefix = "ERROR"
		}
		d.logger.Printf("%s: %s", prefix, diag)
	}
}

func (d *diagnostics) warnf(at lexer.Token, format string, args ...any) {
	d.add(SeverityWarning, at, format, args...)
}

func (d *diagnostics) errorf(at lexer.Token, format string, args ...any) {
	d.add(SeverityError, at, format, args...)
}

func (d *diagnostics) hasErrors() bool {
	for _, diag := range d.list {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}
