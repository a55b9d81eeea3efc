// Package linemap records where each line of preprocessed output came from.
//
// Mappings are sparse: one entry per discontinuity (a file switch or a
// skipped range), strictly increasing in ProcessedLine. The same mappings are
// embedded in the output as marker comments at column 0,
//
//	// @line 12 "lib/util.lsl"
//	-- @line 12 "lib/util.luau"
//
// and Parse recovers them from the text. Marker lines do not count as
// processed lines: ProcessedLine numbers only the content lines.
package linemap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Mapping says that processed line ProcessedLine originates from
// OriginalLine of SourceFile; following lines continue with an offset until
// the next mapping.
type Mapping struct {
	ProcessedLine int    `json:"processedLine"`
	SourceFile    string `json:"sourceFile"`
	OriginalLine  int    `json:"originalLine"`
}

// Location is a position in an original source file.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Marker formats the marker comment for a mapping. prefix is the dialect's
// line comment prefix.
func Marker(prefix string, originalLine int, file string) string {
	return prefix + " @line " + strconv.Itoa(originalLine) + ` "` + file + `"`
}

// Builder collects mappings while output lines are generated in order.
type Builder struct {
	mappings []Mapping
	line     int
	prevFile string
	prevLine int
}

// Next registers the next processed line as coming from file:line. It
// returns the new mapping and true when the line starts a discontinuity.
func (b *Builder) Next(file string, line int) (Mapping, bool) {
	b.line++
	continuous := b.line > 1 && file == b.prevFile && line == b.prevLine+1
	b.prevFile, b.prevLine = file, line
	if continuous {
		return Mapping{}, false
	}
	m := Mapping{ProcessedLine: b.line, SourceFile: file, OriginalLine: line}
	b.mappings = append(b.mappings, m)
	return m, true
}

// Mappings returns the collected mappings.
func (b *Builder) Mappings() []Mapping {
	return b.mappings
}

func markerPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + ` @line ([0-9]+) "([^"]*)"[ \t]*$`)
}

// parseMarker reports whether line is a well-formed marker. The keyword is
// matched case-sensitively.
func parseMarker(re *regexp.Regexp, line string) (Location, bool) {
	m := re.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if m == nil {
		return Location{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return Location{}, false
	}
	return Location{File: m[2], Line: n}, true
}

// Parse recovers the mappings embedded in processed text. Malformed markers
// are ordinary content lines.
func Parse(text, prefix string) []Mapping {
	re := markerPattern(prefix)
	var out []Mapping
	content := 0
	for _, line := range splitLines(text) {
		loc, ok := parseMarker(re, line)
		if !ok {
			content++
			continue
		}
		m := Mapping{ProcessedLine: content + 1, SourceFile: loc.File, OriginalLine: loc.Line}
		if n := len(out); n > 0 && out[n-1].ProcessedLine == m.ProcessedLine {
			out[n-1] = m
			continue
		}
		out = append(out, m)
	}
	return out
}

// Strip removes the well-formed marker lines from text.
func Strip(text, prefix string) string {
	re := markerPattern(prefix)
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if _, ok := parseMarker(re, strings.TrimSuffix(line, "\n")); ok {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Mapper answers reverse lookups over a mapping set.
type Mapper struct {
	mappings []Mapping
}

// NewMapper returns a Mapper over mappings, which need not be sorted.
func NewMapper(mappings []Mapping) *Mapper {
	sorted := append([]Mapping(nil), mappings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ProcessedLine < sorted[j].ProcessedLine
	})
	return &Mapper{mappings: sorted}
}

// Lookup maps a processed line to its origin using the nearest preceding
// mapping plus the line offset from it.
func (m *Mapper) Lookup(processedLine int) (Location, bool) {
	i := sort.Search(len(m.mappings), func(i int) bool {
		return m.mappings[i].ProcessedLine > processedLine
	})
	if i == 0 {
		return Location{}, false
	}
	mp := m.mappings[i-1]
	return Location{File: mp.SourceFile, Line: mp.OriginalLine + processedLine - mp.ProcessedLine}, true
}

// ResolveRaw maps a line number of text as a runtime sees it, with marker
// lines counted, back to its origin. A marker line resolves to the content
// line that follows it.
func ResolveRaw(text, prefix string, rawLine int) (Location, bool) {
	if rawLine < 1 {
		return Location{}, false
	}
	re := markerPattern(prefix)
	var mappings []Mapping
	content := 0
	for i, line := range splitLines(text) {
		loc, ok := parseMarker(re, line)
		if ok {
			mappings = append(mappings, Mapping{ProcessedLine: content + 1, SourceFile: loc.File, OriginalLine: loc.Line})
			if i+1 == rawLine {
				return NewMapper(mappings).Lookup(content + 1)
			}
			continue
		}
		content++
		if i+1 == rawLine {
			return NewMapper(mappings).Lookup(content)
		}
	}
	return Location{}, false
}

// splitLines splits text into lines without their terminators. A trailing
// newline does not start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
