package linemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarker(t *testing.T) {
	assert.Equal(t, `// @line 12 "lib/util.lsl"`, Marker("//", 12, "lib/util.lsl"))
	assert.Equal(t, `-- @line 1 "main.luau"`, Marker("--", 1, "main.luau"))
}

func TestBuilder_EmitsOnlyAtDiscontinuities(t *testing.T) {
	var b Builder
	steps := []struct {
		file string
		line int
		want bool
	}{
		{"main.lsl", 1, true},
		{"inc.lsl", 1, true},
		{"inc.lsl", 2, false},
		{"main.lsl", 3, true},
		{"main.lsl", 4, false},
		{"main.lsl", 9, true},
		{"main.lsl", 9, true},
	}
	for i, s := range steps {
		_, got := b.Next(s.file, s.line)
		assert.Equal(t, s.want, got, "step %d", i)
	}

	assert.Equal(t, []Mapping{
		{ProcessedLine: 1, SourceFile: "main.lsl", OriginalLine: 1},
		{ProcessedLine: 2, SourceFile: "inc.lsl", OriginalLine: 1},
		{ProcessedLine: 4, SourceFile: "main.lsl", OriginalLine: 3},
		{ProcessedLine: 6, SourceFile: "main.lsl", OriginalLine: 9},
		{ProcessedLine: 7, SourceFile: "main.lsl", OriginalLine: 9},
	}, b.Mappings())
}

func TestParse(t *testing.T) {
	text := "// @line 1 \"main.lsl\"\n" +
		"a\n" +
		"// @line 1 \"inc.lsl\"\n" +
		"b\n" +
		"c\n" +
		"// @line 3 \"main.lsl\"\n" +
		"d\n"

	got := Parse(text, "//")
	assert.Equal(t, []Mapping{
		{ProcessedLine: 1, SourceFile: "main.lsl", OriginalLine: 1},
		{ProcessedLine: 2, SourceFile: "inc.lsl", OriginalLine: 1},
		{ProcessedLine: 4, SourceFile: "main.lsl", OriginalLine: 3},
	}, got)
}

func TestParse_SkipsMalformedMarkers(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{"upper case keyword", `-- @LINE 5 "x.luau"`},
		{"title case keyword", `-- @Line 5 "x.luau"`},
		{"missing quote", `-- @line 5 "x.luau`},
		{"non numeric line", `-- @line five "x.luau"`},
		{"zero line", `-- @line 0 "x.luau"`},
		{"indented", `  -- @line 5 "x.luau"`},
		{"wrong prefix", `// @line 5 "x.luau"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "-- @line 1 \"main.luau\"\n" +
				"a\n" +
				tt.marker + "\n" +
				"b\n" +
				"-- @line 7 \"lib.luau\"\n" +
				"c\n"

			got := Parse(text, "--")
			assert.Equal(t, []Mapping{
				{ProcessedLine: 1, SourceFile: "main.luau", OriginalLine: 1},
				{ProcessedLine: 4, SourceFile: "lib.luau", OriginalLine: 7},
			}, got)
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	got := Parse("// @line 4 \"a.lsl\"\r\nx\r\n", "//")
	assert.Equal(t, []Mapping{{ProcessedLine: 1, SourceFile: "a.lsl", OriginalLine: 4}}, got)
}

func TestParse_RoundTripsBuilder(t *testing.T) {
	origins := []Location{
		{"main.lsl", 1}, {"inc.lsl", 1}, {"inc.lsl", 2}, {"main.lsl", 3}, {"main.lsl", 4},
	}

	var b Builder
	var text string
	for i, o := range origins {
		if m, ok := b.Next(o.File, o.Line); ok {
			text += Marker("//", m.OriginalLine, m.SourceFile) + "\n"
		}
		text += "line" + string(rune('A'+i)) + "\n"
	}

	assert.Equal(t, b.Mappings(), Parse(text, "//"))
}

func TestMapper_Lookup(t *testing.T) {
	m := NewMapper([]Mapping{
		{ProcessedLine: 4, SourceFile: "main.lsl", OriginalLine: 3},
		{ProcessedLine: 1, SourceFile: "main.lsl", OriginalLine: 1},
		{ProcessedLine: 2, SourceFile: "inc.lsl", OriginalLine: 1},
	})

	tests := []struct {
		line int
		want Location
		ok   bool
	}{
		{0, Location{}, false},
		{1, Location{"main.lsl", 1}, true},
		{2, Location{"inc.lsl", 1}, true},
		{3, Location{"inc.lsl", 2}, true},
		{4, Location{"main.lsl", 3}, true},
		{10, Location{"main.lsl", 9}, true},
	}
	for _, tt := range tests {
		got, ok := m.Lookup(tt.line)
		assert.Equal(t, tt.ok, ok, "line %d", tt.line)
		assert.Equal(t, tt.want, got, "line %d", tt.line)
	}
}

func TestMapper_Empty(t *testing.T) {
	_, ok := NewMapper(nil).Lookup(1)
	assert.False(t, ok)
}

func TestResolveRaw(t *testing.T) {
	text := "// @line 1 \"main.lsl\"\n" + // raw 1
		"a\n" + // raw 2
		"// @line 1 \"inc.lsl\"\n" + // raw 3
		"b\n" + // raw 4
		"c\n" + // raw 5
		"// @line 3 \"main.lsl\"\n" + // raw 6
		"d\n" // raw 7

	tests := []struct {
		raw  int
		want Location
	}{
		{1, Location{"main.lsl", 1}},
		{2, Location{"main.lsl", 1}},
		{3, Location{"inc.lsl", 1}},
		{4, Location{"inc.lsl", 1}},
		{5, Location{"inc.lsl", 2}},
		{7, Location{"main.lsl", 3}},
	}
	for _, tt := range tests {
		got, ok := ResolveRaw(text, "//", tt.raw)
		require.True(t, ok, "raw line %d", tt.raw)
		assert.Equal(t, tt.want, got, "raw line %d", tt.raw)
	}

	_, ok := ResolveRaw(text, "//", 8)
	assert.False(t, ok)
	_, ok = ResolveRaw(text, "//", 0)
	assert.False(t, ok)
}

func TestStrip(t *testing.T) {
	text := "-- @line 1 \"m.luau\"\nlocal x = 1\n-- @LINE 2 \"m.luau\"\n-- @line 9 \"m.luau\"\nprint(x)"
	assert.Equal(t, "local x = 1\n-- @LINE 2 \"m.luau\"\nprint(x)", Strip(text, "--"))
}
