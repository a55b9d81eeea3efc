package strip

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProcessed(t *testing.T, name, content string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SLPP_LANGUAGE", "")
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunStrip_LSL(t *testing.T) {
	path := writeProcessed(t, "out.lsl", "// @line 1 \"main.lsl\"\na\n// @line 1 \"inc.lsl\"\nx\n// @line 3 main.lsl\n")

	var buf bytes.Buffer
	require.NoError(t, runStrip(path, &stripOptions{noColor: true, stdout: &buf}))
	assert.Equal(t, "a\nx\n// @line 3 main.lsl\n", buf.String())
}

func TestRunStrip_LuauWrite(t *testing.T) {
	path := writeProcessed(t, "out.luau", "-- @line 4 \"mod.luau\"\nreturn 1\n")
	target := filepath.Join(t.TempDir(), "clean.luau")

	var buf bytes.Buffer
	require.NoError(t, runStrip(path, &stripOptions{write: target, noColor: true, stdout: &buf}))
	assert.Contains(t, buf.String(), "Wrote "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "return 1\n", string(data))
}

func TestRunStrip_Errors(t *testing.T) {
	path := writeProcessed(t, "out.txt", "x\n")

	err := runStrip(path, &stripOptions{noColor: true, stdout: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot tell the language")

	err = runStrip(filepath.Join(t.TempDir(), "missing.lsl"), &stripOptions{noColor: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read processed file")
}

func TestNewCmdStrip(t *testing.T) {
	cmd := NewCmdStrip()
	assert.Equal(t, "strip <processed-file>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("lang"))
	assert.NotNil(t, cmd.Flags().Lookup("write"))
}
