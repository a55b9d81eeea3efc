package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
	"github.com/secondlife/sl-vscode-plugin-sub001/pkg/host"
)

func TestRunTest_Valid(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "a"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "b"), 0755))

	cfg := &config.Config{Include: []string{"lib/*"}, MaxDepth: config.Int(4)}

	var buf bytes.Buffer
	require.NoError(t, runTest(cfg, host.NewOSHost(root), true, &buf))

	out := buf.String()
	assert.Contains(t, out, "✓ Configuration is valid")
	assert.Contains(t, out, "✓ Include path lib/* (2 directories)")
	assert.Contains(t, out, "Maximum include depth: 4")
}

func TestRunTest_InvalidConfig(t *testing.T) {
	var buf bytes.Buffer
	err := runTest(&config.Config{MaxDepth: config.Int(-1)}, host.NewOSHost(t.TempDir()), true, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, buf.String(), "✗ Invalid configuration")
}

func TestRunTest_UnmatchedIncludePath(t *testing.T) {
	cfg := &config.Config{Include: []string{"nowhere"}, Enable: config.Bool(false)}

	var buf bytes.Buffer
	err := runTest(cfg, host.NewOSHost(t.TempDir()), true, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 include path(s) match no directory")
	assert.Contains(t, buf.String(), "! Include path nowhere matches no directory")
	assert.Contains(t, buf.String(), "Preprocessing is disabled")
	assert.Contains(t, buf.String(), "Maximum include depth: 5")
}

func TestRunTest_BadPattern(t *testing.T) {
	cfg := &config.Config{Include: []string{"lib/[unclosed"}}

	err := runTest(cfg, host.NewOSHost(t.TempDir()), true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include path")
}

func TestNewCmdConfig(t *testing.T) {
	cmd := NewCmdConfig()
	assert.Equal(t, "config", cmd.Use)
	assert.Len(t, cmd.Commands(), 3)
}
