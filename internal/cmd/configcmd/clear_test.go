package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "slpp", "config.yml")

	cfg := &config.Config{Include: []string{"lib"}, MaxDepth: config.Int(3)}
	require.NoError(t, cfg.Save(configPath))

	var buf bytes.Buffer
	require.NoError(t, runClear(configPath, true, &buf))

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "Configuration cleared from "+configPath)
	assert.NotContains(t, buf.String(), "Environment variables")
}

func TestRunClear_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf))
	assert.Contains(t, buf.String(), "No config file to remove")
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, runClear(configPath, true, &bytes.Buffer{}))
	require.NoError(t, runClear(configPath, true, &bytes.Buffer{}))
}

func TestRunClear_ReportsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLPP_LANGUAGE", "luau")

	var buf bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf))
	assert.Contains(t, buf.String(), "SLPP_LANGUAGE")
}
