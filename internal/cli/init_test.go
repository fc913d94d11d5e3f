package cli

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rice8y/sdetails/internal/config"
	"github.com/rice8y/sdetails/internal/errors"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestInitCommand_WritesLoadableConfig(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, initCommand(false))

	data, err := os.ReadFile(config.ConfigFileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# sdetails configuration")

	cfg, err := config.Load(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestInitCommand_RefusesToOverwrite(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("timeout: 99s\n"), 0o644))

	err := initCommand(false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	cfg, err := config.Load(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, 99*time.Second, cfg.Timeout, "existing config untouched")
}

func TestInitCommand_ForceOverwrites(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("timeout: 99s\n"), 0o644))

	require.NoError(t, initCommand(true))

	cfg, err := config.Load(config.ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "")

	assert.False(t, colorEnabled("auto", true), "--no-color wins")
	assert.False(t, colorEnabled("never", false))
	assert.True(t, colorEnabled("always", false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled("always", false), "NO_COLOR wins over always")
}
