package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kraftdev/kraft/internal/config"
	oerrors "github.com/kraftdev/kraft/internal/errors"
	"github.com/kraftdev/kraft/internal/output"
)

func runConfigInit(t *testing.T, cfg *config.GlobalConfig, args ...string) error {
	t.Helper()

	restore := output.SetOutput(&bytes.Buffer{})
	defer restore()

	c := NewConfigCmd(cfg)
	c.SetArgs(append([]string{"init"}, args...))
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	return c.Execute()
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("KRAFT_CONFIG", "")
	return home
}

func TestNewConfigInitCmd(t *testing.T) {
	c := NewConfigInitCmd(&config.GlobalConfig{})

	assert.Equal(t, "init", c.Use)
	assert.NotEmpty(t, c.Short)
	assert.NotNil(t, c.Flags().Lookup("force"))
}

func TestConfigInit_CreatesDefaultFile(t *testing.T) {
	home := isolateHome(t)

	require.NoError(t, runConfigInit(t, &config.GlobalConfig{}))

	configFile := filepath.Join(home, ".kraft", "config.yaml")
	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# kraft CLI configuration")

	var got config.Config
	require.NoError(t, yaml.Unmarshal(content, &got))
	assert.Equal(t, *config.DefaultConfig(), got)
}

func TestConfigInit_SecurePermissions(t *testing.T) {
	home := isolateHome(t)

	require.NoError(t, runConfigInit(t, &config.GlobalConfig{}))

	dirInfo, err := os.Stat(filepath.Join(home, ".kraft"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(home, ".kraft", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())
}

func TestConfigInit_UsesResolvedConfigPath(t *testing.T) {
	isolateHome(t)
	custom := filepath.Join(t.TempDir(), "nested", "kraft.yaml")

	require.NoError(t, runConfigInit(t, &config.GlobalConfig{ConfigPath: custom}))
	assert.FileExists(t, custom)
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	home := isolateHome(t)
	configFile := filepath.Join(home, ".kraft", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(configFile), 0o700))
	require.NoError(t, os.WriteFile(configFile, []byte("# existing config\n"), 0o600))

	err := runConfigInit(t, &config.GlobalConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, "# existing config\n", string(content))
}

func TestConfigInit_ForceOverwrite(t *testing.T) {
	home := isolateHome(t)
	configFile := filepath.Join(home, ".kraft", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(configFile), 0o700))
	require.NoError(t, os.WriteFile(configFile, []byte("# old config\n"), 0o600))

	require.NoError(t, runConfigInit(t, &config.GlobalConfig{}, "--force"))

	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old config")
	assert.Contains(t, string(content), "defaults:")
}
