package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mymake/internal/adapters/config"
	"go.trai.ch/mymake/internal/core/domain"
)

func TestLoadSettings_Defaults(t *testing.T) {
	settings, err := config.LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoadSettings_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, domain.SettingsFile, "file: Buildfile\nshell: /bin/bash\nenv:\n  CC: clang\n")

	settings, err := config.LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "Buildfile", settings.File)
	assert.Equal(t, "/bin/bash", settings.Shell)
	assert.Equal(t, domain.DefaultStorePath(), settings.State)
	assert.Equal(t, map[string]string{"CC": "clang"}, settings.Env)
}

func TestLoadSettings_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, domain.SettingsFile, "file: [unterminated\n")

	_, err := config.LoadSettings(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSettingsParseFailed))
	assert.Equal(t, domain.KindResource, domain.KindOf(err))
}
