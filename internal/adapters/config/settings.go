package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SettingsDTO represents the structure of the mymake.yaml settings file.
type SettingsDTO struct {
	File  string            `yaml:"file"`
	Shell string            `yaml:"shell"`
	State string            `yaml:"state"`
	Env   map[string]string `yaml:"env"`
}

// LoadSettings reads mymake.yaml from dir. A missing file yields the defaults.
// Fields left empty in the file keep their default values.
func LoadSettings(dir string) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	path := filepath.Join(dir, domain.SettingsFile)

	data, err := os.ReadFile(path) //nolint:gosec // fixed file name in the working directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, zerr.With(zerr.Wrap(domain.ErrSettingsReadFailed, err.Error()), "path", path)
	}

	var dto SettingsDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return settings, zerr.With(zerr.Wrap(domain.ErrSettingsParseFailed, err.Error()), "path", path)
	}

	if dto.File != "" {
		settings.File = dto.File
	}
	if dto.Shell != "" {
		settings.Shell = dto.Shell
	}
	if dto.State != "" {
		settings.State = dto.State
	}
	settings.Env = dto.Env
	return settings, nil
}
