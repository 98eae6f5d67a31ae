package domain

import "path/filepath"

const (
	// DefaultDescriptionFile is read when -f is not given.
	DefaultDescriptionFile = "myMakefile"
	// DefaultShell runs every command as `<shell> -c <command>`.
	DefaultShell = "/bin/sh"
	// SettingsFile is the optional per-directory settings file.
	SettingsFile = "mymake.yaml"
	// StateDirName is the directory holding mymake's own state.
	StateDirName = ".mymake"
)

// Settings are the per-directory defaults of mymake.
type Settings struct {
	File  string
	Shell string
	State string
	Env   map[string]string
}

// DefaultStorePath returns the default location of the build record store.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, "state.json")
}

// DefaultSettings returns the settings used when no settings file is present.
func DefaultSettings() Settings {
	return Settings{
		File:  DefaultDescriptionFile,
		Shell: DefaultShell,
		State: DefaultStorePath(),
	}
}
