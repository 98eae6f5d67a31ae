// Package config provides the description file and settings loaders for mymake.
package config

import (
	"bufio"
	"os"
	"strings"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.ConfigLoader for description files on disk.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the description file at path and returns its target graph.
func (l *Loader) Load(path string) (*domain.Description, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	desc, err := Parse(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if desc.DefaultTarget == "" {
		l.logger.Warn(path + " declares no targets")
	}
	return desc, nil
}

// CleanCommands returns the commands attached to every rule line headed by target.
// The rest of the file is not validated.
func (l *Loader) CleanCommands(path, target string) ([]string, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var (
		cmds      []string
		inTarget  bool
		lineCount int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineCount++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if cmd, ok := strings.CutPrefix(text, "\t"); ok {
			if inTarget && strings.TrimSpace(cmd) != "" {
				cmds = append(cmds, cmd)
			}
			continue
		}
		head, _, _ := strings.Cut(text, ":")
		inTarget = strings.ReplaceAll(head, " ", "") == target
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrDescriptionReadFailed, err.Error()), "path", path), "line", lineCount+1)
	}

	if len(cmds) == 0 {
		l.logger.Warn("no commands for " + target + " in " + path)
	}
	return cmds, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrDescriptionOpenFailed, path), "path", path), "cause", err.Error())
	}
	return f, nil
}
