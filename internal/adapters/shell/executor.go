// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor by running each command through `<shell> -c`.
type Executor struct {
	shell string
	env   map[string]string
	dir   string
}

// NewExecutor creates a new Executor. Variables in env are added to the process
// environment of every command and take precedence over inherited ones.
func NewExecutor(shell string, env map[string]string) *Executor {
	if shell == "" {
		shell = domain.DefaultShell
	}
	return &Executor{
		shell: shell,
		env:   env,
	}
}

// WithDir sets the working directory commands run in.
func (e *Executor) WithDir(dir string) *Executor {
	e.dir = dir
	return e
}

// Execute runs command through the shell, streaming its output to stdout and stderr.
func (e *Executor) Execute(ctx context.Context, command string, stdout, stderr io.Writer) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}

	cmdEnv := resolveEnvironment(os.Environ(), e.env)

	// Resolve the shell using the command environment's PATH
	executable := e.shell
	if !filepath.IsAbs(executable) {
		lp, err := lookPath(executable, cmdEnv)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrShellNotFound, err.Error()), "shell", e.shell)
		}
		executable = lp
	} else if err := findExecutable(executable); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrShellNotFound, err.Error()), "shell", e.shell)
	}

	cmd := exec.CommandContext(ctx, executable, "-c", command) //nolint:gosec // commands come from the description file
	cmd.Args[0] = e.shell
	cmd.Dir = e.dir
	cmd.Env = cmdEnv
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zerr.With(zerr.Wrap(ctxErr, "command interrupted"), "command", command)
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return zerr.With(zerr.Wrap(domain.ErrShellNotFound, err.Error()), "shell", e.shell)
		}
		exitCode := exitErr.ExitCode()
		return zerr.With(
			zerr.With(zerr.Wrap(domain.ErrCommandFailed, fmt.Sprintf("exit status %d", exitCode)), "command", command),
			"exit_code", exitCode,
		)
	}

	return nil
}

// resolveEnvironment merges the inherited environment with overrides.
// Overrides win; PATH from overrides is prepended to the inherited PATH.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	order := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for k, v := range overrides {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		if k == "PATH" && envMap[k] != "" {
			v = v + string(os.PathListSeparator) + envMap[k]
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	if strings.Contains(file, string(os.PathSeparator)) {
		if err := findExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}

	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
