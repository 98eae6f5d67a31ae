// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor defines the interface for executing build commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs a single command line through the shell.
	//
	// The command's standard output and error streams are copied to stdout and stderr.
	// A nonzero exit status is returned as an error carrying the exit code.
	Execute(ctx context.Context, command string, stdout, stderr io.Writer) error
}
