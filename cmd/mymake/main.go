// Package main is the entry point for the mymake build tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/mymake/cmd/mymake/commands"
	"go.trai.ch/mymake/internal/app"
	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	_ "go.trai.ch/mymake/internal/wiring"
	"go.trai.ch/zerr"
)

// ComponentProvider resolves the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func resolveComponents(ctx context.Context) (*app.Components, error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	return c, err
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, resolveComponents))
}

// run executes one mymake invocation and returns the process exit code.
func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := provider(ctx)
	if err != nil {
		// No logger without components.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		logFatal(components.Logger, err)
		return 1
	}
	return 0
}

// logFatal logs err with its error kind attached so the failure class shows
// up next to the message.
func logFatal(log ports.Logger, err error) {
	if kind := domain.KindOf(err); kind != domain.KindUnknown {
		err = zerr.With(err, "kind", kind.String())
	}
	log.Error(err)
}
