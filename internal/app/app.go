// Package app implements the application layer for mymake.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mymake/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mymake/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mymake/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/mymake/internal/engine/scheduler"
	"go.trai.ch/mymake/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	statter      ports.FileStatter
	store        ports.BuildInfoStore
	hasher       ports.Hasher
	logger       ports.Logger
	settings     domain.Settings

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	statter ports.FileStatter,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	log ports.Logger,
	settings domain.Settings,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		statter:      statter,
		store:        store,
		hasher:       hasher,
		logger:       log,
		settings:     settings,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects build output and the summary line.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// File is the description file. Empty means the configured default.
	File string
	// Target is the requested target. Empty means the first rule of the file.
	Target string
	// DryRun prints the commands that would run without running them.
	DryRun bool
	// Tree prints the dependency tree of the target instead of building it.
	Tree bool
	// OutputMode is one of "auto", "plain" or "linear".
	OutputMode string
}

// Run brings the requested target up to date, or runs the cleanup commands
// when the target is clean or clear.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	file := opts.File
	if file == "" {
		file = a.settings.File
	}

	if domain.IsCleanTarget(opts.Target) {
		return a.Clean(ctx, file, opts.Target)
	}

	// 1. Load the graph
	desc, err := a.configLoader.Load(file)
	if err != nil {
		return err
	}

	// 2. Resolve the target
	target := opts.Target
	if target == "" {
		target = desc.DefaultTarget
	}
	if target == "" {
		return zerr.With(zerr.Wrap(domain.ErrNoTargetsSpecified, file), "path", file)
	}

	id, ok := desc.Graph.Lookup(target)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrTargetNotFound, target), "target", target)
	}

	if opts.Tree {
		return desc.Graph.Render(a.stdout, id)
	}

	return a.build(ctx, desc.Graph, id, opts)
}

func (a *App) build(ctx context.Context, graph *domain.Graph, target domain.NodeID, opts RunOptions) error {
	// 3. Initialize Renderer
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)

	var renderer ports.Renderer
	if mode == detector.ModeLinear {
		renderer = linear.NewRenderer(a.stdout, a.stderr)
	} else {
		renderer = linear.NewPlainRenderer(a.stdout)
	}

	// 4. Initialize Telemetry
	// The provider is local to this run; spans reach the renderer through the bridge.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(tp, "mymake").WithRenderer(renderer)

	// 5. Initialize Scheduler
	sched := scheduler.NewScheduler(a.executor, a.statter, a.store, a.hasher, tracer, a.logger)

	// 6. Run Renderer and Scheduler concurrently
	start := time.Now()
	var report scheduler.Report

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		var err error
		report, err = sched.Run(gctx, graph, target, scheduler.Options{
			DryRun: opts.DryRun,
			Env:    a.settings.Env,
		})
		return err
	})

	err := g.Wait()
	if unfinished := report.Unfinished(); err != nil && len(unfinished) > 0 {
		err = zerr.With(err, "not_built", strings.Join(unfinished, " "))
	}
	if !opts.DryRun {
		_, _ = fmt.Fprintln(a.stderr,
			style.Summary(graph.Name(target), len(report.Rebuilt), report.Commands, time.Since(start), err))
	}
	return err
}

// Clean runs the commands of the clean (or clear) rule unconditionally and
// then removes the build records. No graph is built.
func (a *App) Clean(ctx context.Context, file, target string) error {
	commands, err := a.configLoader.CleanCommands(file, target)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		_, _ = fmt.Fprintln(a.stdout, cmd)
		if err := a.executor.Execute(ctx, cmd, a.stdout, a.stderr); err != nil {
			return zerr.With(zerr.Wrap(err, "cleaning"), "target", target)
		}
	}

	if err := a.store.Clear(); err != nil {
		return err
	}
	a.logger.Info("removed build records")
	return nil
}
