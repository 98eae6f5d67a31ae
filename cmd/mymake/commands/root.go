// Package commands implements the command line interface of mymake.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/mymake/internal/app"
	"go.trai.ch/mymake/internal/build"
	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for mymake.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	file   fileFlag
	dryRun bool
	tree   bool
	output string
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "mymake [-f file] [target]",
		Short:         "Rebuild targets that are missing or older than their prerequisites",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          maxOneTarget,
		RunE:          c.run,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.Flags().VarP(&c.file, "file", "f", "Read the description from `file` (default \""+domain.DefaultDescriptionFile+"\")")
	rootCmd.Flags().BoolVarP(&c.dryRun, "dry-run", "n", false, "Print the commands that would run without running them")
	rootCmd.Flags().BoolVar(&c.tree, "tree", false, "Print the dependency tree of the target and exit")
	rootCmd.Flags().StringVar(&c.output, "output", "auto", "Output mode: auto, plain or linear")
	rootCmd.SetFlagErrorFunc(flagError)

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	opts := app.RunOptions{
		File:       c.file.value,
		DryRun:     c.dryRun,
		Tree:       c.tree,
		OutputMode: c.output,
	}
	if len(args) == 1 {
		opts.Target = args[0]
	}
	return c.app.Run(cmd.Context(), opts)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func maxOneTarget(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return zerr.With(zerr.Wrap(domain.ErrTooManyTargets, "usage"), "targets", len(args))
	}
	return nil
}

// flagError maps pflag's parse errors for -f onto the usage sentinels.
func flagError(_ *cobra.Command, err error) error {
	var required *pflag.ValueRequiredError
	if errors.As(err, &required) && required.GetFlag().Name == "file" {
		return domain.ErrFileFlagMissing
	}
	if errors.Is(err, domain.ErrFileFlagRepeated) {
		return domain.ErrFileFlagRepeated
	}
	return err
}

// fileFlag is a string flag that may be set only once.
type fileFlag struct {
	value string
	set   bool
}

func (f *fileFlag) String() string { return f.value }

func (f *fileFlag) Set(v string) error {
	if f.set {
		return domain.ErrFileFlagRepeated
	}
	f.value = v
	f.set = true
	return nil
}

func (f *fileFlag) Type() string { return "file" }
