// Package scheduler walks a build graph from a target and runs the commands of
// every stale rule, prerequisites first.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures a single run.
type Options struct {
	// DryRun echoes the commands of stale rules without executing them.
	DryRun bool
	// Env is the environment overlay the executor applies. It only feeds the recipe hash.
	Env map[string]string
}

// Report summarises a run.
type Report struct {
	// Planned lists the distinct rules reachable from the target in build order.
	Planned []string
	// Rebuilt lists the rules whose commands ran (or would have, in a dry run).
	Rebuilt []string
	// Commands counts the commands that ran.
	Commands int
	// Statuses holds the last status of every planned rule.
	Statuses map[string]domain.TargetStatus
}

// Unfinished lists, in build order, the planned rules the run never settled.
// After a failure these are the targets that were not built.
func (r Report) Unfinished() []string {
	var out []string
	for _, name := range r.Planned {
		if !r.Statuses[name].IsTerminal() {
			out = append(out, name)
		}
	}
	return out
}

// Scheduler manages the execution of rules in the build graph.
type Scheduler struct {
	executor ports.Executor
	statter  ports.FileStatter
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	tracer   ports.Tracer
	logger   ports.Logger

	now func() time.Time
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	statter ports.FileStatter,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		statter:  statter,
		store:    store,
		hasher:   hasher,
		tracer:   tracer,
		logger:   logger,
		now:      time.Now,
	}
}

// Run brings target up to date. Rules are visited children first; each rule
// is visited at most once no matter how many parents reference it.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, target domain.NodeID, opts Options) (Report, error) {
	target = graph.Resolve(target)
	ctx, span := s.tracer.Start(ctx, "build "+graph.Name(target), ports.WithQuiet())
	defer span.End()

	report, err := s.run(ctx, graph, target, opts)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttribute("mymake.rebuilt", len(report.Rebuilt))
	return report, err
}

func (s *Scheduler) run(ctx context.Context, graph *domain.Graph, target domain.NodeID, opts Options) (Report, error) {
	report := Report{Statuses: make(map[string]domain.TargetStatus)}

	order, err := plan(graph, target)
	if err != nil {
		return report, err
	}

	report.Planned = make([]string, len(order))
	for i, id := range order {
		report.Planned[i] = graph.Name(id)
		report.Statuses[report.Planned[i]] = domain.TargetStatusPending
	}
	s.tracer.EmitPlan(ctx, report.Planned)

	state := &runState{s: s, ctx: ctx, graph: graph, opts: opts, report: &report}
	if err := state.preflight(order); err != nil {
		return report, err
	}

	for _, id := range order {
		if err := state.visit(id); err != nil {
			return report, err
		}
	}
	return report, nil
}

// preflight rejects leaf prerequisites that can neither be found on disk nor
// built, before any command runs.
func (state *runState) preflight(order []domain.NodeID) error {
	for _, id := range order {
		rule := state.graph.Rule(id)
		if rule.Executed() || rule.HasCommands() || len(rule.Children()) > 0 {
			continue
		}
		info, err := state.s.statter.Stat(rule.Name())
		if err != nil {
			return err
		}
		rule.SetFileInfo(info)
		if !info.Exists {
			state.setStatus(rule.Name(), domain.TargetStatusFailed)
			return zerr.With(zerr.Wrap(domain.ErrPrerequisiteNotFound, rule.Name()), "target", rule.Name())
		}
	}
	return nil
}

type runState struct {
	s      *Scheduler
	ctx    context.Context
	graph  *domain.Graph
	opts   Options
	report *Report
}

func (state *runState) setStatus(name string, status domain.TargetStatus) {
	state.report.Statuses[name] = status
}

func (state *runState) visit(id domain.NodeID) error {
	rule := state.graph.Rule(id)
	if rule.Executed() {
		return nil
	}
	name := rule.Name()

	info, err := state.s.statter.Stat(name)
	if err != nil {
		return err
	}
	rule.SetFileInfo(info)

	stale, err := state.isStale(rule)
	if err != nil {
		state.setStatus(name, domain.TargetStatusFailed)
		return err
	}
	if !stale {
		state.setStatus(name, domain.TargetStatusUpToDate)
		rule.MarkExecuted()
		return nil
	}

	if !rule.HasCommands() {
		state.setStatus(name, domain.TargetStatusFailed)
		return zerr.With(zerr.Wrap(domain.ErrPrerequisiteNotFound, name), "target", name)
	}

	if err := state.rebuild(rule); err != nil {
		state.setStatus(name, domain.TargetStatusFailed)
		return err
	}

	state.setStatus(name, domain.TargetStatusRebuilt)
	state.report.Rebuilt = append(state.report.Rebuilt, name)
	rule.MarkExecuted()
	return nil
}

// isStale reports whether rule must be rebuilt: its file is missing, a direct
// prerequisite is strictly newer, or a prerequisite with commands left no file behind.
func (state *runState) isStale(rule *domain.Rule) (bool, error) {
	info := rule.FileInfo()
	if !info.Exists {
		return true, nil
	}

	for _, child := range rule.Children() {
		dep := state.graph.Rule(state.graph.Resolve(child))
		depInfo := dep.FileInfo()
		if !depInfo.Exists {
			if !dep.HasCommands() {
				return false, zerr.With(zerr.Wrap(domain.ErrPrerequisiteNotFound, dep.Name()), "target", dep.Name())
			}
			return true, nil
		}
		if depInfo.NewerThan(info) {
			return true, nil
		}
	}
	return false, nil
}

func (state *runState) rebuild(rule *domain.Rule) error {
	s := state.s
	name := rule.Name()
	commands := rule.Commands()
	start := s.now()

	ctx, span := s.tracer.Start(state.ctx, name)
	defer span.End()
	span.SetAttribute("mymake.commands", len(commands))
	state.setStatus(name, domain.TargetStatusRunning)

	hash := s.hasher.ComputeRecipeHash(name, commands, state.opts.Env)
	if !state.opts.DryRun {
		state.checkRecipe(name, hash)
	}

	for _, cmd := range commands {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return zerr.With(zerr.Wrap(err, "building "+name), "target", name)
		}

		_, _ = fmt.Fprintln(span, cmd)
		if state.opts.DryRun {
			continue
		}

		if err := s.executor.Execute(ctx, cmd, span, span); err != nil {
			span.RecordError(err)
			return zerr.With(zerr.Wrap(err, "building "+name), "target", name)
		}
		state.report.Commands++
	}

	if state.opts.DryRun {
		// Parents compare against a file that would now be fresh.
		rule.SetFileInfo(domain.FileInfo{Exists: true, ModTime: s.now()})
		return nil
	}

	info, err := s.statter.Stat(name)
	if err != nil {
		span.RecordError(err)
		return err
	}
	rule.SetFileInfo(info)

	if err := s.store.Put(domain.BuildInfo{
		Target:     name,
		RecipeHash: hash,
		Timestamp:  start,
		Duration:   s.now().Sub(start),
	}); err != nil {
		s.logger.Warn(fmt.Sprintf("could not record build of %s: %v", name, err))
	}
	return nil
}

// checkRecipe logs when a rule's commands differ from the last recorded build.
// The record never changes whether the rule is stale.
func (state *runState) checkRecipe(name, hash string) {
	prev, err := state.s.store.Get(name)
	if err != nil {
		state.s.logger.Warn(fmt.Sprintf("could not read build record of %s: %v", name, err))
		return
	}
	if prev != nil && prev.RecipeHash != hash {
		state.s.logger.Info(name + ": recipe changed since last build")
	}
}
