package scheduler_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mymake/internal/adapters/config"
	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/mymake/internal/core/ports/mocks"
	"go.trai.ch/mymake/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// harness runs builds against an in-memory file table. "touch X" commands
// create or refresh X; "fail" exits with status 1.
type harness struct {
	sched    *scheduler.Scheduler
	executor *mocks.MockExecutor
	store    *mocks.MockBuildInfoStore
	logger   *mocks.MockLogger
	tracer   *mocks.MockTracer

	files map[string]time.Time
	clock time.Time
	ran   []string
	echo  strings.Builder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		executor: mocks.NewMockExecutor(ctrl),
		store:    mocks.NewMockBuildInfoStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		files:    make(map[string]time.Time),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	statter := mocks.NewMockFileStatter(ctrl)
	statter.EXPECT().Stat(gomock.Any()).DoAndReturn(func(path string) (domain.FileInfo, error) {
		mt, ok := h.files[path]
		return domain.FileInfo{Exists: ok, ModTime: mt}, nil
	}).AnyTimes()

	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeRecipeHash(gomock.Any(), gomock.Any(), gomock.Any()).Return("hash").AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		return h.echo.Write(p)
	}).AnyTimes()

	h.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd string, _, _ io.Writer) error {
			h.ran = append(h.ran, cmd)
			if cmd == "fail" {
				return zerr.With(zerr.Wrap(domain.ErrCommandFailed, "exit status 1"), "exit_code", 1)
			}
			if name, ok := strings.CutPrefix(cmd, "touch "); ok {
				h.files[name] = h.tick()
			}
			return nil
		},
	).AnyTimes()

	h.sched = scheduler.NewScheduler(h.executor, statter, h.store, hasher, h.tracer, h.logger)
	h.sched.SetClock(func() time.Time { return h.clock })
	return h
}

func (h *harness) tick() time.Time {
	h.clock = h.clock.Add(time.Second)
	return h.clock
}

func (h *harness) expectStore() {
	h.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	h.store.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
}

func (h *harness) expectPlan(targets ...string) {
	h.tracer.EXPECT().EmitPlan(gomock.Any(), targets)
}

func (h *harness) build(t *testing.T, src, target string, opts scheduler.Options) (scheduler.Report, error) {
	t.Helper()
	desc, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)

	id, ok := desc.Graph.Lookup(target)
	require.True(t, ok, "target %q not in graph", target)

	h.ran = nil
	return h.sched.Run(context.Background(), desc.Graph, id, opts)
}

func TestScheduler_BuildsPrerequisitesFirst(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.expectPlan("b", "a")

	report, err := h.build(t, "a: b\n\tcmd_a\nb:\n\tcmd_b\n", "a", scheduler.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"cmd_b", "cmd_a"}, h.ran)
	assert.Equal(t, []string{"b", "a"}, report.Planned)
	assert.Equal(t, []string{"b", "a"}, report.Rebuilt)
	assert.Equal(t, 2, report.Commands)
	assert.Equal(t, "cmd_b\ncmd_a\n", h.echo.String())

	assert.Equal(t, domain.TargetStatusRebuilt, report.Statuses["a"])
	assert.Equal(t, domain.TargetStatusRebuilt, report.Statuses["b"])
	assert.Empty(t, report.Unfinished())
}

func TestScheduler_ExistingPrerequisiteWithoutTarget(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.expectPlan("b", "a")
	h.files["b"] = h.tick()

	report, err := h.build(t, "a: b\n\tcmd_a\nb:\n\tcmd_b\n", "a", scheduler.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"cmd_a"}, h.ran)
	assert.Equal(t, []string{"a"}, report.Rebuilt)
	assert.Equal(t, domain.TargetStatusUpToDate, report.Statuses["b"])
}

func TestScheduler_DuplicatePrerequisiteBuiltOnce(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.expectPlan("y", "x")

	_, err := h.build(t, "x: y y\n\tcmd_x\ny:\n\tcmd_y\n", "x", scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd_y", "cmd_x"}, h.ran)
}

func TestScheduler_SharedPrerequisiteBuiltOnce(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.expectPlan("util.o", "app", "lib", "all")

	src := "all: app lib\n\ttouch all\napp: util.o\n\ttouch app\nlib: util.o\n\ttouch lib\nutil.o:\n\ttouch util.o\n"
	_, err := h.build(t, src, "all", scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"touch util.o", "touch app", "touch lib", "touch all"}, h.ran)
}

func TestScheduler_SecondRunIsNoop(t *testing.T) {
	h := newHarness(t)
	h.expectStore()

	src := "prog: main.o\n\ttouch prog\nmain.o: main.c\n\ttouch main.o\n"
	h.files["main.c"] = h.tick()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), []string{"main.c", "main.o", "prog"}).Times(2)

	report, err := h.build(t, src, "prog", scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"touch main.o", "touch prog"}, h.ran)
	assert.Equal(t, 2, report.Commands)

	report, err = h.build(t, src, "prog", scheduler.Options{})
	require.NoError(t, err)
	assert.Empty(t, h.ran)
	assert.Empty(t, report.Rebuilt)
	assert.Zero(t, report.Commands)
}

func TestScheduler_TouchedPrerequisiteRebuildsDependents(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()

	src := "prog: main.o\n\ttouch prog\nmain.o: main.c\n\ttouch main.o\n"
	h.files["main.c"] = h.tick()
	h.files["main.o"] = h.tick()
	h.files["prog"] = h.tick()

	_, err := h.build(t, src, "prog", scheduler.Options{})
	require.NoError(t, err)
	assert.Empty(t, h.ran)

	h.files["main.c"] = h.tick()

	_, err = h.build(t, src, "prog", scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"touch main.o", "touch prog"}, h.ran)
}

func TestScheduler_EqualTimestampsAreFresh(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())

	now := h.tick()
	h.files["in"] = now
	h.files["out"] = now

	_, err := h.build(t, "out: in\n\ttouch out\n", "out", scheduler.Options{})
	require.NoError(t, err)
	assert.Empty(t, h.ran)
}

func TestScheduler_PhonyPrerequisiteForcesRebuild(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())
	h.files["report"] = h.tick()

	_, err := h.build(t, "report: gather\n\ttouch report\ngather:\n\techo gathering\n", "report", scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"echo gathering", "touch report"}, h.ran)
}

func TestScheduler_MissingPrerequisiteFailsBeforeAnyCommand(t *testing.T) {
	h := newHarness(t)
	h.tracer.EXPECT().EmitPlan(gomock.Any(), []string{"b", "missing.h", "a"})

	report, err := h.build(t, "a: b missing.h\n\tcmd_a\nb:\n\tcmd_b\n", "a", scheduler.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPrerequisiteNotFound))
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.Empty(t, h.ran)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "missing.h", zErr.Metadata()["target"])
	assert.Equal(t, domain.TargetStatusFailed, report.Statuses["missing.h"])
	assert.Equal(t, []string{"b", "a"}, report.Unfinished())
}

func TestScheduler_StaleRuleWithoutCommands(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), []string{"prog", "all"})

	_, err := h.build(t, "all: prog\nprog:\n\ttouch prog\n", "all", scheduler.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPrerequisiteNotFound))
	assert.Equal(t, []string{"touch prog"}, h.ran)
}

func TestScheduler_CommandFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())

	report, err := h.build(t, "a: b\n\tcmd_a\nb:\n\tfail\n\tnever\n", "a", scheduler.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
	assert.Equal(t, domain.KindCommand, domain.KindOf(err))
	assert.Equal(t, "building b: exit status 1: command failed", err.Error())
	assert.Equal(t, []string{"fail"}, h.ran)
	assert.Empty(t, report.Rebuilt)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "b", zErr.Metadata()["target"])
	assert.Equal(t, domain.TargetStatusFailed, report.Statuses["b"])
	assert.Equal(t, domain.TargetStatusPending, report.Statuses["a"])
	assert.Equal(t, []string{"a"}, report.Unfinished())
}

func TestScheduler_DryRun(t *testing.T) {
	h := newHarness(t)
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())
	h.files["main.c"] = h.tick()
	h.files["main.o"] = h.tick()
	h.files["prog"] = h.tick()
	h.files["main.c"] = h.tick()

	report, err := h.build(t, "prog: main.o\n\tcc -o prog main.o\nmain.o: main.c\n\tcc -c main.c\n", "prog",
		scheduler.Options{DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, h.ran)
	assert.Equal(t, "cc -c main.c\ncc -o prog main.o\n", h.echo.String())
	assert.Equal(t, []string{"main.o", "prog"}, report.Rebuilt)
	assert.Zero(t, report.Commands)
}

func TestScheduler_RecipeChangeIsLogged(t *testing.T) {
	h := newHarness(t)
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())
	h.store.EXPECT().Get("out").Return(&domain.BuildInfo{Target: "out", RecipeHash: "old"}, nil)
	h.logger.EXPECT().Info("out: recipe changed since last build")
	h.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.BuildInfo) error {
		assert.Equal(t, "out", info.Target)
		assert.Equal(t, "hash", info.RecipeHash)
		assert.Equal(t, time.Second, info.Duration)
		return nil
	})

	_, err := h.build(t, "out:\n\ttouch out\n", "out", scheduler.Options{})
	require.NoError(t, err)
}

func TestScheduler_StoreFailureOnlyWarns(t *testing.T) {
	h := newHarness(t)
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())
	h.store.EXPECT().Get("out").Return(nil, domain.ErrStoreReadFailed)
	h.store.EXPECT().Put(gomock.Any()).Return(domain.ErrStoreWriteFailed)
	h.logger.EXPECT().Warn(gomock.Any()).Times(2)

	_, err := h.build(t, "out:\n\ttouch out\n", "out", scheduler.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"touch out"}, h.ran)
}

func TestScheduler_CancelledContext(t *testing.T) {
	h := newHarness(t)
	h.expectStore()
	h.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any())

	desc, err := config.Parse(strings.NewReader("a:\n\tcmd_a\n"))
	require.NoError(t, err)
	id, _ := desc.Graph.Lookup("a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.sched.Run(ctx, desc.Graph, id, scheduler.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, h.ran)
}

func TestScheduler_AliasLoopIsACycle(t *testing.T) {
	h := newHarness(t)

	_, err := h.build(t, "x: a\na: b\nb: a\n", "x", scheduler.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycleDetected))
	assert.Empty(t, h.ran)
}

func TestPlan_PostOrder(t *testing.T) {
	desc, err := config.Parse(strings.NewReader("all: app lib docs\napp: util.o main.o\nlib: util.o\n"))
	require.NoError(t, err)
	g := desc.Graph

	all, _ := g.Lookup("all")
	order, err := scheduler.Plan(g, all)
	require.NoError(t, err)

	got := make([]string, len(order))
	for i, id := range order {
		got[i] = g.Name(id)
	}
	assert.Equal(t, []string{"util.o", "main.o", "app", "lib", "docs", "all"}, got)
}
