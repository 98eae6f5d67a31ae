package linear

import (
	"context"
	"io"
	"os"
	"sync"
	"time"
)

// PlainRenderer writes target output to stdout exactly as produced, the way
// a classic make run looks. Target boundaries are not reported.
type PlainRenderer struct {
	mu     sync.Mutex
	stdout io.Writer
}

// NewPlainRenderer creates a PlainRenderer. A nil writer defaults to os.Stdout.
func NewPlainRenderer(stdout io.Writer) *PlainRenderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &PlainRenderer{stdout: stdout}
}

// Start is a no-op.
func (r *PlainRenderer) Start(_ context.Context) error { return nil }

// Stop is a no-op; nothing is buffered.
func (r *PlainRenderer) Stop() error { return nil }

// Wait is a no-op.
func (r *PlainRenderer) Wait() error { return nil }

// OnPlanEmit is a no-op.
func (r *PlainRenderer) OnPlanEmit(_ []string) {}

// OnTargetStart is a no-op.
func (r *PlainRenderer) OnTargetStart(_, _ string, _ time.Time) {}

// OnTargetLog copies data to stdout.
func (r *PlainRenderer) OnTargetLog(_ string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.stdout.Write(data)
}

// OnTargetComplete is a no-op.
func (r *PlainRenderer) OnTargetComplete(_ string, _ time.Time, _ error) {}
