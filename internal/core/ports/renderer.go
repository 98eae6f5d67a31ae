package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for build output.
// It receives the event stream produced by the tracer and presents it.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting events and flush buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called with the planned targets in build order.
	OnPlanEmit(targets []string)

	// OnTargetStart is called when a target's commands begin executing.
	OnTargetStart(spanID, name string, startTime time.Time)

	// OnTargetLog is called with output produced while building a target.
	// data may hold partial lines.
	OnTargetLog(spanID string, data []byte)

	// OnTargetComplete is called when a target finishes. err is nil on success.
	OnTargetComplete(spanID string, endTime time.Time, err error)
}
