package scheduler

import (
	"time"

	"go.trai.ch/mymake/internal/core/domain"
)

// SetClock replaces the scheduler's time source.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Plan exposes the build-order computation.
func Plan(graph *domain.Graph, target domain.NodeID) ([]domain.NodeID, error) {
	return plan(graph, target)
}
