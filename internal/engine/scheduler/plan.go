package scheduler

import (
	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/zerr"
)

type planState uint8

const (
	unvisited planState = iota
	visiting
	planned
)

type frame struct {
	id   domain.NodeID
	next int
}

// plan returns the distinct rules reachable from target in post-order:
// every rule appears after all of its prerequisites. Aliases are replaced by
// the rule they stand in for. Reaching a rule that is still on the stack means
// the graph loops back on itself.
func plan(graph *domain.Graph, target domain.NodeID) ([]domain.NodeID, error) {
	target = graph.Resolve(target)
	state := map[domain.NodeID]planState{target: visiting}
	stack := []frame{{id: target}}
	var order []domain.NodeID

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := graph.Children(top.id)

		if top.next == len(children) {
			state[top.id] = planned
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
			continue
		}

		child := graph.Resolve(children[top.next])
		top.next++

		switch state[child] {
		case planned:
		case visiting:
			return nil, zerr.With(
				zerr.Wrap(domain.ErrCycleDetected, graph.Name(top.id)+" depends on "+graph.Name(child)),
				"target", graph.Name(child),
			)
		default:
			state[child] = visiting
			stack = append(stack, frame{id: child})
		}
	}
	return order, nil
}
