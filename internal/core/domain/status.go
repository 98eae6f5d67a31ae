package domain

// TargetStatus is the outcome of visiting a target during a build.
type TargetStatus string

const (
	// TargetStatusPending indicates the target has been planned but not visited yet.
	TargetStatusPending TargetStatus = "pending"
	// TargetStatusRunning indicates the target's commands are executing.
	TargetStatusRunning TargetStatus = "running"
	// TargetStatusRebuilt indicates the target was stale and its commands succeeded.
	TargetStatusRebuilt TargetStatus = "rebuilt"
	// TargetStatusUpToDate indicates the target was newer than all of its prerequisites.
	TargetStatusUpToDate TargetStatus = "up-to-date"
	// TargetStatusFailed indicates one of the target's commands failed.
	TargetStatusFailed TargetStatus = "failed"
)

// IsTerminal reports whether no further work happens for a target in this status.
func (s TargetStatus) IsTerminal() bool {
	switch s {
	case TargetStatusRebuilt, TargetStatusUpToDate, TargetStatusFailed:
		return true
	default:
		return false
	}
}
