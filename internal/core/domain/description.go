package domain

import "slices"

// Description is a parsed description file.
type Description struct {
	// Graph holds every target and prerequisite named in the file.
	Graph *Graph
	// DefaultTarget is the first rule head in the file, built when no target is requested.
	DefaultTarget string
}

// CleanTargets are the target names that select the cleanup path instead of a build.
var CleanTargets = []string{"clean", "clear"}

// IsCleanTarget reports whether name selects the cleanup path.
func IsCleanTarget(name string) bool {
	return slices.Contains(CleanTargets, name)
}
