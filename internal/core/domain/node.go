package domain

import "time"

// NodeID addresses a node in a Graph's arena. IDs are stable for the life of the graph.
type NodeID int

// NoParent is the parent of the root node.
const NoParent NodeID = -1

// FileInfo is the cached filesystem metadata of a node's path.
type FileInfo struct {
	Exists  bool
	ModTime time.Time
}

// NewerThan reports whether fi has a strictly later modification time than other.
func (fi FileInfo) NewerThan(other FileInfo) bool {
	return fi.ModTime.After(other.ModTime)
}

// Node is one entry of the graph arena. It is either a *Rule or an *Alias.
type Node interface {
	ID() NodeID
	Name() string
	Parent() NodeID
	isNode()
}

// Rule is a named target: it owns its children and its commands.
type Rule struct {
	id       NodeID
	name     string
	parent   NodeID
	children []NodeID
	commands []string
	declared bool

	// Build-time state.
	executed bool
	info     FileInfo
}

// ID returns the arena index of the rule.
func (r *Rule) ID() NodeID { return r.id }

// Name returns the target name.
func (r *Rule) Name() string { return r.name }

// Parent returns the structural parent, or NoParent for the root.
func (r *Rule) Parent() NodeID { return r.parent }

// Children returns a copy of the rule's prerequisites in declaration order.
func (r *Rule) Children() []NodeID {
	out := make([]NodeID, len(r.children))
	copy(out, r.children)
	return out
}

// Commands returns a copy of the rule's commands in declaration order.
func (r *Rule) Commands() []string {
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}

// HasCommands reports whether the rule can rebuild its target.
func (r *Rule) HasCommands() bool { return len(r.commands) > 0 }

// Declared reports whether the rule has appeared as the head of a rule line.
func (r *Rule) Declared() bool { return r.declared }

// Executed reports whether the rule has already been visited by the current build.
func (r *Rule) Executed() bool { return r.executed }

// MarkExecuted records that the rule has been visited by the current build.
func (r *Rule) MarkExecuted() { r.executed = true }

// FileInfo returns the last metadata recorded for the rule's path.
func (r *Rule) FileInfo() FileInfo { return r.info }

// SetFileInfo replaces the cached metadata for the rule's path.
func (r *Rule) SetFileInfo(fi FileInfo) { r.info = fi }

func (*Rule) isNode() {}

// Alias stands in for a rule referenced under a second parent.
// It has no children and no commands of its own.
type Alias struct {
	id     NodeID
	name   string
	parent NodeID
	target NodeID
}

// ID returns the arena index of the alias.
func (a *Alias) ID() NodeID { return a.id }

// Name returns the name shared with the aliased rule.
func (a *Alias) Name() string { return a.name }

// Parent returns the structural parent.
func (a *Alias) Parent() NodeID { return a.parent }

// Target returns the rule this alias stands in for.
func (a *Alias) Target() NodeID { return a.target }

func (*Alias) isNode() {}
