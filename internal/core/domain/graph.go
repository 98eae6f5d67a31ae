// Package domain contains the core domain models and business logic for the target dependency graph.
package domain

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// RootName is the name of the distinguished root node.
const RootName = "main"

// Graph is an arena of targets linked by structural parent/child relations.
// Node 0 is the root; every declared target hangs below it.
type Graph struct {
	nodes []Node
}

// NewGraph creates a graph holding only the root node.
func NewGraph() *Graph {
	g := &Graph{}
	g.nodes = append(g.nodes, &Rule{id: 0, name: RootName, parent: NoParent})
	return g
}

// Root returns the id of the root node.
func (g *Graph) Root() NodeID { return 0 }

// Len returns the number of nodes in the arena, including the root.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node stored under id, or nil if id is out of range.
func (g *Graph) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Rule returns the rule stored under id, or nil if id is not a rule.
func (g *Graph) Rule(id NodeID) *Rule {
	r, _ := g.Node(id).(*Rule)
	return r
}

// Name returns the name of the node stored under id.
func (g *Graph) Name(id NodeID) string {
	n := g.Node(id)
	if n == nil {
		return ""
	}
	return n.Name()
}

// Children returns the structural children of id in order. Aliases have none.
func (g *Graph) Children(id NodeID) []NodeID {
	r := g.Rule(id)
	if r == nil {
		return nil
	}
	return r.Children()
}

// Walk returns an iterator over the subtree rooted at from in pre-order.
// Aliases are yielded but never descended into.
func (g *Graph) Walk(from NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if g.Node(from) == nil {
			return
		}
		stack := []NodeID{from}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(id) {
				return
			}
			if r := g.Rule(id); r != nil {
				for i := len(r.children) - 1; i >= 0; i-- {
					stack = append(stack, r.children[i])
				}
			}
		}
	}
}

// Search finds the first rule named name in the subtree rooted at from.
// Children are explored in order, depth first. Aliases and the root never match.
func (g *Graph) Search(from NodeID, name string) (NodeID, bool) {
	for id := range g.Walk(from) {
		if r := g.Rule(id); r != nil && id != g.Root() && r.name == name {
			return id, true
		}
	}
	return NoParent, false
}

// Lookup searches the whole graph for the rule named name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	return g.Search(g.Root(), name)
}

// FindParent returns the structural parent of id. The root has none.
func (g *Graph) FindParent(id NodeID) (NodeID, bool) {
	n := g.Node(id)
	if n == nil || n.Parent() == NoParent {
		return NoParent, false
	}
	return n.Parent(), true
}

// FindLeftSibling returns the child immediately before id under the same parent.
func (g *Graph) FindLeftSibling(id NodeID) (NodeID, bool) {
	parent, ok := g.FindParent(id)
	if !ok {
		return NoParent, false
	}
	siblings := g.Rule(parent).children
	for i, c := range siblings {
		if c == id {
			if i == 0 {
				return NoParent, false
			}
			return siblings[i-1], true
		}
	}
	return NoParent, false
}

// AddChild appends a node named name to parent's children.
// The node is an alias if a rule with that name already exists, otherwise a fresh rule.
func (g *Graph) AddChild(parent NodeID, name string) (NodeID, error) {
	p := g.Rule(parent)
	if p == nil {
		return NoParent, zerr.With(zerr.Wrap(ErrTargetNotFound, "parent is not a rule"), "parent", int(parent))
	}

	id := NodeID(len(g.nodes))
	if target, ok := g.Lookup(name); ok {
		g.nodes = append(g.nodes, &Alias{id: id, name: name, parent: parent, target: target})
	} else {
		g.nodes = append(g.nodes, &Rule{id: id, name: name, parent: parent})
	}
	p.children = append(p.children, id)
	return id, nil
}

// DetachAndReparent moves id from its current parent to the end of newParent's children.
// The relative order of the remaining siblings is preserved.
func (g *Graph) DetachAndReparent(id, newParent NodeID) error {
	if id == g.Root() {
		return zerr.With(zerr.Wrap(ErrCycleDetected, "cannot move the root"), "target", g.Name(id))
	}
	n := g.Node(id)
	if n == nil {
		return zerr.With(zerr.Wrap(ErrTargetNotFound, "cannot move missing node"), "node", int(id))
	}
	dst := g.Rule(newParent)
	if dst == nil {
		return zerr.With(zerr.Wrap(ErrTargetNotFound, "new parent is not a rule"), "parent", int(newParent))
	}
	for anc := newParent; anc != NoParent; anc = g.nodes[anc].Parent() {
		if anc == id {
			return zerr.With(
				zerr.With(zerr.Wrap(ErrCycleDetected, "target would depend on itself"), "target", n.Name()),
				"parent", dst.name,
			)
		}
	}

	src := g.Rule(n.Parent())
	for i, c := range src.children {
		if c == id {
			src.children = append(src.children[:i:i], src.children[i+1:]...)
			break
		}
	}
	dst.children = append(dst.children, id)

	switch v := n.(type) {
	case *Rule:
		v.parent = newParent
	case *Alias:
		v.parent = newParent
	}
	return nil
}

// FindOrCreate returns the rule named name, creating it under the root if absent.
func (g *Graph) FindOrCreate(name string) NodeID {
	if id, ok := g.Lookup(name); ok {
		return id
	}
	id, _ := g.AddChild(g.Root(), name)
	return id
}

// Resolve maps an alias to the rule it stands in for. Rules resolve to themselves.
func (g *Graph) Resolve(id NodeID) NodeID {
	if a, ok := g.Node(id).(*Alias); ok {
		return a.target
	}
	return id
}

// AddCommand appends cmd to the command list of the rule behind id.
func (g *Graph) AddCommand(id NodeID, cmd string) error {
	r := g.Rule(g.Resolve(id))
	if r == nil || id == g.Root() {
		return zerr.With(zerr.Wrap(ErrTargetNotFound, "cannot attach command"), "node", int(id))
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// MarkDeclared records that the rule behind id has been the head of a rule line.
func (g *Graph) MarkDeclared(id NodeID) {
	if r := g.Rule(g.Resolve(id)); r != nil {
		r.declared = true
	}
}

// Render writes the subtree rooted at from as an indented tree.
func (g *Graph) Render(w io.Writer, from NodeID) error {
	depth := func(id NodeID) int {
		d := 0
		for p := g.nodes[id].Parent(); p != NoParent && id != from; p = g.nodes[p].Parent() {
			d++
			if p == from {
				break
			}
		}
		return d
	}

	for id := range g.Walk(from) {
		line := strings.Repeat("  ", depth(id)) + g.Name(id)
		if _, ok := g.Node(id).(*Alias); ok {
			line += " -> (alias)"
		} else if cmds := g.Rule(id).commands; len(cmds) > 0 {
			line += fmt.Sprintf(" [%d]", len(cmds))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
