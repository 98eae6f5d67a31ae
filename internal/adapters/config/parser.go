package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxLineSize bounds a single line of a description file.
const maxLineSize = 1 << 20

// Parse reads a description file and builds its target graph.
//
// Rule lines have the form `target: prereq prereq ...`. Lines starting with a tab
// attach a command to the most recent rule. Blank lines and lines starting with '#'
// are ignored.
func Parse(r io.Reader) (*domain.Description, error) {
	p := &parser{
		graph:   domain.NewGraph(),
		current: domain.NoParent,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrDescriptionReadFailed, err.Error()), "line", p.line+1)
	}

	return &domain.Description{
		Graph:         p.graph,
		DefaultTarget: p.defaultTarget,
	}, nil
}

type parser struct {
	graph         *domain.Graph
	current       domain.NodeID
	defaultTarget string
	line          int
}

func (p *parser) parseLine(text string) error {
	text = strings.TrimSuffix(text, "\r")

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	if cmd, ok := strings.CutPrefix(text, "\t"); ok {
		return p.parseCommand(cmd)
	}
	return p.parseRule(text)
}

func (p *parser) parseCommand(cmd string) error {
	if p.current == domain.NoParent {
		return p.fail(domain.ErrCommandWithoutTarget)
	}
	if strings.TrimSpace(cmd) == "" {
		return nil
	}
	return p.graph.AddCommand(p.current, cmd)
}

func (p *parser) parseRule(text string) error {
	head, tail, ok := strings.Cut(text, ":")
	if !ok {
		return p.fail(domain.ErrMissingSeparator)
	}

	name := strings.ReplaceAll(head, " ", "")
	if name == "" {
		return p.fail(domain.ErrMissingTargetName)
	}
	prereqs := strings.Fields(tail)

	id := p.graph.FindOrCreate(name)
	rule := p.graph.Rule(id)
	if len(rule.Children()) > 0 || (rule.Declared() && len(prereqs) > 0) {
		return zerr.With(p.fail(domain.ErrTargetRedeclared), "target", name)
	}
	p.graph.MarkDeclared(id)
	p.current = id
	if p.defaultTarget == "" {
		p.defaultTarget = name
	}

	for _, prereq := range prereqs {
		if err := p.addPrerequisite(id, prereq); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) addPrerequisite(target domain.NodeID, name string) error {
	if existing, ok := p.graph.Lookup(name); ok {
		if parent, _ := p.graph.FindParent(existing); parent == p.graph.Root() {
			if err := p.graph.DetachAndReparent(existing, target); err != nil {
				return zerr.With(zerr.Wrap(err, fmt.Sprintf("line %d", p.line)), "line", p.line)
			}
			return nil
		}
	}
	_, err := p.graph.AddChild(target, name)
	return err
}

func (p *parser) fail(sentinel error) error {
	return zerr.With(zerr.Wrap(sentinel, fmt.Sprintf("line %d", p.line)), "line", p.line)
}
