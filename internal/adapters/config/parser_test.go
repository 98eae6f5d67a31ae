package config_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mymake/internal/adapters/config"
	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/zerr"
)

func parse(t *testing.T, src string) *domain.Description {
	t.Helper()
	desc, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return desc
}

func names(g *domain.Graph, ids []domain.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Name(id)
	}
	return out
}

func TestParse_RulesAndCommands(t *testing.T) {
	desc := parse(t, "a: b\n\tcmd_a\n\n# comment\nb:\n\tcmd_b\n\tcmd_b2\r\n")
	g := desc.Graph

	assert.Equal(t, "a", desc.DefaultTarget)

	a, ok := g.Lookup("a")
	require.True(t, ok)
	b, ok := g.Lookup("b")
	require.True(t, ok)

	assert.Equal(t, []string{"cmd_a"}, g.Rule(a).Commands())
	assert.Equal(t, []string{"cmd_b", "cmd_b2"}, g.Rule(b).Commands())
	assert.Equal(t, []domain.NodeID{b}, g.Children(a))
	assert.Equal(t, []domain.NodeID{a}, g.Children(g.Root()))
}

func TestParse_ReparentsSpeculativeTargets(t *testing.T) {
	desc := parse(t, "b:\n\tcmd_b\nc:\n\tcmd_c\na: b c\n\tcmd_a\n")
	g := desc.Graph

	a, _ := g.Lookup("a")
	assert.Equal(t, []string{"a"}, names(g, g.Children(g.Root())))
	assert.Equal(t, []string{"b", "c"}, names(g, g.Children(a)))
	assert.Equal(t, "b", desc.DefaultTarget)
}

func TestParse_SharedPrerequisiteBecomesAlias(t *testing.T) {
	desc := parse(t, "all: app lib\napp: util.o\nlib: util.o\nutil.o:\n\tcc -c util.c\n")
	g := desc.Graph

	app, _ := g.Lookup("app")
	lib, _ := g.Lookup("lib")
	util, ok := g.Lookup("util.o")
	require.True(t, ok)

	assert.Equal(t, []domain.NodeID{util}, g.Children(app))
	libChildren := g.Children(lib)
	require.Len(t, libChildren, 1)
	alias, ok := g.Node(libChildren[0]).(*domain.Alias)
	require.True(t, ok)
	assert.Equal(t, util, alias.Target())
	assert.Equal(t, []string{"cc -c util.c"}, g.Rule(util).Commands())
}

func TestParse_DuplicatePrerequisite(t *testing.T) {
	desc := parse(t, "x: y y\n\tcmd_x\ny:\n\tcmd_y\n")
	g := desc.Graph

	x, _ := g.Lookup("x")
	children := g.Children(x)
	require.Len(t, children, 2)
	_, isRule := g.Node(children[0]).(*domain.Rule)
	_, isAlias := g.Node(children[1]).(*domain.Alias)
	assert.True(t, isRule)
	assert.True(t, isAlias)
}

func TestParse_HeadSpacesStripped(t *testing.T) {
	desc := parse(t, "my target : dep\n")
	_, ok := desc.Graph.Lookup("mytarget")
	assert.True(t, ok)
}

func TestParse_ImplicitTargetMayBeDeclared(t *testing.T) {
	desc := parse(t, "a: b\nb: c\n\tcmd_b\n")
	g := desc.Graph

	b, _ := g.Lookup("b")
	assert.Equal(t, []string{"c"}, names(g, g.Children(b)))
	assert.True(t, g.Rule(b).Declared())
}

func TestParse_WhitespaceOnlyCommandIgnored(t *testing.T) {
	desc := parse(t, "a:\n\t   \n\techo a\n")
	a, _ := desc.Graph.Lookup("a")
	assert.Equal(t, []string{"echo a"}, desc.Graph.Rule(a).Commands())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"command before rule", "\techo hi\na:\n", domain.ErrCommandWithoutTarget, 1},
		{"missing separator", "a:\n\techo\nnot a rule\n", domain.ErrMissingSeparator, 3},
		{"missing target name", "a:\n : b\n", domain.ErrMissingTargetName, 2},
		{"redeclared with prerequisites", "a: b\na: c\n", domain.ErrTargetRedeclared, 2},
		{"declared twice then prerequisites", "a:\n\techo\na: c\n", domain.ErrTargetRedeclared, 3},
		{"redeclared after children", "a: b\na:\n", domain.ErrTargetRedeclared, 2},
		{"depends on itself", "a: a\n", domain.ErrCycleDetected, 1},
		{"depends on ancestor", "a: b\nb: a\n", domain.ErrCycleDetected, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var zErr *zerr.Error
			require.True(t, errors.As(err, &zErr))
			assert.Equal(t, tt.line, zErr.Metadata()["line"])
		})
	}
}
