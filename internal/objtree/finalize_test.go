package objtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
)

func parentPathOf(t *testing.T, tree *ObjectTree, path string) string {
	t.Helper()
	parent, ok := tree.Expect(path).ParentType()
	require.True(t, ok, "parent of %s", path)
	return parent.PrettyPath()
}

func TestHardcodedBuiltinParents(t *testing.T) {
	tree := finalized(t,
		"/datum", "/atom/movable", "/turf", "/area", "/obj", "/mob")

	tests := []struct {
		path   string
		parent string
	}{
		{"/datum", "(global)"},
		{"/atom", "/datum"},
		{"/atom/movable", "/atom"},
		{"/turf", "/atom"},
		{"/area", "/atom"},
		{"/obj", "/atom/movable"},
		{"/mob", "/atom/movable"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.parent, parentPathOf(t, tree, tt.path))
		})
	}
}

func TestLexicalParentDefault(t *testing.T) {
	tree := finalized(t, "/datum", "/atom/movable", "/mob/goon")

	// /mob hardcodes to /atom/movable; /mob/goon's default is its
	// lexical parent /mob, so its chain reaches /atom/movable only
	// through /mob.
	assert.Equal(t, "/mob", parentPathOf(t, tree, "/mob/goon"))
	assert.Equal(t, "/atom/movable", parentPathOf(t, tree, "/mob"))

	goon := tree.Expect("/mob/goon")
	assert.True(t, goon.IsSubtypeOf(tree.Expect("/atom/movable")))
}

func TestTopLevelTypeParentsToRoot(t *testing.T) {
	tree := finalized(t, "/widget")
	assert.Equal(t, "(global)", parentPathOf(t, tree, "/widget"))
}

func TestParentTypeStringOverride(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/obj")
	addEntry(t, tree, 2, "/holder")
	addVar(t, tree, 3, "/holder/var/parent_type", &ast.StringLiteral{Value: "/obj"})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, nil, false)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, "/obj", parentPathOf(t, tree, "/holder"))
}

func TestParentTypePrefabOverride(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/obj/item")
	addEntry(t, tree, 2, "/holder")
	addVar(t, tree, 3, "/holder/var/parent_type", &ast.PrefabExpr{Path: []string{"obj", "item"}})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, nil, false)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, "/obj/item", parentPathOf(t, tree, "/holder"))
}

func TestParentTypeBadConstant(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/datum")
	addEntry(t, tree, 2, "/datum/holder")
	addVar(t, tree, 3, "/datum/holder/var/parent_type", &ast.IntLiteral{Value: 5})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, nil, false)

	// The override is rejected at the variable's own location and the
	// type keeps its lexical default.
	require.True(t, ctx.HasErrors())
	d := ctx.Diagnostics()[0]
	assert.Contains(t, d.Message, "bad parent_type")
	assert.Equal(t, testLoc(3), d.Location)
	assert.Equal(t, "/datum", parentPathOf(t, tree, "/datum/holder"))
}

func TestParentTypeEvaluationFailure(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/datum")
	addEntry(t, tree, 2, "/datum/holder")
	addVar(t, tree, 3, "/datum/holder/var/parent_type", &ast.Identifier{Name: "something"})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, nil, false)

	require.True(t, ctx.HasErrors())
	assert.Equal(t, "/datum", parentPathOf(t, tree, "/datum/holder"))
}

func TestParentTypeUnknownPathFallsBackToRoot(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/holder")
	addVar(t, tree, 2, "/holder/var/parent_type", &ast.StringLiteral{Value: "/missing"})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, nil, false)

	require.True(t, ctx.HasErrors())
	assert.Contains(t, ctx.Diagnostics()[0].Message, "bad parent type for /holder")

	// A bogus parent_type makes the type a subtype only of the root and
	// itself.
	holder := tree.Expect("/holder")
	assert.Equal(t, "(global)", parentPathOf(t, tree, "/holder"))
	assert.True(t, holder.IsSubtypeOf(holder))
	assert.True(t, holder.IsSubtypeOf(tree.Root()))
}

func TestPrefabOverrideWithVarsRejected(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/obj")
	addEntry(t, tree, 2, "/datum")
	addEntry(t, tree, 3, "/datum/holder")
	addVar(t, tree, 4, "/datum/holder/var/parent_type", &ast.PrefabExpr{
		Path: []string{"obj"},
		Vars: []ast.PrefabField{{Name: "name", Value: &ast.StringLiteral{Value: "x"}}},
	})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, nil, false)

	require.True(t, ctx.HasErrors())
	assert.Equal(t, "/datum", parentPathOf(t, tree, "/datum/holder"))
}

type countingFolder struct {
	calls  int
	sloppy bool
}

func (c *countingFolder) EvaluateAll(ctx *diagnostics.Context, tree *ObjectTree, sloppy bool) {
	c.calls++
	c.sloppy = sloppy
}

func TestFinalizeDelegatesToFolder(t *testing.T) {
	tree := New()
	addEntry(t, tree, 1, "/obj")

	folder := &countingFolder{}
	tree.Finalize(diagnostics.NewContext(), folder, true)

	assert.Equal(t, 1, folder.calls)
	assert.True(t, folder.sloppy)
}
