package consteval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/constants"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
	"github.com/Watermelon914/SpacemanDMM/internal/objtree"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

func loc(line int) position.Location {
	return position.Location{Filename: "test.dm", Line: line, Column: 1}
}

func addVar(t *testing.T, tree *objtree.ObjectTree, line int, path []string, expr ast.Expression) {
	t.Helper()
	require.NoError(t, tree.AddVar(loc(line), path, len(path), expr, ast.DocCollection{}, ast.VarSuffix{}))
}

func constantOf(t *testing.T, tree *objtree.ObjectTree, path, name string) constants.Constant {
	t.Helper()
	value, ok := tree.Expect(path).GetValue(name)
	require.True(t, ok)
	return value.Constant
}

func TestEvaluateLiterals(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "damage"}, &ast.IntLiteral{Value: 5})
	addVar(t, tree, 2, []string{"obj", "var", "name"}, &ast.StringLiteral{Value: "thing"})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, New(), false)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, constants.Int{Value: 5}, constantOf(t, tree, "/obj", "damage"))
	assert.Equal(t, constants.Str{Value: "thing"}, constantOf(t, tree, "/obj", "name"))
}

func TestVarWithoutInitializerFoldsToNull(t *testing.T) {
	tree := objtree.New()
	segs := []string{"obj", "var", "holder"}
	require.NoError(t, tree.AddEntry(loc(1), segs, len(segs), ast.DocCollection{}, ast.VarSuffix{}))

	tree.Finalize(diagnostics.NewContext(), New(), false)
	assert.Equal(t, constants.Null{}, constantOf(t, tree, "/obj", "holder"))
}

func TestIdentifierResolvesThroughAncestors(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "base_damage"}, &ast.IntLiteral{Value: 3})
	addVar(t, tree, 2, []string{"obj", "item", "var", "damage"}, &ast.Identifier{Name: "base_damage"})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, New(), false)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, constants.Int{Value: 3}, constantOf(t, tree, "/obj/item", "damage"))
}

func TestArithmeticFolding(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "a"}, &ast.BinaryExpr{
		Op:  "+",
		LHS: &ast.IntLiteral{Value: 2},
		RHS: &ast.BinaryExpr{Op: "*", LHS: &ast.IntLiteral{Value: 3}, RHS: &ast.IntLiteral{Value: 4}},
	})
	addVar(t, tree, 2, []string{"obj", "var", "s"}, &ast.BinaryExpr{
		Op:  "+",
		LHS: &ast.StringLiteral{Value: "ab"},
		RHS: &ast.StringLiteral{Value: "cd"},
	})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, New(), false)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, constants.Int{Value: 14}, constantOf(t, tree, "/obj", "a"))
	assert.Equal(t, constants.Str{Value: "abcd"}, constantOf(t, tree, "/obj", "s"))
}

func TestStaticAndTmpVarsAreSkipped(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "static", "cache"}, &ast.IntLiteral{Value: 1})
	addVar(t, tree, 2, []string{"obj", "var", "tmp", "scratch"}, &ast.IntLiteral{Value: 2})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, New(), false)

	assert.False(t, ctx.HasErrors())
	assert.Nil(t, constantOf(t, tree, "/obj", "cache"))
	assert.Nil(t, constantOf(t, tree, "/obj", "scratch"))
}

func TestRecursiveDefinitionReportsCycle(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "a"}, &ast.Identifier{Name: "b"})
	addVar(t, tree, 2, []string{"obj", "var", "b"}, &ast.Identifier{Name: "a"})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, New(), false)

	require.True(t, ctx.HasErrors())
	found := false
	for _, d := range ctx.Diagnostics() {
		if d.Message == `recursive loop in constant evaluation of "a"` ||
			d.Message == `recursive loop in constant evaluation of "b"` {
			found = true
		}
	}
	assert.True(t, found, "expected a recursive loop diagnostic")
}

func TestUnknownIdentifierStrictVsSloppy(t *testing.T) {
	build := func() *objtree.ObjectTree {
		tree := objtree.New()
		addVar(t, tree, 1, []string{"obj", "var", "x"}, &ast.Identifier{Name: "missing"})
		return tree
	}

	t.Run("strict reports", func(t *testing.T) {
		ctx := diagnostics.NewContext()
		build().Finalize(ctx, New(), false)
		assert.True(t, ctx.HasErrors())
	})

	t.Run("sloppy folds to null", func(t *testing.T) {
		ctx := diagnostics.NewContext()
		tree := build()
		tree.Finalize(ctx, New(), true)
		assert.False(t, ctx.HasErrors())
		assert.Equal(t, constants.Null{}, constantOf(t, tree, "/obj", "x"))
	})
}

func TestConstantIsImmutableAcrossReruns(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "damage"}, &ast.IntLiteral{Value: 5})

	ctx := diagnostics.NewContext()
	ev := New()
	tree.Finalize(ctx, ev, false)
	first := constantOf(t, tree, "/obj", "damage")

	// A second pass finds every constant already populated and leaves
	// it untouched.
	ev.EvaluateAll(ctx, tree, false)
	assert.Equal(t, first, constantOf(t, tree, "/obj", "damage"))
	assert.False(t, ctx.HasErrors())
}

func TestPrefabConstant(t *testing.T) {
	tree := objtree.New()
	addVar(t, tree, 1, []string{"obj", "var", "spawn_type"}, &ast.PrefabExpr{Path: []string{"mob", "goon"}})

	ctx := diagnostics.NewContext()
	tree.Finalize(ctx, New(), false)

	prefab, ok := constantOf(t, tree, "/obj", "spawn_type").(*constants.Prefab)
	require.True(t, ok)
	assert.Equal(t, "/mob/goon", prefab.PathString())
}
