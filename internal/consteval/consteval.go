// Package consteval folds every variable initializer in a finalized
// object tree to a constant value. Identifiers resolve against the
// declaring type's semantic ancestor chain, so one var's constant may
// require folding another first; the per-slot in-progress flag turns a
// cyclic dependency into an error instead of a hang.
package consteval

import (
	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/constants"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
	"github.com/Watermelon914/SpacemanDMM/internal/objtree"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

// Evaluator implements objtree.ConstantFolder.
type Evaluator struct{}

// New creates an evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// EvaluateAll folds the vars of the root and of every registered type,
// in path order. Static and tmp vars are runtime state and are skipped.
// With sloppy set, names that cannot be resolved fold to null silently
// instead of reporting an error.
func (e *Evaluator) EvaluateAll(ctx *diagnostics.Context, tree *objtree.ObjectTree, sloppy bool) {
	walk := &walker{ctx: ctx, tree: tree, sloppy: sloppy}
	walk.foldType(tree.Root())
	tree.EachType(walk.foldType)
}

type walker struct {
	ctx    *diagnostics.Context
	tree   *objtree.ObjectTree
	sloppy bool
}

func (w *walker) foldType(ty objtree.TypeRef) {
	for _, name := range ty.Get().Vars.Names() {
		w.foldVar(ty, name)
	}
}

// foldVar computes and stores the constant for one var slot, if it does
// not already have one.
func (w *walker) foldVar(ty objtree.TypeRef, name string) (constants.Constant, bool) {
	typeVar, ok := ty.Get().Vars.Get(name)
	if !ok {
		return nil, false
	}
	if typeVar.Value.Constant != nil {
		return typeVar.Value.Constant, true
	}
	if decl, ok := ty.GetVarDeclaration(name); ok {
		if decl.VarType.IsStatic || decl.VarType.IsTmp {
			return nil, false // runtime state, not a constant
		}
	}
	if typeVar.Value.BeingEvaluated {
		w.ctx.RegisterError(diagnostics.NewError(typeVar.Value.Location,
			"recursive loop in constant evaluation of %q", name))
		return nil, false
	}

	typeVar.Value.BeingEvaluated = true
	defer func() { typeVar.Value.BeingEvaluated = false }()

	var constant constants.Constant
	if typeVar.Value.Expression == nil {
		constant = constants.Null{}
	} else {
		var err error
		constant, err = w.fold(ty, typeVar.Value.Expression, typeVar)
		if err != nil {
			w.ctx.RegisterError(err)
			return nil, false
		}
	}
	typeVar.Value.Constant = constant
	return constant, true
}

func (w *walker) fold(ty objtree.TypeRef, expr ast.Expression, slot *objtree.TypeVar) (constants.Constant, error) {
	loc := slot.Value.Location
	switch e := expr.(type) {
	case *ast.Identifier:
		return w.foldIdentifier(ty, e.Name, loc)
	case *ast.PrefabExpr:
		prefab := &constants.Prefab{Path: e.Path}
		for _, field := range e.Vars {
			value, err := w.fold(ty, field.Value, slot)
			if err != nil {
				return nil, err
			}
			prefab.Vars = append(prefab.Vars, constants.PrefabVar{Name: field.Name, Value: value})
		}
		return prefab, nil
	case *ast.ListExpr:
		list := &constants.List{}
		for _, el := range e.Elements {
			value, err := w.fold(ty, el, slot)
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, value)
		}
		return list, nil
	case *ast.BinaryExpr:
		return w.foldBinary(ty, e, slot)
	default:
		return constants.SimpleEvaluate(expr, loc)
	}
}

// foldIdentifier resolves a bare name against the semantic ancestor
// chain, folding the referenced var first when needed.
func (w *walker) foldIdentifier(ty objtree.TypeRef, name string, loc position.Location) (constants.Constant, error) {
	current, ok := ty, true
	for ok {
		if _, found := current.Get().Vars.Get(name); found {
			if constant, folded := w.foldVar(current, name); folded {
				return constant, nil
			}
			// Found but not foldable: either a cycle already reported
			// or runtime state. Fold to null and carry on.
			return constants.Null{}, nil
		}
		current, ok = current.ParentType()
	}
	if w.sloppy {
		return constants.Null{}, nil
	}
	return nil, diagnostics.NewError(loc, "unknown variable %q in constant expression", name)
}

func (w *walker) foldBinary(ty objtree.TypeRef, e *ast.BinaryExpr, slot *objtree.TypeVar) (constants.Constant, error) {
	lhs, err := w.fold(ty, e.LHS, slot)
	if err != nil {
		return nil, err
	}
	rhs, err := w.fold(ty, e.RHS, slot)
	if err != nil {
		return nil, err
	}
	if c, ok := foldArithmetic(e.Op, lhs, rhs); ok {
		return c, nil
	}
	return nil, diagnostics.NewError(slot.Value.Location,
		"cannot fold %s %s %s", lhs, e.Op, rhs)
}

// foldArithmetic handles the numeric and string operators that appear
// in constant initializers.
func foldArithmetic(op string, lhs, rhs constants.Constant) (constants.Constant, bool) {
	if l, ok := lhs.(constants.Str); ok {
		if r, ok := rhs.(constants.Str); ok && op == "+" {
			return constants.Str{Value: l.Value + r.Value}, true
		}
		return nil, false
	}

	lf, lok := numeric(lhs)
	rf, rok := numeric(rhs)
	if !lok || !rok {
		return nil, false
	}
	var result float32
	switch op {
	case "+":
		result = lf + rf
	case "-":
		result = lf - rf
	case "*":
		result = lf * rf
	case "/":
		if rf == 0 {
			return nil, false
		}
		result = lf / rf
	default:
		return nil, false
	}
	_, lInt := lhs.(constants.Int)
	_, rInt := rhs.(constants.Int)
	if lInt && rInt && result == float32(int32(result)) {
		return constants.Int{Value: int32(result)}, true
	}
	return constants.Float{Value: result}, true
}

func numeric(c constants.Constant) (float32, bool) {
	switch v := c.(type) {
	case constants.Int:
		return float32(v.Value), true
	case constants.Float:
		return v.Value, true
	default:
		return 0, false
	}
}
