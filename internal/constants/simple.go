package constants

import (
	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

// SimpleEvaluate folds an expression that must not depend on the
// object tree: literals, prefab literals with constant overrides, and
// numeric negation. Anything that would need name resolution is an
// error. The parent-type resolver uses this to fold parent_type
// overrides before constant evaluation proper has run.
func SimpleEvaluate(expr ast.Expression, loc position.Location) (Constant, error) {
	switch e := expr.(type) {
	case *ast.NullLiteral:
		return Null{}, nil
	case *ast.IntLiteral:
		return Int{Value: e.Value}, nil
	case *ast.FloatLiteral:
		return Float{Value: e.Value}, nil
	case *ast.StringLiteral:
		return Str{Value: e.Value}, nil
	case *ast.PrefabExpr:
		prefab := &Prefab{Path: e.Path}
		for _, field := range e.Vars {
			value, err := SimpleEvaluate(field.Value, loc)
			if err != nil {
				return nil, err
			}
			prefab.Vars = append(prefab.Vars, PrefabVar{Name: field.Name, Value: value})
		}
		return prefab, nil
	case *ast.ListExpr:
		list := &List{}
		for _, el := range e.Elements {
			value, err := SimpleEvaluate(el, loc)
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, value)
		}
		return list, nil
	case *ast.UnaryExpr:
		return simpleUnary(e, loc)
	default:
		return nil, diagnostics.NewError(loc, "expected constant expression, got %s", expr)
	}
}

func simpleUnary(e *ast.UnaryExpr, loc position.Location) (Constant, error) {
	operand, err := SimpleEvaluate(e.Operand, loc)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		switch v := operand.(type) {
		case Int:
			return Int{Value: -v.Value}, nil
		case Float:
			return Float{Value: -v.Value}, nil
		}
	case "!":
		if IsTruthy(operand) {
			return Int{Value: 0}, nil
		}
		return Int{Value: 1}, nil
	}
	return nil, diagnostics.NewError(loc, "cannot fold unary %s on %s", e.Op, operand)
}
