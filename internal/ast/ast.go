// Package ast defines the syntax surface consumed by the object tree:
// expressions, statements, parameters, variable type annotations, and
// the path operators used for relative type navigation. Parsing itself
// lives outside this module; the parser hands the tree builder plain
// path segments plus the nodes defined here.
package ast

import (
	"fmt"
	"strings"
)

// Expression represents all expression nodes.
type Expression interface {
	expressionNode() // Marker method to distinguish expressions
	String() string
}

// Statement represents all statement nodes. The object tree stores
// proc bodies without inspecting them.
type Statement interface {
	statementNode() // Marker method to distinguish statements
	String() string
}

// ===== Expressions =====

// StringLiteral is a quoted string.
type StringLiteral struct {
	Value string
}

// IntLiteral is an integer number.
type IntLiteral struct {
	Value int32
}

// FloatLiteral is a floating-point number.
type FloatLiteral struct {
	Value float32
}

// NullLiteral is the null keyword.
type NullLiteral struct{}

// Identifier is a bare name, resolved against enclosing type vars
// during constant folding.
type Identifier struct {
	Name string
}

// PrefabExpr is a type-reference literal such as /obj/item or
// /obj/item{name = "x"}: a rooted path plus optional var overrides.
type PrefabExpr struct {
	Path []string
	Vars []PrefabField
}

// PrefabField is one var override inside a prefab literal.
type PrefabField struct {
	Name  string
	Value Expression
}

// ListExpr is a list(...) constructor.
type ListExpr struct {
	Elements []Expression
}

// UnaryExpr is a prefix operator application.
type UnaryExpr struct {
	Op      string
	Operand Expression
}

// BinaryExpr is an infix operator application.
type BinaryExpr struct {
	Op  string
	LHS Expression
	RHS Expression
}

func (*StringLiteral) expressionNode() {}
func (*IntLiteral) expressionNode()    {}
func (*FloatLiteral) expressionNode()  {}
func (*NullLiteral) expressionNode()   {}
func (*Identifier) expressionNode()    {}
func (*PrefabExpr) expressionNode()    {}
func (*ListExpr) expressionNode()      {}
func (*UnaryExpr) expressionNode()     {}
func (*BinaryExpr) expressionNode()    {}

func (e *StringLiteral) String() string { return fmt.Sprintf("%q", e.Value) }
func (e *IntLiteral) String() string    { return fmt.Sprintf("%d", e.Value) }
func (e *FloatLiteral) String() string  { return fmt.Sprintf("%g", e.Value) }
func (*NullLiteral) String() string     { return "null" }
func (e *Identifier) String() string    { return e.Name }

func (e *PrefabExpr) String() string {
	var sb strings.Builder
	for _, piece := range e.Path {
		sb.WriteByte('/')
		sb.WriteString(piece)
	}
	if len(e.Vars) > 0 {
		sb.WriteString(" {")
		for i, v := range e.Vars {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s = %s", v.Name, v.Value)
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

func (e *ListExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "list(" + strings.Join(parts, ", ") + ")"
}

func (e *UnaryExpr) String() string {
	return e.Op + e.Operand.String()
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.LHS, e.Op, e.RHS)
}

// ===== Statements =====

// ExpressionStatement wraps an expression evaluated for effect.
type ExpressionStatement struct {
	Expr Expression
}

// ReturnStatement is a return, with or without a value.
type ReturnStatement struct {
	Value Expression // may be nil
}

func (*ExpressionStatement) statementNode() {}
func (*ReturnStatement) statementNode()     {}

func (s *ExpressionStatement) String() string { return s.Expr.String() }

func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// ===== Declarations =====

// Parameter is one formal parameter of a proc.
type Parameter struct {
	Name     string
	TypePath []string   // declared input type, empty if untyped
	Default  Expression // nil if no default
}

func (p Parameter) String() string {
	if len(p.TypePath) == 0 {
		return p.Name
	}
	return strings.Join(p.TypePath, "/") + "/" + p.Name
}

// VarType is the static type annotation of a declared variable: the
// qualifier flags plus the declared type path (without the var keyword
// or the variable name).
type VarType struct {
	IsStatic bool
	IsConst  bool
	IsTmp    bool
	TypePath []string
}

func (vt VarType) String() string {
	var sb strings.Builder
	sb.WriteString("var")
	if vt.IsStatic {
		sb.WriteString("/static")
	}
	if vt.IsConst {
		sb.WriteString("/const")
	}
	if vt.IsTmp {
		sb.WriteString("/tmp")
	}
	for _, piece := range vt.TypePath {
		sb.WriteByte('/')
		sb.WriteString(piece)
	}
	return sb.String()
}

// VarSuffix captures array-dimension suffixes on a variable name, such
// as the [5] in var/list/L[5]. A sized suffix implies a list
// initializer even when no explicit value was written.
type VarSuffix struct {
	ListDims []Expression
}

// IntoInitializer returns the initializer implied by the suffix, or nil
// if the suffix carries no dimensions.
func (vs VarSuffix) IntoInitializer() Expression {
	if len(vs.ListDims) == 0 {
		return nil
	}
	return &ListExpr{Elements: vs.ListDims}
}

// Apply folds the suffix into the variable's type annotation: any
// dimensioned var is implicitly a list.
func (vs VarSuffix) Apply(vt *VarType) {
	if len(vs.ListDims) == 0 {
		return
	}
	if len(vt.TypePath) == 0 || vt.TypePath[len(vt.TypePath)-1] != "list" {
		vt.TypePath = append(vt.TypePath, "list")
	}
}

// ===== Path operators =====

// PathOp is one of the three relative path navigation operators.
type PathOp int

const (
	// PathSlash always looks for a direct child.
	PathSlash PathOp = iota
	// PathDot looks for a child of us or of any of our lexical parents.
	PathDot
	// PathColon looks for a child of us or of any of our children.
	PathColon
)

func (op PathOp) String() string {
	switch op {
	case PathSlash:
		return "/"
	case PathDot:
		return "."
	case PathColon:
		return ":"
	default:
		return "?"
	}
}
