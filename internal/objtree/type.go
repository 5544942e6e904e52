// Package objtree implements the DreamMaker object tree: the persistent
// in-memory representation of every type in the program, each carrying
// its own variables and procedures. The tree is built incrementally from
// path fragments emitted by the parser, then finalized once to resolve
// semantic parent types and fold constants. After finalization the tree
// is immutable and safe for shared read access.
package objtree

import (
	"strings"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/constants"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

// NodeIndex is a stable handle into the tree's node arena.
type NodeIndex int

// BadNodeIndex marks an unresolved semantic parent. Every node carries
// it until the finalization pass runs.
const BadNodeIndex NodeIndex = -1

// VarDeclaration is the declaring occurrence of a variable: its static
// type annotation and the location where the var keyword appeared.
type VarDeclaration struct {
	VarType  ast.VarType
	Location position.Location
}

// VarValue is the value half of a variable slot.
type VarValue struct {
	Location position.Location
	// Expression is the syntactic value, as specified in the source.
	Expression ast.Expression
	// Constant is the evaluated value, populated once during
	// finalization for non-static and non-tmp vars.
	Constant constants.Constant
	// BeingEvaluated guards against re-entrant constant evaluation.
	BeingEvaluated bool
	Docs           ast.DocCollection
}

// TypeVar is one variable slot on a type. A slot with no Declaration is
// an override of a variable declared on an ancestor; a slot with a
// Declaration is the declaring occurrence.
type TypeVar struct {
	Value       VarValue
	Declaration *VarDeclaration
}

// ProcDeclaration is the declaring occurrence of a proc: where it was
// declared and whether it used the verb keyword. It is set by the first
// occurrence that used proc or verb and never overwritten.
type ProcDeclaration struct {
	Location position.Location
	IsVerb   bool
}

// CodeKind discriminates the body variants of a proc value.
type CodeKind int

const (
	// CodePresent means the body parsed successfully.
	CodePresent CodeKind = iota
	// CodeInvalid means the body failed to parse.
	CodeInvalid
	// CodeBuiltin means the proc is a built-in with no source body.
	CodeBuiltin
	// CodeDisabled means body parsing was turned off.
	CodeDisabled
)

// Code is a proc body, or the reason there isn't one.
type Code struct {
	Kind       CodeKind
	Statements []ast.Statement // set when Kind == CodePresent
	Err        error           // set when Kind == CodeInvalid
}

// Present wraps a parsed statement body.
func Present(statements []ast.Statement) Code {
	return Code{Kind: CodePresent, Statements: statements}
}

// Invalid records a body that failed to parse.
func Invalid(err error) Code {
	return Code{Kind: CodeInvalid, Err: err}
}

// Builtin marks a proc with no source body.
func Builtin() Code {
	return Code{Kind: CodeBuiltin}
}

// Disabled marks a body that was stripped.
func Disabled() Code {
	return Code{Kind: CodeDisabled}
}

// ProcValue is one textual occurrence of a proc: its parameters, docs,
// and body. Redeclaring the same name under the same type appends
// another ProcValue to the slot.
type ProcValue struct {
	Location   position.Location
	Parameters []ast.Parameter
	Docs       ast.DocCollection
	Code       Code
}

// TypeProc is one procedure slot on a type: the ordered override list
// (index 0 is the earliest occurrence) plus the optional declaration.
type TypeProc struct {
	Value       []*ProcValue
	Declaration *ProcDeclaration
}

// Type is one node of the object tree.
type Type struct {
	Name     string
	Path     string
	Location position.Location
	// locationSpecificity tracks how directly the recorded location
	// named this path; smaller is more specific.
	locationSpecificity int
	Vars                VarMap
	Procs               ProcMap
	Docs                ast.DocCollection

	// parentType is the semantic parent, resolved during finalization.
	parentType NodeIndex
	// lexicalParent and children are the tree edges.
	lexicalParent NodeIndex
	children      []NodeIndex
}

// ParentTypeIndex returns the resolved semantic parent, or false for
// the root or before finalization.
func (t *Type) ParentTypeIndex() (NodeIndex, bool) {
	if t.parentType == BadNodeIndex {
		return BadNodeIndex, false
	}
	return t.parentType, true
}

// IsRoot checks whether this node is the root node, on which global
// vars and procs reside.
func (t *Type) IsRoot() bool {
	return t.Path == ""
}

// PrettyPath returns the path, or "(global)" for the root.
func (t *Type) PrettyPath() string {
	if t.IsRoot() {
		return "(global)"
	}
	return t.Path
}

// IsSubpathOf checks whether this type's path is textually beneath the
// given parent path, which must end with a slash.
func (t *Type) IsSubpathOf(parent string) bool {
	return Subpath(t.Path, parent)
}

// Subpath checks whether path is parent or lexically beneath it.
// parent must end with a slash.
func Subpath(path, parent string) bool {
	return path == parent[:len(parent)-1] || strings.HasPrefix(path, parent)
}
