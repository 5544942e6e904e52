package objtree

import (
	"fmt"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
)

// TypeRef is a lightweight read-only reference to one type in a tree.
// It is a value type: copy freely, compare with ==. Two refs are equal
// only when they point into the same tree at the same node.
type TypeRef struct {
	tree *ObjectTree
	idx  NodeIndex
}

// Get returns the referenced type node.
func (r TypeRef) Get() *Type {
	return r.tree.node(r.idx)
}

// Index returns the node handle within the owning tree.
func (r TypeRef) Index() NodeIndex {
	return r.idx
}

// Name returns the type's name, the last segment of its path.
func (r TypeRef) Name() string {
	return r.Get().Name
}

// Path returns the type's full path.
func (r TypeRef) Path() string {
	return r.Get().Path
}

// IsRoot checks whether this is the root node.
func (r TypeRef) IsRoot() bool {
	return r.Get().IsRoot()
}

// PrettyPath returns the path, or "(global)" for the root.
func (r TypeRef) PrettyPath() string {
	return r.Get().PrettyPath()
}

func (r TypeRef) String() string {
	return r.PrettyPath()
}

// ParentPath finds the lexical parent, without taking parent_type into
// account.
func (r TypeRef) ParentPath() (TypeRef, bool) {
	parent := r.Get().lexicalParent
	if parent == BadNodeIndex {
		return TypeRef{}, false
	}
	return TypeRef{tree: r.tree, idx: parent}, true
}

// ParentType finds the semantic parent resolved during finalization, or
// reports false for the root. Before finalization every type reports
// false.
func (r TypeRef) ParentType() (TypeRef, bool) {
	parent, ok := r.Get().ParentTypeIndex()
	if !ok {
		return TypeRef{}, false
	}
	return TypeRef{tree: r.tree, idx: parent}, true
}

// Child finds a direct lexical child with the given name, if it exists.
func (r TypeRef) Child(name string) (TypeRef, bool) {
	for _, idx := range r.Get().children {
		if r.tree.node(idx).Name == name {
			return TypeRef{tree: r.tree, idx: idx}, true
		}
	}
	return TypeRef{}, false
}

// Children returns all direct lexical children in declaration order.
func (r TypeRef) Children() []TypeRef {
	node := r.Get()
	out := make([]TypeRef, 0, len(node.children))
	for _, idx := range node.children {
		out = append(out, TypeRef{tree: r.tree, idx: idx})
	}
	return out
}

// Recurse visits this type and every lexical descendant, depth-first in
// declaration order.
func (r TypeRef) Recurse(f func(TypeRef)) {
	f(r)
	for _, child := range r.Children() {
		child.Recurse(f)
	}
}

// VisitParentTypes visits this type and every semantic ancestor.
func (r TypeRef) VisitParentTypes(f func(TypeRef)) {
	current, ok := r, true
	for ok {
		f(current)
		current, ok = current.ParentType()
	}
}

// VisitParentPaths visits this type and every lexical ancestor.
func (r TypeRef) VisitParentPaths(f func(TypeRef)) {
	current, ok := r, true
	for ok {
		f(current)
		current, ok = current.ParentPath()
	}
}

// Navigate resolves one relative path step according to the operator.
func (r TypeRef) Navigate(op ast.PathOp, name string) (TypeRef, bool) {
	switch op {
	case ast.PathSlash:
		// '/' always looks for a direct child
		return r.Child(name)
	case ast.PathDot:
		// '.' looks for a child of us or of any of our parents
		current, ok := r, true
		for ok {
			if child, found := current.Child(name); found {
				return child, true
			}
			current, ok = current.ParentPath()
		}
		return TypeRef{}, false
	case ast.PathColon:
		// ':' looks for a child of us or of any of our children
		if child, found := r.Child(name); found {
			return child, true
		}
		for _, child := range r.Children() {
			// Yes, simply returning the first thing that matches
			// is the correct behavior.
			if found, ok := child.Navigate(ast.PathColon, name); ok {
				return found, true
			}
		}
		return TypeRef{}, false
	default:
		return TypeRef{}, false
	}
}

// NavigatePiece is one (operator, name) step of a relative type path.
type NavigatePiece struct {
	Op   ast.PathOp
	Name string
}

// NavigatePath finds another type relative to this one. A leading slash
// operator restarts resolution from the tree root, matching the
// language's convention that a fully rooted path is absolute.
func (r TypeRef) NavigatePath(pieces []NavigatePiece) (TypeRef, bool) {
	if len(pieces) == 0 {
		return r, true
	}
	var next TypeRef
	var ok bool
	if pieces[0].Op == ast.PathSlash {
		next, ok = r.tree.Root().Child(pieces[0].Name)
	} else {
		next, ok = r.Navigate(pieces[0].Op, pieces[0].Name)
	}
	for _, piece := range pieces[1:] {
		if !ok {
			return TypeRef{}, false
		}
		next, ok = next.Navigate(piece.Op, piece.Name)
	}
	return next, ok
}

// IsSubtypeOf checks whether this type is the given type or inherits
// from it through the semantic parent chain.
func (r TypeRef) IsSubtypeOf(parent TypeRef) bool {
	current, ok := r, true
	for ok {
		if current == parent {
			return true
		}
		current, ok = current.ParentType()
	}
	return false
}

// IsSubpathOf checks whether this type's path is textually beneath the
// given parent path, which must end with a slash.
func (r TypeRef) IsSubpathOf(parent string) bool {
	return r.Get().IsSubpathOf(parent)
}

// GetValue finds the value of the named var on this type or the nearest
// semantic ancestor that mentions it, declared or overridden.
func (r TypeRef) GetValue(name string) (*VarValue, bool) {
	current, ok := r, true
	for ok {
		if typeVar, found := current.Get().Vars.Get(name); found {
			return &typeVar.Value, true
		}
		current, ok = current.ParentType()
	}
	return nil, false
}

// GetVarDeclaration finds the declaring occurrence of the named var on
// this type or a semantic ancestor, skipping ancestors that only
// override the value.
func (r TypeRef) GetVarDeclaration(name string) (*VarDeclaration, bool) {
	current, ok := r, true
	for ok {
		if typeVar, found := current.Get().Vars.Get(name); found && typeVar.Declaration != nil {
			return typeVar.Declaration, true
		}
		current, ok = current.ParentType()
	}
	return nil, false
}

// GetProc finds the named proc on this type or the nearest semantic
// ancestor, anchored at that type's most-derived override.
func (r TypeRef) GetProc(name string) (ProcRef, bool) {
	current, ok := r, true
	for ok {
		if proc, found := current.Get().Procs.Get(name); found {
			return ProcRef{ty: current, name: name, idx: len(proc.Value) - 1}, true
		}
		current, ok = current.ParentType()
	}
	return ProcRef{}, false
}

// GetProcDeclaration finds the declaring occurrence of the named proc
// on this type or a semantic ancestor.
func (r TypeRef) GetProcDeclaration(name string) (*ProcDeclaration, bool) {
	current, ok := r, true
	for ok {
		if proc, found := current.Get().Procs.Get(name); found && proc.Declaration != nil {
			return proc.Declaration, true
		}
		current, ok = current.ParentType()
	}
	return nil, false
}

// IterSelfProcs visits every proc occurrence registered directly on
// this type, in declaration order, earliest occurrence first.
func (r TypeRef) IterSelfProcs(f func(ProcRef)) {
	r.Get().Procs.Each(func(name string, proc *TypeProc) bool {
		for idx := range proc.Value {
			f(ProcRef{ty: r, name: name, idx: idx})
		}
		return true
	})
}

// ProcRef is a lightweight read-only reference to one occurrence of a
// proc on one type: the type, the proc name, and the index into the
// type's override list for that name. It is a value type comparable
// with ==.
type ProcRef struct {
	ty   TypeRef
	name string
	idx  int
}

// Get returns the referenced proc occurrence.
func (p ProcRef) Get() *ProcValue {
	proc, _ := p.ty.Get().Procs.Get(p.name)
	return proc.Value[p.idx]
}

// Ty returns the type the occurrence is registered on.
func (p ProcRef) Ty() TypeRef {
	return p.ty
}

// Name returns the proc's name.
func (p ProcRef) Name() string {
	return p.name
}

// Index returns the occurrence's position in its type's override list.
func (p ProcRef) Index() int {
	return p.idx
}

// ParentProc finds the proc this occurrence overrides: the previous
// occurrence in the same type's override list, or the nearest semantic
// ancestor's latest override when this is the earliest occurrence.
func (p ProcRef) ParentProc() (ProcRef, bool) {
	if p.idx > 0 {
		return ProcRef{ty: p.ty, name: p.name, idx: p.idx - 1}, true
	}
	if parent, ok := p.ty.ParentType(); ok {
		return parent.GetProc(p.name)
	}
	return ProcRef{}, false
}

func (p ProcRef) String() string {
	proc, _ := p.ty.Get().Procs.Get(p.name)
	s := fmt.Sprintf("%s/proc/%s", p.ty.Path(), p.name)
	if len(proc.Value) > 1 {
		s += fmt.Sprintf("[%d/%d]", p.idx, len(proc.Value))
	}
	return s
}
