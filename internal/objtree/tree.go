package objtree

import (
	"fmt"
	"sort"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/constants"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

// ObjectTree is the object tree itself: an arena of type nodes linked
// by lexical parent/child edges, plus a path index ordered by path
// string. Node 0 is always the root. Construction happens through the
// AddEntry/AddVar/AddProc entry points; after Finalize the tree is
// read-only.
type ObjectTree struct {
	nodes []*Type
	types map[string]NodeIndex
	paths []string // sorted, mirrors the types map
}

// New creates an object tree holding only the root node.
func New() *ObjectTree {
	tree := &ObjectTree{
		types: make(map[string]NodeIndex),
	}
	tree.nodes = append(tree.nodes, &Type{
		parentType:    BadNodeIndex,
		lexicalParent: BadNodeIndex,
	})
	return tree
}

func (t *ObjectTree) node(idx NodeIndex) *Type {
	return t.nodes[idx]
}

// NodeCount returns the number of registered nodes, including the root.
func (t *ObjectTree) NodeCount() int {
	return len(t.nodes)
}

// ----------------------------------------------------------------------------
// Access

// Root returns a reference to the root node.
func (t *ObjectTree) Root() TypeRef {
	return TypeRef{tree: t, idx: 0}
}

// Find looks up a type by its exact path string.
func (t *ObjectTree) Find(path string) (TypeRef, bool) {
	if idx, ok := t.types[path]; ok {
		return TypeRef{tree: t, idx: idx}, true
	}
	return TypeRef{}, false
}

// Expect looks up a type by path and panics if it is not registered.
// Use only where existence is a program invariant.
func (t *ObjectTree) Expect(path string) TypeRef {
	ref, ok := t.Find(path)
	if !ok {
		panic(fmt.Sprintf("type not found: %q", path))
	}
	return ref
}

// Paths returns every registered path in string order. The root's empty
// path is not included.
func (t *ObjectTree) Paths() []string {
	return t.paths
}

// EachType calls f for every registered type in path order, not
// including the root.
func (t *ObjectTree) EachType(f func(TypeRef)) {
	for _, path := range t.paths {
		f(TypeRef{tree: t, idx: t.types[path]})
	}
}

// TypeByPath resolves a sequence of plain path segments against the
// tree, succeeding only on an exact match.
func (t *ObjectTree) TypeByPath(path []string) (TypeRef, bool) {
	exact, ref := t.TypeByPathApprox(path)
	if exact {
		return ref, true
	}
	return TypeRef{}, false
}

// TypeByPathApprox resolves as many leading segments as possible,
// returning whether resolution was exact along with the deepest node
// reached. Any lookup under list/ resolves to list itself.
func (t *ObjectTree) TypeByPathApprox(path []string) (bool, TypeRef) {
	current := NodeIndex(0)
	first := true
outer:
	for _, each := range path {
		for _, child := range t.node(current).children {
			if t.node(child).Name == each {
				current = child
				if each == "list" && first {
					break outer
				}
				first = false
				continue outer
			}
		}
		return false, TypeRef{tree: t, idx: current}
	}
	return true, TypeRef{tree: t, idx: current}
}

// TypeByConstant resolves a previously evaluated constant to a type: a
// string constant by exact path, a prefab constant by its path pieces.
func (t *ObjectTree) TypeByConstant(constant constants.Constant) (TypeRef, bool) {
	switch c := constant.(type) {
	case constants.Str:
		return t.Find(c.Value)
	case *constants.Prefab:
		return t.TypeByPath(c.Path)
	default:
		return TypeRef{}, false
	}
}

// ----------------------------------------------------------------------------
// Parsing

// subtypeOrAdd finds or creates the child named name under parent. An
// existing child keeps its recorded location unless the new occurrence
// is more specific (numerically smaller specificity).
func (t *ObjectTree) subtypeOrAdd(location position.Location, parent NodeIndex, name string, specificity int) NodeIndex {
	for _, child := range t.node(parent).children {
		node := t.node(child)
		if node.Name == name {
			if node.locationSpecificity > specificity {
				node.locationSpecificity = specificity
				node.Location = location
			}
			return child
		}
	}

	// time to add a new child
	path := t.node(parent).Path + "/" + name
	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, &Type{
		Name:                name,
		Path:                path,
		Location:            location,
		locationSpecificity: specificity,
		parentType:          BadNodeIndex,
		lexicalParent:       parent,
	})
	t.node(parent).children = append(t.node(parent).children, idx)
	t.types[path] = idx
	pos := sort.SearchStrings(t.paths, path)
	t.paths = append(t.paths, "")
	copy(t.paths[pos+1:], t.paths[pos:])
	t.paths[pos] = path
	return idx
}

// getFromPath walks the leading segments of path, creating type nodes
// as needed, and stops the moment it meets a var/proc declaration
// keyword. It returns the node reached, the segment under
// consideration, and the segments not yet consumed.
func (t *ObjectTree) getFromPath(location position.Location, path []string, specificity int) (NodeIndex, string, []string, error) {
	if len(path) == 0 {
		return 0, "", nil, diagnostics.NewError(location, "cannot register root path")
	}
	current := NodeIndex(0)
	last := path[0]
	rest := path[1:]
	if isDecl(last) {
		return current, last, rest, nil
	}
	for i := 1; i < len(path); i++ {
		current = t.subtypeOrAdd(location, current, last, specificity)
		last = path[i]
		rest = path[i+1:]
		if isDecl(last) {
			break
		}
	}
	return current, last, rest, nil
}

// registerVar attaches a variable slot to parent. prev is the segment
// under consideration (possibly the var keyword) and rest the segments
// after it. Only the first registration that passes through the var
// keyword header attaches a declaration; later mentions of the same
// name reuse the slot as value overrides. A nil result with no error
// means a var block header with no name, which only scopes children.
func (t *ObjectTree) registerVar(
	location position.Location,
	parent NodeIndex,
	prev string,
	rest []string,
	comment ast.DocCollection,
	suffix ast.VarSuffix,
) (*TypeVar, error) {
	var isDeclaration, isStatic, isConst, isTmp bool

	if isVarDecl(prev) {
		isDeclaration = true
		if len(rest) == 0 {
			return nil, nil // var{} block, children will be real vars
		}
		prev, rest = rest[0], rest[1:]
		for prev == "global" || prev == "static" || prev == "tmp" || prev == "const" {
			if len(rest) == 0 {
				return nil, nil // var/const{} block, children will be real vars
			}
			isStatic = isStatic || prev == "global" || prev == "static"
			isConst = isConst || prev == "const"
			isTmp = isTmp || prev == "tmp"
			prev, rest = rest[0], rest[1:]
		}
	} else if isProcDecl(prev) {
		return nil, diagnostics.NewError(location, "proc looks like a var")
	}

	var typePath []string
	for _, each := range rest {
		typePath = append(typePath, prev)
		prev = each
	}
	varType := ast.VarType{
		IsStatic: isStatic,
		IsConst:  isConst,
		IsTmp:    isTmp,
		TypePath: typePath,
	}
	suffix.Apply(&varType)

	node := t.node(parent)
	// TODO: warn and merge docs for repeated same-name declarations
	return node.Vars.GetOrInsert(prev, func() *TypeVar {
		typeVar := &TypeVar{
			Value: VarValue{
				Location:   location,
				Expression: suffix.IntoInitializer(),
				Docs:       comment,
			},
		}
		if isDeclaration {
			typeVar.Declaration = &VarDeclaration{
				VarType:  varType,
				Location: location,
			}
		}
		return typeVar
	}), nil
}

// registerProc appends a new occurrence of the named proc to parent.
// The first occurrence that knows its verb-ness sets the declaration;
// redeclarations never change it. Returns the new entry's index in the
// override list alongside the entry itself.
func (t *ObjectTree) registerProc(
	location position.Location,
	parent NodeIndex,
	name string,
	isVerb *bool,
	parameters []ast.Parameter,
	code Code,
) (int, *ProcValue, error) {
	node := t.node(parent)
	proc := node.Procs.GetOrInsert(name, func() *TypeProc { return &TypeProc{} })
	if proc.Declaration == nil && isVerb != nil {
		proc.Declaration = &ProcDeclaration{
			Location: location,
			IsVerb:   *isVerb,
		}
	}

	value := &ProcValue{
		Location:   location,
		Parameters: parameters,
		Code:       code,
	}
	proc.Value = append(proc.Value, value)
	return len(proc.Value) - 1, value, nil
}

// AddEntry registers an entry which may be anything depending on the
// path: a type node, a var declaration, or a var/proc block header.
func (t *ObjectTree) AddEntry(
	location position.Location,
	path []string,
	specificity int,
	comment ast.DocCollection,
	suffix ast.VarSuffix,
) error {
	parent, child, rest, err := t.getFromPath(location, path, specificity)
	if err != nil {
		return err
	}
	switch {
	case isVarDecl(child):
		_, err = t.registerVar(location, parent, child, rest, comment, suffix)
		return err
	case isProcDecl(child):
		// proc{} block, children will be procs
		return nil
	default:
		idx := t.subtypeOrAdd(location, parent, child, specificity)
		t.node(idx).Docs.Extend(comment)
		return nil
	}
}

// AddVar registers an entry which is definitely a var because a value
// is specified.
func (t *ObjectTree) AddVar(
	location position.Location,
	path []string,
	specificity int,
	expr ast.Expression,
	comment ast.DocCollection,
	suffix ast.VarSuffix,
) error {
	parent, initial, rest, err := t.getFromPath(location, path, specificity)
	if err != nil {
		return err
	}
	typeVar, err := t.registerVar(location, parent, initial, rest, comment, suffix)
	if err != nil {
		return err
	}
	if typeVar == nil {
		return diagnostics.NewError(location, "var must have a name")
	}
	typeVar.Value.Location = location
	typeVar.Value.Expression = expr
	return nil
}

// AddProc registers an entry which is definitely a proc because an
// argument list is specified. Returns the new occurrence's index in the
// type's override list and the occurrence itself, which the caller may
// keep populating.
func (t *ObjectTree) AddProc(
	location position.Location,
	path []string,
	specificity int,
	parameters []ast.Parameter,
	code Code,
) (int, *ProcValue, error) {
	parent, procName, rest, err := t.getFromPath(location, path, specificity)
	if err != nil {
		return 0, nil, err
	}
	var isVerb *bool
	if isProcDecl(procName) {
		verb := procName == "verb"
		isVerb = &verb
		if len(rest) == 0 {
			return 0, nil, diagnostics.NewError(location, "proc must have a name")
		}
		procName, rest = rest[0], rest[1:]
	} else if isVarDecl(procName) {
		return 0, nil, diagnostics.NewError(location, "var looks like a proc")
	}
	if len(rest) > 0 {
		return 0, nil, diagnostics.NewError(location,
			"proc name must be a single identifier (spurious %q)", rest[0])
	}

	return t.registerProc(location, parent, procName, isVerb, parameters, code)
}

// ----------------------------------------------------------------------------
// Declaration classifiers

func isVarDecl(s string) bool {
	return s == "var"
}

func isProcDecl(s string) bool {
	return s == "proc" || s == "verb"
}

func isDecl(s string) bool {
	return isVarDecl(s) || isProcDecl(s)
}
