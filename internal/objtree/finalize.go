package objtree

import (
	"strings"

	"github.com/Watermelon914/SpacemanDMM/internal/constants"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
)

// ConstantFolder evaluates every variable's syntactic expression to a
// constant, or registers an error per failure. With sloppy set it
// continues past unresolvable constants instead of reporting them.
type ConstantFolder interface {
	EvaluateAll(ctx *diagnostics.Context, tree *ObjectTree, sloppy bool)
}

// Finalize runs once after all declarations are loaded: it resolves
// every type's semantic parent, then delegates tree-wide constant
// evaluation to folder. A nil folder skips constant evaluation. After
// Finalize returns the tree must not be mutated.
func (t *ObjectTree) Finalize(ctx *diagnostics.Context, folder ConstantFolder, sloppy bool) {
	t.assignParentTypes(ctx)
	if folder != nil {
		folder.EvaluateAll(ctx, t, sloppy)
	}
}

// assignParentTypes computes each type's semantic parent in path order.
// A hardcoded built-in relationship or the lexical parent supplies the
// default; an explicit parent_type variable overrides it. Each type
// resolves directly from its own path and vars, so no cycle breaking is
// needed.
func (t *ObjectTree) assignParentTypes(ctx *diagnostics.Context) {
	for _, path := range t.paths {
		idx := t.types[path]
		node := t.node(idx)
		location := node.Location

		parentPath := defaultParentPath(path)
		if typeVar, ok := node.Vars.Get("parent_type"); ok {
			location = typeVar.Value.Location
			if typeVar.Value.Expression != nil {
				constant, err := constants.SimpleEvaluate(typeVar.Value.Expression, location)
				switch {
				case err != nil:
					ctx.RegisterError(err)
				default:
					if override, ok := parentTypeConstant(constant); ok {
						parentPath = override
					} else {
						ctx.RegisterError(diagnostics.NewError(location, "bad parent_type: %s", constant))
					}
				}
			}
		}

		if parentPath == "" {
			node.parentType = 0
			continue
		}
		if parentIdx, ok := t.types[parentPath]; ok {
			node.parentType = parentIdx
		} else {
			ctx.RegisterError(diagnostics.NewError(location,
				"bad parent type for %s: %s", path, parentPath))
			node.parentType = 0 // on bad parent_type, fall back to the root
		}
	}
}

// defaultParentPath returns the parent path a type gets when it does
// not override parent_type: the hardcoded built-in relationships first,
// the lexical parent otherwise. The empty string means the root.
func defaultParentPath(path string) string {
	switch path {
	case "/datum":
		return ""
	case "/atom":
		return "/datum"
	case "/turf", "/area":
		return "/atom"
	case "/obj", "/mob":
		return "/atom/movable"
	}
	if idx := strings.LastIndexByte(path, '/'); idx > 0 {
		return path[:idx]
	}
	return ""
}

// parentTypeConstant extracts a parent path from a folded parent_type
// override: a string constant verbatim, a prefab constant with no var
// overrides by its path.
func parentTypeConstant(constant constants.Constant) (string, bool) {
	switch c := constant.(type) {
	case constants.Str:
		return c.Value, true
	case *constants.Prefab:
		if len(c.Vars) == 0 {
			return c.PathString(), true
		}
	}
	return "", false
}
