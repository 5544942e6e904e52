// Package builtins populates an object tree with the language's
// built-in types, vars, and procs. Registration goes through the same
// mutation API the parser uses and must run once, before any user
// declarations are added, so that user code overrides builtins rather
// than the other way around.
package builtins

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/objtree"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

//go:embed builtins.yaml
var builtinsYAML []byte

type registryFile struct {
	Types []typeEntry `yaml:"types"`
}

type typeEntry struct {
	Path  string      `yaml:"path"`
	Vars  []varEntry  `yaml:"vars"`
	Procs []procEntry `yaml:"procs"`
}

type varEntry struct {
	// Decl is the declaration path under the type, starting with the
	// var keyword, e.g. "var/tmp/list/contents".
	Decl  string      `yaml:"decl"`
	Value interface{} `yaml:"value"`
}

type procEntry struct {
	Name   string   `yaml:"name"`
	Verb   bool     `yaml:"verb"`
	Params []string `yaml:"params"`
}

// Register loads the built-in declarations into tree.
func Register(tree *objtree.ObjectTree) error {
	var file registryFile
	if err := yaml.Unmarshal(builtinsYAML, &file); err != nil {
		return fmt.Errorf("decode builtins registry: %w", err)
	}

	location := position.BuiltinLocation()
	for _, entry := range file.Types {
		// The root path "/" holds the global vars and procs; it has no
		// node of its own to register.
		var typePath []string
		if entry.Path != "/" {
			typePath = strings.Split(strings.TrimPrefix(entry.Path, "/"), "/")
			if err := tree.AddEntry(location, typePath, 0, ast.DocCollection{}, ast.VarSuffix{}); err != nil {
				return fmt.Errorf("register %s: %w", entry.Path, err)
			}
		}
		for _, v := range entry.Vars {
			if err := registerVar(tree, location, typePath, v); err != nil {
				return fmt.Errorf("register %s var %s: %w", entry.Path, v.Decl, err)
			}
		}
		for _, p := range entry.Procs {
			if err := registerProc(tree, location, typePath, p); err != nil {
				return fmt.Errorf("register %s proc %s: %w", entry.Path, p.Name, err)
			}
		}
	}
	return nil
}

func registerVar(tree *objtree.ObjectTree, location position.Location, typePath []string, entry varEntry) error {
	segments := append(append([]string{}, typePath...), strings.Split(entry.Decl, "/")...)
	expr, err := valueExpression(entry.Value)
	if err != nil {
		return err
	}
	if expr == nil {
		return tree.AddEntry(location, segments, 0, ast.DocCollection{}, ast.VarSuffix{})
	}
	return tree.AddVar(location, segments, 0, expr, ast.DocCollection{}, ast.VarSuffix{})
}

func registerProc(tree *objtree.ObjectTree, location position.Location, typePath []string, entry procEntry) error {
	keyword := "proc"
	if entry.Verb {
		keyword = "verb"
	}
	segments := append(append([]string{}, typePath...), keyword, entry.Name)
	parameters := make([]ast.Parameter, len(entry.Params))
	for i, name := range entry.Params {
		parameters[i] = ast.Parameter{Name: name}
	}
	_, _, err := tree.AddProc(location, segments, 0, parameters, objtree.Builtin())
	return err
}

// valueExpression converts a YAML scalar to the literal expression it
// denotes. A missing value means the var is declared without an
// initializer.
func valueExpression(value interface{}) (ast.Expression, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return &ast.StringLiteral{Value: v}, nil
	case int:
		return &ast.IntLiteral{Value: int32(v)}, nil
	case float64:
		return &ast.FloatLiteral{Value: float32(v)}, nil
	case bool:
		if v {
			return &ast.IntLiteral{Value: 1}, nil
		}
		return &ast.IntLiteral{Value: 0}, nil
	default:
		return nil, fmt.Errorf("unsupported builtin value %v (%T)", value, value)
	}
}
