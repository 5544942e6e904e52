// Package listing reads declaration listings: a plain text format with
// one declaration per line, used by the dmtree tool and tests to feed
// the object tree builder without a full language parser. Lines carry
// paths the way the parser would already have split them:
//
//	/obj/item/weapon
//	/obj/item/var/name = "longsword"
//	/obj/item/proc/use(user, target)
//	/// doc text attached to the next declaration
package listing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Watermelon914/SpacemanDMM/internal/ast"
	"github.com/Watermelon914/SpacemanDMM/internal/diagnostics"
	"github.com/Watermelon914/SpacemanDMM/internal/objtree"
	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

// LoadFile reads the listing at path into tree, registering one entry
// per declaration line. Faults go to ctx; the number of declarations
// loaded is returned.
func LoadFile(path string, tree *objtree.ObjectTree, ctx *diagnostics.Context) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open listing: %w", err)
	}
	defer f.Close()
	return Load(f, path, tree, ctx)
}

// Load reads a listing from r, attributing locations to filename.
func Load(r io.Reader, filename string, tree *objtree.ObjectTree, ctx *diagnostics.Context) (int, error) {
	scanner := bufio.NewScanner(r)
	var docs ast.DocCollection
	loaded := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		location := position.Location{Filename: filename, Line: lineNo, Column: 1}

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "///"):
			docs.Append(ast.DocComment{
				Kind:   ast.DocLine,
				Target: ast.DocFollowingItem,
				Text:   strings.TrimSpace(strings.TrimPrefix(line, "///")),
			})
			continue
		case strings.HasPrefix(line, "//"):
			continue
		}

		if err := loadLine(line, location, tree, docs); err != nil {
			ctx.RegisterError(err)
		} else {
			loaded++
		}
		docs = ast.DocCollection{}
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("read listing: %w", err)
	}
	return loaded, nil
}

func loadLine(line string, location position.Location, tree *objtree.ObjectTree, docs ast.DocCollection) error {
	// Proc declaration: path ends with a parenthesized parameter list.
	if open := strings.IndexByte(line, '('); open >= 0 {
		end := strings.LastIndexByte(line, ')')
		if end < open {
			return diagnostics.NewError(location, "unterminated parameter list")
		}
		segs := segments(line[:open])
		params := parseParams(line[open+1 : end])
		_, value, err := tree.AddProc(location, segs, len(segs), params, objtree.Disabled())
		if err == nil {
			value.Docs.Extend(docs)
		}
		return err
	}

	// Var with value: path, equals sign, literal.
	if eq := strings.Index(line, "="); eq >= 0 {
		segs := segments(line[:eq])
		expr, err := scanLiteral(strings.TrimSpace(line[eq+1:]), location)
		if err != nil {
			return err
		}
		return tree.AddVar(location, segs, len(segs), expr, docs, ast.VarSuffix{})
	}

	segs := segments(line)
	return tree.AddEntry(location, segs, len(segs), docs, ast.VarSuffix{})
}

func segments(path string) []string {
	return strings.Split(strings.Trim(strings.TrimSpace(path), "/"), "/")
}

func parseParams(list string) []ast.Parameter {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	params := make([]ast.Parameter, 0, len(parts))
	for _, part := range parts {
		segs := segments(part)
		param := ast.Parameter{Name: segs[len(segs)-1]}
		if len(segs) > 1 {
			param.TypePath = segs[:len(segs)-1]
		}
		params = append(params, param)
	}
	return params
}

// scanLiteral converts the value side of a var line into an expression:
// a quoted string, a number, null, a rooted type path, or a bare
// identifier.
func scanLiteral(text string, location position.Location) (ast.Expression, error) {
	switch {
	case text == "":
		return nil, diagnostics.NewError(location, "missing value after =")
	case text == "null":
		return &ast.NullLiteral{}, nil
	case strings.HasPrefix(text, `"`):
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil, diagnostics.NewError(location, "bad string literal %s", text)
		}
		return &ast.StringLiteral{Value: unquoted}, nil
	case strings.HasPrefix(text, "/"):
		return &ast.PrefabExpr{Path: segments(text)}, nil
	}
	if n, err := strconv.ParseInt(text, 10, 32); err == nil {
		return &ast.IntLiteral{Value: int32(n)}, nil
	}
	if f, err := strconv.ParseFloat(text, 32); err == nil {
		return &ast.FloatLiteral{Value: float32(f)}, nil
	}
	if isIdentifier(text) {
		return &ast.Identifier{Name: text}, nil
	}
	return nil, diagnostics.NewError(location, "bad literal %q", text)
}

func isIdentifier(text string) bool {
	for i, r := range text {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return text != ""
}
