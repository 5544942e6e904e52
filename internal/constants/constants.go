// Package constants defines the folded constant values produced by
// evaluating DreamMaker initializer expressions, plus the context-free
// folder used where name resolution is unavailable (notably the
// parent_type override during object tree finalization).
package constants

import (
	"fmt"
	"strings"
)

// Constant represents all folded constant values.
type Constant interface {
	constantValue() // Marker method to distinguish constants
	String() string
}

// Null is the null constant.
type Null struct{}

// Int is an integer constant.
type Int struct {
	Value int32
}

// Float is a floating-point constant.
type Float struct {
	Value float32
}

// Str is a string constant.
type Str struct {
	Value string
}

// Prefab is a folded type-reference constant: a rooted path plus any
// var overrides attached in the literal.
type Prefab struct {
	Path []string
	Vars []PrefabVar
}

// PrefabVar is one folded var override inside a prefab constant.
type PrefabVar struct {
	Name  string
	Value Constant
}

// List is a folded list constant.
type List struct {
	Elements []Constant
}

func (Null) constantValue()    {}
func (Int) constantValue()     {}
func (Float) constantValue()   {}
func (Str) constantValue()     {}
func (*Prefab) constantValue() {}
func (*List) constantValue()   {}

func (Null) String() string    { return "null" }
func (c Int) String() string   { return fmt.Sprintf("%d", c.Value) }
func (c Float) String() string { return fmt.Sprintf("%g", c.Value) }
func (c Str) String() string   { return fmt.Sprintf("%q", c.Value) }

func (c *Prefab) String() string {
	var sb strings.Builder
	for _, piece := range c.Path {
		sb.WriteByte('/')
		sb.WriteString(piece)
	}
	if len(c.Vars) > 0 {
		sb.WriteString(" {")
		for i, v := range c.Vars {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s = %s", v.Name, v.Value)
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

func (c *List) String() string {
	parts := make([]string, len(c.Elements))
	for i, el := range c.Elements {
		parts[i] = el.String()
	}
	return "list(" + strings.Join(parts, ", ") + ")"
}

// PathString renders a prefab's path as a slash-joined string.
func (c *Prefab) PathString() string {
	var sb strings.Builder
	for _, piece := range c.Path {
		sb.WriteByte('/')
		sb.WriteString(piece)
	}
	return sb.String()
}

// IsTruthy reports DM truthiness: everything except null, zero numbers,
// and the empty string is true.
func IsTruthy(c Constant) bool {
	switch v := c.(type) {
	case Null:
		return false
	case Int:
		return v.Value != 0
	case Float:
		return v.Value != 0
	case Str:
		return v.Value != ""
	default:
		return true
	}
}
