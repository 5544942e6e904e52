// Package position provides source code location tracking for the
// DreamMaker front end. Locations identify a single point in a source
// file and are attached to every declaration, diagnostic, and folded
// constant so that errors can be reported precisely.
package position

import (
	"fmt"
	"path/filepath"
)

// Builtins is the pseudo-filename used for declarations that come from
// the built-in type registry rather than user source.
const Builtins = "<builtins>"

// Location represents a single point in source code.
type Location struct {
	Filename string // Source file name, or Builtins
	Line     int    // 1-based line number
	Column   int    // 1-based column number
}

// BuiltinLocation returns the location attributed to built-in declarations.
func BuiltinLocation() Location {
	return Location{Filename: Builtins, Line: 1, Column: 1}
}

// IsValid returns true if the location names a real point in some file.
func (l Location) IsValid() bool {
	return l.Filename != "" && l.Line > 0 && l.Column > 0
}

// IsBuiltin returns true if the location belongs to the builtin registry.
func (l Location) IsBuiltin() bool {
	return l.Filename == Builtins
}

// String returns a string representation of the location.
func (l Location) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	if l.IsBuiltin() {
		return Builtins
	}
	return fmt.Sprintf("%s:%d:%d", filepath.Base(l.Filename), l.Line, l.Column)
}

// Before returns true if this location comes before other.
// Locations in different files order by filename.
func (l Location) Before(other Location) bool {
	if l.Filename != other.Filename {
		return l.Filename < other.Filename
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// After returns true if this location comes after other.
func (l Location) After(other Location) bool {
	return other.Before(l)
}
