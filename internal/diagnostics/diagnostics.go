// Package diagnostics provides error collection for the DreamMaker
// front end. Faults discovered while building or finalizing the object
// tree are recoverable: each is registered with a shared Context and
// processing continues with a best-effort fallback, so one bad
// declaration never aborts the whole build.
package diagnostics

import (
	"fmt"
	"io"
	"sort"

	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Note provides additional context attached to a diagnostic, pointing
// at a related location (for example, a previous declaration site).
type Note struct {
	Location position.Location
	Message  string
}

// Diagnostic is a single reported fault. It implements error so that
// builder entry points can return it directly.
type Diagnostic struct {
	Severity Severity
	Location position.Location
	Message  string
	Notes    []Note
}

// NewError creates an error-severity diagnostic at the given location.
func NewError(loc position.Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewWarning creates a warning-severity diagnostic at the given location.
func NewWarning(loc position.Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityWarning,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithNote attaches a related-location note and returns the diagnostic.
func (d *Diagnostic) WithNote(loc position.Location, format string, args ...interface{}) *Diagnostic {
	d.Notes = append(d.Notes, Note{Location: loc, Message: fmt.Sprintf(format, args...)})
	return d
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Context is the shared diagnostics sink. All faults found while
// constructing and finalizing the object tree are registered here.
type Context struct {
	diagnostics []*Diagnostic
	errorCount  int
}

// NewContext creates an empty diagnostics context.
func NewContext() *Context {
	return &Context{}
}

// RegisterError records err. A *Diagnostic is stored as-is; any other
// error is wrapped as an error-severity diagnostic with no location.
func (c *Context) RegisterError(err error) {
	if err == nil {
		return
	}
	if d, ok := err.(*Diagnostic); ok {
		c.AddDiagnostic(d)
		return
	}
	c.AddDiagnostic(&Diagnostic{Severity: SeverityError, Message: err.Error()})
}

// AddDiagnostic records a diagnostic.
func (c *Context) AddDiagnostic(d *Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	if d.Severity == SeverityError {
		c.errorCount++
	}
}

// Diagnostics returns all recorded diagnostics in registration order.
func (c *Context) Diagnostics() []*Diagnostic {
	return c.diagnostics
}

// HasErrors returns true if any error-severity diagnostic was recorded.
func (c *Context) HasErrors() bool {
	return c.errorCount > 0
}

// ErrorCount returns the number of error-severity diagnostics.
func (c *Context) ErrorCount() int {
	return c.errorCount
}

// Sort orders the recorded diagnostics by location, then severity.
func (c *Context) Sort() {
	sort.SliceStable(c.diagnostics, func(i, j int) bool {
		a, b := c.diagnostics[i], c.diagnostics[j]
		if a.Location != b.Location {
			return a.Location.Before(b.Location)
		}
		return a.Severity < b.Severity
	})
}

// PrintAll writes every recorded diagnostic to w, one per line, with
// notes indented beneath their parent.
func (c *Context) PrintAll(w io.Writer) {
	for _, d := range c.diagnostics {
		fmt.Fprintln(w, d.Error())
		for _, n := range d.Notes {
			fmt.Fprintf(w, "    %s: note: %s\n", n.Location, n.Message)
		}
	}
}
