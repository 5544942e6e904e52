package diagnostics

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Watermelon914/SpacemanDMM/internal/position"
)

func loc(line int) position.Location {
	return position.Location{Filename: "test.dm", Line: line, Column: 1}
}

func TestContextCollectsErrors(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.HasErrors())

	ctx.RegisterError(NewError(loc(3), "bad parent type for %s: %s", "/obj/x", "/missing"))
	ctx.AddDiagnostic(NewWarning(loc(1), "unused var"))

	require.Len(t, ctx.Diagnostics(), 2)
	assert.True(t, ctx.HasErrors())
	assert.Equal(t, 1, ctx.ErrorCount())
}

func TestRegisterPlainError(t *testing.T) {
	ctx := NewContext()
	ctx.RegisterError(errors.New("boom"))
	ctx.RegisterError(nil)

	require.Len(t, ctx.Diagnostics(), 1)
	assert.Equal(t, "boom", ctx.Diagnostics()[0].Message)
}

func TestDiagnosticError(t *testing.T) {
	d := NewError(loc(7), "proc looks like a var")
	assert.Equal(t, "test.dm:7:1: error: proc looks like a var", d.Error())
}

func TestSortOrdersByLocation(t *testing.T) {
	ctx := NewContext()
	ctx.AddDiagnostic(NewError(loc(9), "later"))
	ctx.AddDiagnostic(NewError(loc(2), "earlier"))
	ctx.Sort()

	assert.Equal(t, "earlier", ctx.Diagnostics()[0].Message)
	assert.Equal(t, "later", ctx.Diagnostics()[1].Message)
}

func TestPrintAllIncludesNotes(t *testing.T) {
	ctx := NewContext()
	ctx.AddDiagnostic(NewError(loc(4), "duplicate").WithNote(loc(1), "previous definition here"))

	var sb strings.Builder
	ctx.PrintAll(&sb)
	out := sb.String()
	assert.Contains(t, out, "duplicate")
	assert.Contains(t, out, "note: previous definition here")
}
