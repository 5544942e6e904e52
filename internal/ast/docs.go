package ast

import "strings"

// DocCommentKind distinguishes block comments from line comments.
type DocCommentKind int

const (
	DocBlock DocCommentKind = iota
	DocLine
)

// DocTarget names which item a doc comment documents.
type DocTarget int

const (
	// DocFollowingItem documents the item after the comment (/// or /**).
	DocFollowingItem DocTarget = iota
	// DocEnclosingItem documents the item containing the comment (//! or /*!).
	DocEnclosingItem
)

// DocComment is a single documentation comment.
type DocComment struct {
	Kind   DocCommentKind
	Target DocTarget
	Text   string
}

// DocCollection accumulates the documentation attached to one item,
// in source order.
type DocCollection struct {
	comments []DocComment
}

// Append adds one comment to the collection.
func (dc *DocCollection) Append(comment DocComment) {
	dc.comments = append(dc.comments, comment)
}

// Extend appends all of other's comments to the collection.
func (dc *DocCollection) Extend(other DocCollection) {
	dc.comments = append(dc.comments, other.comments...)
}

// IsEmpty returns true if no comments have been collected.
func (dc *DocCollection) IsEmpty() bool {
	return len(dc.comments) == 0
}

// Comments returns the collected comments in source order.
func (dc *DocCollection) Comments() []DocComment {
	return dc.comments
}

// Text joins the collected comment bodies with newlines.
func (dc *DocCollection) Text() string {
	parts := make([]string, len(dc.comments))
	for i, c := range dc.comments {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n")
}
