package multisplice

import (
	"cmp"
	"fmt"
)

// Edit is a single recorded replacement of original[Start:End] with Text.
// Offsets always refer to the original string, never to a spliced result.
type Edit struct {
	Start int    // Inclusive start offset
	End   int    // Exclusive end offset
	Text  string // Replacement text, empty for a deletion
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Start == e.End {
		return fmt.Sprintf("Insert(%d, %q)", e.Start, e.Text)
	}
	if e.Text == "" {
		return fmt.Sprintf("Delete[%d:%d)", e.Start, e.End)
	}
	return fmt.Sprintf("Replace[%d:%d) with %q", e.Start, e.End, e.Text)
}

// Len returns the number of original bytes the edit replaces.
func (e Edit) Len() int {
	return e.End - e.Start
}

// Delta returns the change in length caused by this edit.
func (e Edit) Delta() int {
	return len(e.Text) - e.Len()
}

// IsInsert returns true if this is a pure insertion (empty range).
func (e Edit) IsInsert() bool {
	return e.Start == e.End && e.Text != ""
}

// IsDelete returns true if this is a pure deletion (empty replacement).
func (e Edit) IsDelete() bool {
	return e.Start != e.End && e.Text == ""
}

// IsReplace returns true if this replaces existing text with new text.
func (e Edit) IsReplace() bool {
	return e.Start != e.End && e.Text != ""
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Start == e.End && e.Text == ""
}

// Overlaps reports whether the two edits cannot both be applied.
// Touching ranges do not overlap, and neither do insertions at the
// boundary of another edit. An insertion strictly inside another
// edit's range does.
func (e Edit) Overlaps(other Edit) bool {
	a, b := e, other
	if compareEdits(b, a) < 0 {
		a, b = b, a
	}
	return b.Start < a.End
}

// compareEdits orders edits by start offset, then by end offset, which
// puts insertions before replacements anchored at the same offset.
func compareEdits(a, b Edit) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}
