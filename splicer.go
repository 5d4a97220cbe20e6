package multisplice

import "slices"

// Splicer queues edits against an immutable original string and renders
// them on demand. All offsets are byte offsets into the original.
//
// A Splicer is not safe for concurrent use. Callers sharing one between
// goroutines must serialize access themselves.
type Splicer struct {
	original string
	edits    []Edit
}

// New creates a Splicer for the given string with no pending edits.
func New(original string) *Splicer {
	return &Splicer{original: original}
}

// Original returns the string the Splicer was created with.
func (s *Splicer) Original() string {
	return s.original
}

// NumEdits returns the number of recorded edits.
func (s *Splicer) NumEdits() int {
	return len(s.edits)
}

// Edits returns a copy of the recorded edits in call order.
func (s *Splicer) Edits() []Edit {
	return slices.Clone(s.edits)
}

// Clone returns a Splicer over the same original with an independent
// copy of the edit list.
func (s *Splicer) Clone() *Splicer {
	return &Splicer{
		original: s.original,
		edits:    slices.Clone(s.edits),
	}
}

// Splice records the replacement of original[start:end] with text.
//
// It fails with ErrOutOfRange if either offset lies outside the original
// and with ErrInvalidRange if start > end. A failed call records nothing.
// Overlap with earlier edits is only detected when rendering.
func (s *Splicer) Splice(start, end int, text string) error {
	return s.record("splice", start, end, text)
}

// SpliceRange is Splice with the offsets given as a Range resolved
// against the length of the original.
func (s *Splicer) SpliceRange(r Range, text string) error {
	start, end := r.Resolve(len(s.original))
	return s.record("splice", start, end, text)
}

// Insert records an insertion of text at offset at.
// A later insertion at the same offset renders before an earlier one,
// exactly as if both had been applied to the string in call order.
func (s *Splicer) Insert(at int, text string) error {
	return s.record("insert", at, at, text)
}

// Remove records the deletion of original[start:end].
func (s *Splicer) Remove(start, end int) error {
	return s.record("remove", start, end, "")
}

func (s *Splicer) record(op string, start, end int, text string) error {
	if err := s.checkRange(op, start, end); err != nil {
		return err
	}
	s.edits = append(s.edits, Edit{Start: start, End: end, Text: text})
	return nil
}

func (s *Splicer) checkRange(op string, start, end int) error {
	n := len(s.original)
	if start < 0 || end < 0 || start > n || end > n {
		return &RangeError{Op: op, Start: start, End: end, Len: n, Err: ErrOutOfRange}
	}
	if start > end {
		return &RangeError{Op: op, Start: start, End: end, Len: n, Err: ErrInvalidRange}
	}
	return nil
}

// Slice renders all recorded edits and returns the resulting string.
//
// With no edits recorded the result is the original itself, borrowed
// without copying. Otherwise it is a newly allocated string. Slice fails
// with ErrOverlap if two edits overlap; the edit list is left untouched.
func (s *Splicer) Slice() (Text, error) {
	if len(s.edits) == 0 {
		return borrowedText(s.original), nil
	}
	return s.render(0, len(s.original))
}

// Render is Slice returning a plain string.
func (s *Splicer) Render() (string, error) {
	t, err := s.Slice()
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// SliceWindow renders the part of the result that corresponds to
// original[start:end].
//
// An edit crossing either window boundary is included whole, and the
// original text it replaces is not. An insertion at offset p belongs to
// the window when start <= p < end, or when p is the end of the original
// and the window reaches it. The result is borrowed when no edit belongs
// to the window.
func (s *Splicer) SliceWindow(start, end int) (Text, error) {
	if err := s.checkRange("slice", start, end); err != nil {
		return Text{}, err
	}
	return s.render(start, end)
}

// SliceRange is SliceWindow with the window given as a Range.
func (s *Splicer) SliceRange(r Range) (Text, error) {
	start, end := r.Resolve(len(s.original))
	return s.SliceWindow(start, end)
}
