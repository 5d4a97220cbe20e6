// Package multisplice splices a string many times using offsets into the
// original string, so callers never have to track how earlier edits moved
// later positions.
//
// Edits are recorded against the original and applied together, left to
// right, when the result is requested:
//
//	s := multisplice.New("hello world")
//	s.Splice(0, 5, "goodbye")
//	s.Splice(6, 11, "earth")
//	out, err := s.Render() // "goodbye earth"
//
// # Offsets
//
// All offsets are byte offsets into the original string and ranges are
// half-open: [start, end). Insert records a zero-width edit and Remove an
// edit with empty replacement text. Offsets are validated when the edit is
// recorded; out of range offsets fail with ErrOutOfRange and reversed
// ranges with ErrInvalidRange.
//
// Ranges can also be spelled with a Range value, resolved against the
// length of the original:
//
//	s.SpliceRange(multisplice.From(6), "there") // 6..
//	s.SpliceRange(multisplice.Full(), "")       // ..
//
// # Rendering
//
// Slice sorts the edits by position and walks them once. Edits may touch,
// but two edits covering a common part of the original are reported with
// ErrOverlap at render time, since overlap depends on the whole edit set.
//
// A Splicer with no edits renders to the original itself without copying;
// Text.Borrowed reports when that happens. SliceWindow renders only the
// part of the result corresponding to a window of the original.
//
// # Thread Safety
//
// A Splicer is a plain value owned by one goroutine at a time. Callers
// sharing one must serialize access.
package multisplice
