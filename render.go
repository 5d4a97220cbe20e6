package multisplice

import (
	"cmp"
	"slices"
	"strings"
)

// sortedEdits returns the edits ordered by position and checks that no
// two of them overlap.
//
// Insertions at the same offset come out newest first: each one lands at
// that offset ahead of the text inserted by earlier calls, as if applied
// in call order to the evolving string. Other ties keep call order.
func (s *Splicer) sortedEdits() ([]Edit, error) {
	type sequenced struct {
		Edit
		seq int
	}
	seqd := make([]sequenced, len(s.edits))
	for i, e := range s.edits {
		seqd[i] = sequenced{Edit: e, seq: i}
	}
	slices.SortFunc(seqd, func(a, b sequenced) int {
		if c := compareEdits(a.Edit, b.Edit); c != 0 {
			return c
		}
		if a.Start == a.End {
			return cmp.Compare(b.seq, a.seq)
		}
		return cmp.Compare(a.seq, b.seq)
	})

	sorted := make([]Edit, len(seqd))
	for i, e := range seqd {
		sorted[i] = e.Edit
	}

	pos := 0
	for i, e := range sorted {
		if i > 0 && e.Start < pos {
			return nil, &OverlapError{First: sorted[i-1], Second: e}
		}
		pos = e.End
	}
	return sorted, nil
}

// inWindow reports whether e contributes to the rendering of
// original[start:end] for an original of the given length.
func (e Edit) inWindow(start, end, length int) bool {
	if e.Start == e.End {
		return (start <= e.Start && e.Start < end) || (e.Start == end && end == length)
	}
	return e.Start < end && e.End > start
}

func (s *Splicer) render(start, end int) (Text, error) {
	sorted, err := s.sortedEdits()
	if err != nil {
		return Text{}, err
	}

	size := end - start
	included := 0
	for _, e := range sorted {
		if e.inWindow(start, end, len(s.original)) {
			size += len(e.Text)
			included++
		}
	}
	if included == 0 {
		return borrowedText(s.original[start:end]), nil
	}

	var sb strings.Builder
	sb.Grow(size)
	last := start
	for _, e := range sorted {
		if !e.inWindow(start, end, len(s.original)) {
			continue
		}
		if e.Start > last {
			sb.WriteString(s.original[last:e.Start])
		}
		sb.WriteString(e.Text)
		if e.End > last {
			last = e.End
		}
	}
	if end > last {
		sb.WriteString(s.original[last:end])
	}
	return ownedText(sb.String()), nil
}
