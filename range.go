package multisplice

import (
	"fmt"
	"strconv"
	"strings"
)

// BoundKind says how a Bound constrains one side of a Range.
type BoundKind uint8

const (
	Unbounded BoundKind = iota // No limit: start of string or end of string
	Included                   // The offset is part of the range
	Excluded                   // The offset is not part of the range
)

// String returns a string representation of the bound kind.
func (k BoundKind) String() string {
	switch k {
	case Unbounded:
		return "unbounded"
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Bound is one end of a Range.
type Bound struct {
	Kind   BoundKind
	Offset int
}

// IncludedBound returns a bound that includes offset n.
func IncludedBound(n int) Bound {
	return Bound{Kind: Included, Offset: n}
}

// ExcludedBound returns a bound that excludes offset n.
func ExcludedBound(n int) Bound {
	return Bound{Kind: Excluded, Offset: n}
}

// UnboundedBound returns an open bound.
func UnboundedBound() Bound {
	return Bound{Kind: Unbounded}
}

// Range is a range of original offsets spelled with explicit bounds.
// It is resolved into concrete half-open offsets against a length
// before use, so the same Range can address strings of any size.
type Range struct {
	Start Bound
	End   Bound
}

// Span returns the range start..end (end excluded).
func Span(start, end int) Range {
	return Range{Start: IncludedBound(start), End: ExcludedBound(end)}
}

// SpanInclusive returns the range start..=end (end included).
func SpanInclusive(start, end int) Range {
	return Range{Start: IncludedBound(start), End: IncludedBound(end)}
}

// From returns the range start.. reaching the end of the string.
func From(start int) Range {
	return Range{Start: IncludedBound(start), End: UnboundedBound()}
}

// To returns the range ..end from the start of the string.
func To(end int) Range {
	return Range{Start: UnboundedBound(), End: ExcludedBound(end)}
}

// ToInclusive returns the range ..=end from the start of the string.
func ToInclusive(end int) Range {
	return Range{Start: UnboundedBound(), End: IncludedBound(end)}
}

// Full returns the range covering the whole string.
func Full() Range {
	return Range{Start: UnboundedBound(), End: UnboundedBound()}
}

// Resolve converts the range into half-open [start, end) offsets for a
// string of the given length. No validation happens here; out of range
// results are reported by the operation that consumes them.
func (r Range) Resolve(length int) (start, end int) {
	switch r.Start.Kind {
	case Included:
		start = r.Start.Offset
	case Excluded:
		start = r.Start.Offset + 1
	default:
		start = 0
	}
	switch r.End.Kind {
	case Included:
		end = r.End.Offset + 1
	case Excluded:
		end = r.End.Offset
	default:
		end = length
	}
	return start, end
}

// String returns the range spelling accepted by ParseRange.
// An excluded start bound has no spelling and is written as the
// equivalent included bound.
func (r Range) String() string {
	var sb strings.Builder
	switch r.Start.Kind {
	case Included:
		sb.WriteString(strconv.Itoa(r.Start.Offset))
	case Excluded:
		sb.WriteString(strconv.Itoa(r.Start.Offset + 1))
	}
	sb.WriteString("..")
	switch r.End.Kind {
	case Included:
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(r.End.Offset))
	case Excluded:
		sb.WriteString(strconv.Itoa(r.End.Offset))
	}
	return sb.String()
}

// ParseRange parses the spellings a..b, a..=b, a.., ..b, ..=b and ..
// where a and b are non-negative decimal offsets.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return Range{}, fmt.Errorf("parse range %q: missing \"..\"", s)
	}

	var r Range
	if lo == "" {
		r.Start = UnboundedBound()
	} else {
		n, err := parseOffset(lo)
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", s, err)
		}
		r.Start = IncludedBound(n)
	}

	inclusive := strings.HasPrefix(hi, "=")
	if inclusive {
		hi = hi[1:]
	}
	switch {
	case hi == "" && inclusive:
		return Range{}, fmt.Errorf("parse range %q: inclusive range needs an end", s)
	case hi == "":
		r.End = UnboundedBound()
	default:
		n, err := parseOffset(hi)
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", s, err)
		}
		if inclusive {
			r.End = IncludedBound(n)
		} else {
			r.End = ExcludedBound(n)
		}
	}
	return r, nil
}

func parseOffset(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad offset %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative offset %d", n)
	}
	return n, nil
}
