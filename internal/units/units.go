// Package units converts offsets counted in runes or grapheme clusters
// into the byte offsets a Splicer works with.
package units

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/multisplice"
)

// Unit is the addressing unit of an offset.
type Unit string

const (
	Bytes     Unit = "bytes"
	Runes     Unit = "runes"
	Graphemes Unit = "graphemes"
)

// ParseUnit parses a unit name. The empty string means Bytes.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "byte", "bytes":
		return Bytes, nil
	case "rune", "runes", "codepoints":
		return Runes, nil
	case "grapheme", "graphemes", "clusters":
		return Graphemes, nil
	default:
		return "", fmt.Errorf("unknown unit %q (want bytes, runes or graphemes)", s)
	}
}

// Converter maps offsets in one unit to byte offsets in a fixed text.
type Converter struct {
	unit Unit
	size int

	// boundaries[i] is the byte offset of unit i; the last entry is len(text).
	// Nil for Bytes.
	boundaries []int
}

// NewConverter builds a converter for text. Boundaries are computed once,
// so conversions are O(1).
func NewConverter(text string, u Unit) *Converter {
	c := &Converter{unit: u, size: len(text)}

	switch u {
	case Runes:
		c.boundaries = make([]int, 0, utf8.RuneCountInString(text)+1)
		for i := range text {
			c.boundaries = append(c.boundaries, i)
		}
		c.boundaries = append(c.boundaries, len(text))
	case Graphemes:
		c.boundaries = make([]int, 0, uniseg.GraphemeClusterCount(text)+1)
		g := uniseg.NewGraphemes(text)
		for g.Next() {
			from, _ := g.Positions()
			c.boundaries = append(c.boundaries, from)
		}
		c.boundaries = append(c.boundaries, len(text))
	default:
		c.unit = Bytes
	}
	return c
}

// Unit returns the converter's unit.
func (c *Converter) Unit() Unit {
	return c.unit
}

// Count returns the length of the text in the converter's unit.
func (c *Converter) Count() int {
	if c.boundaries == nil {
		return c.size
	}
	return len(c.boundaries) - 1
}

// ToByte converts an offset to a byte offset.
//
// Byte offsets pass through unchanged so the Splicer reports range errors
// itself. Other offsets outside [0, Count()] fail with an error wrapping
// multisplice.ErrOutOfRange.
func (c *Converter) ToByte(off int) (int, error) {
	if c.boundaries == nil {
		return off, nil
	}
	if off < 0 || off >= len(c.boundaries) {
		return 0, fmt.Errorf("%w: %s offset %d, length %d", multisplice.ErrOutOfRange, c.unit, off, c.Count())
	}
	return c.boundaries[off], nil
}

// ToBytes converts a start/end pair.
func (c *Converter) ToBytes(start, end int) (int, int, error) {
	bs, err := c.ToByte(start)
	if err != nil {
		return 0, 0, err
	}
	be, err := c.ToByte(end)
	if err != nil {
		return 0, 0, err
	}
	return bs, be, nil
}

// ResolveRange resolves r against the length in the converter's unit and
// converts the result to byte offsets.
func (c *Converter) ResolveRange(r multisplice.Range) (int, int, error) {
	start, end := r.Resolve(c.Count())
	return c.ToBytes(start, end)
}
