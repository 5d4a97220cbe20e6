package script

import (
	"fmt"

	"github.com/dshills/multisplice"
	"github.com/dshills/multisplice/internal/units"
)

// Operation names.
const (
	OpSplice = "splice"
	OpInsert = "insert"
	OpRemove = "remove"
)

// Script is a declarative list of edits.
type Script struct {
	Units string `toml:"units,omitempty" yaml:"units,omitempty" json:"units,omitempty"`
	Edits []Op   `toml:"edits" yaml:"edits" json:"edits"`
}

// Op is a single scripted operation.
type Op struct {
	Op    string `toml:"op,omitempty" yaml:"op,omitempty" json:"op,omitempty"`
	At    int    `toml:"at,omitempty" yaml:"at,omitempty" json:"at,omitempty"`
	Start int    `toml:"start,omitempty" yaml:"start,omitempty" json:"start,omitempty"`
	End   int    `toml:"end,omitempty" yaml:"end,omitempty" json:"end,omitempty"`
	Range string `toml:"range,omitempty" yaml:"range,omitempty" json:"range,omitempty"`
	Text  string `toml:"text,omitempty" yaml:"text,omitempty" json:"text,omitempty"`
}

// Kind returns the operation name, defaulting to splice.
func (op Op) Kind() string {
	if op.Op == "" {
		return OpSplice
	}
	return op.Op
}

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op.Kind() {
	case OpInsert:
		return fmt.Sprintf("insert at %d", op.At)
	case OpSplice, OpRemove:
		if op.Range != "" {
			return fmt.Sprintf("%s %s", op.Kind(), op.Range)
		}
		return fmt.Sprintf("%s [%d:%d)", op.Kind(), op.Start, op.End)
	default:
		return op.Op
	}
}

// Unit returns the script's addressing unit.
func (sc *Script) Unit() (units.Unit, error) {
	return units.ParseUnit(sc.Units)
}

// Validate checks operation names and range spellings without needing
// the text the script will be applied to.
func (sc *Script) Validate() error {
	if _, err := sc.Unit(); err != nil {
		return err
	}
	for i, op := range sc.Edits {
		if err := op.validate(); err != nil {
			return &OpError{Index: i, Op: op, Err: err}
		}
	}
	return nil
}

func (op Op) validate() error {
	switch op.Kind() {
	case OpInsert:
		return nil
	case OpSplice, OpRemove:
		if op.Range == "" {
			return nil
		}
		_, err := multisplice.ParseRange(op.Range)
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, op.Op)
	}
}

// Apply records the script's operations on s in order, converting
// offsets with conv. A nil conv means byte offsets. Application stops at
// the first failing operation, which is reported as an *OpError; edits
// recorded before it stay recorded.
func (sc *Script) Apply(s *multisplice.Splicer, conv *units.Converter) error {
	if conv == nil {
		conv = units.NewConverter(s.Original(), units.Bytes)
	}
	for i, op := range sc.Edits {
		if err := op.apply(s, conv); err != nil {
			return &OpError{Index: i, Op: op, Err: err}
		}
	}
	return nil
}

func (op Op) apply(s *multisplice.Splicer, conv *units.Converter) error {
	if err := op.validate(); err != nil {
		return err
	}

	if op.Kind() == OpInsert {
		at, err := conv.ToByte(op.At)
		if err != nil {
			return err
		}
		return s.Insert(at, op.Text)
	}

	start, end, err := op.bounds(conv)
	if err != nil {
		return err
	}
	if op.Kind() == OpRemove {
		return s.Remove(start, end)
	}
	return s.Splice(start, end, op.Text)
}

func (op Op) bounds(conv *units.Converter) (int, int, error) {
	if op.Range == "" {
		return conv.ToBytes(op.Start, op.End)
	}
	r, err := multisplice.ParseRange(op.Range)
	if err != nil {
		return 0, 0, err
	}
	return conv.ResolveRange(r)
}

// FromEdits builds a byte-offset script that records the given edits.
func FromEdits(edits []multisplice.Edit) *Script {
	sc := &Script{Units: string(units.Bytes), Edits: make([]Op, 0, len(edits))}
	for _, e := range edits {
		switch {
		case e.Start == e.End:
			sc.Edits = append(sc.Edits, Op{Op: OpInsert, At: e.Start, Text: e.Text})
		case e.Text == "":
			sc.Edits = append(sc.Edits, Op{Op: OpRemove, Start: e.Start, End: e.End})
		default:
			sc.Edits = append(sc.Edits, Op{Op: OpSplice, Start: e.Start, End: e.End, Text: e.Text})
		}
	}
	return sc
}
