package multisplice

// Text is the result of rendering a Splicer.
//
// A borrowed Text is a substring of the original and shares its storage;
// nothing was copied to produce it. An owned Text was freshly built
// because at least one edit contributed to it.
type Text struct {
	value    string
	borrowed bool
}

func borrowedText(s string) Text {
	return Text{value: s, borrowed: true}
}

func ownedText(s string) Text {
	return Text{value: s}
}

// String returns the rendered string.
func (t Text) String() string {
	return t.value
}

// Len returns the length of the rendered string in bytes.
func (t Text) Len() int {
	return len(t.value)
}

// Borrowed reports whether the text shares storage with the original.
func (t Text) Borrowed() bool {
	return t.borrowed
}
