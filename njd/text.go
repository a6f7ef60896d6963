package njd

import (
	"strings"
)

// Text is an optional string field of a node. Valid is false for a NULL
// field.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present field. It panics if s contains a NUL byte,
// which a C string cannot hold.
func NewText(s string) Text {
	if strings.IndexByte(s, 0) >= 0 {
		panic("njd: text must not contain NUL bytes")
	}
	return Text{Value: s, Valid: true}
}

// Null is the absent field.
var Null = Text{}

// String returns the value, or "" for a NULL field.
func (t Text) String() string {
	return t.Value
}

func (t Text) representable() bool {
	return !t.Valid || strings.IndexByte(t.Value, 0) < 0
}
