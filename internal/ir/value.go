package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface for the values a snapshot may contain.
// Only String, Int, Bool, Array and Object implement it.
// There is no float variant: floats break byte-stable snapshots.
type Value interface {
	snapshotValue()
}

// String is a string value.
type String string

func (String) snapshotValue() {}

// Int is an integer value. Always int64.
type Int int64

func (Int) snapshotValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) snapshotValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) snapshotValue() {}

// Object maps string keys to values.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) snapshotValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// sort.Strings orders by UTF-8 bytes, which differs above the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
