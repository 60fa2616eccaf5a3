package sqlq

import (
	"strings"
)

/*
An addressable path into a candidate object's attributes. The rendered form
(`.Key()`) is what SQL generation and key-value lookup consume. Equality is
defined over rendered strings: two keys with different structures but the
same rendered path are considered equal (see `KeyEq`). Keys are pure values
with no failure modes.
*/
type Key interface {
	Appender

	// Rendered path, dot-separated for nested keys.
	String() string

	// Same as `String`. Present to keep call sites explicit about intent.
	Key() string

	// Builds a `KeyPath` by appending another key's components.
	AppendKey(Key) Key

	// Value of this key path on the candidate object, via key-value lookup.
	// Missing keys and nil values are both nil.
	ValueFor(obj any) any
}

// A bare attribute name, the common case.
type StrKey string

// Implement part of the `Key` interface.
func (self StrKey) Key() string { return string(self) }

// Implement part of the `Key` interface.
func (self StrKey) AppendKey(val Key) Key {
	return KeyPath{string(self)}.AppendKey(val)
}

// Implement part of the `Key` interface.
func (self StrKey) ValueFor(obj any) any {
	val, _ := ValueForKey(obj, string(self))
	return val
}

// Implement the `Appender` interface.
func (self StrKey) Append(text []byte) []byte {
	return append(text, self...)
}

// Implement the `fmt.Stringer` interface.
func (self StrKey) String() string { return string(self) }

/*
An ordered, non-empty sequence of key components, rendered dot-joined:
`address.city`. Key-value lookup resolves each component in turn against
the value produced by the previous one.
*/
type KeyPath []string

// Implement part of the `Key` interface.
func (self KeyPath) Key() string {
	return strings.Join(self, `.`)
}

// Implement part of the `Key` interface.
func (self KeyPath) AppendKey(val Key) Key {
	out := make(KeyPath, 0, len(self)+1)
	out = append(out, self...)

	impl, _ := val.(KeyPath)
	if impl != nil {
		return append(out, impl...)
	}
	return append(out, val.Key())
}

// Implement part of the `Key` interface.
func (self KeyPath) ValueFor(obj any) any {
	val, _ := ValueForKeyPath(obj, self.Key())
	return val
}

// Implement the `Appender` interface.
func (self KeyPath) Append(text []byte) []byte {
	for ind, val := range self {
		if ind > 0 {
			text = append(text, keyPathSep)
		}
		text = append(text, val...)
	}
	return text
}

// Implement the `fmt.Stringer` interface.
func (self KeyPath) String() string { return self.Key() }

// True if both keys render to the same path string. This deliberately
// ignores key structure: `KeyPath{"a", "b"}` equals `StrKey("a.b")`.
func KeyEq(one, two Key) bool {
	if one == nil || two == nil {
		return one == nil && two == nil
	}
	return one.Key() == two.Key()
}

/*
Converts a rendered path string to a `Key`: dotted paths become `KeyPath`,
plain names become `StrKey`. Inverse of `Key.Key()`.
*/
func KeyFrom(val string) Key {
	if strings.ContainsRune(val, keyPathSep) {
		return KeyPath(splitKeyPath(val))
	}
	return StrKey(val)
}
