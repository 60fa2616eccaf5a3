package sqlq

import (
	"errors"
	"fmt"
)

/*
Use blank error variables or the wrapper types to detect error kinds:

	if errors.As(err, new(sqlq.ErrMissingBinding)) {
		// Handle specific error.
	}

Errors returned by this package can't be compared via `==` because they
include details about the circumstances. Use `errors.Is` / `errors.As`.
*/
type Err struct {
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ``
	}
	msg := `[sqlq] error`
	if self.While != `` {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error { return self.Cause }

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	return self.Cause != nil && errors.Is(self.Cause, other)
}

// Simple string-based error. Useful for constant error causes.
type ErrStr string

// Implement `error`.
func (self ErrStr) Error() string { return string(self) }

// Input can't be represented by this package's types.
type ErrInvalidInput struct{ Err }

/*
A `$name` variable referenced a binding that the bindings object doesn't
have, while resolution required all bindings.
*/
type ErrMissingBinding struct {
	Err
	Name string
}

/*
A bound value can't be represented as one of the supported constant kinds.
Raised during value normalization and during raw-SQL binding resolution,
where the representable set is further constrained.
*/
type ErrUnsupportedValue struct{ Err }

// A SQL template contained a parameter kind it must not contain.
type ErrUnexpectedParameter struct{ Err }

func errf(pat string, vals ...any) error {
	return fmt.Errorf(pat, vals...)
}

func errMissingBinding(name string) ErrMissingBinding {
	return ErrMissingBinding{
		Err{`resolving qualifier bindings`, errf(`missing binding %q`, name)},
		name,
	}
}

func errUnsupportedValue(while string, val any) ErrUnsupportedValue {
	return ErrUnsupportedValue{Err{
		while,
		errf(`unsupported value type %T`, val),
	}}
}
