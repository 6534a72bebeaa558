package schema

import "errors"

var (
	// ErrSchema reports a malformed or inconsistent module description.
	ErrSchema = errors.New("schema error")
	// ErrType reports a value outside the value space of a type.
	ErrType = errors.New("type error")
)
