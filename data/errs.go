package data

import (
	"errors"
	"fmt"
)

var (
	ErrParse          = errors.New("parse error")
	ErrValidation     = errors.New("validation error")
	ErrPath           = errors.New("path error")
	ErrNotFound       = errors.New("not found")
	ErrAmbiguous      = errors.New("ambiguous match")
	ErrMerge          = errors.New("merge error")
	ErrPatch          = errors.New("patch error")
	ErrResource       = errors.New("resource error")
	ErrStaleReference = errors.New("stale reference")
	ErrPrint          = errors.New("print error")
)

// Error is the error returned by tree operations. Kind is one of the
// sentinel errors above; Path, when set, is the data or query path the
// error is about.
type Error struct {
	Kind error
	Msg  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	buf := e.Kind.Error()
	if e.Msg != "" {
		buf += ": " + e.Msg
	}
	if e.Err != nil {
		buf += ": " + e.Err.Error()
	}
	if e.Path != "" {
		buf += " (" + e.Path + ")"
	}
	return buf
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func errorf(kind error, path, msg string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(msg, args...)}
}

func wrapErr(kind error, path string, err error) *Error {
	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return e
	}
	return &Error{Kind: kind, Path: path, Err: err}
}
