package ir

import (
	"errors"

	"github.com/signadot/ydata/format"
)

var (
	ErrParse     = errors.New("parse error")
	ErrEncode    = errors.New("encode error")
	ErrBadFormat = format.ErrBadFormat
)
