package parse

import (
	"fmt"

	"github.com/signadot/ydata/ir"
)

var (
	ErrParse = ir.ErrParse
	// ErrMetadata reports a malformed "@" member.
	ErrMetadata = fmt.Errorf("%w: bad metadata", ErrParse)
)
