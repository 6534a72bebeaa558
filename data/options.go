package data

// ParserFlags control how input is read.
type ParserFlags uint32

const (
	// ParseOnly keeps the literally present nodes and skips validation.
	ParseOnly ParserFlags = 1 << iota
	// ParseStrict makes data without a schema node an error instead of
	// dropping it.
	ParseStrict
	// ParseNoState rejects state (config false) data.
	ParseNoState
)

// ValidationFlags control Validate and validating parses.
type ValidationFlags uint32

const (
	// ValidateNoState rejects state data.
	ValidateNoState ValidationFlags = 1 << iota
	// ValidatePresent checks top-level constraints only for modules with
	// data in the tree.
	ValidatePresent
)

// PrinterFlags control Print.
type PrinterFlags uint32

const (
	// PrintWithSiblings prints the following siblings of a node too.
	PrintWithSiblings PrinterFlags = 1 << iota
	// PrintShrink drops indentation.
	PrintShrink
	// PrintKeepEmptyCont prints empty non-presence containers.
	PrintKeepEmptyCont
	// PrintWDExplicit omits implicit default nodes. This is the default
	// with-defaults mode.
	PrintWDExplicit
	// PrintWDTrim omits nodes whose value equals the schema default.
	PrintWDTrim
	// PrintWDAll prints every node.
	PrintWDAll
)

func (f ParserFlags) has(x ParserFlags) bool         { return f&x != 0 }
func (f ValidationFlags) has(x ValidationFlags) bool { return f&x != 0 }
func (f PrinterFlags) has(x PrinterFlags) bool       { return f&x != 0 }
