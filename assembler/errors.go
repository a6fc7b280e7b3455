package assembler

import (
	"errors"
	"fmt"
)

// Stage names the pass that produced an error.
type Stage int

const (
	// StageCompile is pass 1.
	StageCompile Stage = iota
	// StageLink is pass 2.
	StageLink
)

// String returns the name used in diagnostics.
func (s Stage) String() string {
	if s == StageLink {
		return "LINKER"
	}
	return "COMPILER"
}

// Kind classifies an assembly error.
type Kind int

const (
	// KindSyntax covers argument counts, malformed literals and quoting.
	KindSyntax Kind = iota + 1
	// KindDuplicateSymbol is a symbol or label defined twice.
	KindDuplicateSymbol
	// KindUnknownMnemonic is an instruction not in the catalog.
	KindUnknownMnemonic
	// KindUnknownDirective is a directive or macro that does not exist.
	KindUnknownDirective
	// KindSection is a directive or instruction used in the wrong section.
	KindSection
	// KindUndefinedSymbol is an operand naming nothing.
	KindUndefinedSymbol
	// KindOutOfRange is an operand at or above the instruction maximum.
	KindOutOfRange
	// KindMissingLabel is a mandatory label absent at link time.
	KindMissingLabel
)

// Sentinels matched by errors.Is against an *Error.
var (
	ErrSyntax           = errors.New("syntax error")
	ErrDuplicateSymbol  = errors.New("duplicate symbol")
	ErrUnknownMnemonic  = errors.New("unknown mnemonic")
	ErrUnknownDirective = errors.New("unknown directive")
	ErrSection          = errors.New("section violation")
	ErrUndefinedSymbol  = errors.New("undefined symbol")
	ErrOutOfRange       = errors.New("value out of range")
	ErrMissingLabel     = errors.New("missing label")
)

var sentinels = map[Kind]error{
	KindSyntax:           ErrSyntax,
	KindDuplicateSymbol:  ErrDuplicateSymbol,
	KindUnknownMnemonic:  ErrUnknownMnemonic,
	KindUnknownDirective: ErrUnknownDirective,
	KindSection:          ErrSection,
	KindUndefinedSymbol:  ErrUndefinedSymbol,
	KindOutOfRange:       ErrOutOfRange,
	KindMissingLabel:     ErrMissingLabel,
}

// WholeLine marks an error that underlines the entire source line.
const WholeLine = -1

// Error is an assembly failure located in the source.
type Error struct {
	Stage Stage
	Kind  Kind
	// Line is 1-based; 0 means the error has no source line.
	Line int
	// Segment is the index of the offending space-separated field, or WholeLine.
	Segment int
	Msg     string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap returns the sentinel for the error's kind.
func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

func newError(kind Kind, line, segment int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Segment: segment, Msg: fmt.Sprintf(format, args...)}
}
