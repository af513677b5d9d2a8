// errors.go defines the error taxonomy shared by the scanner, parser and compiler.
package rdml

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. Lexical failures are reported as
// *ScanError only; the sentinels below classify structural and semantic ones.
var (
	ErrMismatchedTag   = errors.New("tag names mismatched")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrRequiredAttr    = errors.New("required attribute missing")
	ErrInvalidValue    = errors.New("invalid attribute value")
	ErrInvalidContent  = errors.New("invalid content")
	ErrDuplicateProc   = errors.New("duplicate procedure")
)

// ScanError is a lexical error. Scanning stops at the first one.
type ScanError struct {
	Line int
	Msg  string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("syntax error: %s at line %d", e.Msg, e.Line)
}

// ParseError is a structural error found while building the node tree.
type ParseError struct {
	Element string // innermost open element, empty at top level
	Line    int
	Err     error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse error")
	if e.Element != "" {
		fmt.Fprintf(&sb, " in <%s>", e.Element)
	}
	fmt.Fprintf(&sb, " at line %d: %v", e.Line, e.Err)
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CompileError is a semantic error raised while compiling an element.
type CompileError struct {
	Element string
	Group   string // attribute group key, empty when not group related
	Line    int
	Err     error
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "compile error: <%s> at line %d", e.Element, e.Line)
	if e.Group != "" {
		fmt.Fprintf(&sb, ": attribute group %q", e.Group)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	return sb.String()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
