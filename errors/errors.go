package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
// Line is zero when the input has no line structure (for example a single flag value).
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error: %v (record: %v)", e.Err, e.Record)
	}
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LookupKind names the level of the program table a lookup failed at.
type LookupKind string

const (
	LookupProgram   LookupKind = "program"
	LookupReason    LookupKind = "reason"
	LookupSubReason LookupKind = "sub-reason"
)

// LookupError reports a name that does not exist in the program table.
type LookupError struct {
	Kind    LookupKind
	Program string
	Name    string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found in program %q", e.Kind, e.Name, e.Program)
}

func (e *LookupError) Unwrap() error {
	switch e.Kind {
	case LookupProgram:
		return ErrProgramNotFound
	case LookupReason:
		return ErrReasonNotFound
	default:
		return ErrSubReasonNotFound
	}
}

// Define specific error types for better error handling
var (
	ErrNoAvailableCustomer = fmt.Errorf("no available customer")
	ErrUnknownCustomer     = fmt.Errorf("unknown customer")
	ErrProgramNotFound     = fmt.Errorf("program not found")
	ErrReasonNotFound      = fmt.Errorf("reason not found")
	ErrSubReasonNotFound   = fmt.Errorf("sub-reason not found")
	ErrInvalidConfig       = fmt.Errorf("invalid configuration")
	ErrInvalidDate         = fmt.Errorf("invalid date")
	ErrInvalidProgramTable = fmt.Errorf("invalid program table")
	ErrUnknownFormat       = fmt.Errorf("unknown output format")
)
