package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // program to code units
	PhaseDecode   Phase = "decode"   // code units to packed layout
	PhaseLoad     Phase = "load"     // guest memory transfer
	PhaseArtifact Phase = "artifact" // asset and sidecar files
	PhaseConfig   Phase = "config"   // opcodec.toml
)

// Kind categorizes the error
type Kind string

const (
	KindOpcodeTooLarge  Kind = "opcode_too_large"
	KindOperandTooLarge Kind = "operand_too_large"
	KindTruncatedStream Kind = "truncated_stream"
	KindCorruptStream   Kind = "corrupt_stream"
	KindInvalidProgram  Kind = "invalid_program"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindInvalidData     Kind = "invalid_data"
	KindInvalidInput    Kind = "invalid_input"
	KindUnsupported     Kind = "unsupported"
	KindNotFound        Kind = "not_found"
)

// Sentinels for errors.Is. They carry no phase, so they match an Error of
// the same Kind raised in any phase.
var (
	ErrOpcodeTooLarge  = &Error{Kind: KindOpcodeTooLarge}
	ErrOperandTooLarge = &Error{Kind: KindOperandTooLarge}
	ErrTruncatedStream = &Error{Kind: KindTruncatedStream}
	ErrCorruptStream   = &Error{Kind: KindCorruptStream}
	ErrInvalidProgram  = &Error{Kind: KindInvalidProgram}
	ErrOutOfBounds     = &Error{Kind: KindOutOfBounds}
)

// Error is the structured error type used throughout opcodec.
// Record is the instruction index in the source program and Offset the
// code-unit position in the encoded stream; -1 means not applicable.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Record int
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Record >= 0 {
		b.WriteString(" at record ")
		b.WriteString(strconv.Itoa(e.Record))
	} else if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Record: -1,
			Offset: -1,
		},
	}
}

// Record sets the instruction index
func (b *Builder) Record(i int) *Builder {
	b.err.Record = i
	return b
}

// Offset sets the code-unit offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OpcodeTooLarge creates an error for an opcode outside the 8-bit domain
func OpcodeTooLarge(record int, value uint32) *Error {
	return New(PhaseEncode, KindOpcodeTooLarge).
		Record(record).
		Value(value).
		Detail("opcode type over 8-bits, got %d", value).
		Build()
}

// OperandTooLarge creates an error for an operand outside the 16-bit domain
func OperandTooLarge(record, slot int, value uint32) *Error {
	return New(PhaseEncode, KindOperandTooLarge).
		Record(record).
		Value(value).
		Detail("operand %d is over 16-bits, got %d", slot+1, value).
		Build()
}

// InvalidProgram creates an error for a program whose shape is not a whole
// number of records
func InvalidProgram(length, recordSize int) *Error {
	return New(PhaseEncode, KindInvalidProgram).
		Value(length).
		Detail("program length %d is not a multiple of %d", length, recordSize).
		Build()
}

// TruncatedStream creates an error for a header that claims more operand
// words than remain
func TruncatedStream(phase Phase, offset, want, have int) *Error {
	return New(phase, KindTruncatedStream).
		Offset(offset).
		Detail("header declares %d operand words, %d remain", want, have).
		Build()
}

// CorruptStream creates an error for a header whose operand count field
// exceeds limit
func CorruptStream(phase Phase, offset, count, limit int) *Error {
	return New(phase, KindCorruptStream).
		Offset(offset).
		Value(count).
		Detail("operand count %d exceeds %d", count, limit).
		Build()
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, size int) *Error {
	return New(phase, KindOutOfBounds).
		Offset(offset).
		Value(offset).
		Detail("range [%d, %d) exceeds size %d", offset, offset+length, size).
		Build()
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidData, Detail: detail, Record: -1, Offset: -1}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidInput, Detail: detail, Record: -1, Offset: -1}
}

// UnsupportedVersion creates an error for a format version this build
// cannot read
func UnsupportedVersion(phase Phase, what string, got, want int) *Error {
	return New(phase, KindUnsupported).
		Value(got).
		Detail("%s format version %d, want %d", what, got, want).
		Build()
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return New(phase, KindNotFound).Detail("%s %q not found", what, name).Build()
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause, Record: -1, Offset: -1}
}
