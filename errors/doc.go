// Package errors provides structured error types for the opcodec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the record index or stream offset, the offending value,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindOpcodeTooLarge).
//		Record(3).
//		Value(uint32(256)).
//		Detail("opcode over 8 bits").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OpcodeTooLarge(3, 256)
//	err := errors.TruncatedStream(errors.PhaseDecode, offset, want, have)
//
// All errors implement the standard error interface and support errors.Is/As.
// The exported sentinels (ErrOpcodeTooLarge, ErrTruncatedStream, ...) match any
// Error of the same Kind regardless of phase.
package errors
