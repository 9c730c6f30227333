package codec

import (
	"github.com/wippyai/opcodec/codec/internal/units"
	"github.com/wippyai/opcodec/errors"
)

// Scanner walks an encoded stream one instruction at a time.
//
//	s := codec.NewScanner(stream)
//	for s.Next() {
//		fmt.Println(s.Offset(), s.Header().Opcode(), s.Operands())
//	}
//	if err := s.Err(); err != nil {
//		...
//	}
type Scanner struct {
	err      error
	r        *units.Reader
	operands []uint16
	offset   int
	header   Header
}

// NewScanner returns a Scanner over stream. The stream is not copied.
func NewScanner(stream []uint16) *Scanner {
	return &Scanner{r: units.NewReader(stream)}
}

// Next advances to the next instruction. It returns false at the end of the
// stream or on the first malformed header; Err distinguishes the two.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	off := s.r.Position()
	u, err := s.r.ReadUnit()
	if err != nil {
		return false
	}

	h := Header(u)
	n := h.OperandCount()
	if n > MaxOperands {
		s.err = errors.CorruptStream(errors.PhaseDecode, off, n, MaxOperands)
		return false
	}

	ops, err := s.r.ReadUnits(n)
	if err != nil {
		s.err = errors.TruncatedStream(errors.PhaseDecode, off, n, s.r.Remaining())
		return false
	}

	s.offset = off
	s.header = h
	s.operands = ops
	return true
}

// Offset returns the position of the current header in the stream.
func (s *Scanner) Offset() int {
	return s.offset
}

// Header returns the current header word.
func (s *Scanner) Header() Header {
	return s.header
}

// Operands returns the current operand words. The slice aliases the
// scanned stream and is only valid until the caller modifies it.
func (s *Scanner) Operands() []uint16 {
	return s.operands
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}
