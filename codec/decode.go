package codec

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/opcodec/codec/internal/units"
	"github.com/wippyai/opcodec/errors"
)

// DecodeBuffer reverses EncodeToBuffer's header+operands layout. The result
// has the same length as stream: each header is replaced by its opcode and
// operand words are copied through. It is not the four-wide Program form.
//
// A header whose count field exceeds MaxOperands fails with
// errors.ErrCorruptStream; a header claiming more operand words than remain
// fails with errors.ErrTruncatedStream.
func DecodeBuffer(stream []uint16) ([]uint16, error) {
	out := make([]uint16, len(stream))
	s := NewScanner(stream)
	n := 0
	for s.Next() {
		off := s.Offset()
		out[off] = uint16(s.Header().Opcode())
		copy(out[off+1:], s.Operands())
		n++
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	Logger().Debug("decoded stream",
		zap.Int("units", len(stream)),
		zap.Int("instructions", n))
	return out, nil
}

// Decode is DecodeBuffer over the text form produced by Encode.
func Decode(text string) ([]uint16, error) {
	stream, err := units.ParseText(text)
	if err != nil {
		b := errors.New(errors.PhaseDecode, errors.KindCorruptStream).
			Cause(err).
			Detail("text is not a code-unit sequence")
		var pe *units.ParseError
		if stderrors.As(err, &pe) {
			b.Offset(pe.Position)
		}
		return nil, b.Build()
	}
	return DecodeBuffer(stream)
}

// Disassemble splits an encoded stream into instructions. Operand slices
// are copies.
func Disassemble(stream []uint16) ([]Decoded, error) {
	var out []Decoded
	s := NewScanner(stream)
	for s.Next() {
		ops := make([]uint16, len(s.Operands()))
		copy(ops, s.Operands())
		out = append(out, Decoded{
			Offset:   s.Offset(),
			Opcode:   s.Header().Opcode(),
			Operands: ops,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
