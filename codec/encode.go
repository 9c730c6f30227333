package codec

import (
	"go.uber.org/zap"

	"github.com/wippyai/opcodec/codec/internal/units"
	"github.com/wippyai/opcodec/errors"
)

// EncodeToBuffer packs a program into code units: per record one header
// word followed by the emitted operand words.
//
// The operand count is the number of non-zero operands, and operands are
// always emitted from op1 forward up to that count. A record (t, 0, 7, 0)
// therefore encodes as [t|1<<8, 0] and is indistinguishable from
// (t, 0, 0, 9) once encoded. Existing artifacts depend on this layout.
//
// Any width violation aborts the whole call and no units are returned.
func EncodeToBuffer(p Program) ([]uint16, error) {
	if len(p)%RecordSize != 0 {
		return nil, errors.InvalidProgram(len(p), RecordSize)
	}

	// A record never produces more units than it occupies in the program.
	w := units.NewWriter(len(p))
	for rec := 0; rec < p.Len(); rec++ {
		base := rec * RecordSize
		typ := p[base]
		if typ > MaxOpcode {
			return nil, errors.OpcodeTooLarge(rec, typ)
		}

		var in Instruction
		in.Opcode = uint8(typ)
		for slot := 0; slot < MaxOperands; slot++ {
			op := p[base+1+slot]
			if op > MaxOperand {
				return nil, errors.OperandTooLarge(rec, slot, op)
			}
			in.Operands[slot] = uint16(op)
		}
		writeInstruction(w, in)
	}

	Logger().Debug("encoded program",
		zap.Int("records", p.Len()),
		zap.Int("units", w.Len()))
	return w.Units(), nil
}

// Encode is EncodeToBuffer in text form, one code point per unit.
func Encode(p Program) (string, error) {
	buf, err := EncodeToBuffer(p)
	if err != nil {
		return "", err
	}
	return units.Text(buf), nil
}

// EncodeInstructions packs instructions whose widths are already enforced
// by their types; it cannot fail.
func EncodeInstructions(ins []Instruction) []uint16 {
	w := units.NewWriter(len(ins) * RecordSize)
	for _, in := range ins {
		writeInstruction(w, in)
	}
	return w.Units()
}

func writeInstruction(w *units.Writer, in Instruction) {
	n := in.OperandCount()
	w.Unit(uint16(MakeHeader(in.Opcode, n)))
	w.WriteUnits(in.Operands[:n])
}
