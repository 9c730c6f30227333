package codec

import (
	"fmt"
	"strings"
)

// Program is the flat form produced by the template compiler:
// [opcode, op1, op2, op3, opcode, op1, op2, op3, ...].
// Entries are wider than the encoded widths so that out-of-range values
// reach the encoder and are rejected instead of being truncated.
type Program []uint32

// Len returns the number of whole records in the program.
func (p Program) Len() int {
	return len(p) / RecordSize
}

// Instruction is a single record with widths already enforced by its types.
type Instruction struct {
	Operands [MaxOperands]uint16
	Opcode   uint8
}

// OperandCount returns the number of non-zero operands. This is the value
// written to the header, not the index of the last non-zero slot.
func (in Instruction) OperandCount() int {
	n := 0
	for _, op := range in.Operands {
		if op != 0 {
			n++
		}
	}
	return n
}

// Packed returns the instruction as it appears after a decode: the opcode
// followed by the first OperandCount operands in slot order.
func (in Instruction) Packed() []uint16 {
	n := in.OperandCount()
	out := make([]uint16, 0, 1+n)
	out = append(out, uint16(in.Opcode))
	return append(out, in.Operands[:n]...)
}

func (in Instruction) String() string {
	return fmt.Sprintf("op=%d %v", in.Opcode, in.Operands)
}

// Flatten lays instructions out in program form.
func Flatten(ins []Instruction) Program {
	p := make(Program, 0, len(ins)*RecordSize)
	for _, in := range ins {
		p = append(p, uint32(in.Opcode))
		for _, op := range in.Operands {
			p = append(p, uint32(op))
		}
	}
	return p
}

// Header is the first code unit of every encoded instruction.
type Header uint16

// MakeHeader packs an opcode and an operand count. Counts above the 4-bit
// field are masked.
func MakeHeader(opcode uint8, count int) Header {
	return Header(uint16(opcode) | uint16(count<<OperandCountShift)&OperandCountMask)
}

// Opcode returns the low byte.
func (h Header) Opcode() uint8 {
	return uint8(h & OpcodeMask)
}

// OperandCount returns the raw 4-bit count field, which may exceed
// MaxOperands in a corrupt stream.
func (h Header) OperandCount() int {
	return int(h&OperandCountMask) >> OperandCountShift
}

// Decoded is one instruction recovered from an encoded stream.
type Decoded struct {
	Operands []uint16
	Offset   int
	Opcode   uint8
}

func (d Decoded) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "0x%04x: op=%d", d.Offset, d.Opcode)
	if len(d.Operands) > 0 {
		fmt.Fprintf(&b, " %v", d.Operands)
	}
	return b.String()
}
