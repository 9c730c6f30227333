package codec

// Bit layout of a header word:
//
//	15    12 11     8 7              0
//	+-------+--------+---------------+
//	| spare | count  |    opcode     |
//	+-------+--------+---------------+
//
// The spare bits are written as zero and ignored when decoding.
const (
	OpcodeMask        = 0x00FF
	OperandCountMask  = 0x0F00
	OperandCountShift = 8
)

// Width limits.
const (
	MaxOpcode   = 0xFF
	MaxOperand  = 0xFFFF
	MaxOperands = 3

	// RecordSize is the number of program entries per instruction:
	// opcode, op1, op2, op3.
	RecordSize = 1 + MaxOperands
)
