// Package codec packs a compiled instruction stream into 16-bit code units
// and unpacks it again.
//
// # Program Form
//
// The template compiler hands over a flat Program in which every record is
// four entries wide:
//
//	[opcode, op1, op2, op3, opcode, op1, op2, op3, ...]
//
// Opcodes must fit in 8 bits and operands in 16 bits.
//
// # Encoded Form
//
// Each record becomes one header word followed by its operand words:
//
//	header = opcode | count<<8
//
// where count is the number of non-zero operands. Exactly count operand
// words follow, taken from op1 forward. Note that zeros in leading slots
// are not recorded: (7, 0, 5, 0) encodes to [0x0107, 0x0000].
//
// # Encoding
//
//	buf, err := codec.EncodeToBuffer(program) // []uint16 for binary assets
//	text, err := codec.Encode(program)        // one code point per unit
//
// # Decoding
//
//	packed, err := codec.DecodeBuffer(buf)
//	packed, err := codec.Decode(text)
//
// The decoded slice has the same length as the stream, with every header
// replaced by its opcode:
//
//	program: [1,0,0,0, 2,5,0,0, 3,0,6,7]
//	encoded: [0x0001, 0x0102, 5, 0x0203, 0, 6]
//	decoded: [1, 2, 5, 3, 0, 6]
//
// # Inspection
//
// Scanner walks an encoded stream instruction by instruction; Disassemble
// and Format are built on it.
//
// All functions are pure and safe for concurrent use.
package codec
