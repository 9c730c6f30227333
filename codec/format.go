package codec

import (
	"fmt"
	"io"
)

// Format writes one line per instruction of stream to w, in the form
//
//	0x0003: op=3 [0 6]
//
// It stops at the first malformed header and returns its error.
func Format(w io.Writer, stream []uint16) error {
	s := NewScanner(stream)
	for s.Next() {
		d := Decoded{Offset: s.Offset(), Opcode: s.Header().Opcode(), Operands: s.Operands()}
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return s.Err()
}
