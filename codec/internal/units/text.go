package units

import "errors"

// ErrMalformedText is returned when a text does not decode to a sequence of
// 16-bit code points.
var ErrMalformedText = errors.New("malformed code-unit text")

// The text form writes every unit as one code point using the 1-3 byte UTF-8
// layout. Surrogate values are written like any other value (generalized
// UTF-8), which unicode/utf8 refuses to produce or accept.
const (
	cont     = 0x80
	contMask = 0x3F
)

// AppendText appends the text form of units to dst.
func AppendText(dst []byte, units []uint16) []byte {
	for _, u := range units {
		switch {
		case u < 0x80:
			dst = append(dst, byte(u))
		case u < 0x800:
			dst = append(dst, 0xC0|byte(u>>6), cont|byte(u)&contMask)
		default:
			dst = append(dst, 0xE0|byte(u>>12), cont|byte(u>>6)&contMask, cont|byte(u)&contMask)
		}
	}
	return dst
}

// Text returns the text form of units.
func Text(units []uint16) string {
	return string(AppendText(make([]byte, 0, len(units)*3), units))
}

// ParseText decodes a text form back into code units. Position in a returned
// ParseError is a byte offset into s.
func ParseText(s string) ([]uint16, error) {
	out := make([]uint16, 0, len(s))
	for i := 0; i < len(s); {
		b0 := s[i]
		switch {
		case b0 < 0x80:
			out = append(out, uint16(b0))
			i++

		case b0&0xE0 == 0xC0:
			if i+1 >= len(s) || !isCont(s[i+1]) {
				return nil, malformed(i)
			}
			v := uint16(b0&0x1F)<<6 | uint16(s[i+1]&contMask)
			if v < 0x80 {
				return nil, malformed(i)
			}
			out = append(out, v)
			i += 2

		case b0&0xF0 == 0xE0:
			if i+2 >= len(s) || !isCont(s[i+1]) || !isCont(s[i+2]) {
				return nil, malformed(i)
			}
			v := uint16(b0&0x0F)<<12 | uint16(s[i+1]&contMask)<<6 | uint16(s[i+2]&contMask)
			if v < 0x800 {
				return nil, malformed(i)
			}
			out = append(out, v)
			i += 3

		default:
			// stray continuation byte or a code point beyond 16 bits
			return nil, malformed(i)
		}
	}
	return out, nil
}

func isCont(b byte) bool {
	return b&0xC0 == cont
}

func malformed(pos int) error {
	return &ParseError{Position: pos, Section: "text", Err: ErrMalformedText}
}
