// Package units provides cursor-style reading and writing of 16-bit code
// units, and the text form that carries one code point per unit.
package units

import (
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when fewer units remain than were requested.
var ErrShortRead = errors.New("units: short read")

// ParseError carries the position at which reading failed.
type ParseError struct {
	Err      error
	Section  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("units: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("units: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader is a forward-only cursor over a code-unit slice.
type Reader struct {
	units []uint16
	pos   int
}

// NewReader creates a Reader positioned at the first unit.
func NewReader(units []uint16) *Reader {
	return &Reader{units: units}
}

// Position returns the index of the next unit to be read.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread units.
func (r *Reader) Remaining() int {
	return len(r.units) - r.pos
}

// ReadUnit reads a single unit. It returns io.EOF once the input is exhausted.
func (r *Reader) ReadUnit() (uint16, error) {
	if r.pos >= len(r.units) {
		return 0, io.EOF
	}
	u := r.units[r.pos]
	r.pos++
	return u, nil
}

// ReadUnits returns the next n units without copying. On a short read the
// cursor does not move.
func (r *Reader) ReadUnits(n int) ([]uint16, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrShortRead
	}
	out := r.units[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return out, nil
}
