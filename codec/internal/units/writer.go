package units

// Writer accumulates code units.
type Writer struct {
	buf []uint16
}

// NewWriter creates a Writer with room for sizeHint units.
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]uint16, 0, sizeHint)}
}

// Units returns the written units.
func (w *Writer) Units() []uint16 {
	return w.buf
}

// Len returns the number of units written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Unit writes a single unit.
func (w *Writer) Unit(u uint16) {
	w.buf = append(w.buf, u)
}

// WriteUnits writes a unit slice.
func (w *Writer) WriteUnits(us []uint16) {
	w.buf = append(w.buf, us...)
}
