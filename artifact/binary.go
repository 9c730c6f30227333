package artifact

import (
	"encoding/binary"
	"io"

	"github.com/wippyai/opcodec/errors"
)

// UnitSize is the number of bytes per code unit in a binary asset.
const UnitSize = 2

// Binary is an encoded stream ready to be written as an asset.
type Binary struct {
	units []uint16
}

// NewBinary wraps units. The slice is retained, not copied.
func NewBinary(units []uint16) *Binary {
	return &Binary{units: units}
}

// Units returns the wrapped code units.
func (b *Binary) Units() []uint16 {
	return b.units
}

// Size returns the asset size in bytes.
func (b *Binary) Size() int {
	return len(b.units) * UnitSize
}

// Bytes returns the little-endian serialization.
func (b *Binary) Bytes() []byte {
	out := make([]byte, b.Size())
	for i, u := range b.units {
		binary.LittleEndian.PutUint16(out[i*UnitSize:], u)
	}
	return out
}

// WriteTo implements io.WriterTo.
func (b *Binary) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes())
	return int64(n), err
}

// ParseBinary reads a little-endian asset. An odd byte count cannot come
// from a whole number of units and fails with errors.ErrTruncatedStream.
func ParseBinary(data []byte) (*Binary, error) {
	if len(data)%UnitSize != 0 {
		return nil, errors.New(errors.PhaseArtifact, errors.KindTruncatedStream).
			Offset(len(data) - 1).
			Detail("odd byte count %d", len(data)).
			Build()
	}
	units := make([]uint16, len(data)/UnitSize)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[i*UnitSize:])
	}
	return &Binary{units: units}, nil
}

// ReadBinary reads an entire asset from r.
func ReadBinary(r io.Reader) (*Binary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "read asset")
	}
	return ParseBinary(data)
}
