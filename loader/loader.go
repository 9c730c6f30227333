package loader

import (
	"github.com/wippyai/opcodec/codec"
	"github.com/wippyai/opcodec/errors"
)

// unitSize is the byte width of a code unit in linear memory.
const unitSize = 2

// Memory is the subset of api.Memory used to transfer code units.
type Memory interface {
	Size() uint32
	ReadUint16Le(offset uint32) (uint16, bool)
	WriteUint16Le(offset uint32, v uint16) bool
}

// Store writes units to mem starting at byte offset.
func Store(mem Memory, offset uint32, units []uint16) error {
	if err := checkBounds(mem, offset, len(units)); err != nil {
		return err
	}
	for i, u := range units {
		if !mem.WriteUint16Le(offset+uint32(i*unitSize), u) {
			return errors.OutOfBounds(errors.PhaseLoad, int(offset)+i*unitSize, unitSize, int(mem.Size()))
		}
	}
	return nil
}

// Fetch reads n units from mem starting at byte offset into a new slice.
func Fetch(mem Memory, offset uint32, n int) ([]uint16, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "negative unit count")
	}
	if err := checkBounds(mem, offset, n); err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		u, ok := mem.ReadUint16Le(offset + uint32(i*unitSize))
		if !ok {
			return nil, errors.OutOfBounds(errors.PhaseLoad, int(offset)+i*unitSize, unitSize, int(mem.Size()))
		}
		out[i] = u
	}
	return out, nil
}

// DecodeAt fetches n encoded units from mem and decodes them.
func DecodeAt(mem Memory, offset uint32, n int) ([]uint16, error) {
	stream, err := Fetch(mem, offset, n)
	if err != nil {
		return nil, err
	}
	return codec.DecodeBuffer(stream)
}

func checkBounds(mem Memory, offset uint32, n int) error {
	size := uint64(mem.Size())
	if uint64(offset)+uint64(n)*unitSize > size {
		return errors.OutOfBounds(errors.PhaseLoad, int(offset), n*unitSize, int(size))
	}
	return nil
}
