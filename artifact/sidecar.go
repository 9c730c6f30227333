package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/wippyai/opcodec/codec"
	"github.com/wippyai/opcodec/errors"
)

// FormatVersion identifies the header layout: 8-bit opcode, 4-bit operand
// count, 16-bit operand words.
const FormatVersion = 1

// SidecarSuffix is appended to the asset name to form the sidecar name.
const SidecarSuffix = ".json"

// Sidecar is the metadata written next to a binary asset.
type Sidecar struct {
	Constants    []string `json:"constants,omitempty" cbor:"4,keyasint,omitempty"`
	Format       int      `json:"format" cbor:"1,keyasint"`
	Units        int      `json:"units" cbor:"2,keyasint"`
	Instructions int      `json:"instructions" cbor:"3,keyasint"`
}

// NewSidecar describes units. The stream is scanned once so that a sidecar
// is never written for a stream that would not decode.
func NewSidecar(units []uint16, constants []string) (*Sidecar, error) {
	n, err := countInstructions(units)
	if err != nil {
		return nil, err
	}
	return &Sidecar{
		Format:       FormatVersion,
		Units:        len(units),
		Instructions: n,
		Constants:    constants,
	}, nil
}

// Check reports whether the sidecar describes b. The asset is rescanned to
// verify the instruction count.
func (s *Sidecar) Check(b *Binary) error {
	if s.Format != FormatVersion {
		return errors.UnsupportedVersion(errors.PhaseArtifact, "sidecar", s.Format, FormatVersion)
	}
	if s.Units != len(b.Units()) {
		return errors.InvalidData(errors.PhaseArtifact,
			fmt.Sprintf("sidecar declares %d units, asset has %d", s.Units, len(b.Units())))
	}
	n, err := countInstructions(b.Units())
	if err != nil {
		return err
	}
	if s.Instructions != n {
		return errors.InvalidData(errors.PhaseArtifact,
			fmt.Sprintf("sidecar declares %d instructions, asset has %d", s.Instructions, n))
	}
	return nil
}

func countInstructions(units []uint16) (int, error) {
	n := 0
	s := codec.NewScanner(units)
	for s.Next() {
		n++
	}
	return n, s.Err()
}

// MarshalSidecar returns the indented JSON form.
func MarshalSidecar(s *Sidecar) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "marshal sidecar")
	}
	return append(data, '\n'), nil
}

// UnmarshalSidecar parses the JSON form.
func UnmarshalSidecar(data []byte) (*Sidecar, error) {
	var s Sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "unmarshal sidecar")
	}
	return &s, nil
}
