package artifact

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/opcodec/errors"
)

// Envelope bundles units and metadata into one CBOR document.
type Envelope struct {
	Meta   *Sidecar `cbor:"3,keyasint,omitempty"`
	Units  []uint16 `cbor:"2,keyasint"`
	Format int      `cbor:"1,keyasint"`
}

var envEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("artifact: failed to create CBOR enc mode: %v", err))
	}
	envEncMode = em
}

// NewEnvelope wraps units and their sidecar.
func NewEnvelope(b *Binary, meta *Sidecar) *Envelope {
	return &Envelope{Format: FormatVersion, Units: b.Units(), Meta: meta}
}

// Binary returns the envelope's units as a Binary.
func (e *Envelope) Binary() *Binary {
	return NewBinary(e.Units)
}

// MarshalEnvelope serializes an Envelope deterministically.
func MarshalEnvelope(e *Envelope) ([]byte, error) {
	data, err := envEncMode.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "marshal envelope")
	}
	return data, nil
}

// UnmarshalEnvelope parses an Envelope and checks its metadata against the
// carried units.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "unmarshal envelope")
	}
	if e.Format != FormatVersion {
		return nil, errors.UnsupportedVersion(errors.PhaseArtifact, "envelope", e.Format, FormatVersion)
	}
	if e.Meta != nil {
		if err := e.Meta.Check(e.Binary()); err != nil {
			return nil, err
		}
	}
	return &e, nil
}
