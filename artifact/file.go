package artifact

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/opcodec/errors"
)

// Save writes the asset to dir/name and, when meta is non-nil, the sidecar
// to dir/name.json. dir is created if needed.
func Save(dir, name string, b *Binary, meta *Sidecar) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseArtifact, "empty asset name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "create output dir")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "write asset")
	}
	Logger().Debug("wrote asset", zap.String("path", path), zap.Int("bytes", b.Size()))

	if meta == nil {
		return nil
	}
	data, err := MarshalSidecar(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+SidecarSuffix, data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "write sidecar")
	}
	Logger().Debug("wrote sidecar", zap.String("path", path+SidecarSuffix))
	return nil
}

// Load reads dir/name and its sidecar. A missing sidecar yields a nil
// Sidecar; a present one must describe the asset.
func Load(dir, name string) (*Binary, *Sidecar, error) {
	path := filepath.Join(dir, name)
	b, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path + SidecarSuffix)
	if stderrors.Is(err, fs.ErrNotExist) {
		return b, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "read sidecar")
	}
	meta, err := UnmarshalSidecar(data)
	if err != nil {
		return nil, nil, err
	}
	if err := meta.Check(b); err != nil {
		return nil, nil, err
	}
	return b, meta, nil
}

// ReadFile reads a binary asset from path.
func ReadFile(path string) (*Binary, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.PhaseArtifact, errors.KindNotFound).
			Cause(err).
			Detail("asset %q not found", path).
			Build()
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "read asset")
	}
	Logger().Debug("read asset", zap.String("path", path), zap.Int("bytes", len(data)))
	return ParseBinary(data)
}

// SaveEnvelope writes e as a single CBOR file.
func SaveEnvelope(path string, e *Envelope) error {
	data, err := MarshalEnvelope(e)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "write envelope")
	}
	return nil
}

// LoadEnvelope reads a CBOR envelope file.
func LoadEnvelope(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArtifact, errors.KindInvalidData, err, "read envelope")
	}
	return UnmarshalEnvelope(data)
}
