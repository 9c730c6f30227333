package artifact_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wippyai/opcodec/artifact"
	"github.com/wippyai/opcodec/codec"
	operrors "github.com/wippyai/opcodec/errors"
)

func encode(t *testing.T, p codec.Program) []uint16 {
	t.Helper()
	units, err := codec.EncodeToBuffer(p)
	if err != nil {
		t.Fatalf("EncodeToBuffer: %v", err)
	}
	return units
}

func TestBinaryBytes(t *testing.T) {
	b := artifact.NewBinary([]uint16{0x0102, 0xFFFF, 0x0000})

	if b.Size() != 6 {
		t.Errorf("Size = %d, want 6", b.Size())
	}
	want := []byte{0x02, 0x01, 0xFF, 0xFF, 0x00, 0x00}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes = %x, want %x", b.Bytes(), want)
	}

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != 6 || !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteTo wrote %d bytes %x", n, buf.Bytes())
	}
}

func TestReadBinary(t *testing.T) {
	units := encode(t, codec.Program{1, 0, 0, 0, 2, 5, 0, 0, 3, 0, 6, 7})
	b, err := artifact.ReadBinary(bytes.NewReader(artifact.NewBinary(units).Bytes()))
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}
	if diff := cmp.Diff(units, b.Units()); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBinaryOddLength(t *testing.T) {
	_, err := artifact.ParseBinary([]byte{0x01, 0x00, 0x02})
	if !errors.Is(err, operrors.ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
	var e *operrors.Error
	if errors.As(err, &e) && e.Phase != operrors.PhaseArtifact {
		t.Errorf("Phase = %v, want artifact", e.Phase)
	}
}

func TestSidecar(t *testing.T) {
	units := encode(t, codec.Program{1, 0, 0, 0, 2, 5, 0, 0, 3, 0, 6, 7})
	meta, err := artifact.NewSidecar(units, []string{"div", "span"})
	if err != nil {
		t.Fatalf("NewSidecar: %v", err)
	}
	want := &artifact.Sidecar{
		Format:       artifact.FormatVersion,
		Units:        6,
		Instructions: 3,
		Constants:    []string{"div", "span"},
	}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("sidecar mismatch (-want +got):\n%s", diff)
	}

	data, err := artifact.MarshalSidecar(meta)
	if err != nil {
		t.Fatalf("MarshalSidecar: %v", err)
	}
	got, err := artifact.UnmarshalSidecar(data)
	if err != nil {
		t.Fatalf("UnmarshalSidecar: %v", err)
	}
	if diff := cmp.Diff(meta, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestSidecarRejectsCorruptStream(t *testing.T) {
	if _, err := artifact.NewSidecar([]uint16{0x0301, 1}, nil); !errors.Is(err, operrors.ErrTruncatedStream) {
		t.Errorf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestSidecarCheck(t *testing.T) {
	b := artifact.NewBinary([]uint16{1, 2})

	ok := &artifact.Sidecar{Format: artifact.FormatVersion, Units: 2, Instructions: 2}
	if err := ok.Check(b); err != nil {
		t.Errorf("Check: %v", err)
	}

	wrongCount := &artifact.Sidecar{Format: artifact.FormatVersion, Units: 3}
	var e *operrors.Error
	if err := wrongCount.Check(b); !errors.As(err, &e) || e.Kind != operrors.KindInvalidData {
		t.Errorf("expected invalid_data, got %v", err)
	}

	stale := &artifact.Sidecar{Format: artifact.FormatVersion, Units: 2, Instructions: 1}
	if err := stale.Check(b); !errors.As(err, &e) || e.Kind != operrors.KindInvalidData {
		t.Errorf("expected invalid_data for instruction count, got %v", err)
	} else if !strings.Contains(e.Detail, "1 instructions, asset has 2") {
		t.Errorf("Detail = %q", e.Detail)
	}

	corrupt := &artifact.Sidecar{Format: artifact.FormatVersion, Units: 2, Instructions: 1}
	if err := corrupt.Check(artifact.NewBinary([]uint16{0x0201, 5})); !errors.Is(err, operrors.ErrTruncatedStream) {
		t.Errorf("expected ErrTruncatedStream, got %v", err)
	}

	future := &artifact.Sidecar{Format: 2, Units: 2}
	if err := future.Check(b); !errors.As(err, &e) || e.Kind != operrors.KindUnsupported {
		t.Errorf("expected unsupported, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")
	units := encode(t, codec.Program{9, 5, 9, 3, 4, 0, 0, 0})
	meta, err := artifact.NewSidecar(units, nil)
	if err != nil {
		t.Fatalf("NewSidecar: %v", err)
	}

	if err := artifact.Save(dir, "templates.gbx", artifact.NewBinary(units), meta); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "templates.gbx.json")); err != nil {
		t.Errorf("sidecar not written: %v", err)
	}

	b, got, err := artifact.Load(dir, "templates.gbx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(units, b.Units()); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(meta, got); diff != "" {
		t.Errorf("sidecar mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutSidecar(t *testing.T) {
	dir := t.TempDir()
	units := []uint16{0x0001}
	if err := artifact.Save(dir, "a.gbx", artifact.NewBinary(units), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, meta, err := artifact.Load(dir, "a.gbx")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta != nil {
		t.Errorf("expected nil sidecar, got %+v", meta)
	}
	if len(b.Units()) != 1 {
		t.Errorf("units = %v", b.Units())
	}
}

func TestLoadMismatchedSidecar(t *testing.T) {
	dir := t.TempDir()
	meta := &artifact.Sidecar{Format: artifact.FormatVersion, Units: 10}
	if err := artifact.Save(dir, "a.gbx", artifact.NewBinary([]uint16{1}), meta); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, _, err := artifact.Load(dir, "a.gbx"); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestLoadStaleInstructionCount(t *testing.T) {
	dir := t.TempDir()
	units := encode(t, codec.Program{9, 5, 9, 3, 4, 0, 0, 0})
	meta := &artifact.Sidecar{Format: artifact.FormatVersion, Units: len(units), Instructions: 5}
	if err := artifact.Save(dir, "a.gbx", artifact.NewBinary(units), meta); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, _, err := artifact.Load(dir, "a.gbx")
	var e *operrors.Error
	if !errors.As(err, &e) || e.Kind != operrors.KindInvalidData {
		t.Errorf("expected invalid_data, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, _, err := artifact.Load(t.TempDir(), "missing.gbx")
	var e *operrors.Error
	if !errors.As(err, &e) || e.Kind != operrors.KindNotFound {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestSaveEmptyName(t *testing.T) {
	err := artifact.Save(t.TempDir(), "", artifact.NewBinary(nil), nil)
	var e *operrors.Error
	if !errors.As(err, &e) || e.Kind != operrors.KindInvalidInput {
		t.Errorf("expected invalid_input, got %v", err)
	}
}

func TestEnvelope(t *testing.T) {
	units := encode(t, codec.Program{1, 0, 0, 0, 2, 5, 0, 0})
	meta, err := artifact.NewSidecar(units, []string{"x"})
	if err != nil {
		t.Fatalf("NewSidecar: %v", err)
	}
	env := artifact.NewEnvelope(artifact.NewBinary(units), meta)

	data, err := artifact.MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("MarshalEnvelope: %v", err)
	}
	again, err := artifact.MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("MarshalEnvelope: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("envelope encoding is not deterministic")
	}

	got, err := artifact.UnmarshalEnvelope(data)
	if err != nil {
		t.Fatalf("UnmarshalEnvelope: %v", err)
	}
	if diff := cmp.Diff(env, got); diff != "" {
		t.Errorf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvelopeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.cbor")
	env := artifact.NewEnvelope(artifact.NewBinary([]uint16{}), nil)
	if err := artifact.SaveEnvelope(path, env); err != nil {
		t.Fatalf("SaveEnvelope: %v", err)
	}
	got, err := artifact.LoadEnvelope(path)
	if err != nil {
		t.Fatalf("LoadEnvelope: %v", err)
	}
	if diff := cmp.Diff(env, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvelopeRejectsMismatch(t *testing.T) {
	env := &artifact.Envelope{
		Format: artifact.FormatVersion,
		Units:  []uint16{1, 2},
		Meta:   &artifact.Sidecar{Format: artifact.FormatVersion, Units: 5},
	}
	data, err := artifact.MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("MarshalEnvelope: %v", err)
	}
	if _, err := artifact.UnmarshalEnvelope(data); err == nil {
		t.Error("expected mismatch error")
	}

	env = &artifact.Envelope{Format: 7}
	data, err = artifact.MarshalEnvelope(env)
	if err != nil {
		t.Fatalf("MarshalEnvelope: %v", err)
	}
	var e *operrors.Error
	if _, err := artifact.UnmarshalEnvelope(data); !errors.As(err, &e) || e.Kind != operrors.KindUnsupported {
		t.Errorf("expected unsupported, got %v", err)
	}

	if _, err := artifact.UnmarshalEnvelope([]byte{0xFF}); err == nil {
		t.Error("expected error for garbage input")
	}
}
