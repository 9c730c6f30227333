// Package opcodec persists compiled template programs as compact streams of
// 16-bit code units and reconstructs them bit for bit.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	opcodec/             Root package (documentation only)
//	├── codec/           Encoder, decoder, header bit layout, scanner
//	├── artifact/        Binary assets, JSON sidecars, CBOR envelopes
//	├── loader/          Transfer to and from wazero linear memory
//	├── errors/          Structured error types for debugging
//	├── internal/config/ opcodec.toml loading for the command line tool
//	└── cmd/opcodec/     Command line tool
//
// # Quick Start
//
// Encode a program produced by the template compiler:
//
//	units, err := codec.EncodeToBuffer(codec.Program{
//		1, 0, 0, 0,
//		2, 5, 0, 0,
//	})
//
// Write it as a build asset with a sidecar:
//
//	meta, _ := artifact.NewSidecar(units, nil)
//	err = artifact.Save("dist", "templates.gbx", artifact.NewBinary(units), meta)
//
// Read it back at load time:
//
//	bin, _, err := artifact.Load("dist", "templates.gbx")
//	packed, err := codec.DecodeBuffer(bin.Units())
//
// # Encoded Layout
//
// Every record becomes a header word (opcode in bits 0-7, operand count in
// bits 8-11) followed by count operand words. See package codec for the
// counting rule.
//
// # Errors
//
// All packages return *errors.Error values. Match them by kind:
//
//	if errors.Is(err, operrors.ErrOpcodeTooLarge) { ... }
package opcodec
