// Package artifact persists encoded instruction streams as build assets.
//
// A build writes two files side by side:
//
//	dist/templates.gbx        raw code units, little-endian, 2 bytes each
//	dist/templates.gbx.json   Sidecar metadata (format, counts, constants)
//
// Envelope is a single-file alternative: one canonical CBOR document that
// carries the units and the sidecar together.
//
//	units, _ := codec.EncodeToBuffer(program)
//	meta, _ := artifact.NewSidecar(units, constants)
//	err := artifact.Save("dist", "templates.gbx", artifact.NewBinary(units), meta)
package artifact
