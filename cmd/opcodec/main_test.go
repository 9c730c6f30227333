package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/opcodec/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Output.Dir = dir
	return cfg
}

func TestReadProgram(t *testing.T) {
	dir := t.TempDir()

	pf, err := readProgram(writeFile(t, dir, "bare.json", "[1,0,0,0, 2,5,0,0]"))
	if err != nil {
		t.Fatalf("readProgram bare: %v", err)
	}
	if len(pf.Program) != 8 || pf.Constants != nil {
		t.Errorf("bare: %+v", pf)
	}

	pf, err = readProgram(writeFile(t, dir, "obj.json", `{"program":[3,0,6,7],"constants":["div"]}`))
	if err != nil {
		t.Fatalf("readProgram object: %v", err)
	}
	if len(pf.Program) != 4 || len(pf.Constants) != 1 {
		t.Errorf("object: %+v", pf)
	}

	if _, err := readProgram(writeFile(t, dir, "bad.json", "[1,")); err == nil {
		t.Error("expected parse error")
	}
}

func TestEncodeDecodeDump(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	src := writeFile(t, dir, "prog.json", "[1,0,0,0, 2,5,0,0, 3,0,6,7]")

	var out strings.Builder
	if err := runEncode(cfg, src, &out); err != nil {
		t.Fatalf("runEncode: %v", err)
	}
	if !strings.Contains(out.String(), "12 bytes, 6 units") {
		t.Errorf("encode output = %q", out.String())
	}
	asset := filepath.Join(dir, cfg.Output.Name)
	if _, err := os.Stat(asset + ".json"); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}

	out.Reset()
	if err := runDecode(asset, &out); err != nil {
		t.Fatalf("runDecode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "[1,2,5,3,0,6]" {
		t.Errorf("decode output = %q", got)
	}

	out.Reset()
	if err := runDump(asset, &out); err != nil {
		t.Fatalf("runDump: %v", err)
	}
	if !strings.Contains(out.String(), "0x0003: op=3 [0 6]") {
		t.Errorf("dump output = %q", out.String())
	}

	out.Reset()
	if err := runLoad(cfg, asset, &out); err != nil {
		t.Fatalf("runLoad: %v", err)
	}
	if !strings.Contains(out.String(), "Decoded 6 units") {
		t.Errorf("load output = %q", out.String())
	}
}

func TestEncodeEnvelope(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Output.Envelope = true
	src := writeFile(t, dir, "prog.json", `{"program":[9,5,9,3]}`)

	var out strings.Builder
	if err := runEncode(cfg, src, &out); err != nil {
		t.Fatalf("runEncode: %v", err)
	}

	out.Reset()
	if err := runDecode(filepath.Join(dir, "templates.cbor"), &out); err != nil {
		t.Fatalf("runDecode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "[9,5,9,3]" {
		t.Errorf("decode output = %q", got)
	}
}

func TestEncodeRejectsWideOpcode(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "prog.json", "[256,0,0,0]")
	err := runEncode(testConfig(dir), src, &strings.Builder{})
	if err == nil || !strings.Contains(err.Error(), "opcode_too_large") {
		t.Errorf("expected opcode_too_large, got %v", err)
	}
}

func largeProgram(records int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range records {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("1,2,3,4")
	}
	b.WriteByte(']')
	return b.String()
}

func TestLoadGrowsHeap(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	// 20000 records of four units need 160000 bytes, three pages.
	src := writeFile(t, dir, "prog.json", largeProgram(20000))
	if err := runEncode(cfg, src, &strings.Builder{}); err != nil {
		t.Fatalf("runEncode: %v", err)
	}
	asset := filepath.Join(dir, cfg.Output.Name)

	var out strings.Builder
	if err := runLoad(cfg, asset, &out); err != nil {
		t.Fatalf("runLoad: %v", err)
	}
	if !strings.Contains(out.String(), "Loaded 80000 units into 196608 bytes") {
		t.Errorf("load output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Decoded 80000 units") {
		t.Errorf("load output = %q", out.String())
	}

	cfg.Heap.MemoryLimitPages = 2
	err := runLoad(cfg, asset, &strings.Builder{})
	if err == nil || !strings.Contains(err.Error(), "needs 3 pages") {
		t.Errorf("expected page limit error, got %v", err)
	}
}

func TestEnvelopeName(t *testing.T) {
	if got := envelopeName("templates.gbx"); got != "templates.cbor" {
		t.Errorf("envelopeName = %q", got)
	}
	if got := envelopeName("bundle"); got != "bundle.cbor" {
		t.Errorf("envelopeName = %q", got)
	}
}
