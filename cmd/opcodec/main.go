package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/opcodec/artifact"
	"github.com/wippyai/opcodec/codec"
	"github.com/wippyai/opcodec/internal/config"
	"github.com/wippyai/opcodec/loader"
)

func main() {
	var (
		encodeFile  = flag.String("encode", "", "Encode a JSON program into an artifact")
		decodeFile  = flag.String("decode", "", "Decode an artifact and print the packed units as JSON")
		dumpFile    = flag.String("dump", "", "Print a disassembly listing of an artifact")
		loadFile    = flag.String("load", "", "Round-trip an artifact through wazero linear memory")
		outDir      = flag.String("out", "", "Output directory (overrides config)")
		configFile  = flag.String("config", config.FileName, "Path to configuration file")
		verbose     = flag.Bool("v", false, "Debug logging")
		interactive = flag.Bool("i", false, "Interactive viewer for -dump")
	)
	flag.Parse()

	if *encodeFile == "" && *decodeFile == "" && *dumpFile == "" && *loadFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: opcodec -encode <program.json> [-out dir]")
		fmt.Fprintln(os.Stderr, "       opcodec -decode <file.gbx>")
		fmt.Fprintln(os.Stderr, "       opcodec -dump <file.gbx> [-i]")
		fmt.Fprintln(os.Stderr, "       opcodec -load <file.gbx>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	log, err := newLogger(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	codec.SetLogger(log.Named("codec"))
	artifact.SetLogger(log.Named("artifact"))
	loader.SetLogger(log.Named("loader"))

	switch {
	case *encodeFile != "":
		err = runEncode(cfg, *encodeFile, os.Stdout)
	case *decodeFile != "":
		err = runDecode(*decodeFile, os.Stdout)
	case *dumpFile != "" && *interactive:
		err = runInteractive(*dumpFile)
	case *dumpFile != "":
		err = runDump(*dumpFile, os.Stdout)
	case *loadFile != "":
		err = runLoad(cfg, *loadFile, os.Stdout)
	}
	if err != nil {
		log.Debug("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// programFile is the object form of an encode input. A bare JSON array is
// accepted as well.
type programFile struct {
	Program   []uint32 `json:"program"`
	Constants []string `json:"constants,omitempty"`
}

func readProgram(path string) (*programFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var pf programFile
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &pf.Program)
	} else {
		err = json.Unmarshal(data, &pf)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pf, nil
}

func runEncode(cfg *config.Config, path string, out io.Writer) error {
	pf, err := readProgram(path)
	if err != nil {
		return err
	}

	units, err := codec.EncodeToBuffer(pf.Program)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	meta, err := artifact.NewSidecar(units, pf.Constants)
	if err != nil {
		return fmt.Errorf("sidecar: %w", err)
	}
	bin := artifact.NewBinary(units)

	if cfg.Output.Envelope {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		dest := filepath.Join(cfg.Output.Dir, envelopeName(cfg.Output.Name))
		if err := artifact.SaveEnvelope(dest, artifact.NewEnvelope(bin, meta)); err != nil {
			return fmt.Errorf("save envelope: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s (%d instructions, %d units)\n", dest, meta.Instructions, meta.Units)
		return nil
	}

	if !cfg.Output.Sidecar {
		meta = nil
	}
	if err := artifact.Save(cfg.Output.Dir, cfg.Output.Name, bin, meta); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s (%d bytes, %d units)\n",
		filepath.Join(cfg.Output.Dir, cfg.Output.Name), bin.Size(), len(units))
	return nil
}

func envelopeName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".cbor"
}

// readStream loads the encoded units of a binary asset or CBOR envelope.
func readStream(path string) ([]uint16, error) {
	if filepath.Ext(path) == ".cbor" {
		env, err := artifact.LoadEnvelope(path)
		if err != nil {
			return nil, err
		}
		return env.Units, nil
	}
	bin, _, err := artifact.Load(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return bin.Units(), nil
}

func runDecode(path string, out io.Writer) error {
	units, err := readStream(path)
	if err != nil {
		return err
	}
	packed, err := codec.DecodeBuffer(units)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	data, err := json.Marshal(packed)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func runDump(path string, out io.Writer) error {
	units, err := readStream(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Artifact: %s\n", path)
	fmt.Fprintf(out, "Units: %d\n\n", len(units))
	return codec.Format(out, units)
}

func runLoad(cfg *config.Config, path string, out io.Writer) error {
	ctx := context.Background()

	units, err := readStream(path)
	if err != nil {
		return err
	}

	pages := max(cfg.Heap.Pages, loader.PagesFor(len(units)))
	if limit := cfg.Heap.MemoryLimitPages; limit > 0 && pages > limit {
		return fmt.Errorf("artifact needs %d pages of linear memory, heap limit is %d", pages, limit)
	}
	heap, err := loader.NewHeap(ctx, loader.Config{
		Pages:            pages,
		MemoryLimitPages: cfg.Heap.MemoryLimitPages,
	})
	if err != nil {
		return fmt.Errorf("create heap: %w", err)
	}
	defer heap.Close(ctx)

	if err := loader.Store(heap.Memory(), 0, units); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	packed, err := loader.DecodeAt(heap.Memory(), 0, len(units))
	if err != nil {
		return fmt.Errorf("decode from memory: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d units into %d bytes of linear memory\n", len(units), heap.Memory().Size())
	fmt.Fprintf(out, "Decoded %d units\n", len(packed))
	return nil
}
