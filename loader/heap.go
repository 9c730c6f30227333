package loader

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/opcodec/errors"
)

// PageSize is the size of a WebAssembly memory page in bytes.
const PageSize = 65536

// PagesFor returns the number of pages needed to hold n code units.
func PagesFor(n int) uint32 {
	return uint32((uint64(n)*unitSize + PageSize - 1) / PageSize)
}

// Config holds configuration for heap creation
type Config struct {
	// Pages is the initial memory size in pages (64KB each). 0 means 1.
	Pages uint32

	// MemoryLimitPages caps memory growth. 0 means the wazero default.
	MemoryLimitPages uint32
}

// Heap is a wazero runtime holding a single exported linear memory.
type Heap struct {
	runtime wazero.Runtime
	module  api.Module
	memory  api.Memory
}

// NewHeap instantiates a memory-only module in a fresh wazero runtime.
func NewHeap(ctx context.Context, cfg Config) (*Heap, error) {
	pages := cfg.Pages
	if pages == 0 {
		pages = 1
	}
	if cfg.MemoryLimitPages > 0 && pages > cfg.MemoryLimitPages {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(pages).
			Detail("initial pages %d exceed limit %d", pages, cfg.MemoryLimitPages).
			Build()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := rt.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "instantiate heap module")
	}
	mem := mod.ExportedMemory(memoryExport)
	if mem == nil {
		rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "memory export", memoryExport)
	}

	Logger().Debug("heap created", zap.Uint32("pages", pages), zap.Uint32("bytes", mem.Size()))
	return &Heap{runtime: rt, module: mod, memory: mem}, nil
}

// Memory returns the heap's linear memory.
func (h *Heap) Memory() api.Memory {
	return h.memory
}

// Close releases the runtime and everything instantiated in it.
func (h *Heap) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

const memoryExport = "memory"

// memoryModule returns the binary of
//
//	(module (memory (export "memory") pages))
func memoryModule(pages uint32) []byte {
	mod := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}

	// memory section: one memory, min-only limits
	mem := append([]byte{0x01, 0x00}, uleb(pages)...)
	mod = append(mod, 0x05)
	mod = append(mod, uleb(uint32(len(mem)))...)
	mod = append(mod, mem...)

	// export section: memory 0 as "memory"
	exp := []byte{0x01, byte(len(memoryExport))}
	exp = append(exp, memoryExport...)
	exp = append(exp, 0x02, 0x00)
	mod = append(mod, 0x07)
	mod = append(mod, uleb(uint32(len(exp)))...)
	return append(mod, exp...)
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}
