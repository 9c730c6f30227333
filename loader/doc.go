// Package loader moves encoded streams in and out of WebAssembly linear
// memory, the boundary at which a runtime loader hands a program to a
// guest VM.
//
// Any memory with little-endian 16-bit accessors satisfies Memory; wazero's
// api.Memory does. Heap provides a standalone wazero memory for hosts that
// do not run a guest of their own:
//
//	heap, err := loader.NewHeap(ctx, loader.Config{Pages: 1})
//	if err != nil {
//	    return err
//	}
//	defer heap.Close(ctx)
//
//	if err := loader.Store(heap.Memory(), 0, units); err != nil {
//	    return err
//	}
//	packed, err := loader.DecodeAt(heap.Memory(), 0, len(units))
package loader
