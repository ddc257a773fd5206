package script

import (
	"context"
	"fmt"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/arloliu/demopak/errs"
)

const (
	// WasmRunExport is the function a wasm program exports: run(slots, data i32).
	WasmRunExport = "run"
	// WasmMemoryExport is the linear memory a wasm program exports.
	WasmMemoryExport = "memory"
	// WasmDataAddr is the linear address the data section is copied to. Slots occupy
	// [0, SlotsSize).
	WasmDataAddr = (SlotsSize + 15) &^ 15
)

// wasmProgram runs the code section of a blob as a WebAssembly module.
type wasmProgram struct {
	runtime wazero.Runtime
	module  api.Module
	run     api.Function
	memory  api.Memory
}

var _ Program = (*wasmProgram)(nil)

// loadWasm compiles and instantiates the code section in a fresh wazero runtime and copies
// the data section into linear memory right after the slots.
func loadWasm(ctx context.Context, blob Blob, cfg *engineConfig) (Program, error) {
	rtCfg := wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true).
		WithMemoryLimitPages(cfg.memoryLimitPages)
	runtime := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	p, err := instantiateWasm(ctx, runtime, blob)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, err
	}

	return p, nil
}

func instantiateWasm(ctx context.Context, runtime wazero.Runtime, blob Blob) (*wasmProgram, error) {
	compiled, err := runtime.CompileModule(ctx, blob.Code())
	if err != nil {
		return nil, fmt.Errorf("%w: compile wasm: %w", errs.ErrInvalidProgram, err)
	}

	module, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, fmt.Errorf("instantiate wasm: %w", err)
	}

	run := module.ExportedFunction(WasmRunExport)
	if run == nil {
		return nil, fmt.Errorf("%w: function %q", errs.ErrMissingExport, WasmRunExport)
	}
	def := run.Definition()
	want := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	if !slices.Equal(def.ParamTypes(), want) || len(def.ResultTypes()) != 0 {
		return nil, fmt.Errorf("%w: %s must have type (i32, i32) -> ()", errs.ErrInvalidProgram, WasmRunExport)
	}

	memory := module.ExportedMemory(WasmMemoryExport)
	if memory == nil {
		return nil, fmt.Errorf("%w: memory %q", errs.ErrMissingExport, WasmMemoryExport)
	}
	need := uint64(WasmDataAddr) + uint64(blob.DataSize)
	if uint64(memory.Size()) < need {
		return nil, fmt.Errorf("%w: %d bytes, need %d", errs.ErrProgramMemoryTooSmall, memory.Size(), need)
	}
	if !memory.Write(WasmDataAddr, blob.Data()) {
		return nil, fmt.Errorf("%w: data section does not fit", errs.ErrProgramMemoryTooSmall)
	}

	return &wasmProgram{
		runtime: runtime,
		module:  module,
		run:     run,
		memory:  memory,
	}, nil
}

func (p *wasmProgram) Run(ctx context.Context, slots []byte) error {
	if !p.memory.Write(0, slots) {
		return fmt.Errorf("%w: slots do not fit", errs.ErrProgramMemoryTooSmall)
	}

	if _, err := p.run.Call(ctx, 0, WasmDataAddr); err != nil {
		return fmt.Errorf("wasm %s: %w", WasmRunExport, err)
	}

	out, ok := p.memory.Read(0, uint32(len(slots))) //nolint:gosec // SlotsSize
	if !ok {
		return fmt.Errorf("%w: slots do not fit", errs.ErrProgramMemoryTooSmall)
	}
	copy(slots, out)

	return nil
}

func (p *wasmProgram) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}
