package script

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
)

// Opcodes of the handful of wasm instructions the test programs use.
const (
	wasmLocalGet = 0x20
	wasmI64Load  = 0x29
	wasmF32Load  = 0x2a
	wasmI64Store = 0x37
	wasmF32Store = 0x38
	wasmF32Const = 0x43
	wasmF32Add   = 0x92
	wasmLoop     = 0x03
	wasmBr       = 0x0c
	wasmEnd      = 0x0b
	wasmVoid     = 0x40
	wasmI32      = 0x7f
)

type wasmSpec struct {
	params       []byte
	exportRun    bool
	exportMemory bool
	body         []byte
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func wasmSection(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint32(len(content)))...) //nolint:gosec // test data
	return append(out, content...)
}

func wasmName(name string) []byte {
	return append(uleb(uint32(len(name))), name...) //nolint:gosec // test data
}

// buildWasm assembles a module with one function and one page of memory.
func buildWasm(s wasmSpec) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	funcType := append([]byte{0x01, 0x60}, uleb(uint32(len(s.params)))...) //nolint:gosec // test data
	funcType = append(funcType, s.params...)
	funcType = append(funcType, 0x00)
	out = append(out, wasmSection(0x01, funcType)...)
	out = append(out, wasmSection(0x03, []byte{0x01, 0x00})...)
	out = append(out, wasmSection(0x05, []byte{0x01, 0x00, 0x01})...)

	var exports [][]byte
	if s.exportRun {
		exports = append(exports, append(wasmName(WasmRunExport), 0x00, 0x00))
	}
	if s.exportMemory {
		exports = append(exports, append(wasmName(WasmMemoryExport), 0x02, 0x00))
	}
	exportSec := uleb(uint32(len(exports))) //nolint:gosec // test data
	for _, e := range exports {
		exportSec = append(exportSec, e...)
	}
	out = append(out, wasmSection(0x07, exportSec)...)

	body := append([]byte{0x00}, s.body...)
	body = append(body, wasmEnd)
	code := append([]byte{0x01}, uleb(uint32(len(body)))...) //nolint:gosec // test data
	code = append(code, body...)

	return append(out, wasmSection(0x0a, code)...)
}

func runModule(body []byte) []byte {
	return buildWasm(wasmSpec{
		params:       []byte{wasmI32, wasmI32},
		exportRun:    true,
		exportMemory: true,
		body:         body,
	})
}

func localGet(i byte) []byte {
	return []byte{wasmLocalGet, i}
}

func f32Const(v float32) []byte {
	return binary.LittleEndian.AppendUint32([]byte{wasmF32Const}, math.Float32bits(v))
}

func memOp(op byte, align, offset uint32) []byte {
	return append(append([]byte{op}, uleb(align)...), uleb(offset)...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// laneProgram copies var0 into var2, stores 4, 3, 2, 1 into lanes 0..3 of var0, and sets the
// X lane of var1 to the first data float plus the X lane of the time register.
func laneProgram() []byte {
	var0 := uint32(VarsOffset)
	var1 := var0 + SlotSize
	var2 := var1 + SlotSize

	body := concat(
		localGet(0), localGet(0), memOp(wasmI64Load, 3, var0), memOp(wasmI64Store, 3, var2),
		localGet(0), localGet(0), memOp(wasmI64Load, 3, var0+8), memOp(wasmI64Store, 3, var2+8),
	)
	for lane, v := range []float32{4, 3, 2, 1} {
		body = concat(body, localGet(0), f32Const(v), memOp(wasmF32Store, 2, var0+uint32(lane)*4)) //nolint:gosec // lane < 4
	}
	body = concat(body,
		localGet(0),
		localGet(1), memOp(wasmF32Load, 2, 0),
		localGet(0), memOp(wasmF32Load, 2, RegTime*SlotSize+12),
		[]byte{wasmF32Add},
		memOp(wasmF32Store, 2, var1+12),
	)

	return runModule(body)
}

func newWasmEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := NewEngine(WithBackend(format.BackendWasm))
	require.NoError(t, err)
	t.Cleanup(e.Close)

	return e
}

func TestWasm_RunLaneReversal(t *testing.T) {
	e := newWasmEngine(t)

	data := binary.LittleEndian.AppendUint32(nil, math.Float32bits(0.5))
	require.NoError(t, e.Load(programBlob(data, laneProgram())))
	require.True(t, e.Loaded())

	e.SetTime("entity", 2)

	var out Vec4
	require.NoError(t, e.Run("entity", &out))
	require.Equal(t, Vec4{X: 1, Y: 2, Z: 3, W: 4}, out)

	st, ok := e.State("entity")
	require.True(t, ok)
	require.Equal(t, float32(2.5), st.Vars[1].X)
	require.Equal(t, Vec4{}, st.Vars[2])

	require.NoError(t, e.Run("entity", &out))
	st, _ = e.State("entity")
	require.Equal(t, Vec4{X: 1, Y: 2, Z: 3, W: 4}, st.Vars[2], "variables are staged back with the same lane order")
}

func TestWasm_OwnersShareProgram(t *testing.T) {
	e := newWasmEngine(t)

	data := binary.LittleEndian.AppendUint32(nil, math.Float32bits(1))
	require.NoError(t, e.Load(programBlob(data, laneProgram())))

	e.SetTime("a", 1)
	e.SetTime("b", 5)

	var out Vec4
	require.NoError(t, e.Run("a", &out))
	require.NoError(t, e.Run("b", &out))

	a, _ := e.State("a")
	b, _ := e.State("b")
	require.Equal(t, float32(2), a.Vars[1].X)
	require.Equal(t, float32(6), b.Vars[1].X)
}

func TestWasm_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
		err  error
	}{
		{
			name: "not wasm",
			blob: programBlob(nil, []byte{0xC3, 0x90, 0x90}),
			err:  errs.ErrInvalidProgram,
		},
		{
			name: "missing run",
			blob: programBlob(nil, buildWasm(wasmSpec{params: []byte{wasmI32, wasmI32}, exportMemory: true})),
			err:  errs.ErrMissingExport,
		},
		{
			name: "missing memory",
			blob: programBlob(nil, buildWasm(wasmSpec{params: []byte{wasmI32, wasmI32}, exportRun: true})),
			err:  errs.ErrMissingExport,
		},
		{
			name: "wrong signature",
			blob: programBlob(nil, buildWasm(wasmSpec{params: []byte{wasmI32}, exportRun: true, exportMemory: true})),
			err:  errs.ErrInvalidProgram,
		},
		{
			name: "data larger than memory",
			blob: programBlob(make([]byte, 70000), runModule(nil)),
			err:  errs.ErrProgramMemoryTooSmall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newWasmEngine(t)

			err := e.Load(tt.blob)
			require.ErrorIs(t, err, tt.err)
			require.False(t, e.Loaded())
		})
	}
}

func TestWasm_RunHonorsContext(t *testing.T) {
	e := newWasmEngine(t)

	spin := []byte{wasmLoop, wasmVoid, wasmBr, 0x00, wasmEnd}
	require.NoError(t, e.Load(programBlob(nil, runModule(spin))))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := Vec4{X: 3}
	err := e.RunContext(ctx, "entity", &out)
	require.Error(t, err)
	require.Equal(t, Vec4{X: 3}, out)
}
