package script

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/demopak/endian"
)

func TestSlotLayout(t *testing.T) {
	require.Equal(t, 19, RegsCount)
	require.Equal(t, 35*16, SlotsSize)
	require.Equal(t, 304, VarsOffset)
	require.Zero(t, WasmDataAddr%16)
}

func TestPutSlot_ReversesLanes(t *testing.T) {
	b := make([]byte, SlotSize)
	putSlot(b, Vec4{X: 1, Y: 2, Z: 3, W: 4})

	engine := endian.GetLittleEndianEngine()
	lanes := make([]float32, 4)
	for i := range lanes {
		lanes[i] = math.Float32frombits(engine.Uint32(b[i*4:]))
	}
	require.Equal(t, []float32{4, 3, 2, 1}, lanes)
	require.Equal(t, Vec4{X: 1, Y: 2, Z: 3, W: 4}, getSlot(b))
}

func TestState_MarshalRoundTrip(t *testing.T) {
	var st State
	for i := range st.Regs {
		st.Regs[i] = Vec4{X: float32(i), Y: -float32(i), Z: 0.5, W: 1}
	}
	for i := range st.Vars {
		st.Vars[i] = Vec4{X: float32(i) * 2, Y: 7, Z: -1, W: float32(i)}
	}

	slots := make([]byte, SlotsSize)
	st.marshal(slots)

	require.Equal(t, Vec4{X: 18, Y: -18, Z: 0.5, W: 1}, getSlot(slots[18*SlotSize:]))

	var back State
	back.unmarshalVars(slots)
	require.Equal(t, st.Vars, back.Vars)
	require.Equal(t, [RegsCount]Vec4{}, back.Regs, "registers are never read back")
}
