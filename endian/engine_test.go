package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Equal(t, binary.LittleEndian, engine)

	buf := engine.AppendUint32(nil, 0x04030201)
	require.Equal(t, []byte{1, 2, 3, 4}, buf)
	require.Equal(t, uint32(0x04030201), engine.Uint32(buf))

	buf = engine.AppendUint16(buf[:0], 0xDE10)
	require.Equal(t, []byte{0x10, 0xDE}, buf, "container magic is stored low byte first")
}
