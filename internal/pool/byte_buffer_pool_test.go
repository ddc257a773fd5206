package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Append(t *testing.T) {
	bb := GetPlaneBuffer()
	defer PutPlaneBuffer(bb)

	bb.Append([]byte{1, 2})
	for i := range 3 {
		bb.AppendByte(byte(3 + i))
	}
	bb.Append(nil)

	require.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())
	require.Equal(t, 5, bb.Len())
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := &ByteBuffer{}
	bb.Append([]byte("plane"))
	bb.Grow(PlaneBufferDefaultSize * 3)

	require.GreaterOrEqual(t, cap(bb.B)-len(bb.B), PlaneBufferDefaultSize*3)
	require.Equal(t, []byte("plane"), bb.Bytes())

	before := cap(bb.B)
	bb.Grow(1)
	require.Equal(t, before, cap(bb.B), "enough room left, no reallocation")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := &ByteBuffer{B: make([]byte, 0, 64)}
	bb.Append([]byte("some data"))

	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, 64, cap(bb.B))
}

func TestBufferPool_DropsOversized(t *testing.T) {
	p := newBufferPool(16, 32)

	bb := p.get()
	require.Equal(t, 16, cap(bb.B))
	bb.Grow(1024)
	bb.AppendByte('x')
	p.put(bb)

	// the pool never hands back a buffer above its limit
	got := p.get()
	require.LessOrEqual(t, cap(got.B), 32)
	require.Zero(t, got.Len())

	p.put(nil)
}

func TestDefaultPools(t *testing.T) {
	plane := GetPlaneBuffer()
	require.NotNil(t, plane)
	require.Zero(t, plane.Len())
	plane.Append([]byte("x"))
	PutPlaneBuffer(plane)

	pack := GetPackBuffer()
	require.NotNil(t, pack)
	require.Zero(t, pack.Len())
	require.GreaterOrEqual(t, cap(pack.B), PlaneBufferDefaultSize)
	PutPackBuffer(pack)
}
