package encoding

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitWidthEncoder_WriteSlice(t *testing.T) {
	encoder := NewBitWidthEncoder()
	defer encoder.Finish()

	samples := []uint32{300, 310, 320, 400, 300}
	encoder.WriteSlice(samples)

	require.Equal(t, 5, encoder.Len())
	h := encoder.Header()
	require.Equal(t, uint32(300), h.Minimum)
	require.Equal(t, uint32(10), h.Step)
	require.Equal(t, uint32(8), h.BitWidth)
	require.Equal(t, h.PayloadSize(5), encoder.Size())

	decoder := NewBitWidthDecoder()
	decoded := slices.Collect(decoder.All(encoder.Bytes(), encoder.Len()))
	require.Equal(t, samples, decoded)
}

func TestBitWidthEncoder_Write(t *testing.T) {
	encoder := NewBitWidthEncoder()
	defer encoder.Finish()

	for i := range 100 {
		encoder.Write(uint32(i * i))
	}

	data := encoder.Bytes()
	decoder := NewBitWidthDecoder()
	for i := range 100 {
		v, ok := decoder.At(data, i, 100)
		require.True(t, ok)
		require.Equal(t, uint32(i*i), v)
	}

	// appending invalidates the cached payload
	encoder.Write(1 << 20)
	require.NotEqual(t, len(data), encoder.Size())
	v, ok := decoder.At(encoder.Bytes(), 100, 101)
	require.True(t, ok)
	require.Equal(t, uint32(1<<20), v)
}

func TestBitWidthEncoder_Constant(t *testing.T) {
	encoder := NewBitWidthEncoder()
	defer encoder.Finish()

	encoder.WriteSlice([]uint32{9, 9, 9, 9})
	require.Equal(t, BitWidthHeaderBits/8, encoder.Size())

	decoder := NewBitWidthDecoder()
	require.Equal(t, []uint32{9, 9, 9, 9}, slices.Collect(decoder.All(encoder.Bytes(), 4)))

	v, ok := decoder.At(encoder.Bytes(), 3, 4)
	require.True(t, ok)
	require.Equal(t, uint32(9), v)
}

func TestBitWidthEncoder_ResetAndFinish(t *testing.T) {
	encoder := NewBitWidthEncoder()
	encoder.WriteSlice([]uint32{1, 2, 3})
	encoder.Reset()

	require.Equal(t, 0, encoder.Len())
	require.Empty(t, encoder.Bytes())

	encoder.Write(5)
	require.Equal(t, 1, encoder.Len())

	encoder.Finish()
	encoder.Finish()
	require.Panics(t, func() { encoder.Write(1) })
	require.Panics(t, func() { encoder.WriteSlice([]uint32{1}) })
	require.Panics(t, func() { _ = encoder.Bytes() })
}

func TestBitWidthEncoder_HeaderAfterFinish(t *testing.T) {
	encoder := NewBitWidthEncoder()
	encoder.Write(5)
	encoder.Write(9)
	encoder.Finish()

	var h BitWidthHeader
	require.NotPanics(t, func() { h = encoder.Header() })
	require.Equal(t, BitWidthHeader{Minimum: 5, Step: 4, BitWidthUnaligned: 1, BitWidth: 8}, h)

	empty := NewBitWidthEncoder()
	empty.Finish()
	require.NotPanics(t, func() { h = empty.Header() })
	require.Equal(t, BitWidthHeader{}, h)
}

func TestBitWidthDecoder_Bounds(t *testing.T) {
	encoder := NewBitWidthEncoder()
	defer encoder.Finish()
	encoder.WriteSlice([]uint32{0, 8, 16})
	data := encoder.Bytes()

	decoder := NewBitWidthDecoder()
	_, ok := decoder.At(data, -1, 3)
	require.False(t, ok)
	_, ok = decoder.At(data, 3, 3)
	require.False(t, ok)

	// count larger than the payload: At fails, All stops early
	_, ok = decoder.At(data, 5, 10)
	require.False(t, ok)
	require.Len(t, slices.Collect(decoder.All(data, 10)), 3)

	require.Empty(t, slices.Collect(decoder.All(nil, 3)))
	require.Empty(t, slices.Collect(decoder.All(data, 0)))
}

func TestBitWidthDecoder_EarlyBreak(t *testing.T) {
	encoder := NewBitWidthEncoder()
	defer encoder.Finish()
	encoder.WriteSlice([]uint32{1, 2, 3, 4, 5})

	var got []uint32
	for v := range NewBitWidthDecoder().All(encoder.Bytes(), 5) {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []uint32{1, 2}, got)
}

func BenchmarkBitWidthEncoder(b *testing.B) {
	samples := make([]uint32, 512)
	for i := range samples {
		samples[i] = uint32(i%64) * 16
	}

	encoder := NewBitWidthEncoder()
	defer encoder.Finish()

	for b.Loop() {
		encoder.Reset()
		encoder.WriteSlice(samples)
		_ = encoder.Bytes()
	}
}
