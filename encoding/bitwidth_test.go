package encoding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/internal/bitstream"
	"github.com/stretchr/testify/require"
)

func roundTripSamples(t *testing.T, samples []uint32) (BitWidthHeader, []byte) {
	t.Helper()

	h, err := AnalyzeSamples(samples)
	require.NoError(t, err)

	w := bitstream.NewWriter(0)
	h.Write(w)
	require.NoError(t, EncodeSamples(w, h, samples))
	data := w.Bytes()

	r := bitstream.NewReader(data)
	parsed, err := ReadBitWidthHeader(r)
	require.NoError(t, err)
	require.Equal(t, h.Minimum, parsed.Minimum)
	require.Equal(t, h.Step, parsed.Step)
	require.Equal(t, h.BitWidth, parsed.BitWidth)

	decoded, err := DecodeSamples(r, parsed, len(samples))
	require.NoError(t, err)
	require.Equal(t, samples, decoded)

	return h, data
}

func TestAnalyzeSamples(t *testing.T) {
	tests := []struct {
		name      string
		samples   []uint32
		minimum   uint32
		step      uint32
		unaligned uint32
		bitWidth  uint32
	}{
		{"all equal", []uint32{10, 10, 10}, 10, 0, 0, 0},
		{"single sample", []uint32{42}, 42, 0, 0, 0},
		{"arithmetic grid", []uint32{0, 4, 8, 12}, 0, 4, 2, 8},
		{"unordered with offset", []uint32{112, 100, 106, 103}, 100, 3, 3, 8},
		{"halving to common step", []uint32{0, 8, 12}, 0, 4, 2, 8},
		{"halving once", []uint32{0, 6, 9}, 0, 3, 2, 8},
		{"halving past the gcd", []uint32{0, 6, 8}, 0, 1, 4, 8},
		{"nine bit quotients", []uint32{0, 300}, 0, 300, 1, 8},
		{"wide range", []uint32{5, 5 + 1000}, 5, 1000, 1, 8},
		{"sixteen bits", []uint32{0, 1, 40000}, 0, 1, 16, 16},
		{"full range", []uint32{0, 1, math.MaxUint32}, 0, 1, 32, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := AnalyzeSamples(tt.samples)
			require.NoError(t, err)
			require.Equal(t, tt.minimum, h.Minimum)
			require.Equal(t, tt.step, h.Step)
			require.Equal(t, tt.unaligned, h.BitWidthUnaligned)
			require.Equal(t, tt.bitWidth, h.BitWidth)
		})
	}
}

func TestAnalyzeSamples_Empty(t *testing.T) {
	_, err := AnalyzeSamples(nil)
	require.ErrorIs(t, err, errs.ErrEmptySamples)
}

func TestSampler_AllEqual(t *testing.T) {
	h, data := roundTripSamples(t, []uint32{10, 10, 10})

	require.Equal(t, uint32(0), h.Step)
	require.Equal(t, uint32(10), h.Minimum)
	require.Len(t, data, BitWidthHeaderBits/8, "no per-sample bits for a constant batch")

	// decoding any count consumes nothing past the header
	r := bitstream.NewReader(data)
	parsed, err := ReadBitWidthHeader(r)
	require.NoError(t, err)
	pos := r.BitPos()

	decoded, err := DecodeSamples(r, parsed, 3)
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 10, 10}, decoded)
	require.Equal(t, pos, r.BitPos())
}

func TestSampler_ArithmeticGrid(t *testing.T) {
	h, data := roundTripSamples(t, []uint32{0, 4, 8, 12})

	require.Equal(t, uint32(8), h.BitWidth)
	require.Len(t, data, BitWidthHeaderBits/8+4)
	// quotients stored one byte each after the header
	require.Equal(t, []byte{0, 1, 2, 3}, data[BitWidthHeaderBits/8:])
	require.Equal(t, len(data), h.PayloadSize(4))
}

func TestSampler_HeaderLayout(t *testing.T) {
	h := BitWidthHeader{Minimum: 0x01020304, Step: 5, BitWidth: 16}
	w := bitstream.NewWriter(0)
	h.Write(w)

	require.Equal(t, []byte{
		0x01, 0x02, 0x03, 0x04,
		0x00, 0x00, 0x00, 0x05,
		0x00, 0x00, 0x00, 0x10,
		0x00, 0x00, 0x00, 0x10,
	}, w.Bytes())
}

func TestSampler_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := range 200 {
		n := 1 + rng.Intn(64)
		base := rng.Uint32() >> 1
		step := uint32(1 + rng.Intn(1000))
		samples := make([]uint32, n)
		for i := range samples {
			samples[i] = base + uint32(rng.Intn(500))*step
		}
		if iter%10 == 0 {
			samples = append(samples, rng.Uint32())
		}

		roundTripSamples(t, samples)
	}
}

func TestReadBitWidthHeader_Invalid(t *testing.T) {
	t.Run("bit width too large", func(t *testing.T) {
		w := bitstream.NewWriter(0)
		BitWidthHeader{Minimum: 1, Step: 1, BitWidth: 40}.Write(w)

		_, err := ReadBitWidthHeader(bitstream.NewReader(w.Bytes()))
		require.ErrorIs(t, err, errs.ErrInvalidBitWidth)
	})

	t.Run("duplicated width differs", func(t *testing.T) {
		w := bitstream.NewWriter(0)
		w.WriteBits(1, 32)
		w.WriteBits(1, 32)
		w.WriteBits(8, 32)
		w.WriteBits(16, 32)

		_, err := ReadBitWidthHeader(bitstream.NewReader(w.Bytes()))
		require.ErrorIs(t, err, errs.ErrBitWidthMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadBitWidthHeader(bitstream.NewReader(make([]byte, 15)))
		require.ErrorIs(t, err, errs.ErrBitstreamUnderflow)
	})
}

func TestEncodeSamples_OffGrid(t *testing.T) {
	h, err := AnalyzeSamples([]uint32{10, 20, 30})
	require.NoError(t, err)

	w := bitstream.NewWriter(0)
	require.ErrorIs(t, EncodeSamples(w, h, []uint32{15}), errs.ErrOffGrid)
	require.ErrorIs(t, EncodeSamples(w, h, []uint32{0}), errs.ErrOffGrid)
	require.ErrorIs(t, EncodeSamples(w, h, []uint32{10 + 10*300}), errs.ErrOffGrid)

	constant, err := AnalyzeSamples([]uint32{7, 7})
	require.NoError(t, err)
	require.ErrorIs(t, EncodeSamples(w, constant, []uint32{8}), errs.ErrOffGrid)
}

func TestDecodeSamples_Truncated(t *testing.T) {
	h, data := roundTripSamples(t, []uint32{0, 1, 2, 3})

	r := bitstream.NewReader(data)
	_, err := ReadBitWidthHeader(r)
	require.NoError(t, err)

	_, err = DecodeSamples(r, h, 5)
	require.ErrorIs(t, err, errs.ErrBitstreamUnderflow)
}

func BenchmarkAnalyzeSamples(b *testing.B) {
	samples := make([]uint32, 1024)
	for i := range samples {
		samples[i] = 1000 + uint32(i%97)*12
	}

	for b.Loop() {
		_, _ = AnalyzeSamples(samples)
	}
}
