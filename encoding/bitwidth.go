package encoding

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/internal/bitstream"
)

// BitWidthHeaderBits is the size of a serialized BitWidthHeader in bits.
const BitWidthHeaderBits = 4 * 32

// BitWidthHeader describes how a batch of uint32 samples was quantized.
//
// Every sample is stored as (sample-Minimum)/Step in BitWidth bits. A zero Step means all
// samples equal Minimum and no per-sample bits are stored.
type BitWidthHeader struct {
	// Minimum is the smallest sample of the batch.
	Minimum uint32
	// Step is the detected grid spacing of the samples relative to Minimum.
	Step uint32
	// BitWidthUnaligned is the number of bits needed for the largest quotient.
	// It is not serialized.
	BitWidthUnaligned uint32
	// BitWidth is BitWidthUnaligned rounded up to a multiple of 8.
	BitWidth uint32
}

// AnalyzeSamples computes the quantization header of a non-empty sample batch.
//
// The step search starts from the smallest nonzero delta to the minimum and halves the
// candidate until every delta is an exact multiple of it. A batch whose samples are all equal
// yields Step == 0.
//
// Parameters:
//   - samples: The sample batch (must not be empty)
//
// Returns:
//   - BitWidthHeader: The quantization header
//   - error: ErrEmptySamples if samples is empty
func AnalyzeSamples(samples []uint32) (BitWidthHeader, error) {
	if len(samples) == 0 {
		return BitWidthHeader{}, errs.ErrEmptySamples
	}

	minimum := samples[0]
	for _, s := range samples[1:] {
		minimum = min(minimum, s)
	}

	var smallest, largest uint32
	for _, s := range samples {
		delta := s - minimum
		if delta != 0 && (smallest == 0 || delta < smallest) {
			smallest = delta
		}
		largest = max(largest, delta)
	}

	step := smallest
	for step > 0 && !allMultiplesOf(samples, minimum, step) {
		step >>= 1
	}

	h := BitWidthHeader{Minimum: minimum, Step: step}
	if step != 0 {
		h.BitWidthUnaligned = uint32(bits.Len32(largest / step)) //nolint:gosec // at most 32
		h.BitWidth = (h.BitWidthUnaligned + 7) &^ 7
	}

	return h, nil
}

func allMultiplesOf(samples []uint32, minimum, step uint32) bool {
	for _, s := range samples {
		if (s-minimum)%step != 0 {
			return false
		}
	}

	return true
}

// Write serializes the header as four 32-bit fields: Minimum, Step, BitWidth, BitWidth.
func (h BitWidthHeader) Write(w *bitstream.Writer) {
	w.WriteBits(h.Minimum, 32)
	w.WriteBits(h.Step, 32)
	w.WriteBits(h.BitWidth, 32)
	w.WriteBits(h.BitWidth, 32)
}

// PayloadSize returns the number of bytes a header plus count samples occupy.
func (h BitWidthHeader) PayloadSize(count int) int {
	if h.Step == 0 {
		return BitWidthHeaderBits / 8
	}

	return (BitWidthHeaderBits + count*int(h.BitWidth) + 7) / 8
}

// Quantize returns the grid index of sample, or an ErrOffGrid error when the sample
// cannot be represented exactly under this header.
func (h BitWidthHeader) Quantize(sample uint32) (uint32, error) {
	if sample < h.Minimum {
		return 0, fmt.Errorf("%w: %d is below minimum %d", errs.ErrOffGrid, sample, h.Minimum)
	}

	delta := sample - h.Minimum
	if h.Step == 0 {
		if delta != 0 {
			return 0, fmt.Errorf("%w: %d differs from constant %d", errs.ErrOffGrid, sample, h.Minimum)
		}

		return 0, nil
	}
	if delta%h.Step != 0 {
		return 0, fmt.Errorf("%w: %d is not a multiple of step %d from %d", errs.ErrOffGrid, sample, h.Step, h.Minimum)
	}

	q := delta / h.Step
	if uint32(bits.Len32(q)) > h.BitWidth { //nolint:gosec // at most 32
		return 0, fmt.Errorf("%w: %d needs more than %d bits", errs.ErrOffGrid, sample, h.BitWidth)
	}

	return q, nil
}

// Dequantize maps a grid index back to its sample value.
func (h BitWidthHeader) Dequantize(q uint32) uint32 {
	return h.Minimum + q*h.Step
}

// ReadBitWidthHeader consumes a header written by BitWidthHeader.Write.
//
// Both bit width fields are consumed; they must be equal and at most 32.
//
// Returns:
//   - BitWidthHeader: The parsed header (BitWidthUnaligned is not restored)
//   - error: ErrBitstreamUnderflow, ErrInvalidBitWidth or ErrBitWidthMismatch
func ReadBitWidthHeader(r *bitstream.Reader) (BitWidthHeader, error) {
	var fields [4]uint32
	for i := range fields {
		v, err := r.ReadBits(32)
		if err != nil {
			return BitWidthHeader{}, fmt.Errorf("read sample header: %w", err)
		}
		fields[i] = v
	}

	h := BitWidthHeader{Minimum: fields[0], Step: fields[1], BitWidth: fields[2]}
	if h.BitWidth > bitstream.MaxFieldBits {
		return BitWidthHeader{}, fmt.Errorf("%w: %d", errs.ErrInvalidBitWidth, h.BitWidth)
	}
	if fields[3] != h.BitWidth {
		return BitWidthHeader{}, fmt.Errorf("%w: %d != %d", errs.ErrBitWidthMismatch, h.BitWidth, fields[3])
	}

	return h, nil
}

// EncodeSamples writes the per-sample codes of samples under header h.
//
// Nothing is written when h.Step is zero. Every sample must lie on the header's grid,
// which always holds for the batch the header was computed from.
func EncodeSamples(w *bitstream.Writer, h BitWidthHeader, samples []uint32) error {
	if h.Step == 0 {
		for _, s := range samples {
			if _, err := h.Quantize(s); err != nil {
				return err
			}
		}

		return nil
	}

	width := int(h.BitWidth)
	for _, s := range samples {
		q, err := h.Quantize(s)
		if err != nil {
			return err
		}
		w.WriteBits(q, width)
	}

	return nil
}

// DecodeSamples reads n samples encoded under header h.
//
// With a zero Step, n copies of Minimum are returned without consuming any bits.
func DecodeSamples(r *bitstream.Reader, h BitWidthHeader, n int) ([]uint32, error) {
	out := make([]uint32, n)
	if h.Step == 0 {
		for i := range out {
			out[i] = h.Minimum
		}

		return out, nil
	}

	width := int(h.BitWidth)
	for i := range out {
		q, err := r.ReadBits(width)
		if err != nil {
			return nil, fmt.Errorf("read sample %d of %d: %w", i, n, err)
		}
		out[i] = h.Dequantize(q)
	}

	return out, nil
}
