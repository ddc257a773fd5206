package encoding

import (
	"iter"

	"github.com/arloliu/demopak/internal/bitstream"
	"github.com/arloliu/demopak/internal/pool"
)

// BitWidthEncoder buffers a batch of uint32 samples and encodes it with the adaptive
// bit-width sampler.
//
// The payload produced by Bytes is self-contained: the 128-bit header followed by one
// fixed-width code per sample. The header depends on the whole batch, so encoding happens
// lazily when Bytes or Size is called.
type BitWidthEncoder struct {
	samples *[]uint32
	release func()
	header  BitWidthHeader
	w       *bitstream.Writer
	dirty   bool
}

var _ ColumnarEncoder[uint32] = (*BitWidthEncoder)(nil)

// NewBitWidthEncoder creates a new adaptive bit-width encoder.
//
// Returns:
//   - *BitWidthEncoder: A new encoder instance ready for uint32 samples
func NewBitWidthEncoder() *BitWidthEncoder {
	samples, release := pool.GetUint32Slice(64)

	return &BitWidthEncoder{
		samples: samples,
		release: release,
		w:       bitstream.NewWriter(BitWidthHeaderBits / 8),
	}
}

// Write buffers a single sample.
func (e *BitWidthEncoder) Write(sample uint32) {
	if e.samples == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	*e.samples = append(*e.samples, sample)
	e.dirty = true
}

// WriteSlice buffers a slice of samples.
func (e *BitWidthEncoder) WriteSlice(samples []uint32) {
	if e.samples == nil {
		panic("encoder already finished - cannot write values after Finish()")
	}

	*e.samples = append(*e.samples, samples...)
	e.dirty = true
}

// Header returns the quantization header of the buffered batch.
//
// The zero header is returned when no samples were written. After Finish it returns the
// header of the batch buffered at that time.
func (e *BitWidthEncoder) Header() BitWidthHeader {
	e.encode()
	return e.header
}

// Bytes returns the encoded payload. An empty batch encodes to an empty payload.
func (e *BitWidthEncoder) Bytes() []byte {
	if e.samples == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	e.encode()

	return e.w.Bytes()
}

// Len returns the number of buffered samples.
func (e *BitWidthEncoder) Len() int {
	if e.samples == nil {
		return 0
	}

	return len(*e.samples)
}

// Size returns the size of the encoded payload in bytes.
func (e *BitWidthEncoder) Size() int {
	return len(e.Bytes())
}

// Reset discards the buffered samples.
func (e *BitWidthEncoder) Reset() {
	if e.samples != nil {
		*e.samples = (*e.samples)[:0]
	}
	e.header = BitWidthHeader{}
	e.w.Reset()
	e.dirty = false
}

// Finish returns the sample buffer to the pool. The encoder is unusable afterwards.
func (e *BitWidthEncoder) Finish() {
	if e.samples == nil {
		return
	}

	e.encode()
	e.release()
	e.samples = nil
	e.release = nil
}

func (e *BitWidthEncoder) encode() {
	if !e.dirty || e.samples == nil {
		return
	}
	e.dirty = false
	e.w.Reset()

	samples := *e.samples
	h, err := AnalyzeSamples(samples)
	if err != nil {
		e.header = BitWidthHeader{}
		return
	}
	e.header = h
	h.Write(e.w)

	// the header was computed from these samples, so they are all on its grid
	_ = EncodeSamples(e.w, h, samples)
}

// BitWidthDecoder decodes payloads produced by BitWidthEncoder.
//
// Codes have a fixed width, so At is a constant-time seek.
type BitWidthDecoder struct{}

var _ ColumnarDecoder[uint32] = BitWidthDecoder{}

// NewBitWidthDecoder creates a new adaptive bit-width decoder.
func NewBitWidthDecoder() BitWidthDecoder {
	return BitWidthDecoder{}
}

// All yields the count samples stored in data.
func (d BitWidthDecoder) All(data []byte, count int) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		if count <= 0 {
			return
		}

		r := bitstream.NewReader(data)
		h, err := ReadBitWidthHeader(r)
		if err != nil {
			return
		}

		width := int(h.BitWidth)
		for range count {
			var q uint32
			if h.Step != 0 {
				q, err = r.ReadBits(width)
				if err != nil {
					return
				}
			}
			if !yield(h.Dequantize(q)) {
				return
			}
		}
	}
}

// At returns the sample at index.
func (d BitWidthDecoder) At(data []byte, index int, count int) (uint32, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	r := bitstream.NewReader(data)
	h, err := ReadBitWidthHeader(r)
	if err != nil {
		return 0, false
	}
	if h.Step == 0 {
		return h.Minimum, true
	}

	if err := r.Seek(BitWidthHeaderBits + index*int(h.BitWidth)); err != nil {
		return 0, false
	}
	q, err := r.ReadBits(int(h.BitWidth))
	if err != nil {
		return 0, false
	}

	return h.Dequantize(q), true
}
