// Package encoding provides the low-level value encodings of demopak.
//
// # Adaptive Bit-Width Sampler
//
// AnalyzeSamples discovers a shared quantization grid for a batch of uint32 samples: the
// minimum, a step (the smallest nonzero delta, halved until it divides every delta) and the
// minimal byte-aligned bit width of the largest grid index. EncodeSamples and DecodeSamples
// move the grid indices through a bit stream:
//
//	h, _ := encoding.AnalyzeSamples([]uint32{0, 4, 8, 12})
//	// h.Minimum == 0, h.Step == 4, h.BitWidthUnaligned == 2, h.BitWidth == 8
//
//	w := bitstream.NewWriter(0)
//	h.Write(w)
//	_ = encoding.EncodeSamples(w, h, samples)
//
// A batch whose samples are all equal has Step == 0: only the header is stored and decoding
// returns the minimum for every requested sample.
//
// BitWidthEncoder and BitWidthDecoder wrap the sampler in the ColumnarEncoder and
// ColumnarDecoder interfaces for callers that want a self-contained payload.
//
// # Stream Plane Helpers
//
// VarStringEncoder/VarStringDecoder implement the uint16 length-prefixed strings of the
// STRING plane, and AppendFix24/Fix24 the three-byte scaled float form of the FIX24 plane.
// Both are used by the stream package.
package encoding
