// Package compress provides the general purpose codecs applied to assembled stream scripts.
//
// The stream codec splits values into planes of similar bytes but never compresses anything
// itself. Packing a script into a container runs it through one of these codecs.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): data is passed through unchanged
//   - Zstd (format.CompressionZstd): best ratio, slowest to compress
//   - S2 (format.CompressionS2): balanced ratio and speed
//   - LZ4 (format.CompressionLZ4): fast decompression
//   - Snappy (format.CompressionSnappy): cheapest decompression, lowest ratio
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(script)
//	...
//	script, err = codec.Decompress(packed)
//
// When the decoded length is known, as it is for a container payload, DecompressSize
// allocates the output once and rejects data that decodes to any other length:
//
//	script, err = codec.DecompressSize(packed, int(header.RawSize))
//
// # Zstd Implementations
//
// Zstd uses github.com/klauspost/compress/zstd by default. Building with both cgo and the
// gozstd tag switches to github.com/valyala/gozstd. The two produce interchangeable frames.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use. Encoders and decoders that
// benefit from reuse are kept in sync.Pools.
package compress
