//go:build !(cgo && gozstd)

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Scripts are packed once at build time and unpacked once at startup, so encoding favours
// ratio and decoding runs single-threaded.
var (
	zstdEncoders = sync.Pool{
		New: func() any {
			return mustZstd(zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.SpeedBestCompression),
				zstd.WithEncoderCRC(false), // the container checksums the raw script
			))
		},
	}
	zstdDecoders = sync.Pool{
		New: func() any {
			return mustZstd(zstd.NewReader(nil, zstd.WithDecoderConcurrency(1)))
		},
	}
)

func mustZstd[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("compress: invalid zstd options: %v", err))
	}

	return v
}

// Compress encodes data as one zstd frame that records its content size.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	enc, _ := zstdEncoders.Get().(*zstd.Encoder)
	defer zstdEncoders.Put(enc)

	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress decodes zstd frames.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return c.decode(data, nil)
}

// DecompressSize decodes zstd frames into a buffer sized for rawSize bytes.
//
// A frame that records a different content size is rejected before decoding.
func (c ZstdCompressor) DecompressSize(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkDecodedSize("zstd", 0, rawSize)
	}

	var fh zstd.Header
	if err := fh.Decode(data); err == nil && fh.HasFCS {
		if err := checkDecodedSize("zstd frame", int(fh.FrameContentSize), rawSize); err != nil { //nolint:gosec // compared only
			return nil, err
		}
	}

	out, err := c.decode(data, make([]byte, 0, rawSize))
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize("zstd", len(out), rawSize); err != nil {
		return nil, err
	}

	return out, nil
}

func (c ZstdCompressor) decode(data, dst []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec, _ := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(dec)

	out, err := dec.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}

	return out, nil
}
