//go:build cgo && gozstd

package compress

import (
	"github.com/valyala/gozstd"
)

// zstdLevel is the libzstd compression level; content is packed once and loaded many times.
const zstdLevel = 19

// Compress compresses the input data using Zstandard compression.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decompresses Zstd-compressed data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

// DecompressSize decodes zstd frames into a buffer sized for rawSize bytes.
func (c ZstdCompressor) DecompressSize(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkDecodedSize("zstd", 0, rawSize)
	}

	out, err := gozstd.Decompress(make([]byte, 0, rawSize), data)
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize("zstd", len(out), rawSize); err != nil {
		return nil, err
	}

	return out, nil
}
