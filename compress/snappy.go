package compress

import "github.com/golang/snappy"

// SnappyCompressor uses the Snappy block format.
//
// Snappy trades ratio for very cheap decompression, which suits loading content at the
// start of a production.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a new Snappy compressor.
func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

// Compress compresses the input data using Snappy block compression.
func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy block data.
func (c SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Decode(nil, data)
}

// DecompressSize decodes a Snappy block that must hold exactly rawSize bytes.
func (c SnappyCompressor) DecompressSize(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkDecodedSize("snappy", 0, rawSize)
	}

	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize("snappy", n, rawSize); err != nil {
		return nil, err
	}

	return snappy.Decode(make([]byte, rawSize), data)
}
