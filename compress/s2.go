package compress

import "github.com/klauspost/compress/s2"

// S2Compressor uses the S2 block format, a faster Snappy extension.
//
// S2 blocks start with their decoded length, which DecompressSize checks against the
// container header before allocating.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data with the "better" S2 mode; scripts are packed once.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress decodes an S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// DecompressSize decodes an S2 block that must hold exactly rawSize bytes.
func (c S2Compressor) DecompressSize(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkDecodedSize("s2", 0, rawSize)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize("s2", n, rawSize); err != nil {
		return nil, err
	}

	return s2.Decode(make([]byte, rawSize), data)
}
