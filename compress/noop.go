package compress

// NoOpCompressor passes data through unchanged.
//
// It is the default for containers whose outer distribution format is compressed anyway.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without copying.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressSize returns data as-is once its length matches rawSize.
func (c NoOpCompressor) DecompressSize(data []byte, rawSize int) ([]byte, error) {
	if err := checkDecodedSize("none", len(data), rawSize); err != nil {
		return nil, err
	}

	return data, nil
}
