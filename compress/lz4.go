package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4MaxGuess caps the output buffer of Decompress when the script size is unknown.
const lz4MaxGuess = 64 << 20

var lz4Compressors = sync.Pool{
	New: func() any { return new(lz4.Compressor) },
}

// LZ4Compressor uses the LZ4 block format.
//
// A block does not record its decoded length. Containers keep the raw script size in their
// header and go through DecompressSize; Decompress has to guess.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes data as a single LZ4 block.
//
// Returns:
//   - []byte: The block (nil for empty input)
//   - error: An lz4 error
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	lc, _ := lz4Compressors.Get().(*lz4.Compressor)
	defer lz4Compressors.Put(lc)

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// DecompressSize decodes a block into a buffer of exactly rawSize bytes.
func (c LZ4Compressor) DecompressSize(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkDecodedSize("lz4", 0, rawSize)
	}

	dst := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize("lz4", n, rawSize); err != nil {
		return nil, err
	}

	return dst, nil
}

// Decompress decodes a block of unknown decoded length.
//
// Plane-split scripts compress well, so the first guess is eight times the block size. The
// guess doubles on a short buffer until it passes 64MiB.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for guess := 8 * len(data); ; guess *= 2 {
		guess = min(guess, lz4MaxGuess)
		dst := make([]byte, guess)
		n, err := lz4.UncompressBlock(data, dst)
		switch {
		case err == nil:
			return dst[:n], nil
		case !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || guess == lz4MaxGuess:
			return nil, err
		}
	}
}
