package compress

import (
	"fmt"

	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
)

// Compressor compresses assembled stream scripts.
//
// Scripts are plane-separated, so runs of similar bytes sit next to each other and
// general purpose compressors get most of their gain from that layout.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller (NoOp returns the input itself)
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Returns an error if the data is corrupted or was compressed with another algorithm.
	Decompress(data []byte) ([]byte, error)

	// DecompressSize decompresses data whose original length is known, such as a container
	// payload whose header records the raw script size. The output is allocated once at
	// exactly rawSize bytes.
	//
	// Returns an error wrapping ErrDecompressedSize if the data does not decode to exactly
	// rawSize bytes.
	DecompressSize(data []byte, rawSize int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes the effect of compressing one payload.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

func checkDecodedSize(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s output is %d bytes, want %d", errs.ErrDecompressedSize, name, got, want)
	}

	return nil
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCompressor(),
	format.CompressionZstd:   NewZstdCompressor(),
	format.CompressionS2:     NewS2Compressor(),
	format.CompressionLZ4:    NewLZ4Compressor(),
	format.CompressionSnappy: NewSnappyCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
//
// Returns:
//   - Codec: The shared codec instance
//   - error: ErrInvalidCompression wrapped with the type if it is unknown
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}
