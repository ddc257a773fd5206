package script

import (
	"context"
	"fmt"

	"github.com/arloliu/demopak/endian"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
)

// DataSizeBytes is the size of the data length prefix of a program blob.
const DataSizeBytes = 4

// Program is a loaded program blob, ready to run.
//
// It is the only place where foreign code executes. Implementations own the memory the blob
// was copied into and release it in Close.
type Program interface {
	// Run executes the program once. slots holds SlotsSize bytes laid out as RegsCount
	// register slots followed by VarsCount variable slots; the program may rewrite any of them.
	Run(ctx context.Context, slots []byte) error
	// Close releases the program. It is called exactly once.
	Close(ctx context.Context) error
}

// Blob is a parsed program blob: [u32 data size][data][code].
type Blob struct {
	// Raw is the whole blob.
	Raw []byte
	// DataSize is the length of the constant data section.
	DataSize int
}

// Data returns the constant data section.
func (b Blob) Data() []byte {
	return b.Raw[DataSizeBytes : DataSizeBytes+b.DataSize]
}

// Code returns the code section.
func (b Blob) Code() []byte {
	return b.Raw[DataSizeBytes+b.DataSize:]
}

// CodeOffset returns the offset of the code section in Raw.
func (b Blob) CodeOffset() int {
	return DataSizeBytes + b.DataSize
}

// ParseBlob splits a program blob into its sections.
//
// Returns:
//   - Blob: The parsed blob, sharing raw
//   - error: ErrInvalidProgram if raw is too short, the data section exceeds the blob,
//     or the code section is empty
func ParseBlob(raw []byte) (Blob, error) {
	if len(raw) <= DataSizeBytes {
		return Blob{}, fmt.Errorf("%w: blob of %d bytes has no code", errs.ErrInvalidProgram, len(raw))
	}

	size := uint64(endian.GetLittleEndianEngine().Uint32(raw))
	if size >= uint64(len(raw)-DataSizeBytes) {
		return Blob{}, fmt.Errorf("%w: data section of %d bytes leaves no code in a %d byte blob", errs.ErrInvalidProgram, size, len(raw))
	}

	return Blob{Raw: raw, DataSize: int(size)}, nil
}

type loaderFunc func(ctx context.Context, blob Blob, cfg *engineConfig) (Program, error)

func loaderFor(backend format.Backend) (loaderFunc, error) {
	switch backend {
	case format.BackendNative:
		return loadNative, nil
	case format.BackendWasm:
		return loadWasm, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidBackend, backend)
	}
}
