// Package errs defines the sentinel errors shared by the demopak packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context before they are returned.
package errs

import "errors"

// Bit stream errors.
var (
	ErrBitstreamUnderflow = errors.New("bit stream underflow")
)

// Sampler errors.
var (
	ErrEmptySamples     = errors.New("sample batch is empty")
	ErrOffGrid          = errors.New("sample is not on the quantization grid")
	ErrInvalidBitWidth  = errors.New("invalid sample bit width")
	ErrBitWidthMismatch = errors.New("duplicated sample bit width does not match")
)

// Multi-stream codec errors.
var (
	ErrTruncatedScript = errors.New("truncated stream script")
	ErrStreamUnderflow = errors.New("stream plane underflow")
	ErrStringTooLong   = errors.New("string exceeds maximum length")
	ErrBlockTooLarge   = errors.New("raw block exceeds maximum length")
	ErrSchemaMismatch  = errors.New("call sequence does not match schema")
)

// Script engine errors.
var (
	ErrInvalidProgram        = errors.New("invalid program blob")
	ErrBackendUnsupported    = errors.New("script backend not supported on this platform")
	ErrInvalidBackend        = errors.New("invalid script backend")
	ErrMissingExport         = errors.New("wasm program is missing a required export")
	ErrProgramMemoryTooSmall = errors.New("wasm program memory is too small")
)

// Container errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid container header size")
	ErrInvalidMagicNumber = errors.New("invalid container magic number")
	ErrInvalidVersion     = errors.New("unsupported container version")
	ErrInvalidPayloadSize = errors.New("container payload size mismatch")
	ErrChecksumMismatch   = errors.New("container checksum mismatch")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrDecompressedSize   = errors.New("decompressed size does not match the recorded size")
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)
