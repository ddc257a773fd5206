package container

import (
	"fmt"

	"github.com/arloliu/demopak/compress"
	"github.com/arloliu/demopak/endian"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
)

const (
	// HeaderSize is the size of the fixed container header in bytes.
	HeaderSize = 24
	// MagicNumber identifies a demopak container. It is stored little-endian in bytes 0-1.
	MagicNumber uint16 = 0xDE10
	// Version is the container layout written by Pack.
	Version uint8 = 1
)

// Header is the fixed-size header at the start of a container.
//
// All fields are little-endian:
//
//	offset  size  field
//	0       2     magic number
//	2       1     version
//	3       1     compression type
//	4       4     flags (reserved, zero)
//	8       4     raw script size
//	12      4     payload size
//	16      8     xxHash64 of the raw script
type Header struct {
	// Version is the container layout version.
	Version uint8
	// Compression is the codec applied to the payload.
	Compression format.CompressionType
	// Flags is reserved for future use and always zero.
	Flags uint32
	// RawSize is the size of the script before compression.
	RawSize uint32
	// PayloadSize is the size of the payload following the header.
	PayloadSize uint32
	// Checksum is the xxHash64 of the raw script.
	Checksum uint64
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly HeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber, ErrInvalidVersion or ErrInvalidCompression
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()
	if magic := engine.Uint16(data[0:2]); magic != MagicNumber {
		return fmt.Errorf("%w: 0x%04X", errs.ErrInvalidMagicNumber, magic)
	}

	h.Version = data[2]
	h.Compression = format.CompressionType(data[3])
	h.Flags = engine.Uint32(data[4:8])
	h.RawSize = engine.Uint32(data[8:12])
	h.PayloadSize = engine.Uint32(data[12:16])
	h.Checksum = engine.Uint64(data[16:24])

	if h.Version != Version {
		return fmt.Errorf("%w: %d", errs.ErrInvalidVersion, h.Version)
	}
	if _, err := compress.GetCodec(h.Compression); err != nil {
		return err
	}

	return nil
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h Header) Bytes() []byte {
	return h.appendTo(make([]byte, 0, HeaderSize))
}

func (h Header) appendTo(b []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	b = engine.AppendUint16(b, MagicNumber)
	b = append(b, h.Version, byte(h.Compression))
	b = engine.AppendUint32(b, h.Flags)
	b = engine.AppendUint32(b, h.RawSize)
	b = engine.AppendUint32(b, h.PayloadSize)
	b = engine.AppendUint64(b, h.Checksum)

	return b
}

// Stats reports how much the payload compression saved.
func (h Header) Stats() compress.CompressionStats {
	return compress.CompressionStats{
		Algorithm:      h.Compression,
		OriginalSize:   int64(h.RawSize),
		CompressedSize: int64(h.PayloadSize),
	}
}

// ParseHeader parses a Header from the start of data.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least HeaderSize bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or a header validation error
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
