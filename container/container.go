package container

import (
	"fmt"
	"math"

	"github.com/arloliu/demopak/compress"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
	"github.com/arloliu/demopak/internal/hash"
	"github.com/arloliu/demopak/internal/options"
	"github.com/arloliu/demopak/internal/pool"
)

// Pack wraps a final script into a container: header, then the (optionally compressed) script.
//
// Parameters:
//   - raw: The script produced by stream.Writer.FinalScript (any byte blob is accepted)
//   - opts: WithCompression to select the payload codec
//
// Returns:
//   - []byte: The container, owned by the caller
//   - error: An option error, a codec error, or ErrInvalidPayloadSize for blobs of 4GiB or more
func Pack(raw []byte, opts ...PackOption) ([]byte, error) {
	cfg := &packConfig{compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: script of %d bytes", errs.ErrInvalidPayloadSize, len(raw))
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress script with %s: %w", cfg.compression, err)
	}

	h := Header{
		Version:     Version,
		Compression: cfg.compression,
		RawSize:     uint32(len(raw)),     //nolint:gosec // bounded above
		PayloadSize: uint32(len(payload)), //nolint:gosec // compressed output of a bounded input
		Checksum:    hash.Checksum(raw),
	}

	buf := pool.GetPackBuffer()
	defer pool.PutPackBuffer(buf)

	buf.Grow(HeaderSize + len(payload))
	buf.B = h.appendTo(buf.B)
	buf.Append(payload)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Unpack validates a container and returns the script it carries.
//
// With format.CompressionNone the returned script aliases data.
//
// Returns:
//   - []byte: The raw script, ready for stream.NewReader
//   - error: A header error, ErrInvalidPayloadSize, a codec error (ErrDecompressedSize when the
//     payload does not decode to the recorded raw size) or ErrChecksumMismatch
func Unpack(data []byte) ([]byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[HeaderSize:]
	if uint64(len(payload)) != uint64(h.PayloadSize) {
		return nil, fmt.Errorf("%w: header says %d, found %d", errs.ErrInvalidPayloadSize, h.PayloadSize, len(payload))
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := codec.DecompressSize(payload, int(h.RawSize)) //nolint:gosec // at most 4GiB
	if err != nil {
		return nil, fmt.Errorf("decompress %s payload: %w", h.Compression, err)
	}
	if sum := hash.Checksum(raw); sum != h.Checksum {
		return nil, fmt.Errorf("%w: 0x%016x != 0x%016x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	return raw, nil
}

// Inspect parses the header of a container without touching its payload.
func Inspect(data []byte) (Header, error) {
	return ParseHeader(data)
}
