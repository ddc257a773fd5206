package encoding

import (
	"fmt"

	"github.com/arloliu/demopak/endian"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/internal/pool"
)

// MaxTextLength is the maximum length in bytes of a string.
// Strings carry a uint16 length prefix.
const MaxTextLength = 65535

// VarStringEncoder encodes variable-length strings with a uint16 length prefix.
//
// Each string is encoded as:
//   - 2 bytes: length (0-65535) in the engine's byte order
//   - N bytes: string data
//
// Note: The VarStringEncoder is NOT a ColumnarEncoder.
type VarStringEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

// NewVarStringEncoder creates a new variable-length string encoder using the specified endian engine.
//
// Parameters:
//   - engine: Endian engine for the length prefix (the stream format uses little-endian)
//
// Returns:
//   - *VarStringEncoder: A new encoder instance
func NewVarStringEncoder(engine endian.EndianEngine) *VarStringEncoder {
	return &VarStringEncoder{
		engine: engine,
		buf:    pool.GetPlaneBuffer(),
	}
}

// Write encodes a single string with its length prefix.
//
// Returns:
//   - error: nil if successful, ErrStringTooLong if the string exceeds MaxTextLength
func (e *VarStringEncoder) Write(text string) error {
	if len(text) > MaxTextLength {
		return fmt.Errorf("%w: %d > %d", errs.ErrStringTooLong, len(text), MaxTextLength)
	}

	e.count++
	e.buf.Grow(2 + len(text))
	e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(len(text))) //nolint:gosec // bounded above
	e.buf.B = append(e.buf.B, text...)

	return nil
}

// Bytes returns the encoded data. The returned slice shares the encoder's buffer.
func (e *VarStringEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of strings encoded.
func (e *VarStringEncoder) Len() int {
	return e.count
}

// Size returns the total size of encoded data in bytes.
func (e *VarStringEncoder) Size() int {
	return e.buf.Len()
}

// Reset returns the buffer to the pool.
//
// After calling Reset, the encoder should not be used again.
func (e *VarStringEncoder) Reset() {
	if e.buf != nil {
		pool.PutPlaneBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// VarStringDecoder reads strings written by VarStringEncoder sequentially.
type VarStringDecoder struct {
	data   []byte
	engine endian.EndianEngine
	offset int
}

// NewVarStringDecoder creates a decoder over data. The data is not copied.
func NewVarStringDecoder(engine endian.EndianEngine, data []byte) *VarStringDecoder {
	return &VarStringDecoder{data: data, engine: engine}
}

// Next decodes the next string.
//
// Returns:
//   - string: The decoded string (a copy)
//   - bool: false if the data is exhausted or truncated; the offset is left unchanged
func (d *VarStringDecoder) Next() (string, bool) {
	if d.offset+2 > len(d.data) {
		return "", false
	}

	n := int(d.engine.Uint16(d.data[d.offset:]))
	start := d.offset + 2
	if start+n > len(d.data) {
		return "", false
	}
	d.offset = start + n

	return string(d.data[start : start+n]), true
}

// Offset returns the number of bytes consumed so far.
func (d *VarStringDecoder) Offset() int {
	return d.offset
}
