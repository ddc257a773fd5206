package stream

import (
	"fmt"

	"github.com/arloliu/demopak/encoding"
	"github.com/arloliu/demopak/endian"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
)

// Reader decodes typed values from a final script.
//
// Every plane is a zero-copy view into the script passed to NewReader, with its own cursor.
// Values must be read in the order they were written: the format has no type tags, so a
// different call sequence returns wrong values without any error, unless a Schema is used.
//
// Reads past the end of a plane return zero values and record ErrStreamUnderflow, which is
// reported by Err. The reader is not safe for concurrent use.
type Reader struct {
	engine  endian.EndianEngine
	planes  [format.NumStreams][]byte
	offsets [format.NumStreams]int
	strings *encoding.VarStringDecoder
	schema  *schemaCursor
	err     error
}

// NewReader parses the (length, bytes) plane sequence of script.
//
// The script is not copied and must not be modified while the reader is in use. Bytes after
// the last plane are ignored.
//
// Parameters:
//   - script: A blob produced by Writer.FinalScript
//   - opts: WithSchema to verify the call sequence
//
// Returns:
//   - *Reader: The reader positioned at the first value of every plane
//   - error: ErrTruncatedScript if a length prefix or plane extends past the end of script
func NewReader(script []byte, opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		engine: endian.GetLittleEndianEngine(),
		schema: newSchemaCursor(cfg.schema),
	}

	offset := 0
	for id := range r.planes {
		if offset+PlaneHeaderSize > len(script) {
			return nil, fmt.Errorf("%w: missing length of plane %s", errs.ErrTruncatedScript, format.StreamID(id)) //nolint:gosec // id < NumStreams
		}

		n := int(r.engine.Uint32(script[offset:]))
		offset += PlaneHeaderSize
		if n < 0 || n > len(script)-offset {
			return nil, fmt.Errorf("%w: plane %s needs %d bytes, %d left", errs.ErrTruncatedScript, format.StreamID(id), n, len(script)-offset) //nolint:gosec // id < NumStreams
		}

		r.planes[id] = script[offset : offset+n : offset+n]
		offset += n
	}
	r.strings = encoding.NewVarStringDecoder(r.engine, r.planes[format.StreamString])

	return r, nil
}

// ReadU8 reads an 8-bit integer from the INT8 plane.
func (r *Reader) ReadU8() uint8 {
	r.check(format.KindU8)
	return r.getU8()
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() int8 {
	return int8(r.ReadU8()) //nolint:gosec // two's complement reinterpretation
}

// ReadBool reads a boolean; any nonzero byte is true.
func (r *Reader) ReadBool() bool {
	return r.ReadU8() != 0
}

// ReadU16 reads a 16-bit integer from the INT16 planes.
func (r *Reader) ReadU16() uint16 {
	r.check(format.KindU16)
	return r.getU16()
}

// ReadI16 reads a signed 16-bit integer.
func (r *Reader) ReadI16() int16 {
	return int16(r.ReadU16()) //nolint:gosec // two's complement reinterpretation
}

// ReadU32 reads a 32-bit integer from the four INT32 planes.
func (r *Reader) ReadU32() uint32 {
	r.check(format.KindU32)
	return r.getU32()
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() int32 {
	return int32(r.ReadU32()) //nolint:gosec // two's complement reinterpretation
}

// ReadString reads a length-prefixed string from the STRING plane.
func (r *Reader) ReadString() string {
	r.check(format.KindString)

	s, ok := r.strings.Next()
	if !ok {
		r.underflow(format.StreamString, 2)
		return ""
	}

	return s
}

// ReadFloat reads a FIX24 float.
//
// The three stored bytes become bytes 1..3 of a zeroed word, which is reinterpreted as a
// float and divided by 25600. The result is within |f|*2^-15 of the written value.
func (r *Reader) ReadFloat() float32 {
	r.check(format.KindFloat)
	return r.getFloat()
}

// ReadPoint reads X, Y.
func (r *Reader) ReadPoint() Point {
	r.check(format.KindPoint)

	var p Point
	p.X = r.getI32()
	p.Y = r.getI32()

	return p
}

// ReadRect reads Left, Top, Right, Bottom.
func (r *Reader) ReadRect() Rect {
	r.check(format.KindRect)

	var rc Rect
	rc.Left = r.getI32()
	rc.Top = r.getI32()
	rc.Right = r.getI32()
	rc.Bottom = r.getI32()

	return rc
}

// ReadVec2 reads X, Y.
func (r *Reader) ReadVec2() Vec2 {
	r.check(format.KindVec2)

	var v Vec2
	v.X = r.getFloat()
	v.Y = r.getFloat()

	return v
}

// ReadVec3 reads X, Y, Z.
func (r *Reader) ReadVec3() Vec3 {
	r.check(format.KindVec3)

	var v Vec3
	v.X = r.getFloat()
	v.Y = r.getFloat()
	v.Z = r.getFloat()

	return v
}

// ReadVec4 reads X, Y, Z, W.
func (r *Reader) ReadVec4() Vec4 {
	r.check(format.KindVec4)

	var v Vec4
	v.X = r.getFloat()
	v.Y = r.getFloat()
	v.Z = r.getFloat()
	v.W = r.getFloat()

	return v
}

// ReadBlock reads a raw block and appends its bytes to dst.
//
// dst must be empty: reading into a destination that already holds data is a programmer
// error and panics. A nil dst is allocated to the exact block size.
func (r *Reader) ReadBlock(dst []byte) []byte {
	if len(dst) != 0 {
		panic(fmt.Sprintf("stream: ReadBlock destination must be empty, has %d bytes", len(dst)))
	}
	r.check(format.KindBlock)

	n := int(r.getU16())
	b := r.take(format.StreamInt8, n)
	if b == nil && n > 0 {
		return dst
	}
	if dst == nil {
		dst = make([]byte, 0, n)
	}

	return append(dst, b...)
}

// Plane returns the unread remainder of a plane.
func (r *Reader) Plane(id format.StreamID) []byte {
	if int(id) >= format.NumStreams {
		return nil
	}
	if id == format.StreamString {
		return r.planes[id][r.strings.Offset():]
	}

	return r.planes[id][r.offsets[id]:]
}

// Err returns the first error recorded by the reader.
func (r *Reader) Err() error {
	return r.err
}

// Done reports the first recorded error, or a schema mismatch if a schema was given and
// not every field of it was read.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}

	return r.schema.done()
}

func (r *Reader) check(kind format.FieldKind) {
	if err := r.schema.expect(kind); err != nil {
		r.setErr(err)
	}
}

func (r *Reader) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) underflow(id format.StreamID, n int) {
	r.setErr(fmt.Errorf("%w: %s needs %d more bytes", errs.ErrStreamUnderflow, id, n))
}

// take consumes n bytes of a plane, or returns nil and records an underflow.
func (r *Reader) take(id format.StreamID, n int) []byte {
	off := r.offsets[id]
	if off+n > len(r.planes[id]) {
		r.underflow(id, n)
		r.offsets[id] = len(r.planes[id])

		return nil
	}
	r.offsets[id] = off + n

	return r.planes[id][off : off+n]
}

func (r *Reader) takeByte(id format.StreamID) byte {
	b := r.take(id, 1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *Reader) getU8() uint8 {
	return r.takeByte(format.StreamInt8)
}

func (r *Reader) getU16() uint16 {
	lo := r.takeByte(format.StreamInt16Lo)
	hi := r.takeByte(format.StreamInt16Hi)

	return uint16(lo) | uint16(hi)<<8
}

func (r *Reader) getU32() uint32 {
	b0 := r.takeByte(format.StreamInt32B0)
	b1 := r.takeByte(format.StreamInt32B1)
	b2 := r.takeByte(format.StreamInt32B2)
	b3 := r.takeByte(format.StreamInt32B3)
	lo := uint32(b0) | uint32(b1)<<8
	hi := uint32(b2) | uint32(b3)<<8

	return lo | hi<<16
}

func (r *Reader) getI32() int32 {
	return int32(r.getU32()) //nolint:gosec // two's complement reinterpretation
}

func (r *Reader) getFloat() float32 {
	b := r.take(format.StreamFix24, encoding.Fix24Size)
	if b == nil {
		return 0
	}

	return encoding.Fix24(b)
}
