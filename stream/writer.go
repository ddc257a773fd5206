package stream

import (
	"fmt"
	"math"

	"github.com/arloliu/demopak/encoding"
	"github.com/arloliu/demopak/endian"
	"github.com/arloliu/demopak/errs"
	"github.com/arloliu/demopak/format"
	"github.com/arloliu/demopak/internal/pool"
)

// MaxBlockSize is the largest raw block WriteBlock accepts; its length is written as a 16-bit integer.
const MaxBlockSize = math.MaxUint16

// PlaneHeaderSize is the size of the length prefix in front of every plane of a final script.
const PlaneHeaderSize = 4

// Writer appends typed values to the stream planes.
//
// Values are split by type and byte significance, so planes of similar bytes compress well
// once the final script is handed to a general purpose compressor. The writer is append-only
// and not safe for concurrent use.
type Writer struct {
	engine  endian.EndianEngine
	planes  [format.NumStreams]*pool.ByteBuffer // StreamString is kept by strings instead
	strings *encoding.VarStringEncoder
	schema  *schemaCursor
	err     error
}

// NewWriter creates an empty writer.
//
// Parameters:
//   - opts: WithSchema to verify the call sequence, WithSizeHint to pre-grow planes
//
// Returns:
//   - *Writer: The new writer; call Finish to release its buffers
//   - error: An option error
func NewWriter(opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()
	w := &Writer{
		engine:  engine,
		strings: encoding.NewVarStringEncoder(engine),
		schema:  newSchemaCursor(cfg.schema),
	}
	for id := range w.planes {
		if format.StreamID(id) == format.StreamString { //nolint:gosec // id < NumStreams
			continue
		}
		w.planes[id] = pool.GetPlaneBuffer()
		if cfg.sizeHint > 0 {
			w.planes[id].Grow(cfg.sizeHint)
		}
	}

	return w, nil
}

// WriteU8 writes an 8-bit integer to the INT8 plane.
func (w *Writer) WriteU8(v uint8) {
	w.check(format.KindU8)
	w.putU8(v)
}

// WriteI8 writes a signed 8-bit integer to the INT8 plane.
func (w *Writer) WriteI8(v int8) {
	w.WriteU8(uint8(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteBool writes a boolean as 0 or 1 to the INT8 plane.
func (w *Writer) WriteBool(v bool) {
	var b uint8
	if v {
		b = 1
	}
	w.WriteU8(b)
}

// WriteU16 writes the low byte of v to INT16_LO and the high byte to INT16_HI.
func (w *Writer) WriteU16(v uint16) {
	w.check(format.KindU16)
	w.putU16(v)
}

// WriteI16 writes a signed 16-bit integer.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteU32 splits v into its low and high words, each into low and high bytes, and writes
// the four bytes to INT32_B0..INT32_B3.
func (w *Writer) WriteU32(v uint32) {
	w.check(format.KindU32)
	w.putU32(v)
}

// WriteI32 writes a signed 32-bit integer.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v)) //nolint:gosec // two's complement reinterpretation
}

// WriteString writes a length-prefixed string to the STRING plane.
//
// Returns:
//   - error: ErrStringTooLong if s exceeds encoding.MaxTextLength bytes; nothing is written
func (w *Writer) WriteString(s string) error {
	w.check(format.KindString)
	if err := w.strings.Write(s); err != nil {
		w.setErr(err)
		return err
	}

	return nil
}

// WriteFloat writes f in FIX24 form: scaled by 25600, least significant byte dropped.
func (w *Writer) WriteFloat(f float32) {
	w.check(format.KindFloat)
	w.putFloat(f)
}

// WritePoint writes X, Y as 32-bit integers.
func (w *Writer) WritePoint(p Point) {
	w.check(format.KindPoint)
	w.putI32(p.X)
	w.putI32(p.Y)
}

// WriteRect writes Left, Top, Right, Bottom as 32-bit integers.
func (w *Writer) WriteRect(r Rect) {
	w.check(format.KindRect)
	w.putI32(r.Left)
	w.putI32(r.Top)
	w.putI32(r.Right)
	w.putI32(r.Bottom)
}

// WriteVec2 writes X, Y as FIX24 floats.
func (w *Writer) WriteVec2(v Vec2) {
	w.check(format.KindVec2)
	w.putFloat(v.X)
	w.putFloat(v.Y)
}

// WriteVec3 writes X, Y, Z as FIX24 floats.
func (w *Writer) WriteVec3(v Vec3) {
	w.check(format.KindVec3)
	w.putFloat(v.X)
	w.putFloat(v.Y)
	w.putFloat(v.Z)
}

// WriteVec4 writes X, Y, Z, W as FIX24 floats.
func (w *Writer) WriteVec4(v Vec4) {
	w.check(format.KindVec4)
	w.putFloat(v.X)
	w.putFloat(v.Y)
	w.putFloat(v.Z)
	w.putFloat(v.W)
}

// WriteBlock embeds an opaque byte block, such as a compiled program blob.
//
// The element count is written as a 16-bit integer, then every byte to the INT8 plane.
//
// Returns:
//   - error: ErrBlockTooLarge if the block exceeds MaxBlockSize; nothing is written
func (w *Writer) WriteBlock(b []byte) error {
	w.check(format.KindBlock)
	if len(b) > MaxBlockSize {
		err := fmt.Errorf("%w: %d > %d", errs.ErrBlockTooLarge, len(b), MaxBlockSize)
		w.setErr(err)

		return err
	}

	w.putU16(uint16(len(b))) //nolint:gosec // bounded above
	w.plane(format.StreamInt8).Append(b)

	return nil
}

// PlaneSizes returns the current length of every plane, in wire order.
func (w *Writer) PlaneSizes() [format.NumStreams]int {
	w.mustBeOpen()

	var sizes [format.NumStreams]int
	for id := range sizes {
		sizes[id] = len(w.planeBytes(format.StreamID(id))) //nolint:gosec // id < NumStreams
	}

	return sizes
}

// Size returns the length FinalScript would currently produce.
func (w *Writer) Size() int {
	total := 0
	for _, n := range w.PlaneSizes() {
		total += PlaneHeaderSize + n
	}

	return total
}

// Err returns the first error recorded by the writer, such as a schema mismatch.
func (w *Writer) Err() error {
	return w.err
}

// FinalScript concatenates the planes in wire order, each as a little-endian uint32 length
// followed by its bytes, into one newly allocated blob.
//
// The blob length is always the sum of 4 plus each plane length. The writer may keep
// writing afterwards; a later call includes the new values.
//
// Returns:
//   - []byte: The assembled script, owned by the caller
//   - error: The first recorded error, or a schema mismatch if the schema was not completed
func (w *Writer) FinalScript() ([]byte, error) {
	w.mustBeOpen()
	if w.err != nil {
		return nil, w.err
	}
	if err := w.schema.done(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, w.Size())
	for id := range format.NumStreams {
		plane := w.planeBytes(format.StreamID(id)) //nolint:gosec // id < NumStreams
		out = w.engine.AppendUint32(out, uint32(len(plane))) //nolint:gosec // planes are far below 4GiB
		out = append(out, plane...)
	}

	return out, nil
}

// Finish returns the plane buffers to the pool. The writer is unusable afterwards;
// a writer is never reused as a reader.
func (w *Writer) Finish() {
	if w.strings == nil {
		return
	}

	for id, bb := range w.planes {
		pool.PutPlaneBuffer(bb)
		w.planes[id] = nil
	}
	w.strings.Reset()
	w.strings = nil
}

func (w *Writer) mustBeOpen() {
	if w.strings == nil {
		panic("stream writer already finished - cannot use after Finish()")
	}
}

func (w *Writer) check(kind format.FieldKind) {
	w.mustBeOpen()
	if err := w.schema.expect(kind); err != nil {
		w.setErr(err)
	}
}

func (w *Writer) setErr(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) plane(id format.StreamID) *pool.ByteBuffer {
	return w.planes[id]
}

func (w *Writer) planeBytes(id format.StreamID) []byte {
	if id == format.StreamString {
		return w.strings.Bytes()
	}

	return w.planes[id].Bytes()
}

func (w *Writer) putU8(v uint8) {
	w.plane(format.StreamInt8).AppendByte(v)
}

func (w *Writer) putU16(v uint16) {
	w.plane(format.StreamInt16Lo).AppendByte(byte(v))
	w.plane(format.StreamInt16Hi).AppendByte(byte(v >> 8))
}

func (w *Writer) putU32(v uint32) {
	lo, hi := uint16(v), uint16(v>>16)
	w.plane(format.StreamInt32B0).AppendByte(byte(lo))
	w.plane(format.StreamInt32B1).AppendByte(byte(lo >> 8))
	w.plane(format.StreamInt32B2).AppendByte(byte(hi))
	w.plane(format.StreamInt32B3).AppendByte(byte(hi >> 8))
}

func (w *Writer) putI32(v int32) {
	w.putU32(uint32(v)) //nolint:gosec // two's complement reinterpretation
}

func (w *Writer) putFloat(f float32) {
	fix := w.plane(format.StreamFix24)
	fix.B = encoding.AppendFix24(fix.B, f)
}
