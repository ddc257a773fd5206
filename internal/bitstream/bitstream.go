// Package bitstream provides the sequential bit-level stream used by the sampler.
//
// Fields of 0 to 32 bits are written most significant bit first. The writer accumulates bits
// in a 64-bit buffer and flushes whole bytes.
package bitstream

import (
	"fmt"

	"github.com/arloliu/demopak/errs"
)

// MaxFieldBits is the widest field WriteBits and ReadBits accept.
const MaxFieldBits = 32

// Writer appends bit fields to a byte slice.
type Writer struct {
	buf      []byte
	bitBuf   uint64 // pending bits, right aligned
	bitCount int    // number of valid bits in bitBuf, always < 8 between calls
	bitLen   int    // total bits written
}

// NewWriter creates a writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// WriteBits appends the low n bits of value.
//
// Writing zero bits is a no-op. n outside 0..32 is a programmer error and panics.
func (w *Writer) WriteBits(value uint32, n int) {
	if n < 0 || n > MaxFieldBits {
		panic(fmt.Sprintf("bitstream: invalid field width %d", n))
	}
	if n == 0 {
		return
	}

	mask := uint64(1)<<n - 1
	w.bitBuf = w.bitBuf<<n | uint64(value)&mask
	w.bitCount += n
	w.bitLen += n

	for w.bitCount >= 8 {
		w.bitCount -= 8
		w.buf = append(w.buf, byte(w.bitBuf>>w.bitCount))
	}
	w.bitBuf &= uint64(1)<<w.bitCount - 1
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.bitLen
}

// Bytes returns the written bits with the trailing partial byte zero padded.
//
// The returned slice aliases the writer's buffer until the next write.
func (w *Writer) Bytes() []byte {
	if w.bitCount == 0 {
		return w.buf
	}

	tail := byte(w.bitBuf << (8 - w.bitCount))

	return append(w.buf[:len(w.buf):len(w.buf)], tail)
}

// Reset discards all written bits and keeps the allocated buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.bitBuf = 0
	w.bitCount = 0
	w.bitLen = 0
}

// Reader consumes bit fields from a byte slice.
type Reader struct {
	data []byte
	pos  int // bit position
}

// NewReader creates a reader over data. The data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits consumes an n-bit field.
//
// Reading zero bits returns 0 and consumes nothing. A field extending past the end of the data
// returns ErrBitstreamUnderflow and leaves the position unchanged.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > MaxFieldBits {
		panic(fmt.Sprintf("bitstream: invalid field width %d", n))
	}
	if n == 0 {
		return 0, nil
	}
	if r.pos+n > len(r.data)*8 {
		return 0, fmt.Errorf("%w: need %d bits at bit %d of %d", errs.ErrBitstreamUnderflow, n, r.pos, len(r.data)*8)
	}

	var v uint64
	pos := r.pos
	remaining := n
	for remaining > 0 {
		byteIdx := pos >> 3
		bitOff := pos & 7
		avail := 8 - bitOff
		take := min(avail, remaining)

		chunk := uint64(r.data[byteIdx]>>(avail-take)) & (uint64(1)<<take - 1)
		v = v<<take | chunk

		pos += take
		remaining -= take
	}
	r.pos = pos

	return uint32(v), nil //nolint:gosec // at most 32 bits were accumulated
}

// BitPos returns the current read position in bits.
func (r *Reader) BitPos() int {
	return r.pos
}

// Remaining returns the number of unread bits, including padding bits.
func (r *Reader) Remaining() int {
	return len(r.data)*8 - r.pos
}

// Seek moves the read position to bit pos.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data)*8 {
		return fmt.Errorf("%w: seek to bit %d of %d", errs.ErrBitstreamUnderflow, pos, len(r.data)*8)
	}
	r.pos = pos

	return nil
}
