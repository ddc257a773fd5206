package pool

import (
	"slices"
	"sync"
)

// Initial capacities and retention limits of the pooled buffers.
//
// A plane buffer backs one plane of a stream writer; scripts of a size-constrained production
// are small, so planes start at 4KiB. A pack buffer holds a whole container while it is
// assembled.
const (
	PlaneBufferDefaultSize  = 4 << 10
	PlaneBufferMaxThreshold = 256 << 10
	PackBufferDefaultSize   = 64 << 10
	PackBufferMaxThreshold  = 8 << 20
)

// ByteBuffer is an append-only byte slice recycled through the plane and pack pools.
type ByteBuffer struct {
	// B is the underlying byte slice. Callers may append to it directly.
	B []byte
}

// Bytes returns the buffered bytes. The slice is only valid until the buffer is returned
// to its pool.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Append appends data.
func (bb *ByteBuffer) Append(data []byte) {
	bb.B = append(bb.B, data...)
}

// AppendByte appends a single byte.
func (bb *ByteBuffer) AppendByte(c byte) {
	bb.B = append(bb.B, c)
}

// Grow makes room for n more bytes without another allocation.
func (bb *ByteBuffer) Grow(n int) {
	bb.B = slices.Grow(bb.B, n)
}

// Reset empties the buffer and keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// bufferPool hands out buffers of an initial capacity and drops returned buffers that grew
// past limit, so one large script does not pin memory for the rest of the process.
type bufferPool struct {
	pool  sync.Pool
	limit int
}

func newBufferPool(size, limit int) *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any { return &ByteBuffer{B: make([]byte, 0, size)} },
		},
		limit: limit,
	}
}

func (p *bufferPool) get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

func (p *bufferPool) put(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > p.limit {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	planeBuffers = newBufferPool(PlaneBufferDefaultSize, PlaneBufferMaxThreshold)
	packBuffers  = newBufferPool(PackBufferDefaultSize, PackBufferMaxThreshold)
)

// GetPlaneBuffer returns an empty buffer for one stream plane.
func GetPlaneBuffer() *ByteBuffer {
	return planeBuffers.get()
}

// PutPlaneBuffer recycles a plane buffer. The buffer must not be used afterwards.
func PutPlaneBuffer(bb *ByteBuffer) {
	planeBuffers.put(bb)
}

// GetPackBuffer returns an empty buffer for assembling a container.
func GetPackBuffer() *ByteBuffer {
	return packBuffers.get()
}

// PutPackBuffer recycles a pack buffer. The buffer must not be used afterwards.
func PutPackBuffer(bb *ByteBuffer) {
	packBuffers.put(bb)
}
