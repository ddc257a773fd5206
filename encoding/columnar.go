package encoding

import "iter"

type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, Reset or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the size in bytes of the encoded values.
	Size() int

	// Reset discards the values written so far, so the encoder can start a new batch.
	// Buffers are kept for reuse.
	Reset()

	// Finish finalizes the encoding process and returns buffer resources to the pool.
	//
	// After calling Finish(), the encoder is no longer usable. Any subsequent calls to
	// Write(), WriteSlice(), Bytes() or Size() panic.
	//
	// The caller should retrieve the encoded data using Bytes() before calling Finish():
	//
	//	encoder := NewBitWidthEncoder()
	//	defer encoder.Finish()
	//
	//	encoder.WriteSlice(samples)
	//	data := encoder.Bytes()
	Finish()

	// Write a single value.
	Write(data T)

	// WriteSlice encodes a slice of values.
	WriteSlice(values []T)
}

type ColumnarDecoder[T comparable] interface {
	// All returns an iterator that yields all decoded items from the provided encoded data.
	//
	// The data should be the byte slice payload produced by a corresponding encoder and
	// count the number of values it holds. If the data is malformed or too short, the
	// iterator yields fewer values.
	All(data []byte, count int) iter.Seq[T]

	// At retrieves the value at the zero-based index from the encoded data.
	//
	// The second return value is false if the index is out of bounds
	// (index < 0 or index >= count) or the data is malformed.
	At(data []byte, index int, count int) (T, bool)
}
