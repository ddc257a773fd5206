package pool

import "sync"

var uint32SlicePool = sync.Pool{
	New: func() any { return &[]uint32{} },
}

// GetUint32Slice retrieves an empty uint32 slice with at least the given capacity from the pool.
//
// The caller must call the returned cleanup function to return the slice to the pool.
// Slices appended beyond the pooled capacity are stored back through the same pointer,
// so the grown backing array is retained.
//
// Parameters:
//   - capacity: Minimum capacity of the returned slice
//
// Returns:
//   - *[]uint32: Pointer to a zero-length slice
//   - func(): Cleanup function that returns the slice to the pool
func GetUint32Slice(capacity int) (*[]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	if cap(*ptr) < capacity {
		*ptr = make([]uint32, 0, capacity)
	} else {
		*ptr = (*ptr)[:0]
	}

	return ptr, func() { uint32SlicePool.Put(ptr) }
}
