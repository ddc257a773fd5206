package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetUint32Slice(t *testing.T) {
	ptr, cleanup := GetUint32Slice(100)
	defer cleanup()

	require.NotNil(t, ptr)
	require.Empty(t, *ptr)
	require.GreaterOrEqual(t, cap(*ptr), 100)

	*ptr = append(*ptr, 1, 2, 3)
	require.Equal(t, []uint32{1, 2, 3}, *ptr)
}

func TestGetUint32Slice_Reuse(t *testing.T) {
	ptr, cleanup := GetUint32Slice(4)
	*ptr = append(*ptr, 7, 8, 9)
	cleanup()

	again, cleanup2 := GetUint32Slice(2)
	defer cleanup2()
	require.Empty(t, *again, "pooled slice must come back empty")
}
