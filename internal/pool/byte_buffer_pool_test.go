package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ByteBuffer Tests
// =============================================================================

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.SetLength(5)
	copy(bb.B, []byte("hello"))

	data := bb.Bytes()

	assert.Equal(t, []byte("hello"), data)
	assert.True(t, &bb.B[0] == &data[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.SetLength(9)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_SetLength(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)

	bb.SetLength(10)
	assert.Equal(t, 10, len(bb.B))

	bb.SetLength(0)
	assert.Equal(t, 0, len(bb.B))
}

func TestByteBuffer_SetLength_PanicsOnOverCapacity(t *testing.T) {
	bb := NewByteBuffer(4)

	assert.Panics(t, func() {
		bb.SetLength(5)
	})
}

func TestByteBuffer_SetLength_PanicsOnNegative(t *testing.T) {
	bb := NewByteBuffer(4)

	assert.Panics(t, func() {
		bb.SetLength(-1)
	})
}

// =============================================================================
// ByteBuffer Grow Tests
// =============================================================================

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100) // Request growth smaller than available capacity

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_SmallBuffer(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.SetLength(BlobBufferDefaultSize) // Fill to capacity

	bb.Grow(1024) // Request 1KB more

	assert.GreaterOrEqual(t, cap(bb.B), BlobBufferDefaultSize+1024, "should have at least requested capacity")
	assert.Equal(t, BlobBufferDefaultSize, len(bb.B), "length should not change")
}

func TestByteBuffer_Grow_LargeBuffer(t *testing.T) {
	// Create buffer larger than 4*BlobBufferDefaultSize (64KB for 16KB default)
	bb := NewByteBuffer(BlobBufferDefaultSize)
	largeSize := 4*BlobBufferDefaultSize + 1024
	bb.B = make([]byte, largeSize)

	bb.Grow(2048) // Request 2KB more

	assert.GreaterOrEqual(t, cap(bb.B), largeSize+2048, "should have at least requested capacity")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.SetLength(len(testData))
	copy(bb.B, testData)

	bb.Grow(BlobBufferDefaultSize * 2) // Force reallocation

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

func TestByteBuffer_Grow_ZeroBytes(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(0)

	assert.Equal(t, originalCap, cap(bb.B), "Grow(0) should not change capacity")
}

// =============================================================================
// Pool Tests
// =============================================================================

func TestGetBlobBuffer(t *testing.T) {
	bb := GetBlobBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), BlobBufferDefaultSize, "pooled buffer should have at least default capacity")
}

func TestPutBlobBuffer_NilBuffer(t *testing.T) {
	// Should not panic
	assert.NotPanics(t, func() {
		PutBlobBuffer(nil)
	})
}

func TestPool_ResetClearsData(t *testing.T) {
	bb := GetBlobBuffer()
	bb.Grow(len("sensitive data"))
	bb.SetLength(len("sensitive data"))
	copy(bb.B, []byte("sensitive data"))

	PutBlobBuffer(bb)

	assert.Equal(t, 0, len(bb.B), "PutBlobBuffer should reset the buffer")
}

func TestPool_MultipleGetsAndPuts(t *testing.T) {
	buffers := make([]*ByteBuffer, 10)

	for i := range buffers {
		buffers[i] = GetBlobBuffer()
		require.NotNil(t, buffers[i])
		buffers[i].SetLength(4)
	}

	for _, bb := range buffers {
		PutBlobBuffer(bb)
	}

	for i := 0; i < 10; i++ {
		bb := GetBlobBuffer()
		assert.Equal(t, 0, len(bb.B), "each buffer should be reset")
		PutBlobBuffer(bb)
	}
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numIterations = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				bb := GetBlobBuffer()
				bb.SetLength(4)
				assert.Equal(t, 4, len(bb.B))
				PutBlobBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

// =============================================================================
// ByteBufferPool Tests
// =============================================================================

func TestNewByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(8192, 65536)

	require.NotNil(t, p)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 8192, "buffer should have at least default size")

	p.Put(bb)
}

func TestByteBufferPool_CustomSizes(t *testing.T) {
	tests := []struct {
		name         string
		defaultSize  int
		maxThreshold int
	}{
		{"Small pool", 1024, 4096},
		{"Medium pool", 16384, 131072},
		{"No threshold", 8192, 0}, // 0 means no limit
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewByteBufferPool(tt.defaultSize, tt.maxThreshold)
			bb := p.Get()
			assert.GreaterOrEqual(t, cap(bb.B), tt.defaultSize)
			p.Put(bb)
		})
	}
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000) // Grow beyond 4096 threshold

	assert.Greater(t, cap(bb.B), 4096, "buffer should have grown beyond threshold")

	p.Put(bb) // Should be discarded

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2, "should not reuse buffer larger than threshold")
}

func TestByteBufferPool_MaxThreshold_Zero(t *testing.T) {
	p := NewByteBufferPool(1024, 0) // 0 means no limit

	bb := p.Get()
	bb.Grow(1024 * 1024) // 1MB

	assert.Greater(t, cap(bb.B), 100000, "buffer should have grown to large size")

	p.Put(bb) // Accepted, no threshold

	bb2 := p.Get()
	assert.NotNil(t, bb2)
}

// =============================================================================
// Benchmark Tests
// =============================================================================

func BenchmarkByteBuffer_Grow(b *testing.B) {
	b.ResetTimer()
	for b.Loop() {
		bb := NewByteBuffer(BlobBufferDefaultSize)
		bb.Grow(1024 * 1024) // 1MB
	}
}

func BenchmarkGetPut_Reuse(b *testing.B) {
	for b.Loop() {
		bb := GetBlobBuffer()
		bb.Grow(64)
		bb.SetLength(64)
		PutBlobBuffer(bb)
	}
}

func BenchmarkNewBuffer_NoPool(b *testing.B) {
	for b.Loop() {
		bb := NewByteBuffer(BlobBufferDefaultSize)
		bb.Grow(64)
		bb.SetLength(64)
		_ = bb
	}
}

func BenchmarkConcurrentGetPut(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			bb := GetBlobBuffer()
			bb.Grow(64)
			bb.SetLength(64)
			PutBlobBuffer(bb)
		}
	})
}
