package pool

import "sync"

// BlobBufferDefaultSize is the default size of the ByteBuffer obtained from the pool.
const (
	BlobBufferDefaultSize  = 1024 * 16  // 16KiB
	BlobBufferMaxThreshold = 1024 * 128 // 128KiB
)

// ByteBuffer is a reusable, growable byte slice used to stage one block's
// plaintext for the duration of a single decrypt-then-decompress call.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing.
//
// The growth strategy is as follows:
//   - For small buffers (capacity up to 4*BlobBufferDefaultSize, 64KiB), grow by BlobBufferDefaultSize to minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity to balance memory usage and reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return // Sufficient capacity
	}

	// Calculate growth size based on current buffer size
	growBy := BlobBufferDefaultSize
	if cap(bb.B) > 4*BlobBufferDefaultSize {
		// For larger buffers, grow by 25% to balance memory and reallocation cost
		growBy = cap(bb.B) / 4
	}

	// Ensure we grow enough for at least the required bytes
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	// Allocate new buffer with increased capacity
	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int // Optional maximum size threshold for buffers
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var blobDefaultPool = NewByteBufferPool(BlobBufferDefaultSize, BlobBufferMaxThreshold)

// GetBlobBuffer retrieves a ByteBuffer from the default blob pool.
func GetBlobBuffer() *ByteBuffer {
	return blobDefaultPool.Get()
}

// PutBlobBuffer returns a ByteBuffer to the default blob pool.
func PutBlobBuffer(bb *ByteBuffer) {
	blobDefaultPool.Put(bb)
}
