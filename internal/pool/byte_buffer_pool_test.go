package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferBasics(t *testing.T) {
	bb := NewByteBuffer(16)

	require.Zero(t, bb.Len())
	require.Equal(t, 16, bb.Cap())

	bb.MustWrite([]byte("abc"))
	bb.MustWriteByte('d')
	require.Equal(t, 4, bb.Len())
	require.Equal(t, []byte("abcd"), bb.Bytes())

	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, 16, bb.Cap(), "reset keeps capacity")
}

func TestByteBufferSkipReservesZeroedHeader(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{0xFF, 0xFF})
	bb.Reset()

	ofs := bb.Skip(2)
	require.Zero(t, ofs)
	require.Equal(t, []byte{0, 0}, bb.Bytes(), "skipped bytes must be zeroed even after reuse")

	bb.MustWrite([]byte("xy"))
	ofs = bb.Skip(4)
	require.Equal(t, 4, ofs)
	require.Equal(t, 8, bb.Len())

	// Back-patch through Slice.
	copy(bb.Slice(ofs, ofs+4), []byte{1, 2, 3, 4})
	require.Equal(t, []byte{0, 0, 'x', 'y', 1, 2, 3, 4}, bb.Bytes())
}

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("12345678"))

	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, []byte("12345678"), bb.Bytes(), "grow preserves contents")
}

func TestByteBufferExtend(t *testing.T) {
	bb := NewByteBuffer(4)

	require.True(t, bb.Extend(4))
	require.Equal(t, 4, bb.Len())
	require.False(t, bb.Extend(1), "no capacity left")

	bb.ExtendOrGrow(10)
	require.Equal(t, 14, bb.Len())
}

func TestByteBufferSliceBounds(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abcd"))

	require.Panics(t, func() { bb.Slice(-1, 2) })
	require.Panics(t, func() { bb.Slice(3, 2) })
	require.Panics(t, func() { bb.SetLength(-1) })
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("payload"))

	var sink bytes.Buffer
	n, err := bb.WriteTo(&sink)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", sink.String())
}

func TestByteBufferPoolReuse(t *testing.T) {
	bufPool := NewByteBufferPool(32, 1024)

	bb := bufPool.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("data"))
	bufPool.Put(bb)

	reused := bufPool.Get()
	require.Zero(t, reused.Len(), "pooled buffers come back reset")
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	bufPool := NewByteBufferPool(8, 16)

	bb := bufPool.Get()
	bb.Grow(1024)
	bufPool.Put(bb) // over threshold, dropped

	// Either way we must get a usable, empty buffer.
	next := bufPool.Get()
	require.Zero(t, next.Len())
}

func TestDefaultPools(t *testing.T) {
	doc := GetDocBuffer()
	require.NotNil(t, doc)
	doc.MustWrite([]byte{1})
	PutDocBuffer(doc)

	blob := GetBlobBuffer()
	require.NotNil(t, blob)
	PutBlobBuffer(blob)
}
