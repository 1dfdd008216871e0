package compress

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// maxLZ4DecompressedSize bounds the decompressed size a block header may
// claim, protecting against corrupted input.
const maxLZ4DecompressedSize = 128 * 1024 * 1024 // 128MB

// Frame markers for the LZ4 block envelope.
const (
	lz4FrameRaw        = 0x00
	lz4FrameCompressed = 0x01
)

type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 block compression.
//
// The block is wrapped in a one-byte envelope plus, for compressed blocks,
// the uncompressed size as a uvarint. lz4.CompressBlock signals
// incompressible input by returning zero; such data is stored raw, so every
// input round-trips regardless of its entropy.
//
// Uses a pooled lz4.Compressor for better performance.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	block := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, block)
	if err != nil {
		return nil, err
	}

	if n == 0 || n >= len(data) {
		// Incompressible: store raw.
		out := make([]byte, 1+len(data))
		out[0] = lz4FrameRaw
		copy(out[1:], data)

		return out, nil
	}

	out := make([]byte, 0, 1+binary.MaxVarintLen64+n)
	out = append(out, lz4FrameCompressed)
	out = binary.AppendUvarint(out, uint64(len(data)))
	out = append(out, block[:n]...)

	return out, nil
}

// Decompress decompresses the input data using LZ4 block decompression.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case lz4FrameRaw:
		out := make([]byte, len(data)-1)
		copy(out, data[1:])

		return out, nil

	case lz4FrameCompressed:
		size, k := binary.Uvarint(data[1:])
		if k <= 0 || size == 0 || size > maxLZ4DecompressedSize {
			return nil, fmt.Errorf("lz4 decompression failed: invalid block size header")
		}

		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(data[1+k:], buf)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}

		return buf[:n], nil

	default:
		return nil, fmt.Errorf("lz4 decompression failed: unknown frame marker 0x%02X", data[0])
	}
}
