package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/splitbson/format"
)

// schemaLikeData builds input resembling a deduplicated schema section:
// repeated type bytes and field names, which every codec should shrink.
func schemaLikeData(n int) []byte {
	entry := []byte{0x10, 0x09, 'c', 'r', 'e', 'a', 't', 'e', 'd', '_', 'a', 't'}
	var buf bytes.Buffer
	for range n {
		buf.Write(entry)
	}
	buf.WriteByte(0x00)

	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	data := schemaLikeData(256)

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, restored)
		})
	}
}

func TestCodecRoundTripIncompressible(t *testing.T) {
	// Pseudo-random bytes defeat every codec; LZ4 in particular refuses to
	// emit a block for incompressible input and must fall back to storing
	// the data raw.
	data := make([]byte, 512)
	state := uint32(0x9E3779B9)
	for i := range data {
		state = state*1664525 + 1013904223
		data[i] = byte(state >> 24)
	}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, restored)
		})
	}
}

func TestCodecRoundTripEmpty(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, restored)
		})
	}
}

func TestCompressionShrinksRepetitiveData(t *testing.T) {
	data := schemaLikeData(1024)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data), "%s should compress repetitive schema data", ct)
	}
}

func TestCreateCodecInvalidType(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(0xFF), "schema")
	require.Error(t, err)

	_, err = GetCodec(format.CompressionType(0xFF))
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	stats := Stats{
		Algorithm:      format.CompressionZstd,
		OriginalSize:   1000,
		CompressedSize: 250,
	}

	require.InDelta(t, 0.25, stats.Ratio(), 1e-9)
	require.InDelta(t, 75.0, stats.SpaceSavings(), 1e-9)

	require.Zero(t, Stats{}.Ratio())
}
