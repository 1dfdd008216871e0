package compress

// ZstdCompressor provides Zstandard compression for container sections.
//
// Schema sections are the primary consumer: field-name entries repeat across
// distinct schemas, so Zstd's ratio advantage pays off there. The cgo build
// is backed by valyala/gozstd (libzstd); pure-Go builds fall back to
// klauspost/compress/zstd with pooled encoder/decoder state.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
