// Package compress provides compression and decompression codecs for split
// document containers.
//
// A split container carries two independently compressible sections: the
// deduplicated schema section (highly repetitive type/field-name entries)
// and the data section (fixed values and string payloads). Compression is
// applied per section after the split encoding, providing an additional
// layer of space savings on top of the schema deduplication itself.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): pass-through, zero overhead.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed. The cgo
//     build uses valyala/gozstd; pure-Go builds fall back to
//     klauspost/compress/zstd.
//   - S2 (format.CompressionS2): balanced speed and ratio.
//   - LZ4 (format.CompressionLZ4): fastest decompression, moderate ratio.
//
// Schema sections compress extremely well (field names repeat across
// schemas); Zstd is the default there. Data sections are more mixed; S2 is
// a reasonable default when latency matters.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. LZ4 and the pure-Go
// Zstd backend use sync.Pool internally to reuse encoder state across calls.
package compress
