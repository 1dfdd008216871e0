package blob

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/arloliu/splitbson/compress"
	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
	"github.com/arloliu/splitbson/internal/collision"
	"github.com/arloliu/splitbson/internal/hash"
	"github.com/arloliu/splitbson/internal/options"
	"github.com/arloliu/splitbson/internal/pool"
	"github.com/arloliu/splitbson/section"
	"github.com/arloliu/splitbson/split"
)

// Writer packs split documents into a container, deduplicating schemas as
// they arrive.
//
// A Writer is single-use: Add documents, then Finish exactly once. Writers
// are not safe for concurrent use.
type Writer struct {
	header  *section.Header
	tracker *collision.Tracker
	dataBuf *pool.ByteBuffer

	schemaCodec compress.Codec
	dataCodec   compress.Codec

	schemaStats compress.Stats
	dataStats   compress.Stats

	docCount int
	finished bool
}

// WriterOption configures a Writer at construction time.
type WriterOption = options.Option[*Writer]

// WithSchemaCompression selects the schema section compression codec.
func WithSchemaCompression(compression format.CompressionType) WriterOption {
	return options.New(func(w *Writer) error {
		codec, err := compress.CreateCodec(compression, "schema")
		if err != nil {
			return err
		}
		w.header.Flag.SetSchemaCompression(compression)
		w.schemaCodec = codec

		return nil
	})
}

// WithDataCompression selects the data section compression codec.
func WithDataCompression(compression format.CompressionType) WriterOption {
	return options.New(func(w *Writer) error {
		codec, err := compress.CreateCodec(compression, "data")
		if err != nil {
			return err
		}
		w.header.Flag.SetDataCompression(compression)
		w.dataCodec = codec

		return nil
	})
}

// WithCreatedAt overrides the creation timestamp recorded in the header.
func WithCreatedAt(createdAt time.Time) WriterOption {
	return options.NoError(func(w *Writer) {
		w.header.CreatedAt = createdAt.UnixMicro()
	})
}

// NewWriter creates an empty container writer. Defaults: Zstd for the schema
// section, no compression for the data section, creation time now.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	header := section.NewHeader(time.Now())

	w := &Writer{
		header:  header,
		tracker: collision.NewTracker(),
		dataBuf: pool.NewByteBuffer(pool.BlobBufferDefaultSize),
	}

	var err error
	if w.schemaCodec, err = compress.GetCodec(header.Flag.GetSchemaCompression()); err != nil {
		return nil, err
	}
	if w.dataCodec, err = compress.GetCodec(header.Flag.GetDataCompression()); err != nil {
		return nil, err
	}

	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	return w, nil
}

// Add appends one split document to the container. The document's schema is
// stored once per distinct schema; the document record carries only the
// schema ordinal and the data buffer.
func (w *Writer) Add(doc *split.Doc) {
	if w.finished {
		panic("blob: Add after Finish")
	}

	ordinal := w.tracker.Track(doc.Hash(), doc.Schema())

	w.dataBuf.B = binary.AppendUvarint(w.dataBuf.B, uint64(ordinal))
	w.dataBuf.B = binary.AppendUvarint(w.dataBuf.B, uint64(len(doc.Data())))
	w.dataBuf.MustWrite(doc.Data())

	w.docCount++
}

// DocCount returns the number of documents added so far.
func (w *Writer) DocCount() int {
	return w.docCount
}

// SchemaCount returns the number of distinct schemas seen so far.
func (w *Writer) SchemaCount() int {
	return w.tracker.Count()
}

// HasCollision reports whether two distinct schemas shared a 32-bit
// fingerprint. The container is still correct: schemas are indexed by
// ordinal and identified by their 64-bit identity.
func (w *Writer) HasCollision() bool {
	return w.tracker.HasCollision()
}

// Finish assembles and returns the container bytes. The writer must not be
// used afterwards.
func (w *Writer) Finish() ([]byte, error) {
	if w.finished {
		panic("blob: Finish called twice")
	}
	w.finished = true

	engine := w.header.GetEndianEngine()
	schemas := w.tracker.Schemas()

	// Build the schema index and the raw schema section.
	entries := make([]byte, len(schemas)*section.SchemaIndexEntrySize)
	schemaSection := make([]byte, 0, totalLen(schemas))
	for i, schema := range schemas {
		entry := section.SchemaIndexEntry{
			Fingerprint: hash.Fingerprint32(schema),
			ID:          hash.ID64(schema),
			Offset:      uint32(len(schemaSection)), //nolint:gosec
			Size:        uint32(len(schema)),        //nolint:gosec
		}
		if err := entry.WriteToSlice(entries[i*section.SchemaIndexEntrySize:], engine); err != nil {
			return nil, err
		}
		schemaSection = append(schemaSection, schema...)
	}

	compressedSchemas, err := w.schemaCodec.Compress(schemaSection)
	if err != nil {
		return nil, fmt.Errorf("failed to compress schema section: %w", err)
	}
	compressedData, err := w.dataCodec.Compress(w.dataBuf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress data section: %w", err)
	}

	w.schemaStats = compress.Stats{
		Algorithm:      w.header.Flag.GetSchemaCompression(),
		OriginalSize:   int64(len(schemaSection)),
		CompressedSize: int64(len(compressedSchemas)),
	}
	w.dataStats = compress.Stats{
		Algorithm:      w.header.Flag.GetDataCompression(),
		OriginalSize:   int64(w.dataBuf.Len()),
		CompressedSize: int64(len(compressedData)),
	}

	dataOffset := section.HeaderSize + len(entries) + len(compressedSchemas)
	if uint64(dataOffset) > uint64(section.MaxSectionOffset) {
		return nil, fmt.Errorf("%w: data section offset %d exceeds format limit",
			errs.ErrInvalidSchemaIndex, dataOffset)
	}

	w.header.DocCount = uint32(w.docCount)        //nolint:gosec
	w.header.SchemaCount = uint32(len(schemas))   //nolint:gosec
	w.header.IndexOffset = section.IndexOffsetValue
	w.header.DataOffset = uint32(dataOffset) //nolint:gosec

	out := make([]byte, 0, dataOffset+len(compressedData))
	out = append(out, w.header.Bytes()...)
	out = append(out, entries...)
	out = append(out, compressedSchemas...)
	out = append(out, compressedData...)

	return out, nil
}

// SchemaStats returns the schema section compression outcome. Valid after
// Finish.
func (w *Writer) SchemaStats() compress.Stats {
	return w.schemaStats
}

// DataStats returns the data section compression outcome. Valid after
// Finish.
func (w *Writer) DataStats() compress.Stats {
	return w.dataStats
}

func totalLen(bufs [][]byte) int {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}

	return total
}
