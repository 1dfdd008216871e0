package blob

import (
	"encoding/binary"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/compress"
	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
	"github.com/arloliu/splitbson/internal/hash"
	"github.com/arloliu/splitbson/section"
	"github.com/arloliu/splitbson/split"
)

// minSchemaStreamSize is the smallest legal schema stream: 8 header bytes
// plus the EOO terminator.
const minSchemaStreamSize = 9

// minDataBufferSize is the smallest legal data buffer: the 4-byte
// variable-length header.
const minDataBufferSize = 4

type docRecord struct {
	ordinal int
	data    []byte
}

// Reader parses a container and rehydrates its split documents.
//
// All sections are validated and decompressed up front; Doc and All then
// operate without error on the decoded state.
type Reader struct {
	header  section.Header
	schemas [][]byte
	records []docRecord
}

// NewReader parses the container bytes. The input is untrusted: header
// fields, index bounds, schema identities and record framing are all
// validated.
func NewReader(data []byte) (*Reader, error) {
	r := &Reader{}

	if len(data) < section.HeaderSize {
		return nil, fmt.Errorf("%w: container holds %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}
	if err := r.header.Parse(data[:section.HeaderSize]); err != nil {
		return nil, err
	}

	engine := r.header.GetEndianEngine()
	schemaCount := int(r.header.SchemaCount)

	if r.header.IndexOffset != section.IndexOffsetValue {
		return nil, fmt.Errorf("%w: index offset %d", errs.ErrInvalidSchemaIndex, r.header.IndexOffset)
	}

	indexEnd := section.IndexOffsetValue + schemaCount*section.SchemaIndexEntrySize
	dataOffset := int(r.header.DataOffset)
	if indexEnd > len(data) || dataOffset < indexEnd || dataOffset > len(data) {
		return nil, fmt.Errorf("%w: data section offset %d", errs.ErrInvalidSchemaIndex, dataOffset)
	}

	entries := make([]section.SchemaIndexEntry, schemaCount)
	for i := range entries {
		ofs := section.IndexOffsetValue + i*section.SchemaIndexEntrySize
		entry, err := section.ParseSchemaIndexEntry(data[ofs:ofs+section.SchemaIndexEntrySize], engine)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}

	schemaSection, err := decompressSection(
		r.header.Flag.GetSchemaCompression(), data[indexEnd:dataOffset], "schema")
	if err != nil {
		return nil, err
	}

	r.schemas = make([][]byte, schemaCount)
	for i, entry := range entries {
		end := int(entry.Offset) + int(entry.Size)
		if entry.Size < minSchemaStreamSize || end > len(schemaSection) {
			return nil, fmt.Errorf("%w: schema %d spans [%d,%d) of %d-byte section",
				errs.ErrInvalidSchemaIndex, i, entry.Offset, end, len(schemaSection))
		}

		schema := schemaSection[entry.Offset:end]
		if hash.ID64(schema) != entry.ID {
			return nil, fmt.Errorf("%w: schema %d content does not match its recorded identity",
				errs.ErrInvalidSchemaIndex, i)
		}
		r.schemas[i] = schema
	}

	dataSection, err := decompressSection(
		r.header.Flag.GetDataCompression(), data[dataOffset:], "data")
	if err != nil {
		return nil, err
	}

	docCount := int(r.header.DocCount)
	r.records = make([]docRecord, 0, docCount)
	rest := dataSection
	for i := range docCount {
		ordinal, n := binary.Uvarint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("%w: record %d has malformed schema ordinal", errs.ErrDocTooShort, i)
		}
		rest = rest[n:]

		if ordinal >= uint64(schemaCount) {
			return nil, fmt.Errorf("%w: record %d references schema %d of %d",
				errs.ErrInvalidSchemaOrdinal, i, ordinal, schemaCount)
		}

		size, n := binary.Uvarint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("%w: record %d has malformed data length", errs.ErrDocTooShort, i)
		}
		rest = rest[n:]

		if size < minDataBufferSize || size > uint64(len(rest)) {
			return nil, fmt.Errorf("%w: record %d claims %d data bytes, %d remain",
				errs.ErrDocTooShort, i, size, len(rest))
		}

		r.records = append(r.records, docRecord{
			ordinal: int(ordinal),
			data:    rest[:size],
		})
		rest = rest[size:]
	}

	return r, nil
}

func decompressSection(compression format.CompressionType, data []byte, target string) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	decompressed, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s section: %w", target, err)
	}

	return decompressed, nil
}

// DocCount returns the number of documents in the container.
func (r *Reader) DocCount() int {
	return len(r.records)
}

// SchemaCount returns the number of distinct schemas in the container.
func (r *Reader) SchemaCount() int {
	return len(r.schemas)
}

// Schemas returns the distinct schema streams in index order.
func (r *Reader) Schemas() [][]byte {
	return r.schemas
}

// CreatedAt returns the container creation time from the header.
func (r *Reader) CreatedAt() time.Time {
	return r.header.CreatedAtAsTime()
}

// Doc returns the i-th document in its split form. The Doc shares its
// schema buffer with every other document of the same shape.
func (r *Reader) Doc(i int) (*split.Doc, error) {
	if i < 0 || i >= len(r.records) {
		return nil, fmt.Errorf("document index %d out of range [0,%d)", i, len(r.records))
	}

	rec := r.records[i]

	return split.NewDoc(r.schemas[rec.ordinal], rec.data), nil
}

// Document reconstructs the i-th document's canonical BSON bytes.
func (r *Reader) Document(i int) (bsoncore.Document, error) {
	doc, err := r.Doc(i)
	if err != nil {
		return nil, err
	}

	return doc.Document()
}

// All returns an iterator over all documents in container order.
//
// Example:
//
//	for i, doc := range reader.All() {
//	    restored, err := doc.Document()
//	    ...
//	}
func (r *Reader) All() iter.Seq2[int, *split.Doc] {
	return func(yield func(int, *split.Doc) bool) {
		for i, rec := range r.records {
			if !yield(i, split.NewDoc(r.schemas[rec.ordinal], rec.data)) {
				return
			}
		}
	}
}
