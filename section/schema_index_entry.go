package section

import (
	"github.com/arloliu/splitbson/endian"
	"github.com/arloliu/splitbson/errs"
)

// SchemaIndexEntry records one distinct schema in the container's schema
// index. It is a fixed size of 20 bytes and uses absolute offsets into the
// decompressed schema section.
//
// Example with 3 schemas:
//
//	Schema 0: 24 bytes → Offset=0, Size=24
//	Schema 1: 31 bytes → Offset=24, Size=31
//	Schema 2: 18 bytes → Offset=55, Size=18
//	Direct access: section[entry.Offset : entry.Offset+entry.Size]
type SchemaIndexEntry struct {
	// Fingerprint is the 32-bit MurmurHash3 of the schema stream, matching
	// the per-document fingerprint used by the analyzer trace.
	Fingerprint uint32 // 4 bytes, offset 0-3

	// ID is the xxHash64 of the schema stream. Two distinct schemas may
	// share a Fingerprint; the ID disambiguates them.
	ID uint64 // 8 bytes, offset 4-11

	// Offset is the absolute byte offset of this schema in the decompressed
	// schema section.
	Offset uint32 // 4 bytes, offset 12-15

	// Size is the schema stream's length in bytes.
	Size uint32 // 4 bytes, offset 16-19
}

// WriteToSlice writes the index entry to a byte slice using the specified
// endian engine. The slice must be at least 20 bytes long.
func (e *SchemaIndexEntry) WriteToSlice(b []byte, engine endian.EndianEngine) error {
	if len(b) < SchemaIndexEntrySize {
		return errs.ErrInvalidSchemaIndex
	}

	engine.PutUint32(b[0:4], e.Fingerprint)
	engine.PutUint64(b[4:12], e.ID)
	engine.PutUint32(b[12:16], e.Offset)
	engine.PutUint32(b[16:20], e.Size)

	return nil
}

// ParseSchemaIndexEntry parses a schema index entry from a byte slice.
func ParseSchemaIndexEntry(data []byte, engine endian.EndianEngine) (SchemaIndexEntry, error) {
	if len(data) < SchemaIndexEntrySize {
		return SchemaIndexEntry{}, errs.ErrInvalidSchemaIndex
	}

	return SchemaIndexEntry{
		Fingerprint: engine.Uint32(data[0:4]),
		ID:          engine.Uint64(data[4:12]),
		Offset:      engine.Uint32(data[12:16]),
		Size:        engine.Uint32(data[16:20]),
	}, nil
}
