package split

import (
	"fmt"
	"iter"

	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/endian"
	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
	"github.com/arloliu/splitbson/internal/hash"
)

// Doc is a finalized split document: an owning, read-only view over a schema
// buffer and a data buffer (fixed payload followed by variable payload).
//
// Reconstruction is pure; a Doc never mutates its buffers, so multiple
// readers may share one. The buffers are trusted: they were produced by a
// Builder or validated by a container reader, and any internal inconsistency
// (a cursor straying past a length header's bound) panics.
type Doc struct {
	schema []byte
	data   []byte
	engine endian.EndianEngine
}

// NewDoc creates a Doc over a schema buffer and a data buffer, typically the
// pair produced by Builder.Release or rehydrated by a container reader.
func NewDoc(schema, data []byte) *Doc {
	if len(schema) < schemaHeaderSize+1 {
		panic("split: schema buffer shorter than its header")
	}
	if len(data) < dataHeaderSize {
		panic("split: data buffer shorter than its header")
	}

	return &Doc{
		schema: schema,
		data:   data,
		engine: endian.GetLittleEndianEngine(),
	}
}

// Schema returns the full schema stream, headers and EOO included.
func (d *Doc) Schema() []byte {
	return d.schema
}

// Data returns the combined data buffer: var-length header, fixed payload,
// variable payload.
func (d *Doc) Data() []byte {
	return d.data
}

// SchemaLen returns the total schema stream length recorded in its header.
func (d *Doc) SchemaLen() int {
	return int(d.engine.Uint32(d.schema))
}

// DataSize returns the fixed payload length plus the variable payload
// length, not counting either stream's header.
func (d *Doc) DataSize() int {
	fixedLen := int(d.engine.Uint32(d.schema[4:]))
	varLen := int(d.engine.Uint32(d.data))

	return fixedLen + varLen
}

// Hash returns the 32-bit fingerprint of the schema stream.
func (d *Doc) Hash() uint32 {
	return hash.Fingerprint32(d.schema)
}

// Document reconstructs the canonical BSON byte sequence.
func (d *Doc) Document() (bsoncore.Document, error) {
	out, err := d.AppendTo(nil, 0, 0, 0)
	if err != nil {
		return nil, err
	}

	return bsoncore.Document(out), nil
}

// SchemaElements iterates the schema entries in field order, excluding the
// EOO terminator.
func (d *Doc) SchemaElements() iter.Seq[SchemaElement] {
	return func(yield func(SchemaElement) bool) {
		sLen := d.SchemaLen()
		sPtr := schemaHeaderSize
		for sPtr < sLen && d.schema[sPtr] != byte(format.TypeEOO) {
			elem := NewSchemaElement(d.schema[sPtr:sLen])
			if !yield(elem) {
				return
			}
			sPtr += elem.Size()
		}
	}
}

// AppendTo reconstructs the canonical document byte sequence and appends it
// to dst, returning the extended slice. The offsets select where in the
// schema region, fixed region and variable region reconstruction starts;
// they are zero for a Doc holding a single document.
//
// The reader mirrors the writer: it reserves the document's 4-byte size
// header, walks the schema entries, copies fixed-width values and rebuilds
// each string's length prefix from consecutive end-offsets, then appends the
// EOO byte and back-patches the total length.
func (d *Doc) AppendTo(dst []byte, sOfs, fOfs, vOfs int) ([]byte, error) {
	start := len(dst)
	dst = append(dst, 0, 0, 0, 0)

	s := d.schema
	if sOfs < 0 || sOfs+schemaHeaderSize > len(s) {
		panic("split: schema offset out of range")
	}
	sLen := int(d.engine.Uint32(s[sOfs:]))
	if sLen < schemaHeaderSize+1 || sLen > len(s)-sOfs {
		panic(fmt.Sprintf("split: schema length %d exceeds buffer bounds", sLen))
	}
	sEnd := sOfs + sLen
	sPtr := sOfs + 4

	fLen := int(d.engine.Uint32(s[sPtr:]))
	sPtr += 4

	data := d.data
	if fOfs < 0 || fOfs+dataHeaderSize > len(data) {
		panic("split: fixed offset out of range")
	}
	vLen := int(d.engine.Uint32(data[fOfs:]))
	fPtr := fOfs + dataHeaderSize
	fEnd := fPtr + fLen
	if fEnd > len(data) {
		panic(fmt.Sprintf("split: fixed length %d exceeds buffer bounds", fLen))
	}

	varStart := fEnd
	vPtr := varStart + vOfs
	vEnd := varStart + vLen
	if vPtr < varStart || vEnd > len(data) {
		panic(fmt.Sprintf("split: variable length %d exceeds buffer bounds", vLen))
	}

	for sPtr < sEnd && s[sPtr] != byte(format.TypeEOO) {
		elem := NewSchemaElement(s[sPtr:sEnd])
		t := elem.Type()
		name := elem.FieldName()

		switch t {
		case format.TypeDouble, format.TypeObjectID, format.TypeBool,
			format.TypeInt32, format.TypeDateTime, format.TypeNull,
			format.TypeTimestamp, format.TypeInt64, format.TypeDecimal128:
			fixedSize, _ := elem.FixedSize()
			if fPtr+fixedSize > fEnd {
				panic("split: fixed cursor overruns fixed stream")
			}
			dst = append(dst, byte(t))
			dst = append(dst, name...)
			dst = append(dst, 0)
			dst = append(dst, data[fPtr:fPtr+fixedSize]...)
			fPtr += fixedSize

		case format.TypeString:
			if fPtr+4 > fEnd {
				panic("split: fixed cursor overruns fixed stream")
			}
			// The fixed entry is the variable-stream offset at which this
			// string ends; its length is the distance from the cursor.
			endOffset := int(d.engine.Uint32(data[fPtr:]))
			varSize := varStart + endOffset - vPtr
			if varSize < 1 || vPtr+varSize > vEnd {
				panic(fmt.Sprintf("split: string of %d bytes overruns variable stream", varSize))
			}
			dst = append(dst, byte(t))
			dst = append(dst, name...)
			dst = append(dst, 0)
			dst = d.engine.AppendUint32(dst, uint32(varSize))
			dst = append(dst, data[vPtr:vPtr+varSize]...)
			fPtr += 4
			vPtr += varSize

		default:
			return nil, fmt.Errorf("%w: field %q has unsupported type %s", errs.ErrUnsupportedType, name, t)
		}

		sPtr += elem.Size()
		if sPtr > sEnd {
			panic("split: schema cursor overruns schema stream")
		}
	}

	dst = append(dst, byte(format.TypeEOO))
	d.engine.PutUint32(dst[start:start+4], uint32(len(dst)-start))

	return dst, nil
}
