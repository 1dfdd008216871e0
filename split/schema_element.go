package split

import (
	"fmt"

	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
)

// Header sizes shared by the writer and the reader.
const (
	schemaHeaderSize = 8 // u32 total schema length + u32 total fixed payload length
	dataHeaderSize   = 4 // u32 total variable payload length
)

// SchemaElement is a zero-copy view over one entry in a schema stream.
//
// The view's underlying slice starts at the entry's type byte and is bounded
// by the end of the schema region, so a malformed entry that would run past
// the stream panics instead of reading foreign memory.
type SchemaElement struct {
	data []byte
}

// NewSchemaElement creates a view over the schema entry starting at data[0].
func NewSchemaElement(data []byte) SchemaElement {
	if len(data) == 0 {
		panic("split: schema element view is empty")
	}

	return SchemaElement{data: data}
}

// Type returns the entry's type code.
func (e SchemaElement) Type() format.Type {
	return format.Type(e.data[0])
}

// IsEOO reports whether this entry terminates the schema stream.
func (e SchemaElement) IsEOO() bool {
	return e.Type() == format.TypeEOO
}

// FieldName returns the entry's field name, decoded from its varint framing.
// The returned slice aliases the schema stream; callers must not modify it.
func (e SchemaElement) FieldName() []byte {
	if e.IsEOO() {
		return nil
	}

	length, end := e.decodeNameLen()
	if end+length > len(e.data) {
		panic(fmt.Sprintf("split: field name of %d bytes overruns schema stream", length))
	}

	return e.data[end : end+length]
}

// Size returns the total byte length of this entry: type byte, name-length
// varint and name bytes. An EOO entry is a single byte.
func (e SchemaElement) Size() int {
	if e.IsEOO() {
		return 1
	}

	length, end := e.decodeNameLen()
	if end+length > len(e.data) {
		panic(fmt.Sprintf("split: field name of %d bytes overruns schema stream", length))
	}

	return end + length
}

// FixedSize returns the number of bytes this entry occupies in the fixed
// stream. String entries occupy 4 bytes (their end-offset). Types the codec
// does not handle return errs.ErrUnsupportedType.
func (e SchemaElement) FixedSize() (int, error) {
	switch e.Type() {
	case format.TypeEOO, format.TypeNull:
		return 0, nil
	case format.TypeBool:
		return 1, nil
	case format.TypeInt32:
		return 4, nil
	case format.TypeDouble, format.TypeDateTime, format.TypeTimestamp, format.TypeInt64:
		return 8, nil
	case format.TypeObjectID:
		return 12, nil
	case format.TypeDecimal128:
		return 16, nil
	case format.TypeString:
		return 4, nil // end-offset into the variable stream
	default:
		return 0, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, e.Type())
	}
}

// decodeNameLen decodes the LSB-first base-128 name-length varint that
// follows the type byte. It returns the decoded length and the offset of the
// first name byte.
func (e SchemaElement) decodeNameLen() (length, end int) {
	i := 1
	shift := 0
	for {
		if i >= len(e.data) {
			panic("split: name-length varint overruns schema stream")
		}

		b := e.data[i]
		i++
		length |= int(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			return length, i
		}
	}
}

// appendNameLen encodes length as an LSB-first base-128 varint: seven
// payload bits per byte, continuation bit set on every non-terminal byte.
// A zero length emits a single zero byte.
func appendNameLen(dst []byte, length int) []byte {
	for {
		c := byte(length & 0x7F)
		length >>= 7
		if length == 0 {
			return append(dst, c)
		}
		dst = append(dst, c|0x80)
	}
}
