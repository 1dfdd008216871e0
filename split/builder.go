package split

import (
	"fmt"

	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/endian"
	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
	"github.com/arloliu/splitbson/internal/hash"
	"github.com/arloliu/splitbson/internal/options"
	"github.com/arloliu/splitbson/internal/pool"
)

// Builder consumes a parsed BSON document and routes its bytes into the
// schema, fixed and variable streams.
//
// A Builder is created empty, fed exactly one document via AppendElements,
// and then either observed (Schema, Hash) or converted into an owning Doc
// via Release. Builders are not safe for concurrent use and are not
// reusable.
type Builder struct {
	sb *pool.ByteBuffer // schema stream
	fb *pool.ByteBuffer // fixed stream
	vb *pool.ByteBuffer // variable stream

	engine endian.EndianEngine

	finalized bool
	released  bool
}

// NewBuilder creates an empty Builder. The stream buffers start at the
// default capacities unless overridden with options.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	config := newBuilderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	b := &Builder{
		sb:     pool.NewByteBuffer(config.schemaCapacity),
		fb:     pool.NewByteBuffer(config.fixedCapacity),
		vb:     pool.NewByteBuffer(config.varCapacity),
		engine: endian.GetLittleEndianEngine(),
	}

	// Reserve the length headers; finalize back-patches them.
	b.sb.Skip(schemaHeaderSize)
	b.fb.Skip(dataHeaderSize)

	return b, nil
}

// AppendElements splits the document's fields into the three streams and
// finalizes the builder.
//
// Fixed-width fields append their type byte and varint-framed name to the
// schema stream and their raw value bytes to the fixed stream. String fields
// append their payload (including the trailing NUL) to the variable stream
// and record the variable stream's running length as a 4-byte end-offset in
// the fixed stream. A field of any other type aborts with an error wrapping
// errs.ErrUnsupportedType; no partial output is observable afterwards.
func (b *Builder) AppendElements(doc bsoncore.Document) error {
	if b.finalized {
		panic("split: AppendElements after finalization")
	}

	elements, err := doc.Elements()
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInvalidDocument, err)
	}

	for _, elem := range elements {
		value := elem.Value()
		t := format.Type(value.Type)

		switch t {
		case format.TypeDouble, format.TypeObjectID, format.TypeBool,
			format.TypeInt32, format.TypeDateTime, format.TypeNull,
			format.TypeTimestamp, format.TypeInt64, format.TypeDecimal128:
			b.sb.MustWriteByte(byte(t))
			b.appendFieldName(elem.Key())
			b.fb.MustWrite(value.Data)

		case format.TypeString:
			// value.Data carries the 4-byte length prefix, the payload and
			// the trailing NUL; only the payload and NUL go to the variable
			// stream.
			if len(value.Data) < 5 || int(b.engine.Uint32(value.Data)) != len(value.Data)-4 {
				return fmt.Errorf("%w: field %q has malformed string value", errs.ErrInvalidDocument, elem.Key())
			}
			b.sb.MustWriteByte(byte(format.TypeString))
			b.appendFieldName(elem.Key())
			b.vb.MustWrite(value.Data[4:])
			b.fb.B = b.engine.AppendUint32(b.fb.B, uint32(b.vb.Len()))

		default:
			return fmt.Errorf("%w: field %q has unsupported type %s", errs.ErrUnsupportedType, elem.Key(), t)
		}
	}

	b.finalize()

	return nil
}

// appendFieldName frames the field name into the schema stream: an LSB-first
// base-128 length varint followed by the name bytes without a terminator.
func (b *Builder) appendFieldName(name string) {
	b.sb.B = appendNameLen(b.sb.B, len(name))
	b.sb.B = append(b.sb.B, name...)
}

// finalize terminates the schema stream and back-patches the three length
// headers. It is idempotent and cannot fail: the EOO byte is a single
// append into an amortized-growth buffer.
func (b *Builder) finalize() {
	if b.finalized {
		return
	}
	b.finalized = true

	b.sb.MustWriteByte(byte(format.TypeEOO))

	b.engine.PutUint32(b.sb.Slice(0, 4), uint32(b.sb.Len()))
	b.engine.PutUint32(b.sb.Slice(4, 8), uint32(b.fb.Len()-dataHeaderSize))
	b.engine.PutUint32(b.fb.Slice(0, 4), uint32(b.vb.Len()))
}

// Hash returns the 32-bit fingerprint of the finalized schema stream,
// including its header and EOO terminator. Two documents with the same
// ordered (type, name) field sequence hash identically regardless of their
// values.
func (b *Builder) Hash() uint32 {
	return hash.Fingerprint32(b.Schema())
}

// Schema returns the finalized schema stream as a read-only view.
func (b *Builder) Schema() []byte {
	b.mustBeFinalized()

	return b.sb.Bytes()
}

// DataSize returns the total payload bytes in the fixed and variable
// streams, excluding length headers.
func (b *Builder) DataSize() int {
	return b.fb.Len() - dataHeaderSize + b.vb.Len()
}

// Release concatenates the variable stream onto the fixed stream and
// transfers ownership of the schema buffer and the combined data buffer into
// a Doc. The builder must not be used afterwards.
func (b *Builder) Release() *Doc {
	if b.released {
		panic("split: Release called twice")
	}
	b.finalize()
	b.released = true

	b.fb.MustWrite(b.vb.Bytes())
	b.vb.Reset()

	return NewDoc(b.sb.Bytes(), b.fb.Bytes())
}

func (b *Builder) mustBeFinalized() {
	if !b.finalized {
		panic("split: schema stream is not finalized")
	}
	if buf := b.sb.Bytes(); len(buf) == 0 || buf[len(buf)-1] != byte(format.TypeEOO) {
		panic("split: finalized schema stream lacks EOO terminator")
	}
}
