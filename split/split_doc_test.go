package split

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
)

func roundTrip(t *testing.T, doc bsoncore.Document) *Doc {
	t.Helper()

	splitDoc := mustBuild(t, doc).Release()

	restored, err := splitDoc.Document()
	require.NoError(t, err)
	require.Equal(t, []byte(doc), []byte(restored), "round-trip must be byte-for-byte")

	return splitDoc
}

func TestRoundTripScenarios(t *testing.T) {
	tests := []struct {
		name string
		doc  bsoncore.Document
	}{
		{"empty document", bsoncore.NewDocumentBuilder().Build()},
		{"single int32", bsoncore.NewDocumentBuilder().AppendInt32("a", 1).Build()},
		{"two strings", bsoncore.NewDocumentBuilder().AppendString("x", "ab").AppendString("y", "cd").Build()},
		{"zero-length string", bsoncore.NewDocumentBuilder().AppendString("k", "").Build()},
		{"mixed double and string", bsoncore.NewDocumentBuilder().AppendDouble("n", 2.5).AppendString("s", "hi").Build()},
		{"long field name", bsoncore.NewDocumentBuilder().AppendInt32(strings.Repeat("k", 200), 7).Build()},
		{"empty field name", bsoncore.NewDocumentBuilder().AppendInt32("", 3).Build()},
		{"null only", bsoncore.NewDocumentBuilder().AppendNull("nothing").Build()},
		{"string between fixed fields", bsoncore.NewDocumentBuilder().
			AppendInt64("before", 1).
			AppendString("mid", "payload").
			AppendBoolean("after", false).
			Build()},
		{"utf8 string", bsoncore.NewDocumentBuilder().AppendString("city", "tâipei").Build()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.doc)
		})
	}
}

func TestRoundTripLongFieldNameVarint(t *testing.T) {
	name := strings.Repeat("n", 200)
	doc := bsoncore.NewDocumentBuilder().AppendInt32(name, 7).Build()
	splitDoc := roundTrip(t, doc)

	// The 200-byte name needs a two-byte varint: 0xC8 0x01.
	schema := splitDoc.Schema()
	require.Equal(t, byte(0xC8), schema[9])
	require.Equal(t, byte(0x01), schema[10])

	var names []string
	for elem := range splitDoc.SchemaElements() {
		names = append(names, string(elem.FieldName()))
	}
	require.Equal(t, []string{name}, names)
}

func TestDocZeroLengthString(t *testing.T) {
	doc := bsoncore.NewDocumentBuilder().AppendString("k", "").Build()
	splitDoc := roundTrip(t, doc)

	data := splitDoc.Data()
	require.Equal(t, []byte{0x01, 0, 0, 0}, data[0:4], "variable payload is a single NUL")
	require.Equal(t, []byte{0x01, 0, 0, 0}, data[4:8], "end-offset of the empty string is 1")
	require.Equal(t, []byte{0x00}, data[8:])
}

func TestDocDataSize(t *testing.T) {
	doc := bsoncore.NewDocumentBuilder().
		AppendDouble("n", 2.5).
		AppendString("s", "hi").
		Build()
	splitDoc := roundTrip(t, doc)

	// 8-byte double + 4-byte offset + "hi\0".
	require.Equal(t, 15, splitDoc.DataSize())
	require.Equal(t, splitDoc.SchemaLen(), len(splitDoc.Schema()))
}

func TestDocHashMatchesBuilder(t *testing.T) {
	doc := bsoncore.NewDocumentBuilder().AppendInt32("a", 1).Build()
	builder := mustBuild(t, doc)
	hash := builder.Hash()

	splitDoc := builder.Release()
	require.Equal(t, hash, splitDoc.Hash())
}

func TestDocSchemaElements(t *testing.T) {
	doc := bsoncore.NewDocumentBuilder().
		AppendInt32("first", 1).
		AppendString("second", "v").
		AppendNull("third").
		Build()
	splitDoc := roundTrip(t, doc)

	var types []format.Type
	var names []string
	for elem := range splitDoc.SchemaElements() {
		types = append(types, elem.Type())
		names = append(names, string(elem.FieldName()))
	}

	require.Equal(t, []format.Type{format.TypeInt32, format.TypeString, format.TypeNull}, types)
	require.Equal(t, []string{"first", "second", "third"}, names)
}

func TestDocUnsupportedSchemaType(t *testing.T) {
	// Hand-craft a schema stream carrying a Binary entry; the builder can
	// never produce one, but a corrupt persisted stream could.
	schema := []byte{
		0, 0, 0, 0, // schema len, patched below
		5, 0, 0, 0, // fixed payload len
		byte(format.TypeBinary), 0x01, 'b',
		0x00,
	}
	schema[0] = byte(len(schema))
	data := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0} // var len 0 + 5 fixed bytes

	splitDoc := NewDoc(schema, data)
	_, err := splitDoc.Document()
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestDocCursorOverrunPanics(t *testing.T) {
	// Schema declares a 4-byte int32 but the fixed payload is empty.
	schema := []byte{
		0, 0, 0, 0,
		0, 0, 0, 0, // fixed payload len 0
		byte(format.TypeInt32), 0x01, 'a',
		0x00,
	}
	schema[0] = byte(len(schema))
	data := []byte{0, 0, 0, 0}

	splitDoc := NewDoc(schema, data)
	require.Panics(t, func() { _, _ = splitDoc.AppendTo(nil, 0, 0, 0) })
}

func TestNewDocShortBuffersPanic(t *testing.T) {
	require.Panics(t, func() { NewDoc([]byte{1, 2}, []byte{0, 0, 0, 0}) })
	require.Panics(t, func() { NewDoc(make([]byte, 9), []byte{0}) })
}

func TestAppendToPreservesPrefix(t *testing.T) {
	doc := bsoncore.NewDocumentBuilder().AppendInt32("a", 1).Build()
	splitDoc := mustBuild(t, doc).Release()

	prefix := []byte("prefix")
	out, err := splitDoc.AppendTo(append([]byte(nil), prefix...), 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, prefix, out[:len(prefix)])
	require.Equal(t, []byte(doc), out[len(prefix):])
}
