package blob

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
	"github.com/arloliu/splitbson/section"
	"github.com/arloliu/splitbson/split"
)

func splitDoc(t *testing.T, doc bsoncore.Document) *split.Doc {
	t.Helper()

	builder, err := split.NewBuilder()
	require.NoError(t, err)
	require.NoError(t, builder.AppendElements(doc))

	return builder.Release()
}

func sampleDocs(t *testing.T) []bsoncore.Document {
	t.Helper()

	var docs []bsoncore.Document
	for i := int32(0); i < 5; i++ {
		docs = append(docs, bsoncore.NewDocumentBuilder().
			AppendString("name", string(rune('a'+i))).
			AppendInt32("age", 20+i).
			Build())
	}
	docs = append(docs,
		bsoncore.NewDocumentBuilder().AppendInt64("counter", 99).Build(),
		bsoncore.NewDocumentBuilder().AppendDouble("ratio", 0.5).AppendString("unit", "ms").Build(),
	)

	return docs
}

func packAndReopen(t *testing.T, docs []bsoncore.Document, opts ...WriterOption) *Reader {
	t.Helper()

	writer, err := NewWriter(opts...)
	require.NoError(t, err)
	for _, doc := range docs {
		writer.Add(splitDoc(t, doc))
	}

	packed, err := writer.Finish()
	require.NoError(t, err)

	reader, err := NewReader(packed)
	require.NoError(t, err)

	return reader
}

func TestContainerRoundTrip(t *testing.T) {
	docs := sampleDocs(t)
	reader := packAndReopen(t, docs)

	require.Equal(t, len(docs), reader.DocCount())
	for i, doc := range docs {
		restored, err := reader.Document(i)
		require.NoError(t, err)
		require.Equal(t, []byte(doc), []byte(restored), "document %d", i)
	}
}

func TestContainerSchemaDedup(t *testing.T) {
	docs := sampleDocs(t)
	reader := packAndReopen(t, docs)

	// 5 user docs share one schema; the other two docs have their own.
	require.Equal(t, 3, reader.SchemaCount())
	require.Len(t, reader.Schemas(), 3)

	// Same-shape documents share one schema buffer.
	first, err := reader.Doc(0)
	require.NoError(t, err)
	second, err := reader.Doc(1)
	require.NoError(t, err)
	require.Same(t, &first.Schema()[0], &second.Schema()[0])
}

func TestContainerAllIterator(t *testing.T) {
	docs := sampleDocs(t)
	reader := packAndReopen(t, docs)

	count := 0
	for i, doc := range reader.All() {
		restored, err := doc.Document()
		require.NoError(t, err)
		require.Equal(t, []byte(docs[i]), []byte(restored))
		count++
	}
	require.Equal(t, len(docs), count)
}

func TestContainerCompressionCodecs(t *testing.T) {
	docs := sampleDocs(t)
	codecs := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, ct := range codecs {
		t.Run(ct.String(), func(t *testing.T) {
			reader := packAndReopen(t, docs,
				WithSchemaCompression(ct),
				WithDataCompression(ct),
			)
			for i, doc := range docs {
				restored, err := reader.Document(i)
				require.NoError(t, err)
				require.Equal(t, []byte(doc), []byte(restored))
			}
		})
	}
}

func TestContainerEmpty(t *testing.T) {
	writer, err := NewWriter()
	require.NoError(t, err)

	packed, err := writer.Finish()
	require.NoError(t, err)

	reader, err := NewReader(packed)
	require.NoError(t, err)
	require.Zero(t, reader.DocCount())
	require.Zero(t, reader.SchemaCount())
}

func TestContainerCreatedAt(t *testing.T) {
	createdAt := time.UnixMicro(1722902400000000)
	reader := packAndReopen(t, sampleDocs(t)[:1], WithCreatedAt(createdAt))

	require.Equal(t, createdAt, reader.CreatedAt())
}

func TestWriterStats(t *testing.T) {
	writer, err := NewWriter(
		WithSchemaCompression(format.CompressionZstd),
		WithDataCompression(format.CompressionS2),
	)
	require.NoError(t, err)

	for _, doc := range sampleDocs(t) {
		writer.Add(splitDoc(t, doc))
	}
	require.Equal(t, 7, writer.DocCount())
	require.Equal(t, 3, writer.SchemaCount())
	require.False(t, writer.HasCollision())

	_, err = writer.Finish()
	require.NoError(t, err)

	require.Equal(t, format.CompressionZstd, writer.SchemaStats().Algorithm)
	require.Equal(t, format.CompressionS2, writer.DataStats().Algorithm)
	require.Positive(t, writer.SchemaStats().OriginalSize)
	require.Positive(t, writer.DataStats().OriginalSize)
}

func TestWriterUseAfterFinishPanics(t *testing.T) {
	writer, err := NewWriter()
	require.NoError(t, err)

	_, err = writer.Finish()
	require.NoError(t, err)

	require.Panics(t, func() { writer.Add(splitDoc(t, bsoncore.NewDocumentBuilder().Build())) })
	require.Panics(t, func() { _, _ = writer.Finish() })
}

func TestNewWriterInvalidCompression(t *testing.T) {
	_, err := NewWriter(WithSchemaCompression(format.CompressionType(0x7F)))
	require.Error(t, err)
}

func TestReaderRejectsTruncatedHeader(t *testing.T) {
	_, err := NewReader(make([]byte, section.HeaderSize-1))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestReaderRejectsBadMagic(t *testing.T) {
	writer, err := NewWriter()
	require.NoError(t, err)
	writer.Add(splitDoc(t, bsoncore.NewDocumentBuilder().AppendInt32("a", 1).Build()))

	packed, err := writer.Finish()
	require.NoError(t, err)

	packed[1] ^= 0xF0
	_, err = NewReader(packed)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
}

func TestReaderRejectsCorruptSchemaSection(t *testing.T) {
	writer, err := NewWriter(WithSchemaCompression(format.CompressionNone))
	require.NoError(t, err)
	writer.Add(splitDoc(t, bsoncore.NewDocumentBuilder().AppendInt32("a", 1).Build()))

	packed, err := writer.Finish()
	require.NoError(t, err)

	// Flip a byte inside the stored schema stream; the recorded 64-bit
	// identity no longer matches.
	packed[section.HeaderSize+section.SchemaIndexEntrySize+9] ^= 0xFF
	_, err = NewReader(packed)
	require.ErrorIs(t, err, errs.ErrInvalidSchemaIndex)
}

func TestReaderRejectsTruncatedDataSection(t *testing.T) {
	writer, err := NewWriter(WithDataCompression(format.CompressionNone))
	require.NoError(t, err)
	writer.Add(splitDoc(t, bsoncore.NewDocumentBuilder().AppendInt32("a", 1).Build()))

	packed, err := writer.Finish()
	require.NoError(t, err)

	_, err = NewReader(packed[:len(packed)-3])
	require.ErrorIs(t, err, errs.ErrDocTooShort)
}

func TestContainerDocOutOfRange(t *testing.T) {
	reader := packAndReopen(t, sampleDocs(t)[:1])

	_, err := reader.Doc(-1)
	require.Error(t, err)
	_, err = reader.Doc(1)
	require.Error(t, err)
}
