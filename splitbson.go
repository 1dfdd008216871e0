// Package splitbson provides a columnar-style split codec for BSON
// documents, plus tooling to measure and exploit schema redundancy across
// document corpora.
//
// The codec decomposes each document into three independent byte streams:
//
//   - Schema: type codes and field names — the document's structure
//   - Fixed: fixed-width values, with a 4-byte end-offset per string
//   - Variable: concatenated NUL-terminated string payloads
//
// Reconstruction from the three streams is lossless, byte-for-byte.
// Because the schema stream is value-independent, same-shaped documents
// produce identical schema bytes: the schema can be fingerprinted with a
// 32-bit hash, deduplicated across a corpus and stored once.
//
// # Basic Usage
//
// Splitting and reconstructing a document:
//
//	import (
//	    "go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
//
//	    "github.com/arloliu/splitbson"
//	)
//
//	doc := bsoncore.NewDocumentBuilder().
//	    AppendString("name", "alice").
//	    AppendInt32("age", 30).
//	    Build()
//
//	splitDoc, err := splitbson.Split(doc)
//	if err != nil {
//	    return err
//	}
//
//	restored, err := splitDoc.Document() // byte-identical to doc
//
// Fingerprinting a document's structure:
//
//	fp, _ := splitbson.Fingerprint(doc)
//
// Measuring schema redundancy over a corpus of concatenated documents:
//
//	a, _ := analyzer.New("name", "a", 1024)
//	report, err := a.AnalyzeCorpus(corpusBytes)
//	fmt.Printf("%d docs, %d distinct schemas, %.0f%% cache hit rate\n",
//	    report.Docs, report.DistinctSchemas, report.HitRate())
//
// Packing a corpus with schemas stored once:
//
//	writer, _ := blob.NewWriter(blob.WithSchemaCompression(format.CompressionZstd))
//	writer.Add(splitDoc)
//	packed, err := writer.Finish()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the split
// package, simplifying the most common use cases. For fine-grained control
// (buffer capacities, schema stream views, reconstruction offsets), use the
// split, analyzer and blob packages directly.
package splitbson

import (
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/split"
)

// Split decomposes a document into its split form.
//
// Returns an error wrapping errs.ErrUnsupportedType if the document carries
// an element type outside the supported alphabet, or errs.ErrInvalidDocument
// if the input bytes are not a well-formed document.
func Split(doc bsoncore.Document, opts ...split.BuilderOption) (*split.Doc, error) {
	builder, err := split.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	if err := builder.AppendElements(doc); err != nil {
		return nil, err
	}

	return builder.Release(), nil
}

// Fingerprint computes the 32-bit fingerprint of the document's structure:
// its ordered sequence of (type, field name) pairs, independent of values.
func Fingerprint(doc bsoncore.Document) (uint32, error) {
	builder, err := split.NewBuilder()
	if err != nil {
		return 0, err
	}

	if err := builder.AppendElements(doc); err != nil {
		return 0, err
	}

	return builder.Hash(), nil
}
