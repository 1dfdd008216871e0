// Package blob implements the persistent container format for split
// documents.
//
// A container packs any number of split documents into one byte stream,
// storing each distinct schema exactly once. Documents reference their
// schema by ordinal, so a corpus of a million same-shaped documents carries
// a single copy of the schema stream plus one small record per document.
//
// # Container Layout
//
//	header         32 bytes (section.Header): magic, flags, counts, offsets
//	schema index   section.SchemaCount entries of 20 bytes each
//	schema section distinct schema streams, concatenated, optionally compressed
//	data section   per document: schema ordinal (uvarint), data length
//	               (uvarint), data buffer bytes; optionally compressed as one
//	               unit
//
// The schema and data sections are compressed independently: schema bytes
// are highly repetitive and default to Zstd, while data bytes default to no
// compression.
//
// # Usage
//
//	writer, _ := blob.NewWriter(blob.WithDataCompression(format.CompressionS2))
//	for _, doc := range splitDocs {
//	    writer.Add(doc)
//	}
//	packed, err := writer.Finish()
//
//	reader, err := blob.NewReader(packed)
//	for i, doc := range reader.All() {
//	    restored, err := doc.Document()
//	    ...
//	}
//
// Container bytes come from files and are untrusted: NewReader validates the
// header, index bounds and schema identities and returns errors rather than
// panicking.
package blob
