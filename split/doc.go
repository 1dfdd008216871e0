// Package split implements the columnar split codec for BSON documents.
//
// The codec decomposes a document into three independent byte streams and
// reconstructs the original document byte-for-byte from them:
//
//   - Schema stream: type codes and varint-framed field names, terminated by
//     an EOO byte. This is the document's structure with no values in it.
//   - Fixed stream: fixed-width values in field order. Each string field
//     contributes a 4-byte end-offset into the variable stream instead.
//   - Variable stream: the concatenated NUL-terminated string payloads.
//
// Separating structure from values makes schema repetition across a document
// corpus directly observable: two documents with the same shape produce
// byte-identical schema streams regardless of their values, so the schema
// stream can be fingerprinted, deduplicated and stored once.
//
// # Wire Layout
//
// All integers are little-endian.
//
//	schema buffer:
//	  offset 0: u32 total_schema_len   includes these 8 header bytes and the EOO
//	  offset 4: u32 total_fixed_len    fixed PAYLOAD bytes (excludes the data
//	                                   buffer's own 4-byte header)
//	  offset 8: schema entries...      [type:i8][namelen varint][name bytes]
//	            EOO byte (0x00)
//
//	data buffer:
//	  offset 0: u32 total_var_len      variable payload bytes
//	  offset 4: fixed payload          raw values; u32 end-offset per string
//	            variable payload       NUL-terminated UTF-8 strings
//
// The field-name varint is LSB-first base-128: seven payload bits per byte,
// continuation bit set on every non-terminal byte, and a terminator byte
// with the top bit clear. A zero-length name still emits one zero byte.
//
// # Usage
//
//	builder, err := split.NewBuilder()
//	if err != nil {
//	    return err
//	}
//	if err := builder.AppendElements(doc); err != nil {
//	    return err
//	}
//	fingerprint := builder.Hash()
//	splitDoc := builder.Release()
//
//	restored, err := splitDoc.Document()
//
// A Builder is single-use: append one document, observe the schema view or
// hash, then Release it into a Doc. Builders and Docs are not safe for
// concurrent use.
//
// # Supported Types
//
// Double, String, ObjectID, Bool, DateTime, Null, Int32, Timestamp, Int64
// and Decimal128. Any other element type is a hard error; no partial output
// is produced. Streams produced by this package are trusted on the read
// side: a length header or cursor that strays out of bounds indicates a bug
// or corruption and panics rather than returning an error.
package split
