// Package errs defines the sentinel errors shared across the splitbson
// packages. Callers match them with errors.Is; call sites wrap them with
// fmt.Errorf("%w: ...") to add context.
package errs

import "errors"

var (
	// ErrUnsupportedType is returned when an input document carries an
	// element type the split codec does not handle (nested documents,
	// arrays, binary, regex, code, symbol, DBRef and friends).
	ErrUnsupportedType = errors.New("unsupported element type")

	// ErrRoundTripMismatch is returned by the analyzer when a reconstructed
	// document is not byte-for-byte identical to its input.
	ErrRoundTripMismatch = errors.New("round-trip mismatch")

	// ErrInvalidDocument is returned when input bytes fail BSON validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidCacheCapacity is returned when the analyzer is configured
	// with a non-positive LRU cache capacity.
	ErrInvalidCacheCapacity = errors.New("invalid cache capacity")

	// ErrInvalidHeaderSize is returned when a container header is not
	// exactly section.HeaderSize bytes.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidMagicNumber is returned when a container header does not
	// start with the expected magic number.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderFlags is returned when a container header carries an
	// unknown compression or reserved flag bit.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")

	// ErrInvalidSchemaOrdinal is returned when a container data record
	// references a schema ordinal outside the schema index.
	ErrInvalidSchemaOrdinal = errors.New("invalid schema ordinal")

	// ErrInvalidSchemaIndex is returned when a container schema index entry
	// points outside the schema section.
	ErrInvalidSchemaIndex = errors.New("invalid schema index")

	// ErrSchemaCollision is returned when two distinct schema streams share
	// the same 64-bit identity hash.
	ErrSchemaCollision = errors.New("schema hash collision")

	// ErrDocTooShort is returned when a byte stream ends before the length
	// its own header promises.
	ErrDocTooShort = errors.New("document truncated")
)
