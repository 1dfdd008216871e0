package section

import "math"

const (
	// Bit masks for the Options field.
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0)
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicSplitV1Opt is the version 1 magic number for the split document
	// container format (bits 4-15 of the Options field).
	MagicSplitV1Opt = 0xEC50
)

// Offsets and section sizes in the container file.
const (
	HeaderSize           = 32             // fixed header size in bytes
	SchemaIndexEntrySize = 20             // fixed schema index entry size in bytes
	IndexOffsetValue     = HeaderSize     // byte offset where the schema index starts
	MaxSectionOffset     = math.MaxUint32 // maximum byte offset addressable by a header field
)
