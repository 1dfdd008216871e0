package section

import (
	"time"
	"unsafe"

	"github.com/arloliu/splitbson/endian"
	"github.com/arloliu/splitbson/errs"
)

// Header is the fixed-size header section of a split document container.
// It is 32 bytes and records where the schema index, the deduplicated
// schema section and the data section live in the file.
type Header struct {
	// Flag is a packed field for flags and the magic number (0xEC50).
	Flag Flag // 4 bytes, offset 0-3

	// CreatedAt is the container creation time, unix timestamp in microseconds.
	CreatedAt int64 // 8 bytes, offset 4-11

	// DocCount is the number of documents stored in the container.
	DocCount uint32 // 4 bytes, offset 12-15

	// SchemaCount is the number of distinct schemas in the schema section.
	SchemaCount uint32 // 4 bytes, offset 16-19

	// IndexOffset is the byte offset to the start of the schema index section.
	IndexOffset uint32 // 4 bytes, offset 20-23

	// DataOffset is the byte offset to the start of the data section. The
	// (possibly compressed) schema section occupies the bytes between the
	// index and this offset.
	DataOffset uint32 // 4 bytes, offset 24-27

	Reserved [4]byte // Reserved for future use, must be zero, offset 28-31
}

// NewHeader creates a new Header with the given creation time.
// Count and offset fields are filled in by the container writer.
func NewHeader(createdAt time.Time) *Header {
	return &Header{
		Flag:        NewFlag(),
		CreatedAt:   createdAt.UnixMicro(),
		IndexOffset: IndexOffsetValue,
	}
}

// Parse parses the header from a byte slice.
// It returns an error if the data is not exactly 32 bytes or if the flags
// are invalid.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Parse the flag first to determine endianness (the Options field
	// itself is always little-endian).
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.SchemaCompression = data[2]
	h.Flag.DataCompression = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.GetEndianEngine()

	createdAtUint := engine.Uint64(data[4:12])
	h.CreatedAt = *(*int64)(unsafe.Pointer(&createdAtUint))

	h.DocCount = engine.Uint32(data[12:16])
	h.SchemaCount = engine.Uint32(data[16:20])
	h.IndexOffset = engine.Uint32(data[20:24])
	h.DataOffset = engine.Uint32(data[24:28])
	copy(h.Reserved[:], data[28:32])

	return nil
}

// Bytes serializes the Header into a byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.SchemaCompression
	b[3] = h.Flag.DataCompression
	engine.PutUint64(b[4:12], *(*uint64)(unsafe.Pointer(&h.CreatedAt)))
	engine.PutUint32(b[12:16], h.DocCount)
	engine.PutUint32(b[16:20], h.SchemaCount)
	engine.PutUint32(b[20:24], h.IndexOffset)
	engine.PutUint32(b[24:28], h.DataOffset)
	copy(b[28:32], h.Reserved[:])

	return b
}

// CreatedAtAsTime returns the creation time as a time.Time object.
func (h *Header) CreatedAtAsTime() time.Time {
	return time.UnixMicro(h.CreatedAt)
}

// GetEndianEngine returns the appropriate endian engine based on the header flags.
func (h *Header) GetEndianEngine() endian.EndianEngine {
	if h.Flag.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}
