package section

import (
	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/format"
)

// Flag represents the packed field for various flags in the container header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 1-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are magic number to identify the container format:
	//   - 0xEC50 (0b1110_1100_0101_0000): split document container v1
	Options uint16

	// SchemaCompression indicates the compression used for the schema section.
	// Valid values: CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4
	SchemaCompression uint8

	// DataCompression indicates the compression used for the data section.
	// Valid values: CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4
	DataCompression uint8
}

// NewFlag creates a new Flag with default settings: little-endian, Zstd for
// the schema section, no compression for the data section.
func NewFlag() Flag {
	flag := Flag{
		Options:           MagicSplitV1Opt,
		SchemaCompression: uint8(format.CompressionZstd),
		DataCompression:   uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// IsValidMagicNumber checks if the magic number in the Options field is valid.
func (f Flag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicSplitV1Opt
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// IsLittleEndian returns whether the container integers are little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the container integers are big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// SetSchemaCompression sets the schema section compression type.
func (f *Flag) SetSchemaCompression(compression format.CompressionType) {
	f.SchemaCompression = uint8(compression)
}

// GetSchemaCompression returns the schema section compression type.
func (f Flag) GetSchemaCompression() format.CompressionType {
	return format.CompressionType(f.SchemaCompression)
}

// SetDataCompression sets the data section compression type.
func (f *Flag) SetDataCompression(compression format.CompressionType) {
	f.DataCompression = uint8(compression)
}

// GetDataCompression returns the data section compression type.
func (f Flag) GetDataCompression() format.CompressionType {
	return format.CompressionType(f.DataCompression)
}

// Validate checks if the flag header contains valid values.
func (f Flag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if (f.Options & ReservedBitsMask) != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if _, ok := validCompressions[f.SchemaCompression]; !ok {
		return errs.ErrInvalidHeaderFlags
	}
	if _, ok := validCompressions[f.DataCompression]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}
