package format

type (
	// Type is a BSON element type code as it appears on the wire: a signed
	// byte at the start of every element and of every schema entry.
	Type int8

	CompressionType uint8
)

const (
	TypeEOO        Type = 0x00 // TypeEOO terminates a document and a schema stream.
	TypeDouble     Type = 0x01
	TypeString     Type = 0x02
	TypeObject     Type = 0x03
	TypeArray      Type = 0x04
	TypeBinary     Type = 0x05
	TypeUndefined  Type = 0x06
	TypeObjectID   Type = 0x07
	TypeBool       Type = 0x08
	TypeDateTime   Type = 0x09
	TypeNull       Type = 0x0A
	TypeRegex      Type = 0x0B
	TypeDBPointer  Type = 0x0C
	TypeJavaScript Type = 0x0D
	TypeSymbol     Type = 0x0E
	TypeCodeScope  Type = 0x0F
	TypeInt32      Type = 0x10
	TypeTimestamp  Type = 0x11
	TypeInt64      Type = 0x12
	TypeDecimal128 Type = 0x13

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (t Type) String() string {
	switch t {
	case TypeEOO:
		return "EOO"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeObject:
		return "Object"
	case TypeArray:
		return "Array"
	case TypeBinary:
		return "Binary"
	case TypeUndefined:
		return "Undefined"
	case TypeObjectID:
		return "ObjectID"
	case TypeBool:
		return "Bool"
	case TypeDateTime:
		return "DateTime"
	case TypeNull:
		return "Null"
	case TypeRegex:
		return "Regex"
	case TypeDBPointer:
		return "DBPointer"
	case TypeJavaScript:
		return "JavaScript"
	case TypeSymbol:
		return "Symbol"
	case TypeCodeScope:
		return "CodeWithScope"
	case TypeInt32:
		return "Int32"
	case TypeTimestamp:
		return "Timestamp"
	case TypeInt64:
		return "Int64"
	case TypeDecimal128:
		return "Decimal128"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
