package nbt

import "fmt"

// Kind identifies the type of a tag. The numeric values are the type bytes
// used on the wire.
type Kind byte

const (
	// KindEnd marks the close of a compound and is the item kind of an
	// empty list.
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

var kindNames = [...]string{
	KindEnd:       "End",
	KindByte:      "Byte",
	KindShort:     "Short",
	KindInt:       "Int",
	KindLong:      "Long",
	KindFloat:     "Float",
	KindDouble:    "Double",
	KindByteArray: "ByteArray",
	KindString:    "String",
	KindList:      "List",
	KindCompound:  "Compound",
	KindIntArray:  "IntArray",
	KindLongArray: "LongArray",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Valid reports whether k is one of the 13 known kinds.
func (k Kind) Valid() bool { return k <= KindLongArray }

// IsContainer reports whether tags of this kind have children.
func (k Kind) IsContainer() bool { return k == KindList || k == KindCompound }

// IsArray reports whether k is one of the three numeric array kinds.
func (k Kind) IsArray() bool {
	return k == KindByteArray || k == KindIntArray || k == KindLongArray
}

// fixedSize returns the payload size of fixed-width scalar kinds, or 0.
func (k Kind) fixedSize() int {
	switch k {
	case KindByte:
		return 1
	case KindShort:
		return 2
	case KindInt, KindFloat:
		return 4
	case KindLong, KindDouble:
		return 8
	}
	return 0
}

// elemSize returns the element width of array kinds, or 0.
func (k Kind) elemSize() int {
	switch k {
	case KindByteArray:
		return 1
	case KindIntArray:
		return 4
	case KindLongArray:
		return 8
	}
	return 0
}
