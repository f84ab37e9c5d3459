package nbt

import "slices"

// Tag is a node of an NBT tree. The set of implementations is closed: Byte,
// Short, Int, Long, Float, Double, String, ByteArray, IntArray, LongArray,
// *List, *Compound and *Root.
type Tag interface {
	// Kind returns the wire kind of the tag. *Root reports KindCompound.
	Kind() Kind
	// Clone returns a deep copy.
	Clone() Tag
	tag()
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	String    string
	ByteArray []byte
	IntArray  []int32
	LongArray []int64
)

func (Byte) Kind() Kind      { return KindByte }
func (Short) Kind() Kind     { return KindShort }
func (Int) Kind() Kind       { return KindInt }
func (Long) Kind() Kind      { return KindLong }
func (Float) Kind() Kind     { return KindFloat }
func (Double) Kind() Kind    { return KindDouble }
func (String) Kind() Kind    { return KindString }
func (ByteArray) Kind() Kind { return KindByteArray }
func (IntArray) Kind() Kind  { return KindIntArray }
func (LongArray) Kind() Kind { return KindLongArray }

func (t Byte) Clone() Tag      { return t }
func (t Short) Clone() Tag     { return t }
func (t Int) Clone() Tag       { return t }
func (t Long) Clone() Tag      { return t }
func (t Float) Clone() Tag     { return t }
func (t Double) Clone() Tag    { return t }
func (t String) Clone() Tag    { return t }
func (t ByteArray) Clone() Tag { return slices.Clone(t) }
func (t IntArray) Clone() Tag  { return slices.Clone(t) }
func (t LongArray) Clone() Tag { return slices.Clone(t) }

func (Byte) tag()      {}
func (Short) tag()     {}
func (Int) tag()       {}
func (Long) tag()      {}
func (Float) tag()     {}
func (Double) tag()    {}
func (String) tag()    {}
func (ByteArray) tag() {}
func (IntArray) tag()  {}
func (LongArray) tag() {}
func (*List) tag()     {}
func (*Compound) tag() {}

// Bool returns Byte(1) for true and Byte(0) for false, the encoding SNBT
// uses for boolean literals.
func Bool(v bool) Byte {
	if v {
		return 1
	}
	return 0
}
