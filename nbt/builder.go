package nbt

// The Put methods store a value under name and return c so calls chain:
//
//	c := nbt.NewCompound().PutString("id", "minecraft:stone").PutByte("Count", 1)
func (c *Compound) PutByte(name string, v int8) *Compound {
	c.Set(name, Byte(v))
	return c
}

func (c *Compound) PutBool(name string, v bool) *Compound {
	c.Set(name, Bool(v))
	return c
}

func (c *Compound) PutShort(name string, v int16) *Compound {
	c.Set(name, Short(v))
	return c
}

func (c *Compound) PutInt(name string, v int32) *Compound {
	c.Set(name, Int(v))
	return c
}

func (c *Compound) PutLong(name string, v int64) *Compound {
	c.Set(name, Long(v))
	return c
}

func (c *Compound) PutFloat(name string, v float32) *Compound {
	c.Set(name, Float(v))
	return c
}

func (c *Compound) PutDouble(name string, v float64) *Compound {
	c.Set(name, Double(v))
	return c
}

func (c *Compound) PutString(name, v string) *Compound {
	c.Set(name, String(v))
	return c
}

func (c *Compound) PutByteArray(name string, v []byte) *Compound {
	c.Set(name, ByteArray(v))
	return c
}

func (c *Compound) PutIntArray(name string, v []int32) *Compound {
	c.Set(name, IntArray(v))
	return c
}

func (c *Compound) PutLongArray(name string, v []int64) *Compound {
	c.Set(name, LongArray(v))
	return c
}

func (c *Compound) PutList(name string, l *List) *Compound {
	c.Set(name, l)
	return c
}

// PutCompound stores a new compound under name after fill populates it.
func (c *Compound) PutCompound(name string, fill func(*Compound)) *Compound {
	child := NewCompound()
	if fill != nil {
		fill(child)
	}
	c.Set(name, child)
	return c
}

func listOf[V any, T Tag](elem Kind, vs []V, conv func(V) T) *List {
	l := &List{elem: elem, items: make([]Tag, len(vs))}
	if len(vs) == 0 {
		l.elem = KindEnd
	}
	for i, v := range vs {
		l.items[i] = conv(v)
	}
	return l
}

// Bytes returns a list of Byte tags. Like the other list builders it
// returns a list of kind End when called with no values.
func Bytes(vs ...int8) *List {
	return listOf(KindByte, vs, func(v int8) Byte { return Byte(v) })
}

func Shorts(vs ...int16) *List {
	return listOf(KindShort, vs, func(v int16) Short { return Short(v) })
}

func Ints(vs ...int32) *List {
	return listOf(KindInt, vs, func(v int32) Int { return Int(v) })
}

func Longs(vs ...int64) *List {
	return listOf(KindLong, vs, func(v int64) Long { return Long(v) })
}

func Floats(vs ...float32) *List {
	return listOf(KindFloat, vs, func(v float32) Float { return Float(v) })
}

func Doubles(vs ...float64) *List {
	return listOf(KindDouble, vs, func(v float64) Double { return Double(v) })
}

func Strings(vs ...string) *List {
	return listOf(KindString, vs, func(v string) String { return String(v) })
}

// Compounds returns a list holding cs. It panics if any element is nil.
func Compounds(cs ...*Compound) *List {
	return listOf(KindCompound, cs, func(c *Compound) *Compound {
		if c == nil {
			panic("nbt: nil compound in Compounds")
		}
		return c
	})
}
