package nbt

import (
	"math"
	"slices"
)

// Equal reports whether a and b are deeply equal. Compounds compare as
// mappings, independent of entry order; floating point values compare by
// bit pattern so NaN payloads round-trip. When both sides are *Root their
// names must match too; a *Root and a *Compound with the same entries are
// equal.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Byte, Short, Int, Long, String:
		return a == b
	case Float:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Double)))
	case ByteArray:
		return slices.Equal(x, b.(ByteArray))
	case IntArray:
		return slices.Equal(x, b.(IntArray))
	case LongArray:
		return slices.Equal(x, b.(LongArray))
	case *List:
		y := b.(*List)
		if x.elem != y.elem || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case *Compound, *Root:
		if ra, ok := a.(*Root); ok {
			if rb, ok := b.(*Root); ok && ra.Name != rb.Name {
				return false
			}
		}
		return equalCompound(asCompound(a), asCompound(b))
	}
	return false
}

func equalCompound(x, y *Compound) bool {
	if x.Len() != y.Len() {
		return false
	}
	for k, v := range x.items {
		w, ok := y.items[k]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

// asCompound returns the compound body of a *Compound or *Root, or nil.
func asCompound(t Tag) *Compound {
	switch c := t.(type) {
	case *Compound:
		return c
	case *Root:
		return &c.Compound
	}
	return nil
}
