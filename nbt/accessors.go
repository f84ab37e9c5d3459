package nbt

import (
	"math"
	"strconv"
)

// IsArray reports whether t is a ByteArray, IntArray or LongArray.
func IsArray(t Tag) bool { return t != nil && t.Kind().IsArray() }

// IsValue reports whether t is a numeric scalar or a String.
func IsValue(t Tag) bool {
	return t != nil && (t.Kind().fixedSize() > 0 || t.Kind() == KindString)
}

// IsData reports whether t is a value or an array, ie. anything but a
// container.
func IsData(t Tag) bool { return IsValue(t) || IsArray(t) }

func cannotConvert(t Tag, to string) error {
	return invalidUse("cannot convert %s to %s", kindOf(t), to)
}

// AsInt64 converts a numeric or string tag to int64. Floating point values
// are truncated toward zero; strings are parsed as base-10 integers.
func AsInt64(t Tag) (int64, error) {
	switch v := t.(type) {
	case Byte:
		return int64(v), nil
	case Short:
		return int64(v), nil
	case Int:
		return int64(v), nil
	case Long:
		return int64(v), nil
	case Float:
		return int64(v), nil
	case Double:
		return int64(v), nil
	case String:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, invalidUse("cannot convert string %q to int64", string(v))
		}
		return n, nil
	}
	return 0, cannotConvert(t, "int64")
}

func asBounded(t Tag, lo, hi int64, to string) (int64, error) {
	n, err := AsInt64(t)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, invalidUse("value %d out of range for %s", n, to)
	}
	return n, nil
}

// AsInt8 is AsInt64 restricted to the int8 range.
func AsInt8(t Tag) (int8, error) {
	n, err := asBounded(t, math.MinInt8, math.MaxInt8, "int8")
	return int8(n), err
}

// AsUint8 reinterprets a Byte's bits as unsigned; other kinds must hold a
// value in 0..255.
func AsUint8(t Tag) (uint8, error) {
	if b, ok := t.(Byte); ok {
		return uint8(b), nil
	}
	n, err := asBounded(t, 0, math.MaxUint8, "uint8")
	return uint8(n), err
}

// AsInt16 is AsInt64 restricted to the int16 range.
func AsInt16(t Tag) (int16, error) {
	n, err := asBounded(t, math.MinInt16, math.MaxInt16, "int16")
	return int16(n), err
}

// AsInt32 is AsInt64 restricted to the int32 range.
func AsInt32(t Tag) (int32, error) {
	n, err := asBounded(t, math.MinInt32, math.MaxInt32, "int32")
	return int32(n), err
}

// AsBool reports whether a numeric tag is non-zero. Strings accept the
// forms understood by strconv.ParseBool.
func AsBool(t Tag) (bool, error) {
	if s, ok := t.(String); ok {
		b, err := strconv.ParseBool(string(s))
		if err != nil {
			return false, invalidUse("cannot convert string %q to bool", string(s))
		}
		return b, nil
	}
	f, err := AsFloat64(t)
	return f != 0, err
}

// AsFloat64 converts a numeric tag to float64; strings are parsed.
func AsFloat64(t Tag) (float64, error) {
	switch v := t.(type) {
	case Byte:
		return float64(v), nil
	case Short:
		return float64(v), nil
	case Int:
		return float64(v), nil
	case Long:
		return float64(v), nil
	case Float:
		return float64(v), nil
	case Double:
		return float64(v), nil
	case String:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, invalidUse("cannot convert string %q to float64", string(v))
		}
		return f, nil
	}
	return 0, cannotConvert(t, "float64")
}

// AsFloat32 returns a Float unchanged and narrows anything AsFloat64 accepts.
func AsFloat32(t Tag) (float32, error) {
	if f, ok := t.(Float); ok {
		return float32(f), nil
	}
	f, err := AsFloat64(t)
	return float32(f), err
}

// AsString renders a value tag as text. Numbers use strconv formatting
// with the shortest representation that round-trips.
func AsString(t Tag) (string, error) {
	switch v := t.(type) {
	case String:
		return string(v), nil
	case Byte:
		return strconv.FormatInt(int64(v), 10), nil
	case Short:
		return strconv.FormatInt(int64(v), 10), nil
	case Int:
		return strconv.FormatInt(int64(v), 10), nil
	case Long:
		return strconv.FormatInt(int64(v), 10), nil
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case Double:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	}
	return "", cannotConvert(t, "string")
}

// listValues collects the items of a list whose item kind is elem.
func listValues[T Tag](t Tag, elem Kind) ([]T, bool) {
	l, ok := t.(*List)
	if !ok || (l.elem != elem && l.Len() > 0) {
		return nil, false
	}
	out := make([]T, l.Len())
	for i, item := range l.items {
		out[i] = item.(T)
	}
	return out, true
}

// AsByteArray returns a copy of a ByteArray or of a list of Byte tags.
func AsByteArray(t Tag) ([]byte, error) {
	if a, ok := t.(ByteArray); ok {
		return a.Clone().(ByteArray), nil
	}
	vs, ok := listValues[Byte](t, KindByte)
	if !ok {
		return nil, cannotConvert(t, "[]byte")
	}
	out := make([]byte, len(vs))
	for i, v := range vs {
		out[i] = byte(v)
	}
	return out, nil
}

// AsInt32Array returns a copy of an IntArray or of a list of Int tags.
func AsInt32Array(t Tag) ([]int32, error) {
	if a, ok := t.(IntArray); ok {
		return a.Clone().(IntArray), nil
	}
	vs, ok := listValues[Int](t, KindInt)
	if !ok {
		return nil, cannotConvert(t, "[]int32")
	}
	out := make([]int32, len(vs))
	for i, v := range vs {
		out[i] = int32(v)
	}
	return out, nil
}

// AsInt64Array returns a copy of a LongArray or of a list of Long tags.
func AsInt64Array(t Tag) ([]int64, error) {
	if a, ok := t.(LongArray); ok {
		return a.Clone().(LongArray), nil
	}
	vs, ok := listValues[Long](t, KindLong)
	if !ok {
		return nil, cannotConvert(t, "[]int64")
	}
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = int64(v)
	}
	return out, nil
}
