package nbt

import (
	"bytes"
	"io"
)

// Marshal encodes doc as a binary document in format f. doc must be a
// *Root or a *Compound; a bare compound is written with an empty name.
func Marshal(doc Tag, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes doc as a binary document in format f to w.
func Encode(w io.Writer, doc Tag, f Format) error {
	var (
		name string
		body *Compound
	)
	switch d := doc.(type) {
	case *Root:
		name, body = d.Name, &d.Compound
	case *Compound:
		body = d
	default:
		return invalidUse("document must be a Compound, got %s", kindOf(doc))
	}
	nw := NewWriter(w, f)
	nw.WriteKind(KindCompound)
	nw.WriteName(name)
	encodeCompound(nw, body)
	return nw.Flush()
}

func kindOf(t Tag) string {
	if t == nil {
		return "nil"
	}
	return t.Kind().String()
}

func encodeCompound(w *Writer, c *Compound) {
	for k, v := range c.All() {
		if w.err != nil {
			return
		}
		w.WriteKind(v.Kind())
		w.WriteName(k)
		encodePayload(w, v)
	}
	w.WriteKind(KindEnd)
}

func encodePayload(w *Writer, t Tag) {
	switch v := t.(type) {
	case Byte:
		w.WriteInt8(int8(v))
	case Short:
		w.WriteInt16(int16(v))
	case Int:
		w.WriteInt32(int32(v))
	case Long:
		w.WriteInt64(int64(v))
	case Float:
		w.WriteFloat32(float32(v))
	case Double:
		w.WriteFloat64(float64(v))
	case String:
		w.WriteString(string(v))
	case ByteArray:
		w.WriteByteArray(v)
	case IntArray:
		w.WriteIntArray(v)
	case LongArray:
		w.WriteLongArray(v)
	case *List:
		w.WriteListHeader(v.elem, len(v.items))
		for _, item := range v.items {
			if w.err != nil {
				return
			}
			encodePayload(w, item)
		}
	case *Compound:
		encodeCompound(w, v)
	case *Root:
		encodeCompound(w, &v.Compound)
	}
}
