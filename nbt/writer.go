package nbt

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// Writer emits binary NBT primitives in one format's byte order. Errors are
// sticky: after the first failure every call is a no-op and Err or Flush
// report it.
type Writer struct {
	w       *bufio.Writer
	order   binary.ByteOrder
	scratch [8]byte
	err     error
}

// NewWriter returns a Writer that buffers output to w.
func NewWriter(w io.Writer, f Format) *Writer {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Writer{w: bw, order: f.ByteOrder()}
}

// Err returns the first error encountered.
func (w *Writer) Err() error { return w.err }

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

// WriteKind writes a type byte.
func (w *Writer) WriteKind(k Kind) { w.WriteInt8(int8(k)) }

func (w *Writer) WriteInt8(v int8) {
	if w.err != nil {
		return
	}
	w.err = w.w.WriteByte(byte(v))
}

func (w *Writer) WriteInt16(v int16) {
	w.order.PutUint16(w.scratch[:2], uint16(v))
	w.write(w.scratch[:2])
}

func (w *Writer) WriteInt32(v int32) {
	w.order.PutUint32(w.scratch[:4], uint32(v))
	w.write(w.scratch[:4])
}

func (w *Writer) WriteInt64(v int64) {
	w.order.PutUint64(w.scratch[:8], uint64(v))
	w.write(w.scratch[:8])
}

func (w *Writer) WriteFloat32(v float32) { w.WriteInt32(int32(math.Float32bits(v))) }
func (w *Writer) WriteFloat64(v float64) { w.WriteInt64(int64(math.Float64bits(v))) }

// WriteString writes a 2-byte length prefix and the UTF-8 bytes of s.
// Strings longer than 65535 bytes fail with ErrInvalidUse.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		w.err = invalidUse("string of %d bytes exceeds the 65535 byte limit", len(s))
		return
	}
	w.WriteInt16(int16(uint16(len(s))))
	if w.err == nil {
		_, w.err = w.w.WriteString(s)
	}
}

// WriteName writes a tag name; names share the string encoding.
func (w *Writer) WriteName(name string) { w.WriteString(name) }

func (w *Writer) writeCount(n int) {
	if n > math.MaxInt32 {
		if w.err == nil {
			w.err = invalidUse("%d elements exceed the int32 length prefix", n)
		}
		return
	}
	w.WriteInt32(int32(n))
}

func (w *Writer) WriteByteArray(v []byte) {
	w.writeCount(len(v))
	w.write(v)
}

func (w *Writer) WriteIntArray(v []int32) {
	w.writeCount(len(v))
	for _, x := range v {
		w.WriteInt32(x)
	}
}

func (w *Writer) WriteLongArray(v []int64) {
	w.writeCount(len(v))
	for _, x := range v {
		w.WriteInt64(x)
	}
}

// WriteListHeader writes the item kind and count that open a list payload.
func (w *Writer) WriteListHeader(elem Kind, n int) {
	w.WriteKind(elem)
	w.writeCount(n)
}
