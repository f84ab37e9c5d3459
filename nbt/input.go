package nbt

import (
	"bufio"
	"errors"
	"io"
	"slices"
)

// input is where a Parser's bytes come from. Short reads are reported as
// io.ErrUnexpectedEOF; the parser maps them onto the error taxonomy.
type input interface {
	readByte() (byte, error)
	// readFixed returns n <= 8 bytes for a length prefix or scalar header.
	readFixed(n int) ([]byte, error)
	// readName and readData return views valid until the next call of the
	// same method.
	readName(n int) ([]byte, error)
	readData(n int) ([]byte, error)
	skip(n int64) error
	release()
}

// memInput views a caller-owned buffer; all returned slices alias it.
type memInput struct {
	buf []byte
	pos int
}

func (m *memInput) readByte() (byte, error) {
	if m.pos >= len(m.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := m.buf[m.pos]
	m.pos++
	return b, nil
}

func (m *memInput) read(n int) ([]byte, error) {
	if n > len(m.buf)-m.pos {
		return nil, io.ErrUnexpectedEOF
	}
	b := m.buf[m.pos : m.pos+n : m.pos+n]
	m.pos += n
	return b, nil
}

func (m *memInput) readFixed(n int) ([]byte, error) { return m.read(n) }
func (m *memInput) readName(n int) ([]byte, error)  { return m.read(n) }
func (m *memInput) readData(n int) ([]byte, error)  { return m.read(n) }

func (m *memInput) skip(n int64) error {
	if n > int64(len(m.buf)-m.pos) {
		return io.ErrUnexpectedEOF
	}
	m.pos += int(n)
	return nil
}

func (m *memInput) release() { m.buf = nil }

// streamInput copies from a sequential reader into pooled scratch buffers
// that grow to the largest name or payload seen.
type streamInput struct {
	r       *bufio.Reader
	scratch [8]byte
	name    *[]byte
	data    *[]byte
}

func newStreamInput(r io.Reader) *streamInput {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &streamInput{
		r:    br,
		name: namePool.get(),
		data: dataPool.get(),
	}
}

func short(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (s *streamInput) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, short(err)
	}
	return b, nil
}

func (s *streamInput) readFixed(n int) ([]byte, error) {
	b := s.scratch[:n]
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, short(err)
	}
	return b, nil
}

// fillChunk bounds how far the scratch buffer grows ahead of bytes that
// have actually arrived.
const fillChunk = 64 << 10

func (s *streamInput) fill(buf *[]byte, n int) ([]byte, error) {
	b := (*buf)[:0]
	defer func() { *buf = b[:0] }()
	for len(b) < n {
		step := min(n-len(b), fillChunk)
		b = slices.Grow(b, step)
		m, err := io.ReadFull(s.r, b[len(b):len(b)+step])
		b = b[:len(b)+m]
		if err != nil {
			return nil, short(err)
		}
	}
	return b, nil
}

func (s *streamInput) readName(n int) ([]byte, error) { return s.fill(s.name, n) }
func (s *streamInput) readData(n int) ([]byte, error) { return s.fill(s.data, n) }

func (s *streamInput) skip(n int64) error {
	for n > 0 {
		step := int(min(n, 1<<30))
		d, err := s.r.Discard(step)
		n -= int64(d)
		if err != nil {
			return short(err)
		}
	}
	return nil
}

func (s *streamInput) release() {
	namePool.put(s.name)
	dataPool.put(s.data)
	s.name, s.data = nil, nil
	s.r = nil
}
