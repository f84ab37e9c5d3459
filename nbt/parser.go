package nbt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// maxPayload bounds the declared size of a single string or array payload.
const maxPayload = 1 << 28

type childMode uint8

const (
	noChildren childMode = iota
	compoundChildren
	listChildren
)

// state is one level of traversal. The parser keeps the current level in
// Parser.st and the enclosing levels on an explicit stack.
type state struct {
	kind    Kind
	hasName bool
	name    []byte
	data    []byte
	dataOff int64

	arrayLen int
	listElem Kind
	listLen  int

	children  childMode
	iterElem  Kind
	iterCount int
	iterIndex int

	// positioned is set once a node has been loaded at this level.
	positioned bool
	// descended is set when BeginChildren was called on the current node,
	// or for a fresh children cursor that has no previous sibling yet.
	descended bool
	skipping  bool
}

// Parser is a pull parser over one binary NBT document. It exposes the
// current node's kind, name and payload and moves through the tree with
// BeginChildren and NextSibling, without recursion and without building a
// tree. Subtrees that are not entered are skipped.
//
// Name and payload views returned by NameBytes and Data are only valid
// until the next call that advances the parser. A Parser is not safe for
// concurrent use; Close releases its pooled buffers.
type Parser struct {
	in     input
	format Format
	order  binary.ByteOrder
	pos    int64
	st     state
	stack  *[]state
	rooted bool
	closed bool
}

func newParser(in input, f Format) *Parser {
	return &Parser{
		in:     in,
		format: f,
		order:  f.ByteOrder(),
		stack:  getStack(),
	}
}

// NewMemoryParser returns a parser positioned on the root compound of buf.
// Names and payloads are views into buf; no bytes are copied.
func NewMemoryParser(buf []byte, f Format) (*Parser, error) {
	p := newParser(&memInput{buf: buf}, f)
	if err := p.BeginRoot(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewStreamParser returns a parser positioned on the root compound read
// from r. Names and payloads are copied into pooled scratch buffers. The
// parser may read ahead of the document end; it does not close r.
func NewStreamParser(r io.Reader, f Format) (*Parser, error) {
	p := newParser(newStreamInput(r), f)
	if err := p.BeginRoot(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Reset points p at a new in-memory document and reads its root.
func (p *Parser) Reset(buf []byte, f Format) error {
	if p.closed {
		return invalidUse("Reset on closed parser")
	}
	p.in.release()
	p.in = &memInput{buf: buf}
	p.format, p.order = f, f.ByteOrder()
	p.pos = 0
	p.st = state{}
	clear(*p.stack)
	*p.stack = (*p.stack)[:0]
	p.rooted = false
	return p.BeginRoot()
}

// Close releases the parser's pooled buffers. It is safe to call more than
// once.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.in.release()
	putStack(p.stack)
	p.stack = nil
	p.st = state{}
	return nil
}

// Format returns the wire format being parsed.
func (p *Parser) Format() Format { return p.format }

// Offset returns the number of input bytes consumed so far.
func (p *Parser) Offset() int64 { return p.pos }

// Depth returns the number of enclosing containers whose children are
// being iterated.
func (p *Parser) Depth() int {
	if p.stack == nil {
		return 0
	}
	return len(*p.stack)
}

// Kind returns the kind of the current node, or KindEnd when the parser is
// not positioned on a node.
func (p *Parser) Kind() Kind {
	if !p.st.positioned {
		return KindEnd
	}
	return p.st.kind
}

// HasName reports whether the current node carries a name. List items do
// not.
func (p *Parser) HasName() bool { return p.st.positioned && p.st.hasName }

// Name returns the current node's name decoded as a string.
func (p *Parser) Name() string { return string(p.st.name) }

// NameBytes returns the raw UTF-8 name of the current node. The slice is
// valid until the parser advances, except that a container's name stays
// valid while its children are iterated.
func (p *Parser) NameBytes() []byte { return p.st.name }

// NameEquals compares the raw name bytes of the current node with name
// without decoding or allocating.
func (p *Parser) NameEquals(name []byte) bool {
	return p.HasName() && bytes.Equal(p.st.name, name)
}

// Data returns the raw payload bytes of the current scalar, string or
// array node, in wire byte order.
func (p *Parser) Data() []byte { return p.st.data }

// ArrayLen returns the declared element count of the current array node.
func (p *Parser) ArrayLen() int { return p.st.arrayLen }

// ListElemKind returns the declared item kind of the current list node.
func (p *Parser) ListElemKind() Kind { return p.st.listElem }

// ListLen returns the declared item count of the current list node.
func (p *Parser) ListLen() int { return p.st.listLen }

// BeginRoot reads the root header: a Compound type byte followed by the
// document name. Constructors and Reset call it.
func (p *Parser) BeginRoot() error {
	if p.closed {
		return invalidUse("BeginRoot on closed parser")
	}
	if p.rooted {
		return invalidUse("root already read")
	}
	off := p.pos
	k, err := p.readKind()
	if err != nil {
		return err
	}
	if k != KindCompound {
		return Errorf(ErrMalformed, off, "root tag kind %s is not Compound", k)
	}
	name, err := p.readName(false)
	if err != nil {
		return err
	}
	p.st = state{
		kind:       KindCompound,
		hasName:    true,
		name:       name,
		dataOff:    p.pos,
		positioned: true,
	}
	p.rooted = true
	return nil
}

// BeginChildren starts iterating the children of the current Compound or
// List node. Call NextSibling to move onto the first child.
func (p *Parser) BeginChildren() error {
	if p.closed {
		return invalidUse("BeginChildren on closed parser")
	}
	if !p.st.positioned {
		return invalidUse("BeginChildren called before a node was fetched")
	}
	if p.st.descended {
		return invalidUse("children of this %s were already read", p.st.kind)
	}
	cur := state{
		kind:      KindEnd,
		dataOff:   p.pos,
		descended: true,
		skipping:  p.st.skipping,
	}
	switch p.st.kind {
	case KindCompound:
		cur.children = compoundChildren
	case KindList:
		cur.children = listChildren
		cur.iterElem = p.st.listElem
		cur.iterCount = p.st.listLen
	default:
		return invalidUse("cannot use BeginChildren on tag kind %s", p.st.kind)
	}
	p.st.descended = true
	if _, ok := p.in.(*streamInput); ok && len(p.st.name) > 0 {
		// children reuse the stream's name scratch
		p.st.name = bytes.Clone(p.st.name)
	}
	*p.stack = append(*p.stack, p.st)
	p.st = cur
	return nil
}

// NextSibling moves to the next child of the container entered by the most
// recent BeginChildren. If the previous child is a container that was not
// entered, it is skipped first. When the children are exhausted the parser
// returns to the container node and NextSibling reports false.
func (p *Parser) NextSibling() (bool, error) {
	if p.closed {
		return false, invalidUse("NextSibling on closed parser")
	}
	if p.st.children == noChildren {
		return false, invalidUse("NextSibling requires BeginChildren on a Compound or List")
	}
	if !p.st.descended {
		if err := p.skipCurrent(); err != nil {
			return false, err
		}
	}
	return p.advance()
}

func (p *Parser) advance() (bool, error) {
	st := &p.st
	st.descended = false
	switch st.children {
	case listChildren:
		st.iterIndex++
		if st.iterIndex > st.iterCount {
			p.pop()
			return false, nil
		}
		st.kind = st.iterElem
		st.hasName = false
		st.name = nil
	case compoundChildren:
		k, err := p.readKind()
		if err != nil {
			return false, err
		}
		if k == KindEnd {
			p.pop()
			return false, nil
		}
		st.kind = k
		name, err := p.readName(st.skipping)
		if err != nil {
			return false, err
		}
		st.hasName = true
		st.name = name
	}
	st.positioned = true
	if err := p.loadData(st.skipping); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Parser) pop() {
	s := *p.stack
	p.st = s[len(s)-1]
	*p.stack = s[:len(s)-1]
}

// skipCurrent discards the unread children of the current node by running
// the ordinary children cursor in skip mode until it climbs back to the
// starting depth.
func (p *Parser) skipCurrent() error {
	if !p.st.kind.IsContainer() {
		return nil
	}
	if p.skipFixedList() {
		return p.skipBytes(int64(p.st.listLen) * int64(p.st.listElem.fixedSize()))
	}
	base := p.Depth()
	prev := p.st.skipping
	p.st.skipping = true
	if err := p.BeginChildren(); err != nil {
		return err
	}
	for p.Depth() > base {
		ok, err := p.advance()
		if err != nil {
			return err
		}
		if !ok || !p.st.kind.IsContainer() {
			continue
		}
		if p.skipFixedList() {
			if err := p.skipBytes(int64(p.st.listLen) * int64(p.st.listElem.fixedSize())); err != nil {
				return err
			}
			continue
		}
		if err := p.BeginChildren(); err != nil {
			return err
		}
	}
	p.st.skipping = prev
	return nil
}

// skipFixedList reports whether the current node is a list of fixed-size
// scalars whose payload can be skipped in one step.
func (p *Parser) skipFixedList() bool {
	return p.st.kind == KindList && p.st.listElem.fixedSize() > 0
}

func (p *Parser) skipBytes(n int64) error {
	off := p.pos
	if err := p.in.skip(n); err != nil {
		return p.inputErr(err, off, "skipped payload", true)
	}
	p.pos += n
	return nil
}

func (p *Parser) inputErr(err error, off int64, what string, payload bool) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		if payload {
			return Errorf(ErrMalformed, off, "%s extends past end of input", what)
		}
		return Errorf(ErrEndOfInput, off, "reading %s", what)
	}
	return fmt.Errorf("nbt: reading %s at offset %d: %w", what, off, err)
}

func (p *Parser) readKind() (Kind, error) {
	off := p.pos
	b, err := p.in.readByte()
	if err != nil {
		return 0, p.inputErr(err, off, "tag type", false)
	}
	p.pos++
	k := Kind(b)
	if !k.Valid() {
		return 0, Errorf(ErrMalformed, off, "unknown tag type %d", b)
	}
	return k, nil
}

func (p *Parser) readFixed(n int, what string) ([]byte, error) {
	off := p.pos
	b, err := p.in.readFixed(n)
	if err != nil {
		return nil, p.inputErr(err, off, what, false)
	}
	p.pos += int64(n)
	return b, nil
}

func (p *Parser) readStringLen(what string) (int, error) {
	b, err := p.readFixed(2, what)
	if err != nil {
		return 0, err
	}
	return int(p.order.Uint16(b)), nil
}

func (p *Parser) readCount(what string) (int, error) {
	off := p.pos
	b, err := p.readFixed(4, what)
	if err != nil {
		return 0, err
	}
	n := int32(p.order.Uint32(b))
	if n < 0 {
		return 0, Errorf(ErrMalformed, off, "negative %s %d", what, n)
	}
	return int(n), nil
}

func (p *Parser) readName(skip bool) ([]byte, error) {
	n, err := p.readStringLen("name length")
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, p.skipBytes(int64(n))
	}
	off := p.pos
	b, err := p.in.readName(n)
	if err != nil {
		return nil, p.inputErr(err, off, "tag name", true)
	}
	p.pos += int64(n)
	return b, nil
}

// loadData reads the header and payload of the node whose kind was just
// set. Containers only have their header read.
func (p *Parser) loadData(skip bool) error {
	st := &p.st
	st.data = nil
	st.arrayLen = 0
	st.listElem, st.listLen = KindEnd, 0

	var n int64
	payload := true
	switch k := st.kind; {
	case k.fixedSize() > 0:
		n = int64(k.fixedSize())
		payload = false
	case k.IsArray():
		count, err := p.readCount("array length")
		if err != nil {
			return err
		}
		st.arrayLen = count
		n = int64(count) * int64(k.elemSize())
	case k == KindString:
		l, err := p.readStringLen("string length")
		if err != nil {
			return err
		}
		n = int64(l)
	case k == KindList:
		off := p.pos
		elem, err := p.readKind()
		if err != nil {
			return err
		}
		count, err := p.readCount("list length")
		if err != nil {
			return err
		}
		if elem == KindEnd && count > 0 {
			return Errorf(ErrMalformed, off, "list of End declares %d items", count)
		}
		st.listElem, st.listLen = elem, count
		st.dataOff = p.pos
		return nil
	case k == KindCompound:
		st.dataOff = p.pos
		return nil
	default:
		return Errorf(ErrMalformed, p.pos, "unexpected %s tag", k)
	}

	st.dataOff = p.pos
	if skip {
		if payload {
			return p.skipBytes(n)
		}
		off := p.pos
		if err := p.in.skip(n); err != nil {
			return p.inputErr(err, off, st.kind.String(), false)
		}
		p.pos += n
		return nil
	}
	if n > maxPayload {
		return Errorf(ErrMalformed, p.pos, "%s payload of %d bytes exceeds limit", st.kind, n)
	}
	off := p.pos
	b, err := p.in.readData(int(n))
	if err != nil {
		return p.inputErr(err, off, st.kind.String()+" payload", payload)
	}
	st.data = b
	p.pos += n
	return nil
}

// ExpectKind fails with ErrInvalidUse unless the parser is positioned on a
// node of kind k.
func (p *Parser) ExpectKind(k Kind) error {
	if !p.st.positioned || p.st.kind != k {
		return invalidUse("current tag is %s, not %s", p.Kind(), k)
	}
	return nil
}

// GetByte returns the value of the current Byte node.
func (p *Parser) GetByte() (int8, error) {
	if err := p.ExpectKind(KindByte); err != nil {
		return 0, err
	}
	return int8(p.st.data[0]), nil
}

// GetShort returns the value of the current Short node.
func (p *Parser) GetShort() (int16, error) {
	if err := p.ExpectKind(KindShort); err != nil {
		return 0, err
	}
	return int16(p.order.Uint16(p.st.data)), nil
}

// GetInt returns the value of the current Int node.
func (p *Parser) GetInt() (int32, error) {
	if err := p.ExpectKind(KindInt); err != nil {
		return 0, err
	}
	return int32(p.order.Uint32(p.st.data)), nil
}

// GetLong returns the value of the current Long node.
func (p *Parser) GetLong() (int64, error) {
	if err := p.ExpectKind(KindLong); err != nil {
		return 0, err
	}
	return int64(p.order.Uint64(p.st.data)), nil
}

// GetFloat returns the value of the current Float node.
func (p *Parser) GetFloat() (float32, error) {
	if err := p.ExpectKind(KindFloat); err != nil {
		return 0, err
	}
	return math.Float32frombits(p.order.Uint32(p.st.data)), nil
}

// GetDouble returns the value of the current Double node.
func (p *Parser) GetDouble() (float64, error) {
	if err := p.ExpectKind(KindDouble); err != nil {
		return 0, err
	}
	return math.Float64frombits(p.order.Uint64(p.st.data)), nil
}

// GetString returns a copy of the current String node's text.
func (p *Parser) GetString() (string, error) {
	if err := p.ExpectKind(KindString); err != nil {
		return "", err
	}
	return string(p.st.data), nil
}

func (p *Parser) checkLen(n int) error {
	if n != p.st.arrayLen {
		return Errorf(ErrSizeMismatch, -1, "expected %d elements, buffer holds %d", p.st.arrayLen, n)
	}
	return nil
}

// GetByteArray copies the current ByteArray into dst, which must be
// exactly ArrayLen long.
func (p *Parser) GetByteArray(dst []byte) error {
	if err := p.ExpectKind(KindByteArray); err != nil {
		return err
	}
	if err := p.checkLen(len(dst)); err != nil {
		return err
	}
	copy(dst, p.st.data)
	return nil
}

// GetIntArray decodes the current IntArray into dst, which must be exactly
// ArrayLen long.
func (p *Parser) GetIntArray(dst []int32) error {
	if err := p.ExpectKind(KindIntArray); err != nil {
		return err
	}
	if err := p.checkLen(len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int32(p.order.Uint32(p.st.data[i*4:]))
	}
	return nil
}

// GetLongArray decodes the current LongArray into dst, which must be
// exactly ArrayLen long.
func (p *Parser) GetLongArray(dst []int64) error {
	if err := p.ExpectKind(KindLongArray); err != nil {
		return err
	}
	if err := p.checkLen(len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int64(p.order.Uint64(p.st.data[i*8:]))
	}
	return nil
}

// GetAsString renders the current scalar or string node as text using
// strconv formatting.
func (p *Parser) GetAsString() (string, error) {
	switch p.Kind() {
	case KindByte:
		v, err := p.GetByte()
		return strconv.FormatInt(int64(v), 10), err
	case KindShort:
		v, err := p.GetShort()
		return strconv.FormatInt(int64(v), 10), err
	case KindInt:
		v, err := p.GetInt()
		return strconv.FormatInt(int64(v), 10), err
	case KindLong:
		v, err := p.GetLong()
		return strconv.FormatInt(v, 10), err
	case KindFloat:
		v, err := p.GetFloat()
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case KindDouble:
		v, err := p.GetDouble()
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case KindString:
		return p.GetString()
	}
	return "", invalidUse("cannot render tag kind %s as string", p.Kind())
}
