package nbt

import "io"

// maxListPrealloc caps the capacity reserved from a declared list length
// so a hostile count cannot force a large allocation up front.
const maxListPrealloc = 1024

// Unmarshal decodes the binary document in data.
func Unmarshal(data []byte, f Format) (*Root, error) {
	p, err := NewMemoryParser(data, f)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return DecodeParser(p)
}

// Decode reads one binary document from r.
func Decode(r io.Reader, f Format) (*Root, error) {
	p, err := NewStreamParser(r, f)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return DecodeParser(p)
}

// DecodeParser builds a tree from a parser freshly positioned on its root.
func DecodeParser(p *Parser) (*Root, error) {
	if err := p.ExpectKind(KindCompound); err != nil {
		return nil, err
	}
	if p.Depth() != 0 {
		return nil, invalidUse("parser is not positioned on the document root")
	}
	root := NewRoot(p.Name())
	if err := decodeCompound(p, &root.Compound); err != nil {
		return nil, err
	}
	return root, nil
}

func decodeCompound(p *Parser, c *Compound) error {
	if err := p.BeginChildren(); err != nil {
		return err
	}
	for {
		ok, err := p.NextSibling()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		// copy the name before decoding children; stream views are reused
		name := p.Name()
		t, err := decodeTag(p)
		if err != nil {
			return err
		}
		c.Set(name, t)
	}
}

func decodeList(p *Parser) (*List, error) {
	l := &List{elem: p.ListElemKind(), items: make([]Tag, 0, min(p.ListLen(), maxListPrealloc))}
	if err := p.BeginChildren(); err != nil {
		return nil, err
	}
	for {
		ok, err := p.NextSibling()
		if err != nil {
			return nil, err
		}
		if !ok {
			return l, nil
		}
		t, err := decodeTag(p)
		if err != nil {
			return nil, err
		}
		l.items = append(l.items, t)
	}
}

func decodeTag(p *Parser) (Tag, error) {
	switch p.Kind() {
	case KindByte:
		v, err := p.GetByte()
		return Byte(v), err
	case KindShort:
		v, err := p.GetShort()
		return Short(v), err
	case KindInt:
		v, err := p.GetInt()
		return Int(v), err
	case KindLong:
		v, err := p.GetLong()
		return Long(v), err
	case KindFloat:
		v, err := p.GetFloat()
		return Float(v), err
	case KindDouble:
		v, err := p.GetDouble()
		return Double(v), err
	case KindString:
		v, err := p.GetString()
		return String(v), err
	case KindByteArray:
		v := make(ByteArray, p.ArrayLen())
		return v, p.GetByteArray(v)
	case KindIntArray:
		v := make(IntArray, p.ArrayLen())
		return v, p.GetIntArray(v)
	case KindLongArray:
		v := make(LongArray, p.ArrayLen())
		return v, p.GetLongArray(v)
	case KindList:
		return decodeList(p)
	case KindCompound:
		c := NewCompound()
		if err := decodeCompound(p, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, Errorf(ErrMalformed, p.Offset(), "unexpected %s tag", p.Kind())
}

// Sniff reports whether data plausibly starts a binary document in format
// f: a Compound type byte and a name that fit in data, followed by a first
// entry whose name length fits too. data may be a prefix of the document.
func Sniff(data []byte, f Format) bool {
	if len(data) < 3 || Kind(data[0]) != KindCompound {
		return false
	}
	order := f.ByteOrder()
	n := int(order.Uint16(data[1:3]))
	rest := data[3:]
	if n > len(rest) {
		return false
	}
	rest = rest[n:]
	if len(rest) == 0 {
		return true
	}
	k := Kind(rest[0])
	if !k.Valid() {
		return false
	}
	if k == KindEnd || len(rest) < 3 {
		return true
	}
	return int(order.Uint16(rest[1:3])) <= len(rest)-3
}
