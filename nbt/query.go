package nbt

import "strconv"

// Seek moves p from the current Compound or List down along path without
// decoding anything off the path. Compound segments match entry names
// byte-for-byte; list segments are decimal indexes. Seek reports false
// when a segment is missing, in which case the parser is left on the
// container that lacked it.
func Seek(p *Parser, path []string) (bool, error) {
	for _, seg := range path {
		var ok bool
		var err error
		switch p.Kind() {
		case KindCompound:
			ok, err = seekName(p, []byte(seg))
		case KindList:
			ok, err = seekIndex(p, seg)
		default:
			return false, nil
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func seekName(p *Parser, name []byte) (bool, error) {
	if err := p.BeginChildren(); err != nil {
		return false, err
	}
	for {
		ok, err := p.NextSibling()
		if err != nil || !ok {
			return false, err
		}
		if p.NameEquals(name) {
			return true, nil
		}
	}
}

func seekIndex(p *Parser, seg string) (bool, error) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || i >= p.ListLen() {
		return false, nil
	}
	if err := p.BeginChildren(); err != nil {
		return false, err
	}
	for n := 0; n <= i; n++ {
		ok, err := p.NextSibling()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// DecodeCurrent materializes the node the parser is positioned on,
// including its whole subtree.
func DecodeCurrent(p *Parser) (Tag, error) {
	if p.Kind() == KindEnd {
		return nil, invalidUse("parser is not positioned on a tag")
	}
	if p.Kind().IsContainer() && p.st.descended {
		return nil, invalidUse("children of this %s were already read", p.Kind())
	}
	return decodeTag(p)
}
