package snbt

import (
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jmoiron/nbtedit/nbt"
)

// decoder is a recursive-descent parser over a Tokenizer. tok is the
// token under consideration; eof is set once the input is exhausted.
type decoder struct {
	tz  *Tokenizer
	src string
	tok Token
	eof bool
}

func malformed(off int, format string, args ...any) error {
	return nbt.Errorf(nbt.ErrMalformed, int64(off), format, args...)
}

func (d *decoder) next() error {
	tok, err := d.tz.Next()
	if errors.Is(err, io.EOF) {
		d.eof = true
		d.tok = Token{Offset: len(d.src)}
		return nil
	}
	if err != nil {
		return err
	}
	d.tok = tok
	return nil
}

// nextIn advances inside a container, where running out of input is an
// error.
func (d *decoder) nextIn(open Token) error {
	if err := d.next(); err != nil {
		return err
	}
	if d.eof {
		return malformed(len(d.src), "unexpected end of input in %s opened at offset %d", open.Type, open.Offset)
	}
	return nil
}

// skipSeparators advances past any run of commas. Separators are optional
// between items and may repeat, lead or trail.
func (d *decoder) skipSeparators(open Token) error {
	if err := d.nextIn(open); err != nil {
		return err
	}
	for d.tok.Type == Separator {
		if err := d.nextIn(open); err != nil {
			return err
		}
	}
	return nil
}

// parse reports error offsets in characters rather than the bytes the
// tokenizer counts.
func parse(src string) (nbt.Tag, error) {
	t, err := parseTokens(src)
	var e *nbt.Error
	if errors.As(err, &e) && e.Offset > 0 && e.Offset <= int64(len(src)) {
		e.Offset = int64(utf8.RuneCountInString(src[:e.Offset]))
	}
	return t, err
}

func parseTokens(src string) (nbt.Tag, error) {
	d := &decoder{tz: NewTokenizer(src), src: src}
	if err := d.next(); err != nil {
		return nil, err
	}
	if d.eof {
		return nil, malformed(0, "empty input")
	}
	t, err := d.parseTag()
	if err != nil {
		return nil, err
	}
	if err := d.next(); err != nil {
		return nil, err
	}
	if !d.eof {
		return nil, malformed(d.tok.Offset, "unexpected %s after top-level tag", d.tok.Type)
	}
	return t, nil
}

// parseTag parses the tag starting at d.tok and leaves d.tok on its last
// token.
func (d *decoder) parseTag() (nbt.Tag, error) {
	switch d.tok.Type {
	case BeginCompound:
		return d.parseCompound()
	case BeginList:
		return d.parseList()
	case BeginArray:
		return d.parseArray()
	case Value:
		return parseValue(d.tok)
	}
	return nil, malformed(d.tok.Offset, "unexpected %s", d.tok.Type)
}

func (d *decoder) parseCompound() (*nbt.Compound, error) {
	open := d.tok
	c := nbt.NewCompound()
	for {
		if err := d.skipSeparators(open); err != nil {
			return nil, err
		}
		if d.tok.Type == EndCompound {
			return c, nil
		}
		if d.tok.Type != Value {
			return nil, malformed(d.tok.Offset, "expected name, found %s", d.tok.Type)
		}
		name, err := tokenString(d.tok)
		if err != nil {
			return nil, err
		}
		if err := d.nextIn(open); err != nil {
			return nil, err
		}
		if d.tok.Type != NameValueSeparator {
			return nil, malformed(d.tok.Offset, "expected ':' after name %q, found %s", name, d.tok.Type)
		}
		if err := d.nextIn(open); err != nil {
			return nil, err
		}
		t, err := d.parseTag()
		if err != nil {
			return nil, err
		}
		c.Set(name, t)
	}
}

func (d *decoder) parseList() (*nbt.List, error) {
	open := d.tok
	elem := nbt.KindEnd
	var items []nbt.Tag
	for {
		if err := d.skipSeparators(open); err != nil {
			return nil, err
		}
		if d.tok.Type == EndList {
			return nbt.NewList(elem, items...)
		}
		off := d.tok.Offset
		t, err := d.parseTag()
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			elem = t.Kind()
		} else if t.Kind() != elem {
			return nil, malformed(off, "%s item in list of %s", t.Kind(), elem)
		}
		items = append(items, t)
	}
}

func (d *decoder) parseArray() (nbt.Tag, error) {
	open := d.tok
	var want nbt.Kind
	switch open.Text[1] {
	case 'B':
		want = nbt.KindByte
	case 'I':
		want = nbt.KindInt
	default:
		want = nbt.KindLong
	}
	var vals []nbt.Tag
	for {
		if err := d.skipSeparators(open); err != nil {
			return nil, err
		}
		if d.tok.Type == EndList {
			break
		}
		if d.tok.Type != Value || d.tok.Quoted() {
			return nil, malformed(d.tok.Offset, "expected number in %s, found %s", open.Text, d.tok.Type)
		}
		t, err := parseValue(d.tok)
		if err != nil {
			return nil, err
		}
		if t.Kind() != want {
			return nil, malformed(d.tok.Offset, "%s element in %s array", t.Kind(), want)
		}
		vals = append(vals, t)
	}
	switch want {
	case nbt.KindByte:
		a := make(nbt.ByteArray, len(vals))
		for i, v := range vals {
			a[i] = byte(v.(nbt.Byte))
		}
		return a, nil
	case nbt.KindInt:
		a := make(nbt.IntArray, len(vals))
		for i, v := range vals {
			a[i] = int32(v.(nbt.Int))
		}
		return a, nil
	}
	a := make(nbt.LongArray, len(vals))
	for i, v := range vals {
		a[i] = int64(v.(nbt.Long))
	}
	return a, nil
}

// parseValue interprets a Value token: quoted text is a String, true and
// false are Bytes, letter-led text is a String and anything else must be
// a number.
func parseValue(tok Token) (nbt.Tag, error) {
	if tok.Quoted() {
		s, err := unquote(tok.Text, tok.Offset)
		if err != nil {
			return nil, err
		}
		return nbt.String(s), nil
	}
	switch tok.Text {
	case "true":
		return nbt.Bool(true), nil
	case "false":
		return nbt.Bool(false), nil
	}
	r, _ := utf8.DecodeRuneInString(tok.Text)
	switch {
	case unicode.IsLetter(r):
		return nbt.String(tok.Text), nil
	case r >= '0' && r <= '9', r == '-', r == '+', r == '.':
		return parseNumber(tok.Text, tok.Offset)
	}
	return nil, malformed(tok.Offset, "invalid value %q", tok.Text)
}

func tokenString(tok Token) (string, error) {
	if tok.Quoted() {
		return unquote(tok.Text, tok.Offset)
	}
	return tok.Text, nil
}

// unquote strips the delimiters from a quoted token and resolves escapes.
func unquote(text string, off int) (string, error) {
	q := text[0]
	body := text[1 : len(text)-1]
	if !strings.ContainsAny(body, "\\\"'") {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\':
			i++
			switch e := body[i]; e {
			case '\\':
				b.WriteByte('\\')
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case q:
				b.WriteByte(q)
			default:
				return "", malformed(off, "invalid escape sequence \\%c", e)
			}
		case c == q:
			return "", malformed(off, "unescaped %c in string", q)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
