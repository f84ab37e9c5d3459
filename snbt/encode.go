package snbt

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/jmoiron/nbtedit/nbt"
)

const (
	indentWidth = 4
	maxIndent   = 120
)

// Elements per line before an array wraps in indented output.
var arrayWrap = map[nbt.Kind]int{
	nbt.KindByteArray: 16,
	nbt.KindIntArray:  8,
	nbt.KindLongArray: 4,
}

// Class identifies the role of a span of output text for a Styler.
type Class int

const (
	Punct Class = iota
	Name
	Text
	Number
)

// Styler decorates output spans, for example with terminal colors. The
// decorated text must still be valid SNBT only if the output is meant to
// be parsed again.
type Styler interface {
	Style(c Class, s string) string
}

// Encoder writes tags as SNBT text, either compact or indented.
type Encoder struct {
	w      *bufio.Writer
	indent bool
	styler Styler
	depth  int
	err    error
}

// NewEncoder returns a compact encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// SetIndent switches between compact output and the indented layout with
// one entry per line.
func (e *Encoder) SetIndent(on bool) { e.indent = on }

// SetStyler installs s to decorate output; nil disables styling.
func (e *Encoder) SetStyler(s Styler) { e.styler = s }

// Encode writes t and flushes. A *nbt.Root with a non-empty name fails
// with nbt.ErrInvalidUse since SNBT cannot express it.
func (e *Encoder) Encode(t nbt.Tag) error {
	if t == nil {
		return nbt.Errorf(nbt.ErrInvalidUse, -1, "cannot encode nil tag")
	}
	if r, ok := t.(*nbt.Root); ok && r.Name != "" {
		return nbt.Errorf(nbt.ErrInvalidUse, -1, "root tag named %q cannot be written as SNBT", r.Name)
	}
	e.depth, e.err = 0, nil
	e.encodeTag(t)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

func (e *Encoder) write(c Class, s string) {
	if e.err != nil {
		return
	}
	if e.styler != nil {
		s = e.styler.Style(c, s)
	}
	_, e.err = e.w.WriteString(s)
}

func (e *Encoder) raw(s string) {
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *Encoder) newline() {
	if !e.indent {
		return
	}
	e.raw("\n")
	e.raw(strings.Repeat(" ", min(e.depth*indentWidth, maxIndent)))
}

func (e *Encoder) encodeTag(t nbt.Tag) {
	switch v := t.(type) {
	case *nbt.Compound:
		e.encodeCompound(v)
	case *nbt.Root:
		e.encodeCompound(v.AsCompound())
	case *nbt.List:
		e.encodeList(v)
	case nbt.String:
		e.write(Text, quote(string(v)))
	case nbt.ByteArray, nbt.IntArray, nbt.LongArray:
		e.encodeArray(v)
	default:
		e.write(Number, formatScalar(t))
	}
}

func (e *Encoder) open(s string) {
	e.write(Punct, s)
	e.depth++
}

func (e *Encoder) close(s string) {
	e.depth--
	e.newline()
	e.write(Punct, s)
}

// item writes the separator before the i'th entry of a compound or list.
func (e *Encoder) item(i int) {
	if i > 0 {
		e.write(Punct, ",")
	}
	e.newline()
}

func (e *Encoder) encodeCompound(c *nbt.Compound) {
	if c.Len() == 0 {
		e.write(Punct, "{}")
		return
	}
	e.open("{")
	i := 0
	for k, v := range c.All() {
		e.item(i)
		e.write(Name, name(k))
		if e.indent {
			e.write(Punct, ": ")
		} else {
			e.write(Punct, ":")
		}
		e.encodeTag(v)
		i++
	}
	e.close("}")
}

func (e *Encoder) encodeList(l *nbt.List) {
	if l.Len() == 0 {
		e.write(Punct, "[]")
		return
	}
	e.open("[")
	for i, v := range l.All() {
		e.item(i)
		e.encodeTag(v)
	}
	e.close("]")
}

func (e *Encoder) encodeArray(t nbt.Tag) {
	var elems []string
	switch v := t.(type) {
	case nbt.ByteArray:
		elems = make([]string, len(v))
		for i, b := range v {
			elems[i] = strconv.Itoa(int(int8(b))) + "B"
		}
		e.write(Punct, "[B;")
	case nbt.IntArray:
		elems = make([]string, len(v))
		for i, n := range v {
			elems[i] = strconv.FormatInt(int64(n), 10)
		}
		e.write(Punct, "[I;")
	case nbt.LongArray:
		elems = make([]string, len(v))
		for i, n := range v {
			elems[i] = strconv.FormatInt(n, 10) + "L"
		}
		e.write(Punct, "[L;")
	}
	wrap := e.indent && len(elems) > arrayWrap[t.Kind()]
	if wrap {
		e.depth++
	}
	for i, s := range elems {
		switch {
		case wrap && i%arrayWrap[t.Kind()] == 0:
			if i > 0 {
				e.write(Punct, ",")
			}
			e.newline()
		case i > 0 && e.indent:
			e.write(Punct, ", ")
		case i > 0:
			e.write(Punct, ",")
		case e.indent:
			e.raw(" ")
		}
		e.write(Number, s)
	}
	if wrap {
		e.close("]")
		return
	}
	e.write(Punct, "]")
}

func formatScalar(t nbt.Tag) string {
	switch v := t.(type) {
	case nbt.Byte:
		return strconv.FormatInt(int64(v), 10) + "B"
	case nbt.Short:
		return strconv.FormatInt(int64(v), 10) + "S"
	case nbt.Int:
		return strconv.FormatInt(int64(v), 10)
	case nbt.Long:
		return strconv.FormatInt(int64(v), 10) + "l"
	case nbt.Float:
		return formatFloat(float32(v)) + "F"
	case nbt.Double:
		return formatDouble(float64(v)) + "D"
	}
	return ""
}

// bareName reports whether a compound key can be written without quotes.
func bareName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func name(s string) string {
	if bareName(s) {
		return s
	}
	return quote(s)
}

// quote wraps s in double quotes, or in single quotes when s contains a
// double quote, escaping the chosen quote, backslash and line controls.
func quote(s string) string {
	q := byte('"')
	if strings.IndexByte(s, '"') >= 0 {
		q = '\''
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case q, '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
