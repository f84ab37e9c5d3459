package snbt

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmoiron/nbtedit/nbt"
)

func mustUnmarshal(t *testing.T, in string) nbt.Tag {
	t.Helper()
	v, err := Unmarshal(in)
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return v
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		in   string
		want nbt.Tag
	}{
		{"0b", nbt.Byte(0)},
		{"-128b", nbt.Byte(-128)},
		{"true", nbt.Byte(1)},
		{"false", nbt.Byte(0)},
		{"12s", nbt.Short(12)},
		{"-7S", nbt.Short(-7)},
		{"2147483647", nbt.Int(2147483647)},
		{"9000000000L", nbt.Long(9000000000)},
		{"1.5f", nbt.Float(1.5)},
		{"-0.75d", nbt.Double(-0.75)},
		{"1e3D", nbt.Double(1000)},
		{"hello", nbt.String("hello")},
		{`"a b"`, nbt.String("a b")},
		{`'say "hi"'`, nbt.String(`say "hi"`)},
		{`"esc\\ \t\n\r\""`, nbt.String("esc\\ \t\n\r\"")},
		{"[B;1b,2b]", nbt.ByteArray{1, 2}},
		{"[B; -1B ,2b]", nbt.ByteArray{0xff, 2}},
		{"[I;1,-2,3]", nbt.IntArray{1, -2, 3}},
		{"[L;5L]", nbt.LongArray{5}},
		{"[I;]", nbt.IntArray{}},
		{"[B;,1b,2b,]", nbt.ByteArray{1, 2}},
		{"[]", mustList(nbt.KindEnd)},
		{"[ ]", mustList(nbt.KindEnd)},
		{"[1,2]", nbt.Ints(1, 2)},
		{"[{}]", nbt.Compounds(nbt.NewCompound())},
		{"[[],[1b]]", mustList(nbt.KindList, mustList(nbt.KindEnd), nbt.Bytes(1))},
		{"{}", nbt.NewCompound()},
		{"{name:value,'number':42}", nbt.NewCompound().PutString("name", "value").PutInt("number", 42)},
		{"{a:{b:{c:1b}}}", nbt.NewCompound().PutCompound("a", func(c *nbt.Compound) {
			c.PutCompound("b", func(c *nbt.Compound) { c.PutByte("c", 1) })
		})},
		{"{x:1,x:2}", nbt.NewCompound().PutInt("x", 2)},
	}
	for _, tt := range tests {
		got := mustUnmarshal(t, tt.in)
		if !nbt.Equal(tt.want, got) {
			t.Errorf("parse %q: got %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func mustList(elem nbt.Kind, items ...nbt.Tag) *nbt.List {
	l, err := nbt.NewList(elem, items...)
	if err != nil {
		panic(err)
	}
	return l
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in     string
		offset int64
	}{
		{"", 0},
		{"   ", 0},
		{"['a',1]", 5},
		{"[1,'a']", 3},
		{"[B;1b,2]", 6},
		{"[I;1L]", 3},
		{"[B;'1b']", 3},
		{`"unterminated`, 0},
		{`{a:"x\`, 3},
		{`"bad\q"`, 0},
		{`{k:"ab\zc"}`, 3},
		{"['é',1]", 5},
		{"{名前:1,x:2b,x:[1,2b]}", 16},
		{"{a:1", 4},
		{"{a 1}", 3},
		{"{:1}", 1},
		{"[1,2", 4},
		{"12x", 0},
		{"300b", 0},
		{"2147483648", 0},
		{"_x", 0},
		{"{a:1};", 5},
		{"{} {}", 3},
		{"]", 0},
		{"0x10", 0},
		{"2.5", 0},
		{"1e3", 0},
		{".5", 0},
		{"[1.5,2.5]", 1},
	}
	for _, tt := range tests {
		_, err := Unmarshal(tt.in)
		if !errors.Is(err, nbt.ErrMalformed) {
			t.Errorf("parse %q: expected ErrMalformed, got %v", tt.in, err)
			continue
		}
		var e *nbt.Error
		if errors.As(err, &e) && e.Offset != tt.offset {
			t.Errorf("parse %q: offset %d, want %d (%v)", tt.in, e.Offset, tt.offset, err)
		}
	}
}

func TestUnicodeString_Parse(t *testing.T) {
	cases := []string{
		`"&6poly-α-olefin&r"`,
		`"こんにちは世界"`,
		`"αβγ"`,
	}
	for _, in := range cases {
		v := mustUnmarshal(t, in)
		s, ok := v.(nbt.String)
		if !ok {
			t.Fatalf("expected string, got %T", v)
		}
		if want := in[1 : len(in)-1]; string(s) != want {
			t.Fatalf("mismatch: got %q want %q", s, want)
		}
	}
}

func TestUnicodeInCompound(t *testing.T) {
	v := mustUnmarshal(t, `{ title: "こんにちは世界", subtitle: "αβγ", 名前: 1 }`)
	c, ok := v.(*nbt.Compound)
	if !ok {
		t.Fatalf("expected compound, got %T", v)
	}
	if s, _ := nbt.FindAs[nbt.String](c, "title"); s != "こんにちは世界" {
		t.Fatalf("title mismatch: %q", s)
	}
	if s, _ := nbt.FindAs[nbt.String](c, "subtitle"); s != "αβγ" {
		t.Fatalf("subtitle mismatch: %q", s)
	}
	if !c.Has("名前") {
		t.Fatalf("unicode key missing: %v", c.Keys())
	}
}

func TestParse_NumberThenComma(t *testing.T) {
	mustUnmarshal(t, `{ min_width: 250, shape: "hexagon" }`)
}

func TestParse_NewlineSeparatedPairs(t *testing.T) {
	for _, in := range []string{"{ a: [],\n  b: true }", "{ a: []\n  b: true }"} {
		c := mustUnmarshal(t, in).(*nbt.Compound)
		if d := cmp.Diff([]string{"a", "b"}, c.Keys()); d != "" {
			t.Errorf("%q keys (-want +got):\n%s", in, d)
		}
	}
}

func TestDecodeBOM(t *testing.T) {
	utf8BOM := append([]byte{0xef, 0xbb, 0xbf}, "{a:1}"...)
	utf16 := []byte{0xff, 0xfe}
	for _, r := range "{a:1}" {
		utf16 = append(utf16, byte(r), 0)
	}
	want := nbt.NewCompound().PutInt("a", 1)
	for _, in := range [][]byte{utf8BOM, utf16, []byte("{a:1}")} {
		got, err := Decode(bytes.NewReader(in))
		if err != nil {
			t.Fatalf("decode % x: %v", in, err)
		}
		if !nbt.Equal(want, got) {
			t.Errorf("decode % x: got %#v", in, got)
		}
	}
}

func TestQuotingChoice(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`hello "world"`, `'hello "world"'`},
		{`it's`, `"it's"`},
		{`both ' and "`, `'both \' and "'`},
		{"back\\slash\ttab\nline\r", `"back\\slash\ttab\nline\r"`},
	}
	for _, tt := range tests {
		got, err := Marshal(nbt.String(tt.in))
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Marshal(%q) = %s, want %s", tt.in, got, tt.want)
		}
		back := mustUnmarshal(t, got)
		if back != nbt.String(tt.in) {
			t.Errorf("round trip of %q gave %q", tt.in, back)
		}
	}
}

func TestMarshalCompact(t *testing.T) {
	c := nbt.NewCompound().
		PutByte("b", -1).
		PutShort("s", 2).
		PutInt("i", 3).
		PutLong("l", 4).
		PutFloat("f", 0.5).
		PutDouble("d", 1).
		PutString("name with space", "v").
		PutByteArray("ba", []byte{0xff, 1}).
		PutIntArray("ia", []int32{1, 2}).
		PutLongArray("la", []int64{7}).
		PutList("e", nbt.Strings()).
		PutCompound("c", nil)
	got, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	want := `{b:-1B,s:2S,i:3,l:4l,f:0.5F,d:1D,"name with space":"v",ba:[B;-1B,1B],ia:[I;1,2],la:[L;7L],e:[],c:{}}`
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("compact (-want +got):\n%s", d)
	}
}

func TestMarshalIndent(t *testing.T) {
	c := nbt.NewCompound().
		PutList("l", nbt.Ints(1, 2)).
		PutIntArray("ia", []int32{1, 2}).
		PutCompound("c", func(c *nbt.Compound) { c.PutString("k", "v") })
	got, err := MarshalIndent(c)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"{",
		"    l: [",
		"        1,",
		"        2",
		"    ],",
		"    ia: [I; 1, 2],",
		"    c: {",
		`        k: "v"`,
		"    }",
		"}",
	}, "\n")
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("indented (-want +got):\n%s", d)
	}
}

func TestMarshalIndentWrapsArrays(t *testing.T) {
	longs := make([]int64, 9)
	got, err := MarshalIndent(nbt.NewCompound().PutLongArray("a", longs))
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"{",
		"    a: [L;",
		"        0L, 0L, 0L, 0L,",
		"        0L, 0L, 0L, 0L,",
		"        0L",
		"    ]",
		"}",
	}, "\n")
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("wrapped (-want +got):\n%s", d)
	}
	back := mustUnmarshal(t, got)
	if v, ok := nbt.FindAs[nbt.LongArray](back.(*nbt.Compound), "a"); !ok || len(v) != 9 {
		t.Errorf("wrapped array did not read back: %v", back)
	}
}

func TestIndentCapped(t *testing.T) {
	var tag nbt.Tag = nbt.Ints(1)
	for i := 0; i < 40; i++ {
		tag = mustList(nbt.KindList, tag)
	}
	got, err := MarshalIndent(tag)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(got, "\n") {
		if n := len(line) - len(strings.TrimLeft(line, " ")); n > maxIndent {
			t.Fatalf("indent of %d exceeds %d", n, maxIndent)
		}
	}
	if !nbt.Equal(tag, mustUnmarshal(t, got)) {
		t.Errorf("deeply nested list did not round trip")
	}
}

func TestMarshalNamedRoot(t *testing.T) {
	if _, err := Marshal(nbt.NewRoot("level")); !errors.Is(err, nbt.ErrInvalidUse) {
		t.Errorf("expected ErrInvalidUse, got %v", err)
	}
	got, err := Marshal(nbt.NewRoot(""))
	if err != nil || got != "{}" {
		t.Errorf("unnamed root = %q, %v", got, err)
	}
}

type bracketStyler struct{}

func (bracketStyler) Style(c Class, s string) string {
	if c == Name {
		return "<" + s + ">"
	}
	return s
}

func TestStyler(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetStyler(bracketStyler{})
	if err := enc.Encode(nbt.NewCompound().PutInt("a", 1)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{<a>:1}" {
		t.Errorf("styled output = %q", got)
	}
}

func randText(r *rand.Rand) string {
	parts := []string{"a", "Z", "_", "0", " ", "\"", "'", "\\", "\n", "\t", "é", "世", ":", ",", "{", "]", ";"}
	var b strings.Builder
	for n := r.IntN(8); n > 0; n-- {
		b.WriteString(parts[r.IntN(len(parts))])
	}
	return b.String()
}

func randTag(r *rand.Rand, depth int) nbt.Tag {
	k := nbt.Kind(1 + r.IntN(12))
	if depth <= 0 && k.IsContainer() {
		k = nbt.KindString
	}
	return randOfKind(r, k, depth)
}

func randOfKind(r *rand.Rand, k nbt.Kind, depth int) nbt.Tag {
	switch k {
	case nbt.KindByte:
		return nbt.Byte(int8(r.Uint32()))
	case nbt.KindShort:
		return nbt.Short(int16(r.Uint32()))
	case nbt.KindInt:
		return nbt.Int(int32(r.Uint32()))
	case nbt.KindLong:
		return nbt.Long(int64(r.Uint64()))
	case nbt.KindFloat:
		f := math.Float32frombits(r.Uint32())
		if f != f {
			f = 0.25
		}
		return nbt.Float(f)
	case nbt.KindDouble:
		f := math.Float64frombits(r.Uint64())
		if f != f {
			f = -3
		}
		return nbt.Double(f)
	case nbt.KindString:
		return nbt.String(randText(r))
	case nbt.KindByteArray:
		v := make(nbt.ByteArray, r.IntN(40))
		for i := range v {
			v[i] = byte(r.Uint32())
		}
		return v
	case nbt.KindIntArray:
		v := make(nbt.IntArray, r.IntN(20))
		for i := range v {
			v[i] = int32(r.Uint32())
		}
		return v
	case nbt.KindLongArray:
		v := make(nbt.LongArray, r.IntN(10))
		for i := range v {
			v[i] = int64(r.Uint64())
		}
		return v
	case nbt.KindList:
		n := r.IntN(4)
		if n == 0 {
			return mustList(nbt.KindEnd)
		}
		elem := nbt.Kind(1 + r.IntN(12))
		if depth <= 1 && elem.IsContainer() {
			elem = nbt.KindInt
		}
		l := mustList(elem)
		for ; n > 0; n-- {
			if err := l.Append(randOfKind(r, elem, depth-1)); err != nil {
				panic(err)
			}
		}
		return l
	}
	c := nbt.NewCompound()
	for n := r.IntN(5); n > 0; n-- {
		c.Set(randText(r), randTag(r, depth-1))
	}
	return c
}

func TestTextRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 300; i++ {
		tag := randTag(r, 4)
		compact, err := Marshal(tag)
		if err != nil {
			t.Fatalf("%d: marshal: %v", i, err)
		}
		back, err := Unmarshal(compact)
		if err != nil {
			t.Fatalf("%d: parse %s: %v", i, compact, err)
		}
		if !nbt.Equal(tag, back) {
			t.Fatalf("%d: compact round trip mismatch for %s", i, compact)
		}
		again, err := Marshal(back)
		if err != nil {
			t.Fatal(err)
		}
		if again != compact {
			t.Fatalf("%d: re-serialization differs:\n%s", i, cmp.Diff(compact, again))
		}
		pretty, err := MarshalIndent(tag)
		if err != nil {
			t.Fatal(err)
		}
		back, err = Unmarshal(pretty)
		if err != nil {
			t.Fatalf("%d: parse indented %s: %v", i, pretty, err)
		}
		if !nbt.Equal(tag, back) {
			t.Fatalf("%d: indented round trip mismatch for %s", i, pretty)
		}
	}
}

func TestTokenizer(t *testing.T) {
	tz := NewTokenizer(` {a:[B; 'x\'y',1b]}`)
	var got []Token
	for {
		tok, err := tz.Next()
		if err != nil {
			break
		}
		got = append(got, tok)
	}
	want := []Token{
		{BeginCompound, "{", 1},
		{Value, "a", 2},
		{NameValueSeparator, ":", 3},
		{BeginArray, "[B;", 4},
		{Value, `'x\'y'`, 8},
		{Separator, ",", 14},
		{Value, "1b", 15},
		{EndList, "]", 17},
		{EndCompound, "}", 18},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("tokens (-want +got):\n%s", d)
	}
}
