package nbt

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"runtime"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var formats = []Format{JavaEdition, BedrockEdition}

// randTree builds a pseudo-random document using every kind.
func randTree(r *rand.Rand, depth int) *Root {
	root := NewRoot("")
	fillCompound(r, &root.Compound, depth)
	return root
}

func fillCompound(r *rand.Rand, c *Compound, depth int) {
	n := r.IntN(6)
	for i := 0; i < n; i++ {
		c.Set(randName(r, i), randTag(r, depth))
	}
}

func randName(r *rand.Rand, i int) string {
	names := []string{"", "id", "Count", "pos x", "名前", "ünïcode", "a:b", "quote\"d"}
	return names[r.IntN(len(names))] + strconv.Itoa(i)
}

func randKind(r *rand.Rand, depth int) Kind {
	if depth <= 0 {
		// no containers at the bottom
		for {
			k := Kind(1 + r.IntN(12))
			if !k.IsContainer() {
				return k
			}
		}
	}
	return Kind(1 + r.IntN(12))
}

func randTag(r *rand.Rand, depth int) Tag {
	return randOfKind(r, randKind(r, depth), depth)
}

func randOfKind(r *rand.Rand, k Kind, depth int) Tag {
	switch k {
	case KindByte:
		return Byte(int8(r.Uint32()))
	case KindShort:
		return Short(int16(r.Uint32()))
	case KindInt:
		return Int(int32(r.Uint32()))
	case KindLong:
		return Long(int64(r.Uint64()))
	case KindFloat:
		return Float(math.Float32frombits(r.Uint32()))
	case KindDouble:
		return Double(math.Float64frombits(r.Uint64()))
	case KindString:
		return String(randName(r, r.IntN(100)))
	case KindByteArray:
		v := make(ByteArray, r.IntN(40))
		for i := range v {
			v[i] = byte(r.Uint32())
		}
		return v
	case KindIntArray:
		v := make(IntArray, r.IntN(20))
		for i := range v {
			v[i] = int32(r.Uint32())
		}
		return v
	case KindLongArray:
		v := make(LongArray, r.IntN(10))
		for i := range v {
			v[i] = int64(r.Uint64())
		}
		return v
	case KindList:
		n := r.IntN(5)
		if n == 0 {
			return &List{elem: KindEnd}
		}
		elem := randKind(r, depth-1)
		l := &List{elem: elem}
		for i := 0; i < n; i++ {
			l.items = append(l.items, randOfKind(r, elem, depth-1))
		}
		return l
	case KindCompound:
		c := NewCompound()
		fillCompound(r, c, depth-1)
		return c
	}
	panic("unreachable")
}

func TestBinaryRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		doc := randTree(r, 4)
		for _, f := range formats {
			data, err := Marshal(doc, f)
			if err != nil {
				t.Fatalf("%d/%s: marshal: %v", i, f, err)
			}
			got, err := Unmarshal(data, f)
			if err != nil {
				t.Fatalf("%d/%s: unmarshal: %v", i, f, err)
			}
			if !Equal(doc, got) {
				t.Fatalf("%d/%s: round trip mismatch", i, f)
			}
			again, err := Marshal(got, f)
			if err != nil {
				t.Fatalf("%d/%s: re-marshal: %v", i, f, err)
			}
			if !bytes.Equal(data, again) {
				t.Fatalf("%d/%s: re-marshal differs:\n%s", i, f, cmp.Diff(data, again))
			}
		}
	}
}

func TestStreamMatchesMemory(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 50; i++ {
		doc := randTree(r, 5)
		doc.Name = "level"
		for _, f := range formats {
			data, err := Marshal(doc, f)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			got, err := Decode(bytes.NewReader(data), f)
			if err != nil {
				t.Fatalf("%d/%s: decode: %v", i, f, err)
			}
			if !Equal(doc, got) {
				t.Fatalf("%d/%s: stream decode mismatch", i, f)
			}
		}
	}
}

func TestEndianness(t *testing.T) {
	doc := NewRoot("")
	doc.PutInt("a", 1)
	tests := []struct {
		f    Format
		want []byte
	}{
		{JavaEdition, []byte{10, 0, 0, 3, 0, 1, 'a', 0, 0, 0, 1, 0}},
		{BedrockEdition, []byte{10, 0, 0, 3, 1, 0, 'a', 1, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := Marshal(doc, tt.f)
		if err != nil {
			t.Fatalf("%s: %v", tt.f, err)
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Errorf("%s: bytes mismatch (-want +got):\n%s", tt.f, d)
		}
	}
}

func TestFloatPayload(t *testing.T) {
	doc := NewRoot("")
	doc.PutFloat("f", 1.5)
	got, err := Marshal(doc, JavaEdition)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 0, 0, 5, 0, 1, 'f', 0x3f, 0xc0, 0, 0, 0}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("float bytes (-want +got):\n%s", d)
	}
}

func TestRootName(t *testing.T) {
	doc := NewRoot("hello")
	data, err := Marshal(doc, BedrockEdition)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data, BedrockEdition)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "hello" {
		t.Errorf("root name = %q, want hello", got.Name)
	}
}

func TestEncodeRejectsNonCompound(t *testing.T) {
	_, err := Marshal(Int(1), JavaEdition)
	if !errors.Is(err, ErrInvalidUse) {
		t.Fatalf("expected ErrInvalidUse, got %v", err)
	}
	long := NewCompound().PutString("s", string(make([]byte, 70000)))
	if _, err := Marshal(long, JavaEdition); !errors.Is(err, ErrInvalidUse) {
		t.Fatalf("expected ErrInvalidUse for long string, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     []byte
		kind   error
		offset int64
	}{
		{"empty", nil, ErrEndOfInput, 0},
		{"root not compound", []byte{3, 0, 0, 0, 0, 0, 1}, ErrMalformed, 0},
		{"root name truncated", []byte{10, 0, 5, 'a'}, ErrMalformed, 3},
		{"unknown type", []byte{10, 0, 0, 13, 0, 0}, ErrMalformed, 3},
		{"truncated int", []byte{10, 0, 0, 3, 0, 1, 'a', 0, 0}, ErrEndOfInput, 7},
		{"truncated string", []byte{10, 0, 0, 8, 0, 1, 's', 0, 10, 'x', 'y'}, ErrMalformed, 9},
		{"negative array", []byte{10, 0, 0, 11, 0, 0, 0xff, 0xff, 0xff, 0xff}, ErrMalformed, 6},
		{"array past end", []byte{10, 0, 0, 7, 0, 0, 0, 0, 0, 9, 1, 2}, ErrMalformed, 10},
		{"list of end with items", []byte{10, 0, 0, 9, 0, 0, 0, 0, 0, 0, 2}, ErrMalformed, 6},
		{"missing end", []byte{10, 0, 0, 1, 0, 0, 7}, ErrEndOfInput, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.in, JavaEdition)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", e.Offset, tt.offset)
			}
			if _, err := Decode(bytes.NewReader(tt.in), JavaEdition); !errors.Is(err, tt.kind) {
				t.Errorf("stream: expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestDecodeHugeCountAllocation(t *testing.T) {
	// LongArray declaring 1<<25 elements followed by three payload bytes.
	in := []byte{10, 0, 0, 12, 0, 0, 0x02, 0, 0, 0, 1, 2, 3}
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Decode(bytes.NewReader(in), JavaEdition)
	runtime.ReadMemStats(&after)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if got := after.TotalAlloc - before.TotalAlloc; got > 1<<20 {
		t.Errorf("decoding a truncated array allocated %d bytes", got)
	}
}

func TestSniff(t *testing.T) {
	data, err := Marshal(NewRoot("name"), BedrockEdition)
	if err != nil {
		t.Fatal(err)
	}
	if !Sniff(data, BedrockEdition) {
		t.Errorf("bedrock document not sniffed as bedrock")
	}
	if Sniff(data, JavaEdition) {
		t.Errorf("bedrock document sniffed as java")
	}
	if Sniff([]byte("{a:1}"), JavaEdition) {
		t.Errorf("text sniffed as binary")
	}
}
