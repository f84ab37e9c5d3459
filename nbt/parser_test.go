package nbt

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type visit struct {
	path string
	kind Kind
}

// walk records every node reached, entering containers for which descend
// returns true and letting NextSibling skip the others.
func walk(t *testing.T, p *Parser, path string, descend func(string) bool, out *[]visit) {
	t.Helper()
	if err := p.BeginChildren(); err != nil {
		t.Fatalf("%s: BeginChildren: %v", path, err)
	}
	for i := 0; ; i++ {
		ok, err := p.NextSibling()
		if err != nil {
			t.Fatalf("%s: NextSibling: %v", path, err)
		}
		if !ok {
			return
		}
		child := path + "/#" + strconv.Itoa(i)
		if p.HasName() {
			child = path + "/" + p.Name()
		}
		*out = append(*out, visit{child, p.Kind()})
		if p.Kind().IsContainer() && descend(child) {
			walk(t, p, child, descend, out)
		}
	}
}

func parentOf(path string) string {
	i := len(path) - 1
	for path[i] != '/' {
		i--
	}
	return path[:i]
}

func TestSkipEquivalence(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 100; i++ {
		data, err := Marshal(randTree(r, 6), JavaEdition)
		if err != nil {
			t.Fatal(err)
		}
		p, err := NewMemoryParser(data, JavaEdition)
		if err != nil {
			t.Fatal(err)
		}
		var full []visit
		walk(t, p, "", func(string) bool { return true }, &full)
		p.Close()

		selective := func(path string) bool { return len(path)%3 != 0 }
		for _, stream := range []bool{false, true} {
			var p *Parser
			if stream {
				p, err = NewStreamParser(bytes.NewReader(data), JavaEdition)
			} else {
				p, err = NewMemoryParser(data, JavaEdition)
			}
			if err != nil {
				t.Fatal(err)
			}
			var got []visit
			walk(t, p, "", selective, &got)
			if p.Offset() != int64(len(data)) {
				t.Errorf("%d: offset after walk = %d, want %d", i, p.Offset(), len(data))
			}
			p.Close()

			entered := map[string]bool{"": true}
			var want []visit
			for _, v := range full {
				parent := parentOf(v.path)
				if !entered[parent] {
					continue
				}
				want = append(want, v)
				if v.kind.IsContainer() && selective(v.path) {
					entered[v.path] = true
				}
			}
			if d := cmp.Diff(want, got, cmp.AllowUnexported(visit{})); d != "" {
				t.Fatalf("%d (stream=%v): skipped walk differs (-want +got):\n%s", i, stream, d)
			}
		}
	}
}

func TestSkipDeepNesting(t *testing.T) {
	const depth = 20000
	inner := &List{elem: KindEnd}
	for i := 0; i < depth; i++ {
		inner = &List{elem: KindList, items: []Tag{inner}}
	}
	doc := NewRoot("")
	doc.Set("deep", inner)
	doc.PutString("after", "here")
	data, err := Marshal(doc, BedrockEdition)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewMemoryParser(data, BedrockEdition)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.BeginChildren(); err != nil {
		t.Fatal(err)
	}
	var names []string
	for {
		ok, err := p.NextSibling()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		names = append(names, p.Name())
	}
	if d := cmp.Diff([]string{"deep", "after"}, names); d != "" {
		t.Errorf("names (-want +got):\n%s", d)
	}
	if p.Depth() != 0 {
		t.Errorf("depth after walk = %d", p.Depth())
	}
}

// find runs a sparse query for path using NameEquals only.
func find(p *Parser, path ...string) (bool, error) {
	for _, seg := range path {
		want := []byte(seg)
		if err := p.BeginChildren(); err != nil {
			return false, err
		}
		found := false
		for !found {
			ok, err := p.NextSibling()
			if err != nil || !ok {
				return false, err
			}
			found = p.NameEquals(want)
		}
	}
	return true, nil
}

func TestSparseQuery(t *testing.T) {
	doc := NewRoot("")
	doc.PutString("Version", "1.20").
		PutCompound("Data", func(c *Compound) {
			c.PutList("Junk", Longs(1, 2, 3)).
				PutCompound("Player", func(c *Compound) {
					c.PutFloat("Health", 20).PutIntArray("UUID", []int32{1, 2, 3, 4})
				})
		})
	data, err := Marshal(doc, JavaEdition)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewMemoryParser(data, JavaEdition)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	ok, err := find(p, "Data", "Player", "UUID")
	if err != nil || !ok {
		t.Fatalf("find: %v %v", ok, err)
	}
	if p.Depth() != 3 {
		t.Errorf("depth = %d, want 3", p.Depth())
	}
	got := make([]int32, p.ArrayLen())
	if err := p.GetIntArray(got); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int32{1, 2, 3, 4}, got); d != "" {
		t.Errorf("UUID (-want +got):\n%s", d)
	}
	if err := p.GetIntArray(make([]int32, 3)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}

	if err := p.Reset(data, JavaEdition); err != nil {
		t.Fatal(err)
	}
	ok, err = find(p, "Data", "Missing")
	if err != nil || ok {
		t.Fatalf("find missing: %v %v", ok, err)
	}
}

func TestParserInvalidUse(t *testing.T) {
	doc := NewRoot("").PutInt("i", 5).PutString("s", "str")
	data, err := Marshal(doc, JavaEdition)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewMemoryParser(data, JavaEdition)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if _, err := p.NextSibling(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("NextSibling before BeginChildren: %v", err)
	}
	if err := p.BeginRoot(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("second BeginRoot: %v", err)
	}
	if err := p.BeginChildren(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.GetInt(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("getter before first sibling: %v", err)
	}
	if ok, err := p.NextSibling(); !ok || err != nil {
		t.Fatalf("NextSibling: %v %v", ok, err)
	}
	if err := p.BeginChildren(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("BeginChildren on Int: %v", err)
	}
	if _, err := p.GetString(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("GetString on Int: %v", err)
	}
	if v, err := p.GetInt(); err != nil || v != 5 {
		t.Errorf("GetInt = %d, %v", v, err)
	}
	if ok, err := p.NextSibling(); !ok || err != nil {
		t.Fatalf("NextSibling: %v %v", ok, err)
	}
	if s, err := p.GetAsString(); err != nil || s != "str" {
		t.Errorf("GetAsString = %q, %v", s, err)
	}
	if ok, err := p.NextSibling(); ok || err != nil {
		t.Fatalf("expected end of root, got %v %v", ok, err)
	}
	if err := p.BeginChildren(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("re-entering root: %v", err)
	}
	p.Close()
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := p.NextSibling(); !errors.Is(err, ErrInvalidUse) {
		t.Errorf("NextSibling after Close: %v", err)
	}
}

func TestGetAsString(t *testing.T) {
	doc := NewRoot("")
	doc.PutByte("b", -3).PutShort("s", 300).PutLong("l", -1<<40).
		PutFloat("f", 0.1).PutDouble("d", 2.5)
	want := map[string]string{"b": "-3", "s": "300", "l": "-1099511627776", "f": "0.1", "d": "2.5"}
	for _, f := range formats {
		data, err := Marshal(doc, f)
		if err != nil {
			t.Fatal(err)
		}
		p, err := NewStreamParser(bytes.NewReader(data), f)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.BeginChildren(); err != nil {
			t.Fatal(err)
		}
		got := map[string]string{}
		for {
			ok, err := p.NextSibling()
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				break
			}
			s, err := p.GetAsString()
			if err != nil {
				t.Fatal(err)
			}
			got[p.Name()] = s
		}
		p.Close()
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%s (-want +got):\n%s", f, d)
		}
	}
}

func ExampleParser_NameEquals() {
	doc := NewRoot("")
	doc.PutString("id", "minecraft:diamond").PutByte("Count", 3)
	data, _ := Marshal(doc, JavaEdition)

	p, _ := NewMemoryParser(data, JavaEdition)
	defer p.Close()
	p.BeginChildren()
	for {
		ok, _ := p.NextSibling()
		if !ok {
			break
		}
		if p.NameEquals([]byte("Count")) {
			n, _ := p.GetByte()
			fmt.Println(n)
		}
	}
	// Output: 3
}

func TestSeek(t *testing.T) {
	doc := NewRoot("")
	doc.PutList("Inventory", Compounds(
		NewCompound().PutString("id", "minecraft:dirt"),
		NewCompound().PutString("id", "minecraft:torch").PutByte("Count", 12),
	)).PutCompound("Data", func(c *Compound) { c.PutInt("Version", 3) })
	data, err := Marshal(doc, BedrockEdition)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path []string
		want Tag
	}{
		{[]string{"Inventory", "1", "Count"}, Byte(12)},
		{[]string{"Data", "Version"}, Int(3)},
		{[]string{"Data"}, NewCompound().PutInt("Version", 3)},
		{[]string{"Inventory", "2"}, nil},
		{[]string{"Inventory", "x"}, nil},
		{[]string{"Data", "Version", "deeper"}, nil},
		{[]string{"Missing"}, nil},
	}
	for _, tt := range tests {
		p, err := NewMemoryParser(data, BedrockEdition)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := Seek(p, tt.path)
		if err != nil {
			t.Fatalf("%v: %v", tt.path, err)
		}
		if ok != (tt.want != nil) {
			t.Fatalf("%v: found = %v", tt.path, ok)
		}
		if ok {
			got, err := DecodeCurrent(p)
			if err != nil {
				t.Fatalf("%v: decode: %v", tt.path, err)
			}
			if !Equal(tt.want, got) {
				t.Errorf("%v: got %#v, want %#v", tt.path, got, tt.want)
			}
		}
		p.Close()
	}
}

func TestContainerNameAfterChildren(t *testing.T) {
	doc := NewRoot("")
	doc.PutCompound("outer", func(c *Compound) { c.PutInt("longer child name", 1) })
	data, err := Marshal(doc, JavaEdition)
	if err != nil {
		t.Fatal(err)
	}
	open := map[string]func() (*Parser, error){
		"memory": func() (*Parser, error) { return NewMemoryParser(data, JavaEdition) },
		"stream": func() (*Parser, error) { return NewStreamParser(bytes.NewReader(data), JavaEdition) },
	}
	for name, newParser := range open {
		t.Run(name, func(t *testing.T) {
			p, err := newParser()
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()
			if err := p.BeginChildren(); err != nil {
				t.Fatal(err)
			}
			if ok, err := p.NextSibling(); !ok || err != nil {
				t.Fatalf("outer: %v %v", ok, err)
			}
			if err := p.BeginChildren(); err != nil {
				t.Fatal(err)
			}
			if ok, err := p.NextSibling(); !ok || err != nil {
				t.Fatalf("child: %v %v", ok, err)
			}
			if got := p.Name(); got != "longer child name" {
				t.Errorf("child name = %q", got)
			}
			if ok, err := p.NextSibling(); ok || err != nil {
				t.Fatalf("end of outer: %v %v", ok, err)
			}
			if got := p.Name(); got != "outer" {
				t.Errorf("container name after children = %q, want outer", got)
			}
		})
	}
}
