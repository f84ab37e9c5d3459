package nbt

import (
	"iter"
	"slices"
)

// Compound maps string keys to tags. Keys are unique and iteration follows
// insertion order; re-setting an existing key keeps its position.
type Compound struct {
	keys  []string
	items map[string]Tag
}

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{items: make(map[string]Tag)}
}

func (*Compound) Kind() Kind { return KindCompound }

// Clone returns a deep copy of c and all of its children.
func (c *Compound) Clone() Tag { return c.clone() }

func (c *Compound) clone() *Compound {
	out := &Compound{
		keys:  slices.Clone(c.keys),
		items: make(map[string]Tag, len(c.items)),
	}
	for k, v := range c.items {
		out.items[k] = v.Clone()
	}
	return out
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.keys) }

// Get returns the tag stored under key.
func (c *Compound) Get(key string) (Tag, bool) {
	t, ok := c.items[key]
	return t, ok
}

// Has reports whether key is present.
func (c *Compound) Has(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Set stores t under key, replacing any previous value. Set panics if t is
// nil.
func (c *Compound) Set(key string, t Tag) {
	if t == nil {
		panic("nbt: Compound.Set with nil tag")
	}
	if c.items == nil {
		c.items = make(map[string]Tag)
	}
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.items[key] = t
}

// Delete removes key and reports whether it was present.
func (c *Compound) Delete(key string) bool {
	if _, ok := c.items[key]; !ok {
		return false
	}
	delete(c.items, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
	return true
}

// Clear removes every entry.
func (c *Compound) Clear() {
	c.keys = c.keys[:0]
	clear(c.items)
}

// Keys returns the keys in iteration order.
func (c *Compound) Keys() []string { return slices.Clone(c.keys) }

// All iterates over the entries in insertion order.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		for _, k := range c.keys {
			if !yield(k, c.items[k]) {
				return
			}
		}
	}
}

// Root is the top-level compound of a binary document. Name is the document
// name stored in the binary header; SNBT has no place for it and requires it
// to be empty.
type Root struct {
	Compound
	Name string
}

// NewRoot returns an empty root with the given name.
func NewRoot(name string) *Root {
	return &Root{Compound: Compound{items: make(map[string]Tag)}, Name: name}
}

// Clone returns a deep copy of r, name included.
func (r *Root) Clone() Tag {
	return &Root{Compound: *r.Compound.clone(), Name: r.Name}
}

// AsCompound returns the document body as a plain compound sharing r's
// entries.
func (r *Root) AsCompound() *Compound { return &r.Compound }
