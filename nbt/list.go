package nbt

import (
	"iter"
	"slices"
)

// List is an ordered sequence of tags sharing one item kind. The item kind
// is fixed when the list is created; an empty list read from text has item
// kind KindEnd.
type List struct {
	elem  Kind
	items []Tag
}

// NewList returns a list of the given item kind holding items. It fails
// with ErrInvalidUse if any item is of a different kind.
func NewList(elem Kind, items ...Tag) (*List, error) {
	l := &List{elem: elem, items: make([]Tag, 0, len(items))}
	for _, t := range items {
		if err := l.Append(t); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (*List) Kind() Kind { return KindList }

// Clone returns a deep copy of l and its items.
func (l *List) Clone() Tag {
	out := &List{elem: l.elem, items: make([]Tag, len(l.items))}
	for i, t := range l.items {
		out.items[i] = t.Clone()
	}
	return out
}

// ElemKind returns the declared item kind.
func (l *List) ElemKind() Kind { return l.elem }

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// At returns the i'th item.
func (l *List) At(i int) Tag { return l.items[i] }

func (l *List) check(t Tag) error {
	if t == nil {
		return invalidUse("nil tag in list of %s", l.elem)
	}
	if t.Kind() != l.elem {
		return invalidUse("cannot add item of kind %s to list of %s", t.Kind(), l.elem)
	}
	return nil
}

// Set replaces the i'th item.
func (l *List) Set(i int, t Tag) error {
	if err := l.check(t); err != nil {
		return err
	}
	l.items[i] = t
	return nil
}

// Append adds t to the end of the list.
func (l *List) Append(t Tag) error {
	if err := l.check(t); err != nil {
		return err
	}
	l.items = append(l.items, t)
	return nil
}

// Insert places t at index i, shifting later items.
func (l *List) Insert(i int, t Tag) error {
	if err := l.check(t); err != nil {
		return err
	}
	l.items = slices.Insert(l.items, i, t)
	return nil
}

// RemoveAt deletes the i'th item.
func (l *List) RemoveAt(i int) {
	l.items = slices.Delete(l.items, i, i+1)
}

// Clear removes all items; the item kind is unchanged.
func (l *List) Clear() { l.items = l.items[:0] }

// All iterates over the items in order.
func (l *List) All() iter.Seq2[int, Tag] {
	return func(yield func(int, Tag) bool) {
		for i, t := range l.items {
			if !yield(i, t) {
				return
			}
		}
	}
}
