package nbt

import "strings"

// Find descends through nested compounds along a slash separated path such
// as "Data/Player/Pos". Empty segments are ignored. It reports false when a
// segment is missing or an intermediate tag is not a compound.
func (c *Compound) Find(path string) (Tag, bool) {
	var cur Tag = c
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" {
			continue
		}
		cc := asCompound(cur)
		if cc == nil {
			return nil, false
		}
		t, ok := cc.Get(seg)
		if !ok {
			return nil, false
		}
		cur = t
	}
	return cur, true
}

// FindAs is Find restricted to tags of type T.
func FindAs[T Tag](c *Compound, path string) (T, bool) {
	var zero T
	t, ok := c.Find(path)
	if !ok {
		return zero, false
	}
	v, ok := t.(T)
	return v, ok
}

// SplitPath splits a slash separated path into its non-empty segments.
func SplitPath(path string) []string {
	var segs []string
	for seg := range strings.SplitSeq(path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
