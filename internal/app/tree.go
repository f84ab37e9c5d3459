package app

import (
	"strconv"
	"strings"

	"github.com/jmoiron/nbtedit/nbt"
	"github.com/jmoiron/nbtedit/snbt"
)

// arrayPreview is the number of array elements shown in the tree view.
const arrayPreview = 8

// Node is the view model of one tag in the tree view.
type Node struct {
	Name string
	// Path is the slash separated query path of the tag; list items use
	// their index.
	Path string
	Kind nbt.Kind
	// Value is the rendered scalar or array preview; strings are kept raw
	// so the template can apply formatting codes.
	Value    string
	IsText   bool
	Count    int
	Children []*Node
	// Match is set on nodes that matched a search.
	Match bool
}

// IsContainer reports whether n has children in the view.
func (n *Node) IsContainer() bool { return n.Kind.IsContainer() }

func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}

// buildTree converts a tag into view nodes.
func buildTree(name, p string, t nbt.Tag) *Node {
	n := &Node{Name: name, Path: p, Kind: t.Kind()}
	switch v := t.(type) {
	case *nbt.Root:
		return buildTree(name, p, v.AsCompound())
	case *nbt.Compound:
		n.Count = v.Len()
		for k, child := range v.All() {
			n.Children = append(n.Children, buildTree(k, joinPath(p, k), child))
		}
	case *nbt.List:
		n.Count = v.Len()
		for i, child := range v.All() {
			idx := strconv.Itoa(i)
			n.Children = append(n.Children, buildTree("["+idx+"]", joinPath(p, idx), child))
		}
	case nbt.String:
		n.Value, n.IsText = string(v), true
	case nbt.ByteArray:
		n.Count = len(v)
		n.Value = arraySummary(v[:min(len(v), arrayPreview)].Clone(), len(v))
	case nbt.IntArray:
		n.Count = len(v)
		n.Value = arraySummary(v[:min(len(v), arrayPreview)].Clone(), len(v))
	case nbt.LongArray:
		n.Count = len(v)
		n.Value = arraySummary(v[:min(len(v), arrayPreview)].Clone(), len(v))
	default:
		n.Value, _ = snbt.Marshal(t)
	}
	return n
}

// arraySummary renders the leading elements of an array, noting how many
// were left out.
func arraySummary(head nbt.Tag, total int) string {
	s, _ := snbt.Marshal(head)
	if rest := total - arrayPreview; rest > 0 {
		s = strings.TrimSuffix(s, "]") + ",… +" + strconv.Itoa(rest) + "]"
	}
	return s
}

// filter keeps the nodes that match terms and their ancestors. It reports
// whether anything under n survived.
func (n *Node) filter(terms []string, caseSensitive bool) bool {
	n.Match = matchNode(n, terms, caseSensitive)
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.filter(terms, caseSensitive) {
			kept = append(kept, c)
		}
	}
	n.Children = kept
	return n.Match || len(kept) > 0
}

// countMatches returns the number of matching nodes under and including n.
func (n *Node) countMatches() int {
	total := 0
	if n.Match {
		total++
	}
	for _, c := range n.Children {
		total += c.countMatches()
	}
	return total
}
