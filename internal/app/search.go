package app

import (
	"strings"

	"github.com/jmoiron/nbtedit/internal/app/mcformat"
)

// searchTerms splits a query into terms, lowercasing them unless the
// search is case sensitive.
func searchTerms(q string, caseSensitive bool) []string {
	if !caseSensitive {
		q = strings.ToLower(q)
	}
	return strings.Fields(q)
}

// matchNode reports whether all query terms appear as substrings of the
// node's name or its value with format codes removed.  Terms should be
// pre-split; case-insensitive mode lowercases the fields.
func matchNode(n *Node, terms []string, caseSensitive bool) bool {
	if len(terms) == 0 {
		return false
	}
	name := n.Name
	value := n.Value
	if n.IsText {
		value = mcformat.Strip(value)
	}
	if !caseSensitive {
		name = strings.ToLower(name)
		value = strings.ToLower(value)
	}
	for _, term := range terms {
		if !strings.Contains(name, term) && !strings.Contains(value, term) {
			return false
		}
	}
	return true
}
