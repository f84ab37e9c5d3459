// Package snbt reads and writes the textual rendering of NBT trees.
package snbt

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jmoiron/nbtedit/nbt"
)

// Unmarshal parses one SNBT tag from s. Errors are *nbt.Error values
// carrying the character offset of the offending token.
func Unmarshal(s string) (nbt.Tag, error) {
	return parse(s)
}

// Decode reads r to the end and parses it as SNBT. A leading byte order
// mark is honored, so UTF-16 files exported by some editors decode too.
func Decode(r io.Reader) (nbt.Tag, error) {
	tr := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	input, err := io.ReadAll(tr)
	if err != nil {
		return nil, fmt.Errorf("snbt: reading input: %w", err)
	}
	return parse(string(input))
}

// Encode writes t to w in compact form.
func Encode(w io.Writer, t nbt.Tag) error {
	return NewEncoder(w).Encode(t)
}

// Marshal returns the compact SNBT rendering of t.
func Marshal(t nbt.Tag) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarshalIndent returns the indented SNBT rendering of t.
func MarshalIndent(t nbt.Tag) (string, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetIndent(true)
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	return buf.String(), nil
}
