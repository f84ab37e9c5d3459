// Package nbtfile loads and saves NBT documents as they appear on disk:
// optionally compressed, in either binary edition or as SNBT text, and
// for Bedrock level.dat files behind a small header.
package nbtfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jmoiron/nbtedit/nbt"
	"github.com/jmoiron/nbtedit/snbt"
)

// Encoding is the serialized form of a document once decompressed.
type Encoding uint8

const (
	Java Encoding = iota
	Bedrock
	SNBT
)

func (e Encoding) String() string {
	switch e {
	case Java:
		return "java"
	case Bedrock:
		return "bedrock"
	case SNBT:
		return "snbt"
	}
	return fmt.Sprintf("unknown(%d)", uint8(e))
}

// ParseEncoding accepts the names printed by String plus the edition
// aliases understood by nbt.ParseFormat.
func ParseEncoding(name string) (Encoding, error) {
	if name == "snbt" || name == "text" {
		return SNBT, nil
	}
	f, err := nbt.ParseFormat(name)
	if err != nil {
		return 0, fmt.Errorf("unknown encoding %q", name)
	}
	return FromFormat(f), nil
}

// FromFormat maps a binary edition onto its Encoding.
func FromFormat(f nbt.Format) Encoding {
	if f == nbt.BedrockEdition {
		return Bedrock
	}
	return Java
}

// Format returns the binary edition of e. SNBT reports JavaEdition.
func (e Encoding) Format() nbt.Format {
	if e == Bedrock {
		return nbt.BedrockEdition
	}
	return nbt.JavaEdition
}

// headerSize is the Bedrock level.dat prefix: a little-endian storage
// version followed by the little-endian length of the document.
const headerSize = 8

// Document is a decoded file together with the framing it was read with,
// so that saving it reproduces the original layout.
type Document struct {
	Root        *nbt.Root
	Encoding    Encoding
	Compression Compression
	// Header is set for Bedrock level.dat files; Version is the storage
	// version stored in it.
	Header  bool
	Version uint32
}

// ErrNotCompound is returned for SNBT input whose top-level tag is not a
// compound.
var ErrNotCompound = errors.New("top-level tag is not a compound")

// levelHeader reports whether data starts with a Bedrock level.dat header
// and returns its storage version.
func levelHeader(data []byte) (uint32, bool) {
	if len(data) < headerSize+1 {
		return 0, false
	}
	n := binary.LittleEndian.Uint32(data[4:8])
	return binary.LittleEndian.Uint32(data[:4]), int(n) == len(data)-headerSize && data[headerSize] == byte(nbt.KindCompound)
}

// streamHeader recognizes a level.dat header when the total length is not
// known: a storage version below 256 followed by a length and a Compound
// type byte. A binary document cannot start with three zero bytes after
// its type byte unless it is empty.
func streamHeader(head []byte) bool {
	return len(head) > headerSize && head[1] == 0 && head[2] == 0 && head[3] == 0 &&
		head[headerSize] == byte(nbt.KindCompound)
}

// isText reports whether data looks like SNBT: its first non-space byte
// opens a compound or list.
func isText(data []byte) bool {
	if bytes.HasPrefix(data, []byte{0xff, 0xfe}) || bytes.HasPrefix(data, []byte{0xfe, 0xff}) {
		return true
	}
	t := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(t) > 0 && (t[0] == '{' || t[0] == '[')
}

// Read decodes a document from raw file contents, detecting compression
// and encoding.
func Read(data []byte) (*Document, error) {
	payload, c, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	doc := &Document{Compression: c}
	if isText(payload) {
		doc.Encoding = SNBT
		doc.Root, err = readText(bytes.NewReader(payload))
		return doc, err
	}
	if v, ok := levelHeader(payload); ok {
		doc.Header, doc.Version = true, v
		doc.Encoding = Bedrock
		doc.Root, err = nbt.Unmarshal(payload[headerSize:], nbt.BedrockEdition)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	doc.Root, doc.Encoding, err = decodeBinary(payload)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// decodeBinary tries the edition whose header sniffs correctly first and
// falls back to the other.
func decodeBinary(data []byte) (*nbt.Root, Encoding, error) {
	order := []nbt.Format{nbt.JavaEdition, nbt.BedrockEdition}
	if !nbt.Sniff(data, nbt.JavaEdition) && nbt.Sniff(data, nbt.BedrockEdition) {
		order[0], order[1] = order[1], order[0]
	}
	var first error
	for _, f := range order {
		root, err := nbt.Unmarshal(data, f)
		if err == nil {
			return root, FromFormat(f), nil
		}
		if first == nil {
			first = err
		}
	}
	return nil, 0, first
}

func readText(r io.Reader) (*nbt.Root, error) {
	t, err := snbt.Decode(r)
	if err != nil {
		return nil, err
	}
	c, ok := t.(*nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("%w: found %s", ErrNotCompound, t.Kind())
	}
	return &nbt.Root{Compound: *c}, nil
}

// Load reads and decodes the file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("loaded document", "path", path, "encoding", doc.Encoding,
		"compression", doc.Compression, "header", doc.Header, "size", len(data))
	return doc, nil
}

// Bytes serializes d with its encoding, header and compression.
func (d *Document) Bytes() ([]byte, error) {
	var payload []byte
	switch d.Encoding {
	case SNBT:
		root := d.Root
		if root.Name != "" {
			// SNBT has no root name; drop it rather than fail a conversion.
			root = &nbt.Root{Compound: root.Compound}
		}
		s, err := snbt.MarshalIndent(root)
		if err != nil {
			return nil, err
		}
		payload = []byte(s + "\n")
	default:
		data, err := nbt.Marshal(d.Root, d.Encoding.Format())
		if err != nil {
			return nil, err
		}
		payload = data
		if d.Header && d.Encoding == Bedrock {
			hdr := make([]byte, headerSize, headerSize+len(data))
			binary.LittleEndian.PutUint32(hdr[:4], d.Version)
			binary.LittleEndian.PutUint32(hdr[4:], uint32(len(data)))
			payload = append(hdr, data...)
		}
	}
	return Compress(payload, d.Compression)
}

// Save writes d to path.
func Save(path string, d *Document) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Debug("saved document", "path", path, "encoding", d.Encoding, "compression", d.Compression, "size", len(data))
	return nil
}

// OpenParser returns a stream parser over r without reading the whole
// document into memory. Compression is removed on the fly and a level.dat
// header is skipped. When auto is set the edition is picked by sniffing
// the document header; otherwise f is used. Close both the parser and the
// returned closer when done.
func OpenParser(r io.Reader, f nbt.Format, auto bool) (*nbt.Parser, io.Closer, error) {
	dr, _, closer, err := NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReaderSize(dr, 64<<10)
	head, err := br.Peek(headerSize + 3)
	if err != nil && !errors.Is(err, io.EOF) {
		closer.Close()
		return nil, nil, err
	}
	if streamHeader(head) {
		if _, err := br.Discard(headerSize); err != nil {
			closer.Close()
			return nil, nil, err
		}
		f, auto = nbt.BedrockEdition, false
	}
	if auto {
		buffered, _ := br.Peek(br.Buffered())
		if !nbt.Sniff(buffered, nbt.JavaEdition) && nbt.Sniff(buffered, nbt.BedrockEdition) {
			f = nbt.BedrockEdition
		} else {
			f = nbt.JavaEdition
		}
	}
	p, err := nbt.NewStreamParser(br, f)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return p, closer, nil
}
