package nbtfile

import (
	"bytes"
	"io"

	"github.com/jmoiron/nbtedit/nbt"
)

// ReadAs decodes data as encoding e instead of detecting it. Compression
// is still sniffed.
func ReadAs(data []byte, e Encoding) (*Document, error) {
	payload, c, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	doc := &Document{Compression: c, Encoding: e}
	switch e {
	case SNBT:
		doc.Root, err = readText(bytes.NewReader(payload))
	case Bedrock:
		if v, ok := levelHeader(payload); ok {
			doc.Header, doc.Version = true, v
			payload = payload[headerSize:]
		}
		doc.Root, err = nbt.Unmarshal(payload, nbt.BedrockEdition)
	default:
		doc.Root, err = nbt.Unmarshal(payload, nbt.JavaEdition)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Lookup streams the document in r and decodes only the tag found along
// segs, skipping everything else. It reports false when the path does not
// exist. The edition is chosen as by OpenParser.
func Lookup(r io.Reader, f nbt.Format, auto bool, segs []string) (nbt.Tag, bool, error) {
	p, closer, err := OpenParser(r, f, auto)
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	defer p.Close()
	return lookup(p, segs)
}

// Lookup finds segs in an already decoded document by walking its
// serialized form with a memory parser.
func (d *Document) Lookup(segs []string) (nbt.Tag, bool, error) {
	data, err := nbt.Marshal(d.Root, nbt.JavaEdition)
	if err != nil {
		return nil, false, err
	}
	p, err := nbt.NewMemoryParser(data, nbt.JavaEdition)
	if err != nil {
		return nil, false, err
	}
	defer p.Close()
	return lookup(p, segs)
}

func lookup(p *nbt.Parser, segs []string) (nbt.Tag, bool, error) {
	ok, err := nbt.Seek(p, segs)
	if err != nil || !ok {
		return nil, false, err
	}
	t, err := nbt.DecodeCurrent(p)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}
