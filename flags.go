package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/jmoiron/nbtedit/internal/nbtfile"
)

// encodingFlag is a pflag.Value selecting a document encoding. Unset
// means detect.
type encodingFlag struct {
	enc nbtfile.Encoding
	set bool
}

var _ pflag.Value = (*encodingFlag)(nil)

func (f *encodingFlag) String() string {
	if !f.set {
		return "auto"
	}
	return f.enc.String()
}

func (f *encodingFlag) Set(s string) error {
	if s == "auto" || s == "" {
		f.set = false
		return nil
	}
	e, err := nbtfile.ParseEncoding(s)
	if err != nil {
		return err
	}
	f.enc, f.set = e, true
	return nil
}

func (f *encodingFlag) Type() string { return "encoding" }

// compressionFlag is a pflag.Value selecting an output compression. Unset
// keeps the input's.
type compressionFlag struct {
	c   nbtfile.Compression
	set bool
}

var _ pflag.Value = (*compressionFlag)(nil)

func (f *compressionFlag) String() string {
	if !f.set {
		return "keep"
	}
	return f.c.String()
}

func (f *compressionFlag) Set(s string) error {
	if s == "keep" || s == "" {
		f.set = false
		return nil
	}
	c, err := nbtfile.ParseCompression(s)
	if err != nil {
		return err
	}
	f.c, f.set = c, true
	return nil
}

func (f *compressionFlag) Type() string { return "compression" }

// readDocument loads name, or standard input for "-", decoding it as
// from when that flag was given.
func readDocument(name string, stdin io.Reader, from *encodingFlag) (*nbtfile.Document, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var doc *nbtfile.Document
	if from != nil && from.set {
		doc, err = nbtfile.ReadAs(data, from.enc)
	} else {
		doc, err = nbtfile.Read(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	debugf("%s: %s, %s compression, %d bytes", name, doc.Encoding, doc.Compression, len(data))
	return doc, nil
}
