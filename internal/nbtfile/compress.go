package nbtfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the outer framing of a file. Java Edition
// stores most documents gzipped, region chunks use zlib and newer tools
// emit zstd or LZ4 frames.
type Compression uint8

const (
	None Compression = iota
	Gzip
	Zlib
	Zstd
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as printed by String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zlib":
		return Zlib, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return 0, fmt.Errorf("unknown compression %q", name)
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Sniff identifies the compression of data from its leading magic bytes.
func Sniff(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, lz4Magic):
		return LZ4
	case isZlibHeader(data):
		return Zlib
	}
	return None
}

// isZlibHeader checks the CMF/FLG pair: deflate method, a window no larger
// than 32K and a header checksum divisible by 31.
func isZlibHeader(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	cmf, flg := data[0], data[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// NewReader peeks at r and returns a reader that yields the decompressed
// stream together with the compression that was detected. The returned
// closer releases decoder resources and must be called.
func NewReader(r io.Reader) (io.Reader, Compression, io.Closer, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, None, nil, err
	}
	c := Sniff(head)
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, c, zr, nil
	case Zlib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, c, nil, fmt.Errorf("zlib: %w", err)
		}
		return zr, c, zr, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, c, closerFunc(zr.Close), nil
	case LZ4:
		return lz4.NewReader(br), c, io.NopCloser(nil), nil
	}
	return br, None, io.NopCloser(nil), nil
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// Decompress returns the payload of data and the compression it used.
func Decompress(data []byte) ([]byte, Compression, error) {
	c := Sniff(data)
	if c == None {
		return data, None, nil
	}
	r, _, closer, err := NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, c, err
	}
	defer closer.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, c, fmt.Errorf("%s: %w", c, err)
	}
	return out, c, nil
}

// Compress frames data with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	if c == None {
		return data, nil
	}
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Zlib:
		w = zlib.NewWriter(&buf)
	case Zstd:
		zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		w = zw
	case LZ4:
		w = lz4.NewWriter(&buf)
	default:
		return nil, fmt.Errorf("unsupported compression %s", c)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return buf.Bytes(), nil
}
