package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// DecompressReader wraps r with the matching decompressor when the stream
// starts with a gzip, zstd or lz4 frame magic; otherwise it returns the
// stream unchanged. The caller keeps ownership of the underlying reader.
func DecompressReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	// Short streams yield fewer than 4 bytes; prefix checks handle that.
	magic, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(magic, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("dataset: gzip reader: %w", err)
		}
		return zr, nil
	case bytes.HasPrefix(magic, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("dataset: zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case bytes.HasPrefix(magic, magicLZ4):
		return lz4.NewReader(br), nil
	default:
		return br, nil
	}
}
