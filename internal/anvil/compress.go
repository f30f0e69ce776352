package anvil

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
)

const (
	schemeGzip byte = 1
	schemeZlib byte = 2
)

func decompressGzip(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("anvil: gzip decode: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("anvil: gzip decode: %w", err)
	}
	return out, nil
}

func decompressZlib(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("anvil: zlib decode: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("anvil: zlib decode: %w", err)
	}
	return out, nil
}

// compressZlib is the only compressor the write path uses — the write
// policy always chooses zlib even though the read path accepts gzip too.
func compressZlib(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, fmt.Errorf("anvil: zlib encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("anvil: zlib encode: %w", err)
	}
	return buf.Bytes(), nil
}
