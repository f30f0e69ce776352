package nbt

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
)

// ReadGzip decompresses a gzip-framed NBT stream and parses its root
// compound tag.
func ReadGzip(compressed []byte) (Compound, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("nbt: gzip decode: %w", err)
	}
	defer zr.Close()
	return readRootCompound(zr)
}

// ReadZlib decompresses a zlib-framed NBT stream and parses its root
// compound tag.
func ReadZlib(compressed []byte) (Compound, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("nbt: zlib decode: %w", err)
	}
	defer zr.Close()
	return readRootCompound(zr)
}

// WriteZlib serializes compound as a root compound tag and emits it as
// a zlib stream, written to w.
func WriteZlib(w io.Writer, compound Compound) error {
	zw := zlib.NewWriter(w)
	nw := NewWriter(zw)
	if err := nw.WriteTag(&Tag{Type: TagCompound, Name: "", Value: compound}); err != nil {
		zw.Close()
		return fmt.Errorf("nbt: zlib encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("nbt: zlib encode: %w", err)
	}
	return nil
}

func readRootCompound(r io.Reader) (Compound, error) {
	tag, err := NewReader(r).ReadTag()
	if err != nil {
		return nil, fmt.Errorf("nbt: read root tag: %w", err)
	}
	if tag.Type != TagCompound {
		return nil, fmt.Errorf("%w: root tag is type %d, not compound", ErrInvalidTag, tag.Type)
	}
	compound, ok := tag.Value.(Compound)
	if !ok {
		return nil, fmt.Errorf("%w: root compound value has wrong type", ErrInvalidTag)
	}
	return compound, nil
}
