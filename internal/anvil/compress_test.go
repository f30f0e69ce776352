package anvil

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"testing"
)

// TestReadChunkAcceptsGzip exercises the read-path asymmetry: writes
// always use zlib, but reads accept gzip-encoded slabs too.
func TestReadChunkAcceptsGzip(t *testing.T) {
	src := NewMemSource(make([]byte, HeaderSize))

	payload := []byte("gzip payload")
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(payload)
	gw.Close()

	scratch := append([]byte{schemeGzip}, gz.Bytes()...)
	if err := src.ExtendLen(HeaderSize + SectorSize); err != nil {
		t.Fatalf("ExtendLen: %v", err)
	}

	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(scratch)))
	src.WriteAt(lenBuf, HeaderSize)
	src.WriteAt(scratch, HeaderSize+4)

	if err := writeSlotMeta(src, SlotIndex(0, 0), SlotMeta{StartSector: 2, SectorCount: 1, LastModified: 1}); err != nil {
		t.Fatalf("writeSlotMeta: %v", err)
	}

	r, err := Load(0, 0, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := r.ReadChunk(0, 0)
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("ReadChunk = %q, want %q", got, payload)
	}
}

func TestReadChunkUnsupportedScheme(t *testing.T) {
	src := NewMemSource(make([]byte, HeaderSize+SectorSize))

	scratch := []byte{99, 'x', 'y', 'z'}
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(scratch)))
	src.WriteAt(lenBuf, HeaderSize)
	src.WriteAt(scratch, HeaderSize+4)

	if err := writeSlotMeta(src, SlotIndex(0, 0), SlotMeta{StartSector: 2, SectorCount: 1, LastModified: 1}); err != nil {
		t.Fatalf("writeSlotMeta: %v", err)
	}

	r, err := Load(0, 0, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = r.ReadChunk(0, 0)
	var unsupported *UnsupportedCompressionSchemeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("ReadChunk err = %v, want *UnsupportedCompressionSchemeError", err)
	}
	if unsupported.Scheme != 99 {
		t.Fatalf("Scheme = %d, want 99", unsupported.Scheme)
	}
}

func TestReadChunkLengthExceedsMaximum(t *testing.T) {
	src := NewMemSource(make([]byte, HeaderSize+SectorSize))

	// Declare a length far larger than the single allotted sector.
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(SectorSize*4))
	src.WriteAt(lenBuf, HeaderSize)

	if err := writeSlotMeta(src, SlotIndex(0, 0), SlotMeta{StartSector: 2, SectorCount: 1, LastModified: 1}); err != nil {
		t.Fatalf("writeSlotMeta: %v", err)
	}

	r, err := Load(0, 0, src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = r.ReadChunk(0, 0)
	var tooLarge *LengthExceedsMaximumError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("ReadChunk err = %v, want *LengthExceedsMaximumError", err)
	}
}
