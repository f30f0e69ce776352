package anvil

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestMemSourceReadWrite(t *testing.T) {
	s := NewMemSource(nil)

	if _, err := s.WriteAt([]byte("hello"), 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	length, err := s.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != 15 {
		t.Fatalf("Len() = %d, want 15", length)
	}

	buf := make([]byte, 5)
	if _, err := s.ReadAt(buf, 10); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "hello" {
		t.Fatalf("ReadAt = %q, want %q", buf, "hello")
	}

	buf = make([]byte, 10)
	if _, err := s.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt leading zeros: %v", err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestMemSourceReadAtEOF(t *testing.T) {
	s := NewMemSource([]byte("abc"))
	buf := make([]byte, 10)
	n, err := s.ReadAt(buf, 0)
	if err != io.EOF {
		t.Fatalf("ReadAt past end: err = %v, want io.EOF", err)
	}
	if n != 3 {
		t.Fatalf("ReadAt short read n = %d, want 3", n)
	}
}

func TestMemSourceExtendLen(t *testing.T) {
	s := NewMemSource([]byte("abc"))
	if err := s.ExtendLen(6); err != nil {
		t.Fatalf("ExtendLen: %v", err)
	}
	length, _ := s.Len()
	if length != 6 {
		t.Fatalf("Len() after extend = %d, want 6", length)
	}

	// Shrinking is not required: extending to a smaller length is a no-op.
	if err := s.ExtendLen(2); err != nil {
		t.Fatalf("ExtendLen (no-op): %v", err)
	}
	length, _ = s.Len()
	if length != 6 {
		t.Fatalf("Len() after no-op extend = %d, want 6", length)
	}
}

func TestFileSourceLenRestoresCursor(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "r.0.0.mca"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(make([]byte, 100)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := f.Seek(42, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	src := NewFileSource(f)
	length, err := src.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != 100 {
		t.Fatalf("Len() = %d, want 100", length)
	}

	cur, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("Seek current: %v", err)
	}
	if cur != 42 {
		t.Fatalf("cursor after Len() = %d, want 42 (unchanged)", cur)
	}
}

func TestFileSourceExtendLen(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "r.0.0.mca"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	src := NewFileSource(f)
	if err := src.ExtendLen(HeaderSize); err != nil {
		t.Fatalf("ExtendLen: %v", err)
	}
	length, err := src.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != HeaderSize {
		t.Fatalf("Len() = %d, want %d", length, HeaderSize)
	}
}
