package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
)

// ErrMemberNotFound is returned by OpenInArchive when the named member
// does not appear anywhere in the archive.
var ErrMemberNotFound = errors.New("anvil: member not found in archive")

// OpenInArchive mounts a single member of a compressed archive (zip,
// tar, tar.gz, 7z, rar, ...) as a read-only ByteSource. Archive formats
// are not generally seekable mid-stream, so the member is read fully
// into memory once and served from there; the returned source does not
// implement WritableByteSource, so a Region loaded over it refuses
// writes.
func OpenInArchive(ctx context.Context, archivePath, memberName string) (ByteSource, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("anvil: open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	format, stream, err := archives.Identify(ctx, archivePath, f)
	if err != nil {
		return nil, fmt.Errorf("anvil: identify archive %s: %w", archivePath, err)
	}

	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, fmt.Errorf("anvil: archive %s does not support extraction", archivePath)
	}

	want := filepath.Clean(memberName)
	var contents []byte
	found := false

	err = extractor.Extract(ctx, stream, func(ctx context.Context, fi archives.FileInfo) error {
		if found || fi.IsDir() {
			return nil
		}
		if filepath.Clean(fi.NameInArchive) != want {
			return nil
		}

		rc, err := fi.Open()
		if err != nil {
			return fmt.Errorf("anvil: open archive member %s: %w", memberName, err)
		}
		defer rc.Close()

		contents, err = io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("anvil: read archive member %s: %w", memberName, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("anvil: %s in %s: %w", memberName, archivePath, ErrMemberNotFound)
	}

	return &ReadOnlySource{ByteSource: NewMemSource(contents)}, nil
}
