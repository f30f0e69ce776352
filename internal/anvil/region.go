// Package anvil implements the Anvil region file engine: the on-disk
// layout, sector allocator, and chunk read/write state machine for a
// 32x32 grid of independently compressed chunk payloads. The package
// neither parses nor interprets a chunk's payload bytes beyond
// selecting a (de)compressor — serialization of the payload tree itself
// is the caller's concern.
package anvil

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrReadOnly is returned by WriteChunk when the region was loaded over
// a source that does not implement WritableByteSource.
var ErrReadOnly = errors.New("anvil: region is read-only")

// Region is an opened region file handle: a byte source plus the
// in-memory metadata table and sector bitmap derived from it. A Region
// exclusively owns its source for the duration of its lifetime and is
// not safe for concurrent use by multiple goroutines.
type Region struct {
	RegionX, RegionZ int32

	src      ByteSource
	writable WritableByteSource

	header *header
	alloc  *sectorAllocator
}

// Load opens a region handle over src. A source shorter than
// HeaderSize yields an all-absent metadata table rather than an error.
// If src does not implement WritableByteSource, the handle is
// read-only: WriteChunk returns ErrReadOnly rather than panicking.
func Load(regionX, regionZ int32, src ByteSource) (*Region, error) {
	h, err := readHeader(src)
	if err != nil {
		return nil, fmt.Errorf("anvil: load region (%d,%d): %w", regionX, regionZ, err)
	}

	length, err := src.Len()
	if err != nil {
		return nil, fmt.Errorf("anvil: load region (%d,%d): %w", regionX, regionZ, err)
	}
	totalSectors := int(length / SectorSize)
	if length%SectorSize != 0 {
		totalSectors++
	}

	r := &Region{
		RegionX: regionX,
		RegionZ: regionZ,
		src:     src,
		header:  h,
		alloc:   loadSectorAllocator(totalSectors, h.slots),
	}
	if w, ok := src.(WritableByteSource); ok {
		r.writable = w
	}
	return r, nil
}

// checkBounds enforces a programmer contract: out-of-range local
// coordinates are a caller bug, not a recoverable runtime error.
func checkBounds(localX, localZ int) {
	if !InBounds(localX, localZ) {
		panic(fmt.Sprintf("anvil: local coordinates (%d, %d) out of [0, %d)", localX, localZ, RegionSize))
	}
}

// HasChunk reports whether a slot has ever been written.
func (r *Region) HasChunk(localX, localZ int) bool {
	checkBounds(localX, localZ)
	return !r.header.slots[SlotIndex(localX, localZ)].absent()
}

// Meta returns the slot metadata for local coordinates, primarily for
// diagnostics and the maintenance scanner.
func (r *Region) Meta(localX, localZ int) SlotMeta {
	checkBounds(localX, localZ)
	return r.header.slots[SlotIndex(localX, localZ)]
}

// ReadChunk reads and decompresses the chunk at local coordinates,
// returning the raw serialized payload bytes. It does not attempt to
// parse those bytes into any tree structure.
func (r *Region) ReadChunk(localX, localZ int) ([]byte, error) {
	checkBounds(localX, localZ)

	i := SlotIndex(localX, localZ)
	m := r.header.slots[i]
	if m.absent() {
		return nil, &ChunkNotFoundError{LocalX: localX, LocalZ: localZ}
	}

	offset := int64(m.StartSector) * SectorSize

	lenBuf := make([]byte, 4)
	if _, err := r.src.ReadAt(lenBuf, offset); err != nil {
		return nil, fmt.Errorf("anvil: read chunk (%d,%d) length: %w", localX, localZ, err)
	}
	payloadLength := binary.BigEndian.Uint32(lenBuf)

	maximum := uint32(m.SectorCount) * SectorSize
	if maximum > maxSlabSectors*SectorSize {
		maximum = maxSlabSectors * SectorSize
	}
	if payloadLength > maximum {
		return nil, &LengthExceedsMaximumError{Length: payloadLength, Maximum: maximum}
	}

	body := make([]byte, payloadLength)
	if _, err := r.src.ReadAt(body, offset+4); err != nil {
		return nil, fmt.Errorf("anvil: read chunk (%d,%d) body: %w", localX, localZ, err)
	}

	scheme := body[0]
	compressed := body[1:]
	switch scheme {
	case schemeGzip:
		return decompressGzip(compressed)
	case schemeZlib:
		return decompressZlib(compressed)
	default:
		return nil, &UnsupportedCompressionSchemeError{Scheme: scheme}
	}
}

// WriteChunk compresses payload with zlib and writes it to the slot at
// local coordinates, relocating or reusing sectors as the allocator
// decides, then stamps last_modified and persists the header entry.
// The write path always uses zlib even though reads accept gzip too.
func (r *Region) WriteChunk(localX, localZ int, payload []byte) error {
	checkBounds(localX, localZ)

	if r.writable == nil {
		return ErrReadOnly
	}

	compressed, err := compressZlib(payload)
	if err != nil {
		return err
	}

	scratch := make([]byte, 1+len(compressed))
	scratch[0] = schemeZlib
	copy(scratch[1:], compressed)

	slabLength := len(scratch) + 4
	if slabLength > maxSlabSectors*SectorSize {
		return &LengthExceedsMaximumError{Length: uint32(slabLength), Maximum: maxSlabSectors * SectorSize}
	}
	requiredSectors := slabLength/SectorSize + 1

	i := SlotIndex(localX, localZ)
	current := r.header.slots[i]

	start, err := r.alloc.allocate(requiredSectors, current, func(newTotal int) error {
		return r.writable.ExtendLen(int64(newTotal) * SectorSize)
	})
	if err != nil {
		return fmt.Errorf("anvil: write chunk (%d,%d) allocate: %w", localX, localZ, err)
	}

	offset := int64(start) * SectorSize

	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(slabLength-4))
	if _, err := r.writable.WriteAt(lenBuf, offset); err != nil {
		return fmt.Errorf("anvil: write chunk (%d,%d) length: %w", localX, localZ, err)
	}
	if _, err := r.writable.WriteAt(scratch, offset+4); err != nil {
		return fmt.Errorf("anvil: write chunk (%d,%d) body: %w", localX, localZ, err)
	}

	if rem := slabLength % SectorSize; rem != 0 {
		pad := make([]byte, SectorSize-rem)
		if _, err := r.writable.WriteAt(pad, offset+int64(len(lenBuf))+int64(len(scratch))); err != nil {
			return fmt.Errorf("anvil: write chunk (%d,%d) padding: %w", localX, localZ, err)
		}
	}

	meta := SlotMeta{
		StartSector:  uint32(start),
		SectorCount:  uint8(requiredSectors),
		LastModified: uint32(time.Now().Unix()),
	}
	r.header.slots[i] = meta
	if err := writeSlotMeta(r.writable, i, meta); err != nil {
		return fmt.Errorf("anvil: write chunk (%d,%d) metadata: %w", localX, localZ, err)
	}
	return nil
}

// ListChunks returns the local coordinates of every present slot, in
// slot-index order.
func (r *Region) ListChunks() [][2]int {
	var out [][2]int
	for i, m := range r.header.slots {
		if !m.absent() {
			out = append(out, [2]int{i % RegionSize, i / RegionSize})
		}
	}
	return out
}

// Close releases the underlying source if it implements io.Closer.
func (r *Region) Close() error {
	type closer interface{ Close() error }
	if c, ok := r.src.(closer); ok {
		return c.Close()
	}
	return nil
}
