package anvil

import "encoding/binary"

// SectorSize is the allocation granularity of a region file, in bytes.
const SectorSize = 4096

// HeaderSize is the combined size of the location and timestamp tables.
const HeaderSize = 2 * SectorSize

// maxSlabSectors bounds a chunk slab to 1 MiB (256 sectors).
const maxSlabSectors = 256

// SlotMeta is the in-memory metadata for one of a region's 1024 slots.
// SectorCount == 0 iff StartSector == 0 iff the slot is absent.
type SlotMeta struct {
	StartSector  uint32
	SectorCount  uint8
	LastModified uint32
}

func (m SlotMeta) absent() bool {
	return m.SectorCount == 0
}

// header is the parsed contents of a region's first two sectors.
type header struct {
	slots [slotCount]SlotMeta
}

// readHeader parses the 8 KiB header from src. A source shorter than
// HeaderSize yields an all-absent table rather than an error — a
// freshly created, empty region file is a normal starting state.
func readHeader(src ByteSource) (*header, error) {
	h := &header{}

	length, err := src.Len()
	if err != nil {
		return nil, err
	}
	if length < HeaderSize {
		return h, nil
	}

	buf := make([]byte, HeaderSize)
	if _, err := src.ReadAt(buf, 0); err != nil {
		return nil, err
	}

	for i := 0; i < slotCount; i++ {
		loc := binary.BigEndian.Uint32(buf[4*i : 4*i+4])
		ts := binary.BigEndian.Uint32(buf[SectorSize+4*i : SectorSize+4*i+4])
		h.slots[i] = SlotMeta{
			StartSector:  loc >> 8,
			SectorCount:  uint8(loc & 0xff),
			LastModified: ts,
		}
	}
	return h, nil
}

// writeSlotMeta persists slot i's metadata: the location word at offset
// 4*i and the timestamp word at offset SectorSize+4*i.
func writeSlotMeta(dst WritableByteSource, i int, m SlotMeta) error {
	if err := dst.ExtendLen(HeaderSize); err != nil {
		return err
	}

	loc := make([]byte, 4)
	binary.BigEndian.PutUint32(loc, (m.StartSector<<8)|uint32(m.SectorCount))
	if _, err := dst.WriteAt(loc, int64(4*i)); err != nil {
		return err
	}

	ts := make([]byte, 4)
	binary.BigEndian.PutUint32(ts, m.LastModified)
	if _, err := dst.WriteAt(ts, int64(SectorSize+4*i)); err != nil {
		return err
	}
	return nil
}
