package anvil

// sectorAllocator is a free-sector bitmap: one bool per sector, true
// meaning occupied. Sectors 0 and 1 (the header) are always occupied
// and never handed out.
type sectorAllocator struct {
	occupied []bool
}

// newSectorAllocator builds a bitmap sized to totalSectors with the
// header sectors pre-marked occupied.
func newSectorAllocator(totalSectors int) *sectorAllocator {
	if totalSectors < 2 {
		totalSectors = 2
	}
	occ := make([]bool, totalSectors)
	occ[0] = true
	occ[1] = true
	return &sectorAllocator{occupied: occ}
}

// loadSectorAllocator derives a bitmap from header metadata, ORing in
// every present slot's sector range on top of the header reservation.
func loadSectorAllocator(totalSectors int, slots [slotCount]SlotMeta) *sectorAllocator {
	a := newSectorAllocator(totalSectors)
	for _, m := range slots {
		if !m.absent() {
			a.markRange(int(m.StartSector), int(m.SectorCount), true)
		}
	}
	return a
}

func (a *sectorAllocator) totalSectors() int {
	return len(a.occupied)
}

func (a *sectorAllocator) markRange(start, count int, occupied bool) {
	for s := start; s < start+count && s < len(a.occupied); s++ {
		a.occupied[s] = occupied
	}
}

// allocate finds a sector run of the required length: same-sector reuse
// when the slot already holds exactly the required run, otherwise a
// first-fit ascending scan, otherwise a tail extension. extend is
// called with the new total sector count only when the bitmap must
// grow past the current end of file; it is responsible for growing the
// backing source by the corresponding number of bytes.
func (a *sectorAllocator) allocate(required int, current SlotMeta, extend func(newTotalSectors int) error) (startSector int, err error) {
	if !current.absent() && int(current.SectorCount) == required {
		return int(current.StartSector), nil
	}
	if !current.absent() {
		a.markRange(int(current.StartSector), int(current.SectorCount), false)
	}

	run := 0
	for s := 2; s < len(a.occupied); s++ {
		if a.occupied[s] {
			run = 0
			continue
		}
		run++
		if run == required {
			start := s - required + 1
			a.markRange(start, required, true)
			return start, nil
		}
	}

	// run now holds the length of the free tail touching end-of-file.
	tailFree := run
	start := len(a.occupied) - tailFree
	newTotal := len(a.occupied) + (required - tailFree)

	if extend != nil {
		if err := extend(newTotal); err != nil {
			return 0, err
		}
	}
	grown := make([]bool, newTotal)
	copy(grown, a.occupied)
	a.occupied = grown
	a.markRange(start, required, true)
	return start, nil
}
