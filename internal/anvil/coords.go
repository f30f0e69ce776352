package anvil

// RegionSize is the number of chunks along one edge of a region (32x32).
const RegionSize = 32

// slotCount is the number of chunk slots in a region's header (32*32).
const slotCount = RegionSize * RegionSize

// SlotIndex returns the header slot index for local coordinates
// localX, localZ in [0, RegionSize): x + z*32.
func SlotIndex(localX, localZ int) int {
	return localX + localZ*RegionSize
}

// RegionCoords maps global chunk coordinates to the region that contains
// them and the chunk's local coordinates within that region. Arithmetic
// shift preserves sign so negative global coordinates map correctly, and
// masking with 31 keeps the local coordinate in [0, 32) regardless of
// sign.
func RegionCoords(chunkX, chunkZ int32) (regionX, regionZ int32, localX, localZ int) {
	regionX = chunkX >> 5
	regionZ = chunkZ >> 5
	localX = int(chunkX & 31)
	localZ = int(chunkZ & 31)
	return
}

// InBounds reports whether localX and localZ are both valid region-local
// coordinates. Callers passing out-of-range coordinates are violating a
// programmer contract, not triggering a runtime error (see checkBounds).
func InBounds(localX, localZ int) bool {
	return localX >= 0 && localX < RegionSize && localZ >= 0 && localZ < RegionSize
}
