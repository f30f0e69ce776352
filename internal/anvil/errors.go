package anvil

import "fmt"

// ChunkNotFoundError is returned when a slot has no chunk written to it.
// It is the only error expected during normal operation — callers use it
// to distinguish "not yet generated" from corruption.
type ChunkNotFoundError struct {
	LocalX, LocalZ int
}

func (e *ChunkNotFoundError) Error() string {
	return fmt.Sprintf("anvil: chunk not found at local (%d, %d)", e.LocalX, e.LocalZ)
}

// LengthExceedsMaximumError is returned when a slab's declared length is
// larger than its allotted sectors (read) or larger than the 1 MiB hard
// cap (read and write). On read this indicates region file corruption.
type LengthExceedsMaximumError struct {
	Length, Maximum uint32
}

func (e *LengthExceedsMaximumError) Error() string {
	return fmt.Sprintf("anvil: chunk length %d exceeds maximum %d", e.Length, e.Maximum)
}

// UnsupportedCompressionSchemeError is returned when a slab's scheme byte
// is not one of the known compression schemes.
type UnsupportedCompressionSchemeError struct {
	Scheme byte
}

func (e *UnsupportedCompressionSchemeError) Error() string {
	return fmt.Sprintf("anvil: unsupported compression scheme %d", e.Scheme)
}
