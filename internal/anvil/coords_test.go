package anvil

import "testing"

func TestSlotIndex(t *testing.T) {
	cases := []struct {
		x, z int
		want int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0, 1, 32},
		{31, 31, 31 + 31*32},
		{0, 8, 256}, // matches the fixture scenario in the spec's concrete scenarios
	}
	for _, c := range cases {
		if got := SlotIndex(c.x, c.z); got != c.want {
			t.Errorf("SlotIndex(%d, %d) = %d, want %d", c.x, c.z, got, c.want)
		}
	}
}

func TestSlotIndexIsNotSumTimes32(t *testing.T) {
	// A draft implementation computed (x+z)*32 instead of x+z*32 — make
	// sure we never regress to that formula.
	got := SlotIndex(3, 5)
	buggy := (3 + 5) * 32
	correct := 3 + 5*32
	if got == buggy && buggy != correct {
		t.Fatalf("SlotIndex matches the buggy (x+z)*32 formula")
	}
	if got != correct {
		t.Fatalf("SlotIndex(3, 5) = %d, want %d", got, correct)
	}
}

func TestRegionCoords(t *testing.T) {
	cases := []struct {
		cx, cz               int32
		wantRX, wantRZ       int32
		wantLX, wantLZ       int
	}{
		{0, 0, 0, 0, 0, 0},
		{31, 31, 0, 0, 31, 31},
		{32, 32, 1, 1, 0, 0},
		{-1, -1, -1, -1, 31, 31},
		{-32, -32, -1, -1, 0, 0},
		{-33, 0, -2, 0, 31, 0},
	}
	for _, c := range cases {
		rx, rz, lx, lz := RegionCoords(c.cx, c.cz)
		if rx != c.wantRX || rz != c.wantRZ || lx != c.wantLX || lz != c.wantLZ {
			t.Errorf("RegionCoords(%d, %d) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
				c.cx, c.cz, rx, rz, lx, lz, c.wantRX, c.wantRZ, c.wantLX, c.wantLZ)
		}
	}
}

func TestInBounds(t *testing.T) {
	if !InBounds(0, 0) || !InBounds(31, 31) {
		t.Fatal("expected (0,0) and (31,31) to be in bounds")
	}
	if InBounds(32, 0) || InBounds(0, 32) || InBounds(-1, 0) {
		t.Fatal("expected out-of-range coordinates to be rejected")
	}
}
