package holdem

import "sort"

func sortedChairs(m map[uint16]bool) []uint16 {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// seatOrderFrom returns occupied chairs starting at (from+1) and
// walking forward through all numSeats positions, wrapping around.
// Used to break pot-award ties by "first tied player in seat order
// starting left of the dealer" (spec §4.2).
func seatOrderFrom(from uint16, numSeats int, occupied map[uint16]bool) []uint16 {
	out := make([]uint16, 0, len(occupied))
	for i := 1; i <= numSeats; i++ {
		chair := uint16((int(from) + i) % numSeats)
		if occupied[chair] {
			out = append(out, chair)
		}
	}
	return out
}
