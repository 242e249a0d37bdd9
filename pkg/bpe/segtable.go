package bpe

// segTable is the Segmentation Table: seg[i] holds the byte length of the
// symbol starting at position i, or 0 for a position interior to a symbol
// longer than one byte. For a symbol of length l starting at i, both
// seg[i] = l and seg[i+l-1] = l hold, which lets lookups walk either
// forward from a known start or backward from a known end.
type segTable []uint8

func newSegTable(n int) segTable {
	s := make(segTable, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

// write records that a symbol of length l now starts at pos, zeroing every
// cell strictly between its first and last byte.
func (s segTable) write(pos, l int) {
	s[pos] = uint8(l)
	if l > 1 {
		s[pos+l-1] = uint8(l)
	}
	for j := pos + 1; j < pos+l-1; j++ {
		s[j] = 0
	}
}

// clearInterior zeroes the stale length marker a symbol's old second byte
// left behind once that symbol has grown and no longer starts there.
func (s segTable) clearInterior(pos int) {
	s[pos] = 0
}

// startOf returns the start position of the symbol ending just before p,
// using the trailing-byte length marker.
func (s segTable) startOf(p int) int {
	return p - int(s[p-1])
}
