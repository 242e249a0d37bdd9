package bpe

// pairIndex maps a symbol pair to the corpus positions where it currently
// occurs and a cached live count. The position list is allowed to go
// stale (a position may no longer satisfy the pair once neighbouring
// merges have rewritten the Segmentation Table around it); Compact
// rebuilds it against the current table.
type pairIndex struct {
	pos map[pairKey][]uint32
	cnt map[pairKey]uint32
}

func newPairIndex() *pairIndex {
	return &pairIndex{
		pos: make(map[pairKey][]uint32, 4096),
		cnt: make(map[pairKey]uint32, 4096),
	}
}

// install replaces p's position list wholesale and sets its live count
// from the list length.
func (idx *pairIndex) install(p pairKey, positions []uint32) {
	idx.pos[p] = positions
	idx.cnt[p] = uint32(len(positions))
}

// liveCount returns p's cached frequency, 0 if p is not tracked.
func (idx *pairIndex) liveCount(p pairKey) uint32 {
	return idx.cnt[p]
}

// positions returns p's current (possibly stale) position list. Callers
// must not retain or mutate the returned slice past the next compact.
func (idx *pairIndex) positions(p pairKey) []uint32 {
	return idx.pos[p]
}

// decrement lowers p's cached count by one, a no-op if p is untracked or
// already at zero (mirrors a map delete on a missing key being harmless).
func (idx *pairIndex) decrement(p pairKey) {
	if c, ok := idx.cnt[p]; ok && c > 0 {
		idx.cnt[p] = c - 1
	}
}

// erase drops p from the index entirely, once it has been merged or its
// ground frequency has fallen to the floor.
func (idx *pairIndex) erase(p pairKey) {
	delete(idx.pos, p)
	delete(idx.cnt, p)
}

// compact rewrites p's position list to contain only positions still
// valid against seg (i.e. still the start of an lenA-byte symbol
// immediately followed by an lenB-byte symbol), and refreshes the cached
// count to match.
func (idx *pairIndex) compact(p pairKey, seg segTable, lenA, lenB int) {
	stored := idx.pos[p]
	live := stored[:0]
	for _, i := range stored {
		pos := int(i)
		if int(seg[pos]) == lenA && int(seg[pos+lenA]) == lenB {
			live = append(live, i)
		}
	}
	idx.pos[p] = live
	idx.cnt[p] = uint32(len(live))
}
