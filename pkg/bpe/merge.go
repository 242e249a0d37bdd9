package bpe

import "sort"

// resolveSelfOverlap thins a self-pair's (a == b) raw position list down to
// a maximal non-overlapping set, preferring the rightmost occurrence of
// each overlapping chain: walk positions from highest to lowest, keep a
// position unless it is exactly lenA before the last kept one (i.e. it is
// the left half of an already-claimed occurrence), then restore ascending
// order for the merge-engine's left-to-right rewrite pass.
func resolveSelfOverlap(positions []uint32, lenA int) []uint32 {
	if len(positions) == 0 {
		return positions
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] > positions[j] })
	kept := positions[:1]
	for _, idx := range positions[1:] {
		last := kept[len(kept)-1]
		if int(last)-int(idx) != lenA {
			kept = append(kept, idx)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
	return kept
}

// collectMergePositions copies p's current position list out of idx (so
// later map mutations don't alias it), applying self-overlap resolution
// when the pair's two symbols are identical, and otherwise just sorting
// ascending so the rewrite pass proceeds strictly left to right.
func collectMergePositions(idx *pairIndex, p pairKey, selfOverlap bool, lenA int) []uint32 {
	stored := idx.positions(p)
	cp := make([]uint32, len(stored))
	copy(cp, stored)
	if selfOverlap {
		return resolveSelfOverlap(cp, lenA)
	}
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	return cp
}
