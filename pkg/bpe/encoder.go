package bpe

import (
	"sort"

	"github.com/pkg/errors"
)

// Encoder segments text against a frozen Vocabulary by reusing the same
// merge-engine primitives the Trainer uses, but ordering candidate merges
// by vocabulary id (lower id, the earlier-trained merge, wins) instead of
// by frequency, and accepting a candidate only when its merged bytes are
// already a vocabulary symbol. Applying merges in the order they were
// trained reproduces the same segmentation training would have produced.
type Encoder struct {
	vocab *Vocabulary
}

// NewEncoder returns an Encoder bound to vocab. vocab must not change for
// the Encoder's lifetime.
func NewEncoder(vocab *Vocabulary) (*Encoder, error) {
	if vocab == nil || vocab.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}
	return &Encoder{vocab: vocab}, nil
}

// Vocabulary returns the Encoder's bound Vocabulary.
func (e *Encoder) Vocabulary() *Vocabulary { return e.vocab }

// Encode tokenizes text into the id sequence the Vocabulary's merges
// would produce, wrapping text in the same Boundary markers a trained
// corpus carries at every word break.
func (e *Encoder) Encode(text []byte) []int {
	corpus := make([]byte, 0, len(text)+2)
	corpus = append(corpus, Boundary)
	corpus = append(corpus, text...)
	corpus = append(corpus, Boundary)
	L := len(corpus)

	syms := newSymbolTable()
	seg := newSegTable(L + 2)
	index := newPairIndex()
	queue := &priorityQueue{}

	raw := make(map[pairKey][]uint32)
	for i := 0; i < L-1; i++ {
		if corpus[i] == Boundary || corpus[i+1] == Boundary {
			continue
		}
		sa := syms.intern(string(corpus[i : i+1]))
		sb := syms.intern(string(corpus[i+1 : i+2]))
		if _, ok := e.vocab.ID(syms.bytes(sa) + syms.bytes(sb)); !ok {
			continue
		}
		raw[makePairKey(sa, sb)] = append(raw[makePairKey(sa, sb)], uint32(i))
	}
	for p, positions := range raw {
		sort.Slice(positions, func(x, y int) bool { return positions[x] < positions[y] })
		a, b := p.split()
		id, _ := e.vocab.ID(syms.bytes(a) + syms.bytes(b))
		index.install(p, positions)
		queue.push(queueEntry{priority: int64(id), pair: p})
	}

	for {
		entry, ok := queue.pop()
		if !ok {
			break
		}
		if index.liveCount(entry.pair) == 0 {
			continue
		}
		e.applyMerge(corpus, seg, syms, index, queue, entry.pair)
	}

	ids := make([]int, 0, L/2)
	for i := 1; i < L-1; {
		l := int(seg[i])
		if id, ok := e.vocab.ID(string(corpus[i : i+l])); ok {
			ids = append(ids, id)
		}
		i += l
	}
	return ids
}

// applyMerge is the Encoder's half of the shared merge-engine rewrite:
// identical position bookkeeping to Trainer.materialize, but a new
// candidate pair is only installed when its concatenation is already a
// Vocabulary symbol, and the push priority is that symbol's id rather
// than a frequency.
func (e *Encoder) applyMerge(corpus []byte, seg segTable, syms *symbolTable, index *pairIndex, queue *priorityQueue, p pairKey) {
	a, b := p.split()
	symA, symB := syms.bytes(a), syms.bytes(b)
	lenA, lenB := len(symA), len(symB)
	lenC := lenA + lenB
	comb := symA + symB
	combID := syms.intern(comb)

	positions := collectMergePositions(index, p, a == b, lenA)
	newPairs := make(map[pairKey][]uint32)

	for _, posU32 := range positions {
		i := int(posU32)
		if int(seg[i]) != lenA || int(seg[i+lenA]) != lenB {
			continue
		}
		preStart := seg.startOf(i)
		preWord := string(corpus[preStart:i])
		nxtStart := i + lenC
		nxtEnd := nxtStart + int(seg[nxtStart])
		nxtWord := string(corpus[nxtStart:nxtEnd])

		if preWord != string(Boundary) {
			preSym := syms.intern(preWord)
			index.decrement(makePairKey(preSym, a))

			wordBeforeLen := int(seg[preStart-1])
			wordBeforeStart := preStart - wordBeforeLen
			wordBefore := string(corpus[wordBeforeStart:preStart])

			if preWord == symB && wordBefore == symA {
				if _, ok := e.vocab.ID(comb + comb); ok {
					key := makePairKey(combID, combID)
					newPairs[key] = append(newPairs[key], uint32(wordBeforeStart))
				}
			} else if _, ok := e.vocab.ID(preWord + comb); ok {
				key := makePairKey(preSym, combID)
				newPairs[key] = append(newPairs[key], uint32(preStart))
			}
		}

		if nxtWord != string(Boundary) {
			suppressed := false
			if nxtWord == symA {
				succStart := nxtEnd
				succEnd := succStart + int(seg[succStart])
				if string(corpus[succStart:succEnd]) == symB {
					suppressed = true
				}
			}
			if !suppressed {
				nxtSym := syms.intern(nxtWord)
				index.decrement(makePairKey(b, nxtSym))
				if _, ok := e.vocab.ID(comb + nxtWord); ok {
					key := makePairKey(combID, nxtSym)
					newPairs[key] = append(newPairs[key], uint32(i))
				}
			}
		}

		seg.write(i, lenC)
		if lenB != 1 {
			seg.clearInterior(i + lenA)
		}
	}

	for key, plist := range newPairs {
		sort.Slice(plist, func(x, y int) bool { return plist[x] < plist[y] })
		ka, kb := key.split()
		id, _ := e.vocab.ID(syms.bytes(ka) + syms.bytes(kb))
		index.install(key, plist)
		queue.push(queueEntry{priority: int64(id), pair: key})
	}

	index.erase(p)
}

// Decode concatenates the byte strings for ids, in order. It returns
// ErrUnknownID naming the offending id if any id has no vocabulary entry.
func (e *Encoder) Decode(ids []int) ([]byte, error) {
	var out []byte
	for _, id := range ids {
		sym, ok := e.vocab.Symbol(id)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownID, "id %d", id)
		}
		out = append(out, sym...)
	}
	return out, nil
}
