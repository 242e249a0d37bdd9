package bpe

import (
	"fmt"
	"os"
	"sort"
)

// Options configures a Trainer. Use DefaultOptions to get the documented
// defaults rather than constructing the zero value directly.
type Options struct {
	// VocabSize is the target vocabulary size, base symbols included.
	// Training stops once the Vocabulary reaches this size.
	VocabSize int

	// MinFreq is the minimum pair frequency a merge must clear to be
	// accepted. Values below 1 are treated as 1.
	MinFreq int

	// CompressThreshold controls when a stale Pair Index entry is
	// compacted at pop time: compaction runs when the ratio of live to
	// stored positions falls below this value. Lower values defer
	// compaction longer.
	CompressThreshold float64

	// SingleChar enables the extra word-count accounting the reference
	// trainer performs for single-byte left neighbours immediately
	// followed by a Boundary.
	SingleChar bool

	// Verbose prints merge progress to stderr.
	Verbose bool
}

// DefaultOptions returns the documented default option set for a trainer
// targeting vocabSize total symbols.
func DefaultOptions(vocabSize int) Options {
	return Options{
		VocabSize:         vocabSize,
		MinFreq:           1,
		CompressThreshold: 0.3,
		SingleChar:        true,
	}
}

// Trainer orchestrates BPE merges over a single in-memory corpus. A
// Trainer is single-use: call Train exactly once.
type Trainer struct {
	opts      Options
	wordCount map[string]int
	stats     Stats
	epoch     int
}

// NewTrainer returns a Trainer configured by opts.
func NewTrainer(opts Options) *Trainer {
	return &Trainer{opts: opts}
}

// WordCount returns the left-byte occurrence side table computed during
// initialisation, plus one entry per accepted merge recording the merged
// symbol's frequency. It is a diagnostic: nothing in Train consults it to
// make a merge decision.
func (t *Trainer) WordCount() map[string]int { return t.wordCount }

// Stats returns the Corpus Normaliser's diagnostics for the corpus most
// recently passed to Train.
func (t *Trainer) Stats() Stats { return t.stats }

// Epoch returns the number of merges accepted so far.
func (t *Trainer) Epoch() int { return t.epoch }

// Train normalises chunks into one corpus and trains a Vocabulary from
// it, merging the most frequent adjacent symbol pair at each step until
// the vocabulary reaches opts.VocabSize or no pair clears opts.MinFreq.
func (t *Trainer) Train(chunks [][]byte) (*Vocabulary, error) {
	corpus, stats, err := BuildCorpus(chunks)
	if err != nil {
		return nil, err
	}
	t.stats = stats

	minFreq := t.opts.MinFreq
	if minFreq < 1 {
		minFreq = 1
	}

	vocab := NewVocabulary()
	syms := newSymbolTable()
	seg := newSegTable(len(corpus) + 2)
	index := newPairIndex()
	queue := &priorityQueue{}
	wordCount := make(map[string]int)

	t.initPairs(corpus, syms, index, queue, wordCount, minFreq)
	t.wordCount = wordCount

	if t.opts.Verbose {
		fmt.Fprintf(os.Stderr, "bpe: corpus length %d, %d/%d unique lines\n",
			stats.Length, stats.UniqueLines, stats.TotalLines)
	}

	for vocab.Len() < t.opts.VocabSize {
		p, freq, ok := t.popValid(queue, index, seg, syms, minFreq)
		if !ok {
			break
		}
		comb, symA, symB := t.materialize(corpus, seg, syms, index, queue, p, minFreq)
		vocab.Add(comb)
		wordCount[comb] = freq
		t.epoch++

		if t.opts.Verbose && t.epoch%50 == 0 {
			fmt.Fprintf(os.Stderr, "bpe: epoch %d: %q + %q -> freq %d (vocab %d/%d)\n",
				t.epoch, symA, symB, freq, vocab.Len(), t.opts.VocabSize)
		}
	}

	return vocab, nil
}

// initPairs walks every adjacent byte pair in corpus once, recording
// pair_pos for every pair whose left byte is not Boundary (and whose
// right byte is also not Boundary), and bumping wordCount for the left
// byte of every such pair; when SingleChar is set, a left byte whose right
// neighbour is Boundary is counted too (matching the reference trainer's
// asymmetric accounting, preserved verbatim).
func (t *Trainer) initPairs(corpus []byte, syms *symbolTable, index *pairIndex, queue *priorityQueue, wordCount map[string]int, minFreq int) {
	raw := make(map[pairKey][]uint32)
	L := len(corpus)
	for i := 0; i < L-1; i++ {
		if corpus[i] == Boundary {
			continue
		}
		left := string(corpus[i : i+1])
		if corpus[i+1] == Boundary {
			if t.opts.SingleChar {
				wordCount[left]++
			}
			continue
		}
		wordCount[left]++
		sa := syms.intern(left)
		sb := syms.intern(string(corpus[i+1 : i+2]))
		raw[makePairKey(sa, sb)] = append(raw[makePairKey(sa, sb)], uint32(i))
	}
	for p, positions := range raw {
		if len(positions) < minFreq {
			continue
		}
		index.install(p, positions)
		queue.push(queueEntry{priority: -int64(len(positions)), pair: p})
	}
}

// popValid drains the Frequency Queue until it finds a pair whose cached
// priority matches its ground frequency in the Pair Index, re-pushing (and
// opportunistically compacting) entries whose ground frequency has
// dropped but still clears minFreq, and discarding ones that have fallen
// at or below it.
func (t *Trainer) popValid(queue *priorityQueue, index *pairIndex, seg segTable, syms *symbolTable, minFreq int) (pairKey, int, bool) {
	for {
		entry, ok := queue.pop()
		if !ok {
			return 0, 0, false
		}
		cached := -entry.priority
		ground := int64(index.liveCount(entry.pair))
		if cached == ground {
			return entry.pair, int(ground), true
		}
		if ground > int64(minFreq) {
			queue.push(queueEntry{priority: -ground, pair: entry.pair})
			stored := index.positions(entry.pair)
			if len(stored) > 0 && float64(ground)/float64(len(stored)) < t.opts.CompressThreshold {
				a, b := entry.pair.split()
				index.compact(entry.pair, seg, syms.length(a), syms.length(b))
			}
		} else {
			index.erase(entry.pair)
		}
	}
}

// materialize applies one merge: it rewrites every retained occurrence of
// p in seg, decrements the neighbouring pairs it displaces, and installs
// the new pairs the merge created. It returns the merged symbol's bytes
// and its two source symbols' bytes.
func (t *Trainer) materialize(corpus []byte, seg segTable, syms *symbolTable, index *pairIndex, queue *priorityQueue, p pairKey, minFreq int) (comb, symA, symB string) {
	a, b := p.split()
	symA, symB = syms.bytes(a), syms.bytes(b)
	lenA, lenB := len(symA), len(symB)
	lenC := lenA + lenB
	comb = symA + symB
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
				key := makePairKey(combID, combID)
				newPairs[key] = append(newPairs[key], uint32(wordBeforeStart))
			} else {
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
				key := makePairKey(combID, nxtSym)
				newPairs[key] = append(newPairs[key], uint32(i))
			}
		}

		seg.write(i, lenC)
		if lenB != 1 {
			seg.clearInterior(i + lenA)
		}
	}

	for key, plist := range newPairs {
		if len(plist) < minFreq {
			continue
		}
		sort.Slice(plist, func(x, y int) bool { return plist[x] < plist[y] })
		index.install(key, plist)
		queue.push(queueEntry{priority: -int64(len(plist)), pair: key})
	}

	index.erase(p)
	return comb, symA, symB
}
