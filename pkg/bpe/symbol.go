package bpe

import farm "github.com/dgryski/go-farm"

// symbolID is a stable integer identifier for a byte-string symbol,
// assigned the first time symbolTable.intern sees that exact string. The
// Pair Index and Frequency Queue key off pairs of these instead of raw
// (string, string) tuples.
type symbolID int32

// hashIndex buckets string keys by a farm-hash fingerprint, computed on
// every lookup and add, and resolves the rare fingerprint collision by
// comparing the stored bytes. Both symbolTable (pair-index interning) and Vocabulary (symbol to
// token id) are backed by one of these.
type hashIndex struct {
	buckets map[uint64][]int32
}

func newHashIndex() *hashIndex {
	return &hashIndex{buckets: make(map[uint64][]int32, 1024)}
}

func (h *hashIndex) lookup(key string, resolve func(int32) string) (int32, bool) {
	fp := farm.Hash64([]byte(key))
	for _, id := range h.buckets[fp] {
		if resolve(id) == key {
			return id, true
		}
	}
	return 0, false
}

func (h *hashIndex) add(key string, id int32) {
	fp := farm.Hash64([]byte(key))
	h.buckets[fp] = append(h.buckets[fp], id)
}

// symbolTable interns every distinct symbol byte-string encountered while
// walking a corpus (single bytes at first, then progressively longer
// merged symbols), handing back a small dense symbolID for each. Unlike
// Vocabulary, a symbolTable has no notion of "accepted" symbols: it is
// just an identity map used to build cheap pairKeys.
type symbolTable struct {
	index   *hashIndex
	symbols []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{index: newHashIndex(), symbols: make([]string, 0, 1024)}
}

func (t *symbolTable) resolve(id int32) string { return t.symbols[id] }

func (t *symbolTable) intern(sym string) symbolID {
	if id, ok := t.index.lookup(sym, t.resolve); ok {
		return symbolID(id)
	}
	id := int32(len(t.symbols))
	t.symbols = append(t.symbols, sym)
	t.index.add(sym, id)
	return symbolID(id)
}

func (t *symbolTable) bytes(id symbolID) string { return t.symbols[id] }

func (t *symbolTable) length(id symbolID) int { return len(t.symbols[id]) }

// pairKey packs two symbolIDs into one comparable map key for the Pair
// Index and Frequency Queue, avoiding a struct{a, b symbolID} key (which
// Go would still hash byte-by-byte) or a string concatenation.
type pairKey uint64

func makePairKey(a, b symbolID) pairKey {
	return pairKey(uint32(a))<<32 | pairKey(uint32(b))
}

func (k pairKey) split() (symbolID, symbolID) {
	return symbolID(k >> 32), symbolID(uint32(k))
}
