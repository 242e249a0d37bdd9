// Package vocabfile persists a bpe.Vocabulary to and from a textual
// symbol-to-id map, plus an optional gzip-compressed variant for large
// vocabularies. The format mirrors the reference tokenizer's dump_vocab/
// load_vocab: a JSON object from symbol to its assigned id, written with
// entries ordered by descending id. Load restores the mapping from the
// stored ids; the order entries appear in the file has no bearing on the
// result.
package vocabfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/ha1tch/unz/pkg/bpe"
)

var ErrTruncated = errors.New("vocabfile: truncated or malformed vocabulary file")

// Save writes vocab to w as a JSON object mapping each symbol to its id,
// with entries in descending id order so a reader skimming the file sees
// the newest merges first. The order is cosmetic: Load sorts by the
// stored id regardless of where an entry falls in the file.
func Save(w io.Writer, vocab *bpe.Vocabulary) error {
	syms := vocab.Symbols()
	order := make([]int, len(syms))
	for i := range order {
		order[i] = len(syms) - 1 - i
	}

	if _, err := io.WriteString(w, "{\n"); err != nil {
		return errors.Wrap(err, "vocabfile: write header")
	}
	for i, id := range order {
		key, err := json.Marshal(syms[id])
		if err != nil {
			return errors.Wrapf(err, "vocabfile: encoding symbol %d", id)
		}
		sep := ","
		if i == len(order)-1 {
			sep = ""
		}
		if _, err := fmt.Fprintf(w, "  %s: %d%s\n", key, id, sep); err != nil {
			return errors.Wrap(err, "vocabfile: write entry")
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

// Load reads a Vocabulary previously written by Save. Every entry's id is
// taken from the file, not from its position; entries may appear in any
// order. Load rejects a file whose ids are not exactly 0..n-1 with no
// gaps or duplicates, or whose first BaseVocabSize entries disagree with
// the fixed base symbols.
func Load(r io.Reader) (*bpe.Vocabulary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "vocabfile: read")
	}

	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(ErrTruncated, "invalid json: %v", err)
	}
	if len(raw) < bpe.BaseVocabSize {
		return nil, errors.Wrapf(ErrTruncated, "only %d entries, want at least %d", len(raw), bpe.BaseVocabSize)
	}

	type entry struct {
		sym string
		id  int
	}
	entries := make([]entry, 0, len(raw))
	for sym, id := range raw {
		entries = append(entries, entry{sym, id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	vocab := bpe.NewVocabulary()
	for i, e := range entries {
		if e.id != i {
			return nil, errors.Wrapf(ErrTruncated, "id sequence gap or duplicate at %d (got %d)", i, e.id)
		}
		if i < bpe.BaseVocabSize {
			want, _ := vocab.Symbol(i)
			if e.sym != want {
				return nil, errors.Wrapf(ErrTruncated, "base symbol %d: got %q, want %q", i, e.sym, want)
			}
			continue
		}
		if got := vocab.Add(e.sym); got != e.id {
			return nil, errors.Wrapf(ErrTruncated, "id mismatch for %q: assigned %d, file said %d", e.sym, got, e.id)
		}
	}
	return vocab, nil
}

// SaveFile writes vocab to path as a JSON symbol-to-id map.
func SaveFile(path string, vocab *bpe.Vocabulary) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "vocabfile: create %s", path)
	}
	defer f.Close()
	return Save(f, vocab)
}

// LoadFile reads a Vocabulary from a JSON file written by SaveFile.
func LoadFile(path string) (*bpe.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "vocabfile: open %s", path)
	}
	defer f.Close()
	return Load(f)
}

// SaveGzip writes vocab to path gzip-compressed.
func SaveGzip(path string, vocab *bpe.Vocabulary) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "vocabfile: create %s", path)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if err := Save(gw, vocab); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

// LoadGzip reads a Vocabulary from a gzip-compressed JSON file.
func LoadGzip(path string) (*bpe.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "vocabfile: open %s", path)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "vocabfile: gzip header")
	}
	defer gr.Close()
	return Load(gr)
}
