package bpe

import (
	"bytes"
	"strings"
	"testing"
)

func TestVocabularyBasic(t *testing.T) {
	vocab := NewVocabulary()

	if vocab.Len() != BaseVocabSize {
		t.Errorf("Len: got %d, want %d", vocab.Len(), BaseVocabSize)
	}

	sym, ok := vocab.Symbol(0)
	if !ok || sym != "\x00" {
		t.Errorf("Symbol(0): got %q, ok=%v, want \\x00", sym, ok)
	}

	id, ok := vocab.ID("a")
	if !ok || id != int('a') {
		t.Errorf("ID('a'): got %d, ok=%v, want %d", id, ok, int('a'))
	}

	if _, ok := vocab.ID("nonexistent-multibyte-symbol"); ok {
		t.Error("ID of an unseen symbol should not be found")
	}

	if _, ok := vocab.Symbol(-1); ok {
		t.Error("Symbol(-1) should not be found")
	}
	if _, ok := vocab.Symbol(vocab.Len()); ok {
		t.Error("Symbol(Len()) should not be found")
	}
}

func TestVocabularyAdd(t *testing.T) {
	vocab := NewVocabulary()
	id := vocab.Add("th")
	if id != BaseVocabSize {
		t.Errorf("Add: got id %d, want %d", id, BaseVocabSize)
	}
	got, ok := vocab.ID("th")
	if !ok || got != id {
		t.Errorf("ID('th') after Add: got %d, ok=%v, want %d", got, ok, id)
	}
}

func TestBuildCorpusBoundaries(t *testing.T) {
	corpus, stats, err := BuildCorpus([][]byte{[]byte(" ab ab ab ab ")})
	if err != nil {
		t.Fatalf("BuildCorpus: %v", err)
	}
	if corpus[0] != Boundary || corpus[len(corpus)-1] != Boundary {
		t.Errorf("corpus must start and end with Boundary, got %q", corpus)
	}
	if want := "# ab# ab# ab# ab#"; string(corpus) != want {
		t.Errorf("corpus: got %q, want %q", corpus, want)
	}
	if stats.Length != len(corpus) {
		t.Errorf("Stats.Length: got %d, want %d", stats.Length, len(corpus))
	}
}

func TestBuildCorpusTracksDuplicateLinesWithoutDeduping(t *testing.T) {
	chunks := [][]byte{[]byte("same"), []byte("same"), []byte("different")}
	corpus, stats, err := BuildCorpus(chunks)
	if err != nil {
		t.Fatalf("BuildCorpus: %v", err)
	}
	if stats.TotalLines != 5 { // bracketing empty line + 3 chunks + empty line
		t.Errorf("TotalLines: got %d, want 5", stats.TotalLines)
	}
	if stats.UniqueLines != 3 { // "", "same", "different"
		t.Errorf("UniqueLines: got %d, want 3", stats.UniqueLines)
	}
	if strings.Count(string(corpus), "same") != 2 {
		t.Errorf("duplicate line must be preserved twice in corpus, got %q", corpus)
	}
}

func TestTrainerSpacedRepeats(t *testing.T) {
	opts := DefaultOptions(BaseVocabSize + 2)
	opts.MinFreq = 1
	tr := NewTrainer(opts)

	vocab, err := tr.Train([][]byte{[]byte(" ab ab ab ab ")})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	abID, ok := vocab.ID("ab")
	if !ok {
		t.Fatal("expected 'ab' to be merged first")
	}
	if abID != BaseVocabSize {
		t.Errorf("'ab' id: got %d, want %d (first merge)", abID, BaseVocabSize)
	}

	if _, ok := vocab.ID(" ab"); !ok {
		t.Error("expected ' ab' to be merged second")
	}
}

func TestTrainerSelfOverlap(t *testing.T) {
	opts := DefaultOptions(BaseVocabSize + 2)
	opts.MinFreq = 2
	tr := NewTrainer(opts)

	vocab, err := tr.Train([][]byte{[]byte("xxxx")})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	xxID, ok := vocab.ID("xx")
	if !ok {
		t.Fatal("expected 'xx' to be merged")
	}

	enc, err := NewEncoder(vocab)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	ids := enc.Encode([]byte("xxxx"))
	if len(ids) != 2 || ids[0] != xxID || ids[1] != xxID {
		t.Errorf("Encode('xxxx'): got %v, want [%d %d] (second 'xx' merge rejected below min_freq)", ids, xxID, xxID)
	}
}

func TestTrainerMinFreqAboveMaxLeavesBaseVocab(t *testing.T) {
	opts := DefaultOptions(BaseVocabSize + 10)
	opts.MinFreq = 1000
	tr := NewTrainer(opts)

	vocab, err := tr.Train([][]byte{[]byte("abcabcabc")})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if vocab.Len() != BaseVocabSize {
		t.Errorf("Len: got %d, want %d (no merge should clear min_freq)", vocab.Len(), BaseVocabSize)
	}
}

func TestEncoderRoundtripAgainstTrainedVocabulary(t *testing.T) {
	opts := DefaultOptions(BaseVocabSize + 40)
	tr := NewTrainer(opts)
	vocab, err := tr.Train([][]byte{[]byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 20))})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	enc, err := NewEncoder(vocab)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	cases := []string{
		"",
		"the",
		"fox",
		"the quick brown fox",
		strings.Repeat("abc", 50),
	}
	for _, text := range cases {
		t.Run(text[:min(len(text), 20)], func(t *testing.T) {
			data := []byte(text)
			ids := enc.Encode(data)
			decoded, err := enc.Decode(ids)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			// Encode does not emit the Boundary sentinels it wraps text in.
			want := data
			if !bytes.Equal(decoded, want) {
				t.Errorf("roundtrip failed for %q: got %q, want %q", text, decoded, want)
			}
		})
	}
}

func TestDecodeUnknownID(t *testing.T) {
	vocab := NewVocabulary()
	enc, err := NewEncoder(vocab)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	_, err = enc.Decode([]int{vocab.Len() + 5})
	if err == nil {
		t.Fatal("Decode of an out-of-range id should error")
	}
	if !strings.Contains(err.Error(), "unknown token id") {
		t.Errorf("error message: got %q, want it to mention the unknown id", err.Error())
	}
}

func TestNewEncoderRejectsEmptyVocabulary(t *testing.T) {
	if _, err := NewEncoder(&Vocabulary{}); err != ErrEmptyVocabulary {
		t.Errorf("NewEncoder(empty): got %v, want ErrEmptyVocabulary", err)
	}
}

func TestTrainerWordCountSingleCharAccounting(t *testing.T) {
	opts := DefaultOptions(BaseVocabSize)
	opts.SingleChar = true
	tr := NewTrainer(opts)
	if _, err := tr.Train([][]byte{[]byte("a")}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	// "a" normalises to "# a#"; the 'a' before the trailing boundary still
	// bumps word_count even though it has no right-side pair to record.
	if tr.WordCount()["a"] != 1 {
		t.Errorf("WordCount['a']: got %d, want 1", tr.WordCount()["a"])
	}
}

func BenchmarkTrainerTrain(b *testing.B) {
	text := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 200))
	for i := 0; i < b.N; i++ {
		tr := NewTrainer(DefaultOptions(BaseVocabSize + 200))
		if _, err := tr.Train([][]byte{text}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncoderEncode(b *testing.B) {
	tr := NewTrainer(DefaultOptions(BaseVocabSize + 200))
	vocab, err := tr.Train([][]byte{[]byte(strings.Repeat("the quick brown fox ", 100))})
	if err != nil {
		b.Fatal(err)
	}
	enc, err := NewEncoder(vocab)
	if err != nil {
		b.Fatal(err)
	}
	text := []byte(strings.Repeat("the quick brown fox ", 1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		enc.Encode(text)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
