package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVocabularyIDsAreDenseAndSequential checks the invariant that every
// added symbol gets the next integer id in sequence, with no gaps, and
// that Symbols() reproduces the same order Add assigned.
func TestVocabularyIDsAreDenseAndSequential(t *testing.T) {
	vocab := NewVocabulary()
	want := []string{"th", "he", "an", "in", "er"}

	for i, sym := range want {
		id := vocab.Add(sym)
		require.Equal(t, BaseVocabSize+i, id, "Add(%q) should assign the next sequential id", sym)
	}

	assert.Equal(t, BaseVocabSize+len(want), vocab.Len())

	syms := vocab.Symbols()
	require.Len(t, syms, vocab.Len())
	for i, sym := range want {
		assert.Equal(t, sym, syms[BaseVocabSize+i])
	}

	for id, sym := range syms {
		gotID, ok := vocab.ID(sym)
		require.True(t, ok, "symbol %q from Symbols() must resolve back via ID", sym)
		assert.Equal(t, id, gotID)
	}
}

// TestEncodeDecodeRoundtripLaw trains a vocabulary over a corpus and
// asserts the round-trip law Decode(Encode(x)) == x holds for every line
// of the training corpus, and that every emitted id resolves to a known
// vocabulary symbol.
func TestEncodeDecodeRoundtripLaw(t *testing.T) {
	lines := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("the quick brown fox jumps over the lazy dog again and again"),
		[]byte("pack my box with five dozen liquor jugs"),
	}

	opts := DefaultOptions(BaseVocabSize + 40)
	tr := NewTrainer(opts)
	vocab, err := tr.Train(lines)
	require.NoError(t, err)

	enc, err := NewEncoder(vocab)
	require.NoError(t, err)

	for _, line := range lines {
		ids := enc.Encode(line)
		require.NotEmpty(t, ids, "encoding a non-empty line must produce ids")

		for _, id := range ids {
			_, ok := vocab.Symbol(id)
			assert.True(t, ok, "id %d from Encode must resolve in the trained vocabulary", id)
		}

		decoded, err := enc.Decode(ids)
		require.NoError(t, err)
		assert.Equal(t, line, decoded, "Decode(Encode(x)) must equal x")
	}
}

// TestTrainerNeverExceedsTargetVocabSize checks that training stops at
// or before the configured VocabSize regardless of how much corpus is
// available to merge further.
func TestTrainerNeverExceedsTargetVocabSize(t *testing.T) {
	big := make([]byte, 0, 4096)
	for i := 0; i < 200; i++ {
		big = append(big, []byte("abababab cdcdcdcd efefefef ")...)
	}

	target := BaseVocabSize + 10
	opts := DefaultOptions(target)
	tr := NewTrainer(opts)
	vocab, err := tr.Train([][]byte{big})
	require.NoError(t, err)

	assert.LessOrEqual(t, vocab.Len(), target)
	assert.GreaterOrEqual(t, vocab.Len(), BaseVocabSize)
}
