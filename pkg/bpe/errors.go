package bpe

import "github.com/pkg/errors"

var (
	// ErrCorpusTooLarge is returned by BuildCorpus when the normalised
	// corpus would be 2^32 bytes or longer; positions are packed into a
	// uint32 throughout the Pair Index and Segmentation Table.
	ErrCorpusTooLarge = errors.New("bpe: corpus length exceeds 2^32")

	// ErrUnknownID is returned by Encoder.Decode when an id has no entry
	// in the bound Vocabulary.
	ErrUnknownID = errors.New("bpe: unknown token id")

	// ErrEmptyVocabulary is returned by NewEncoder when handed a
	// Vocabulary with no base symbols.
	ErrEmptyVocabulary = errors.New("bpe: vocabulary has no symbols")
)
