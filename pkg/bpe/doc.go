// Package bpe implements an incremental byte-pair-encoding tokenizer: a
// Trainer that grows a Vocabulary by repeatedly merging the most frequent
// adjacent symbol pair in a corpus, and an Encoder that replays those same
// merges, in the order they were created, against arbitrary text.
//
// The hard part is not the merge rule itself but keeping three pieces of
// state consistent across millions of merges without rescanning the whole
// corpus on every step: the Segmentation Table (current symbol boundaries),
// the Pair Index (where each pair currently occurs, allowed to go stale),
// and the Frequency Queue (a max-heap over cached pair frequencies,
// validated against the Pair Index on pop). See Trainer.Train for the
// orchestration and pairIndex/segTable for the supporting structures.
package bpe
