package bpe

import (
	"strings"

	"github.com/pkg/errors"
)

// Boundary is the reserved word-boundary marker byte. It is never part of
// any symbol the Trainer adds to the Vocabulary, and every pair touching
// it on either side is excluded from the Pair Index.
const Boundary byte = '#'

// boundaryRunes is the configured punctuation/whitespace set that the
// Corpus Normaliser collapses into Boundary markers: the ASCII run from
// spec.md's normalisation contract plus the fixed fullwidth Chinese
// punctuation set carried over from the reference implementation's
// replace_punc.
var boundaryRunes = buildBoundarySet()

func buildBoundarySet() map[rune]bool {
	ascii := []rune{'.', ',', '?', '!', ';', ':', '(', ')', '"', '\'', ' ', '<', '>', '[', ']', '~', '\t', '\n'}
	zh := []rune{'。', '，', '？', '！', '；', '：', '、', '（', '）', '「', '」', '“', '”', '‘', '’', '《', '》', '【', '】', '…', '—', '～'}
	set := make(map[rune]bool, len(ascii)+len(zh))
	for _, r := range ascii {
		set[r] = true
	}
	for _, r := range zh {
		set[r] = true
	}
	return set
}

// Stats reports Corpus Normaliser diagnostics. UniqueLines and TotalLines
// are computed for verbose reporting only; the corpus itself is never
// deduplicated by line, matching the reference trainer's observed
// behaviour of computing a duplicate ratio without ever acting on it.
type Stats struct {
	TotalLines  int
	UniqueLines int
	Length      int
}

// BuildCorpus joins chunks with a leading, trailing, and separating "\n"
// (the reference trainer's chain(['']+chunks+['']) convention), then
// collapses every run of boundaryRunes into a single Boundary-plus-space
// marker. The result always starts and ends with a bare Boundary byte.
func BuildCorpus(chunks [][]byte) ([]byte, Stats, error) {
	lines := make([]string, 0, len(chunks)+2)
	lines = append(lines, "")
	for _, c := range chunks {
		lines = append(lines, string(c))
	}
	lines = append(lines, "")
	raw := strings.Join(lines, "\n")

	unique := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		unique[l] = struct{}{}
	}
	stats := Stats{TotalLines: len(lines), UniqueLines: len(unique)}

	out := make([]byte, 0, len(raw))
	inRun := false
	for _, r := range raw {
		if boundaryRunes[r] {
			if !inRun {
				out = append(out, Boundary, ' ')
				inRun = true
			}
			continue
		}
		inRun = false
		out = append(out, string(r)...)
	}
	if n := len(out); n >= 2 && out[n-1] == ' ' && out[n-2] == Boundary {
		out = out[:n-1]
	}

	if len(out) >= 1<<32 {
		return nil, Stats{}, errors.Wrapf(ErrCorpusTooLarge, "length %d", len(out))
	}
	stats.Length = len(out)
	return out, stats, nil
}
