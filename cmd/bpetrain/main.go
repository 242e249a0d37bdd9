// Command bpetrain trains a byte-pair-encoding vocabulary from one or
// more text files (or stdin) and writes it to a vocabulary file.
//
// Usage:
//
//	bpetrain [-vocab-size N] [-min-freq N] [-v] [-gzip] out.vocab [file...]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ha1tch/unz/pkg/bpe"
	"github.com/ha1tch/unz/pkg/corpusfilter"
	"github.com/ha1tch/unz/pkg/vocabfile"
)

var (
	vocabSize         = flag.Int("vocab-size", bpe.BaseVocabSize+2000, "target vocabulary size, base symbols included")
	minFreq           = flag.Int("min-freq", 1, "minimum pair frequency a merge must clear")
	compressThreshold = flag.Float64("compress-threshold", 0.3, "pair index compaction threshold")
	singleChar        = flag.Bool("single-char", true, "track single-byte word-count accounting")
	verbose           = flag.Bool("v", false, "verbose operation")
	gzipOut           = flag.Bool("gzip", false, "write vocabulary gzip-compressed")
	filter            = flag.Bool("filter", true, "reject binary/high-entropy input chunks before training")
	help              = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "bpetrain: missing output vocabulary path")
		fmt.Fprintln(os.Stderr, "Try 'bpetrain -h' for more information.")
		os.Exit(1)
	}

	outPath := flag.Arg(0)
	chunks := readChunks(flag.Args()[1:])

	opts := bpe.Options{
		VocabSize:         *vocabSize,
		MinFreq:           *minFreq,
		CompressThreshold: *compressThreshold,
		SingleChar:        *singleChar,
		Verbose:           *verbose,
	}
	tr := bpe.NewTrainer(opts)

	vocab, err := tr.Train(chunks)
	if err != nil {
		fatal("training failed: %v", err)
	}

	if *verbose {
		stats := tr.Stats()
		fmt.Fprintf(os.Stderr, "bpetrain: %d merges, vocabulary size %d, corpus length %d\n",
			tr.Epoch(), vocab.Len(), stats.Length)
	}

	if *gzipOut {
		err = vocabfile.SaveGzip(outPath, vocab)
	} else {
		err = vocabfile.SaveFile(outPath, vocab)
	}
	if err != nil {
		fatal("cannot write '%s': %v", outPath, err)
	}
}

// readChunks reads each named file as one corpus chunk, or a single
// chunk from stdin if no files are named. Chunks corpusfilter rejects
// as binary/random are skipped, with a note on stderr when -v is set.
func readChunks(paths []string) [][]byte {
	var raw [][]byte
	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("cannot read stdin: %v", err)
		}
		raw = append(raw, data)
	} else {
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				fatal("cannot read '%s': %v", p, err)
			}
			raw = append(raw, data)
		}
	}

	if !*filter {
		return raw
	}

	chunks := make([][]byte, 0, len(raw))
	for i, data := range raw {
		if ok, profile := corpusfilter.Admit(data); ok {
			chunks = append(chunks, data)
		} else if *verbose {
			name := "stdin"
			if i < len(paths) {
				name = paths[i]
			}
			fmt.Fprintf(os.Stderr, "bpetrain: rejecting %s as %s (entropy %.2f)\n", name, profile.Type, profile.Entropy)
		}
	}
	return chunks
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bpetrain [options] out.vocab [file...]

Train a byte-pair-encoding vocabulary from one or more text files, or
stdin if none are named, and write it to out.vocab.

Options:
  -vocab-size N          target vocabulary size (default %d)
  -min-freq N            minimum pair frequency to accept a merge (default 1)
  -compress-threshold F  pair index compaction threshold (default 0.3)
  -single-char           track single-byte word-count accounting (default true)
  -filter                reject binary/high-entropy input chunks (default true)
  -gzip                  write the vocabulary gzip-compressed
  -v                     verbose operation
  -h                     display this help

Examples:
  bpetrain vocab.txt corpus.txt       Train from corpus.txt
  bpetrain -vocab-size 5000 v.txt *.txt
  cat corpus.txt | bpetrain out.vocab Train from stdin

`, bpe.BaseVocabSize+2000)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bpetrain: "+format+"\n", args...)
	os.Exit(1)
}
