// Command bpeencode encodes or decodes text against a trained byte-pair
// encoding vocabulary file.
//
// Usage:
//
//	bpeencode [-d] [-gzip] vocab.txt [file]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ha1tch/unz/pkg/bpe"
	"github.com/ha1tch/unz/pkg/vocabfile"
)

var (
	decode = flag.Bool("d", false, "decode ids back to text instead of encoding")
	gzipIn = flag.Bool("gzip", false, "vocabulary file is gzip-compressed")
	help   = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "bpeencode: missing vocabulary path")
		fmt.Fprintln(os.Stderr, "Try 'bpeencode -h' for more information.")
		os.Exit(1)
	}

	vocabPath := flag.Arg(0)
	vocab := loadVocab(vocabPath)

	enc, err := bpe.NewEncoder(vocab)
	if err != nil {
		fatal("cannot build encoder: %v", err)
	}

	var in io.Reader = os.Stdin
	if flag.NArg() > 1 {
		f, err := os.Open(flag.Arg(1))
		if err != nil {
			fatal("cannot open '%s': %v", flag.Arg(1), err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fatal("cannot read input: %v", err)
	}

	if *decode {
		ids, err := parseIDs(data)
		if err != nil {
			fatal("cannot parse ids: %v", err)
		}
		text, err := enc.Decode(ids)
		if err != nil {
			fatal("decode failed: %v", err)
		}
		os.Stdout.Write(text)
	} else {
		ids := enc.Encode(data)
		w := bufio.NewWriter(os.Stdout)
		for i, id := range ids {
			if i > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%d", id)
		}
		w.WriteByte('\n')
		w.Flush()
	}
}

func loadVocab(path string) *bpe.Vocabulary {
	var vocab *bpe.Vocabulary
	var err error
	if *gzipIn {
		vocab, err = vocabfile.LoadGzip(path)
	} else {
		vocab, err = vocabfile.LoadFile(path)
	}
	if err != nil {
		fatal("cannot load vocabulary '%s': %v", path, err)
	}
	return vocab
}

func parseIDs(data []byte) ([]int, error) {
	fields := strings.Fields(string(data))
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bpeencode [-d] [-gzip] vocab.txt [file]

Encode text into token ids (or decode ids back into text, with -d)
against a trained byte-pair-encoding vocabulary file.

Options:
  -d         decode ids back to text instead of encoding
  -gzip      vocabulary file is gzip-compressed
  -h         display this help

Examples:
  bpeencode vocab.txt document.txt       Encode document.txt to ids
  echo hello | bpeencode vocab.txt       Encode stdin
  bpeencode -d vocab.txt ids.txt         Decode ids back to text

`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bpeencode: "+format+"\n", args...)
	os.Exit(1)
}
