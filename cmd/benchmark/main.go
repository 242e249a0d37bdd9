// Command benchmark trains a byte-pair-encoding vocabulary on samples of
// several content types and sizes, then reports each sample's token
// count against a raw DEFLATE baseline, producing a JSON report.
//
// Usage:
//
//	benchmark [-o output_dir] [-sizes 2,8,32,128,512,2048] [-vocab-size 2000]
package main

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ha1tch/unz/pkg/bpe"
)

// Category groups content types for summary reporting.
type Category string

const (
	CatNaturalLang Category = "natural_language"
	CatProgLang    Category = "programming_language"
	CatStructured  Category = "structured_data"
	CatMarkup      Category = "markup"
)

// ContentType is a specific sample kind within a Category.
type ContentType struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	FileExt  string   `json:"file_ext"`
}

// contentTypes lists one or two representative samples per category
// rather than an exhaustive language matrix: the point of this benchmark
// is to sanity-check merge behavior across broadly different byte
// statistics (prose, code, structured data, markup), not to catalogue
// every language a real corpus might contain.
var contentTypes = []ContentType{
	{ID: "en", Name: "English", Category: CatNaturalLang, FileExt: ".txt"},
	{ID: "es", Name: "Spanish", Category: CatNaturalLang, FileExt: ".txt"},

	{ID: "go", Name: "Go", Category: CatProgLang, FileExt: ".go"},
	{ID: "python", Name: "Python", Category: CatProgLang, FileExt: ".py"},

	{ID: "json", Name: "JSON", Category: CatStructured, FileExt: ".json"},

	{ID: "markdown", Name: "Markdown", Category: CatMarkup, FileExt: ".md"},
}

// BenchmarkResult holds results for training and encoding one sample.
type BenchmarkResult struct {
	ContentType string `json:"content_type"`
	ContentName string `json:"content_name"`
	Category    string `json:"category"`
	SizeKB      int    `json:"size_kb"`
	OriginalB   int    `json:"original_bytes"`

	MergesAccepted int `json:"merges_accepted"`
	VocabSize      int `json:"vocab_size"`
	TokenCount     int `json:"token_count"`
	TokenBytes     int `json:"token_bytes"`     // varint-packed token stream, pre-DEFLATE
	TokenDeflated  int `json:"token_deflated"`   // DEFLATE over the packed token stream
	RawDeflated    int `json:"raw_deflated"`      // DEFLATE over the original bytes, for comparison

	BytesPerToken  float64 `json:"bytes_per_token"`
	VsRawDeflate   float64 `json:"vs_raw_deflate"` // % improvement of token_deflated over raw_deflated
	TrainDuration  string  `json:"train_duration"`
	EncodeDuration string  `json:"encode_duration"`
}

// Report holds the complete benchmark report.
type Report struct {
	Generated time.Time         `json:"generated"`
	GoVersion string            `json:"go_version"`
	Platform  string            `json:"platform"`
	SizesKB   []int             `json:"sizes_kb"`
	Results   []BenchmarkResult `json:"results"`
	Summary   ReportSummary     `json:"summary"`
}

// ReportSummary provides aggregate statistics.
type ReportSummary struct {
	TotalTests      int                    `json:"total_tests"`
	TokenWins       int                    `json:"token_wins"` // token stream beat raw DEFLATE
	AvgVsRawDeflate float64                `json:"avg_vs_raw_deflate"`
	ByCategory      map[string]CatSummary  `json:"by_category"`
	BySizeKB        map[int]SizeSummary    `json:"by_size_kb"`
}

type CatSummary struct {
	Tests           int     `json:"tests"`
	TokenWins       int     `json:"token_wins"`
	AvgVsRawDeflate float64 `json:"avg_vs_raw_deflate"`
}

type SizeSummary struct {
	Tests           int     `json:"tests"`
	TokenWins       int     `json:"token_wins"`
	AvgVsRawDeflate float64 `json:"avg_vs_raw_deflate"`
}

func main() {
	outputDir := flag.String("o", ".", "output directory for the report")
	sizesFlag := flag.String("sizes", "2,8,32,128,512", "comma-separated sample sizes in KB")
	vocabSize := flag.Int("vocab-size", bpe.BaseVocabSize+1000, "target vocabulary size per trained sample")
	flag.Parse()

	var sizes []int
	for _, s := range strings.Split(*sizesFlag, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid size: %s\n", s)
			os.Exit(1)
		}
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)

	fmt.Printf("BPE Benchmark Report Generator\n")
	fmt.Printf("===============================\n")
	fmt.Printf("Sizes: %v KB\n", sizes)
	fmt.Printf("Content types: %d\n", len(contentTypes))
	fmt.Printf("Total benchmarks: %d\n\n", len(sizes)*len(contentTypes))

	var results []BenchmarkResult
	total := len(sizes) * len(contentTypes)
	done := 0

	for _, ct := range contentTypes {
		for _, sizeKB := range sizes {
			done++
			fmt.Printf("\r[%d/%d] Training on %s at %d KB...", done, total, ct.Name, sizeKB)
			results = append(results, runBenchmark(ct, sizeKB, *vocabSize))
		}
	}
	fmt.Printf("\r[%d/%d] Complete!                              \n\n", total, total)

	report := Report{
		Generated: time.Now().UTC(),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SizesKB:   sizes,
		Results:   results,
		Summary:   calculateSummary(results),
	}

	jsonPath := filepath.Join(*outputDir, "report.json")
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling report: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", jsonPath)

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Total tests: %d\n", report.Summary.TotalTests)
	fmt.Printf("Token stream beats raw DEFLATE: %d (%.1f%%)\n",
		report.Summary.TokenWins, 100*float64(report.Summary.TokenWins)/float64(report.Summary.TotalTests))
	fmt.Printf("Avg vs raw DEFLATE: %.1f%%\n", report.Summary.AvgVsRawDeflate)
}

func runBenchmark(ct ContentType, sizeKB, vocabSize int) BenchmarkResult {
	targetSize := sizeKB * 1024
	data := generateContent(ct, targetSize)

	result := BenchmarkResult{
		ContentType: ct.ID,
		ContentName: ct.Name,
		Category:    string(ct.Category),
		SizeKB:      sizeKB,
		OriginalB:   len(data),
	}

	opts := bpe.DefaultOptions(vocabSize)
	tr := bpe.NewTrainer(opts)

	trainStart := time.Now()
	vocab, err := tr.Train([][]byte{data})
	result.TrainDuration = time.Since(trainStart).String()
	if err != nil {
		return result
	}
	result.MergesAccepted = tr.Epoch()
	result.VocabSize = vocab.Len()

	enc, err := bpe.NewEncoder(vocab)
	if err != nil {
		return result
	}

	encodeStart := time.Now()
	tokens := enc.Encode(data)
	result.EncodeDuration = time.Since(encodeStart).String()
	result.TokenCount = len(tokens)

	tokenBytes := encodeVarints(tokens)
	result.TokenBytes = len(tokenBytes)
	result.TokenDeflated = len(deflateBytes(tokenBytes))
	result.RawDeflated = len(deflateBytes(data))

	if result.TokenCount > 0 {
		result.BytesPerToken = float64(result.OriginalB) / float64(result.TokenCount)
	}
	if result.RawDeflated > 0 {
		result.VsRawDeflate = 100 * (1 - float64(result.TokenDeflated)/float64(result.RawDeflated))
	}

	return result
}

func deflateBytes(data []byte) []byte {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// encodeVarints packs a token id stream with a little-endian 7-bit
// variable-length scheme: 1 byte for ids under 128, 2 for ids under
// 16384, 3 otherwise.
func encodeVarints(tokens []int) []byte {
	var buf bytes.Buffer
	for _, t := range tokens {
		switch {
		case t < 128:
			buf.WriteByte(byte(t))
		case t < 16384:
			buf.WriteByte(byte(t&0x7F) | 0x80)
			buf.WriteByte(byte(t >> 7))
		default:
			buf.WriteByte(byte(t&0x7F) | 0x80)
			buf.WriteByte(byte((t>>7)&0x7F) | 0x80)
			buf.WriteByte(byte(t >> 14))
		}
	}
	return buf.Bytes()
}

func calculateSummary(results []BenchmarkResult) ReportSummary {
	summary := ReportSummary{
		TotalTests: len(results),
		ByCategory: make(map[string]CatSummary),
		BySizeKB:   make(map[int]SizeSummary),
	}

	var totalVsRaw float64

	for _, r := range results {
		totalVsRaw += r.VsRawDeflate
		win := r.VsRawDeflate > 0
		if win {
			summary.TokenWins++
		}

		cat := summary.ByCategory[r.Category]
		cat.Tests++
		cat.AvgVsRawDeflate += r.VsRawDeflate
		if win {
			cat.TokenWins++
		}
		summary.ByCategory[r.Category] = cat

		size := summary.BySizeKB[r.SizeKB]
		size.Tests++
		size.AvgVsRawDeflate += r.VsRawDeflate
		if win {
			size.TokenWins++
		}
		summary.BySizeKB[r.SizeKB] = size
	}

	if len(results) > 0 {
		summary.AvgVsRawDeflate = totalVsRaw / float64(len(results))
	}
	for k, v := range summary.ByCategory {
		if v.Tests > 0 {
			v.AvgVsRawDeflate /= float64(v.Tests)
			summary.ByCategory[k] = v
		}
	}
	for k, v := range summary.BySizeKB {
		if v.Tests > 0 {
			v.AvgVsRawDeflate /= float64(v.Tests)
			summary.BySizeKB[k] = v
		}
	}

	return summary
}

// === Content Generators ===

func generateContent(ct ContentType, targetSize int) []byte {
	switch ct.Category {
	case CatNaturalLang:
		return generateNaturalLang(ct.ID, targetSize)
	case CatProgLang:
		return generateCode(ct.ID, targetSize)
	case CatStructured:
		return generateStructured(ct.ID, targetSize)
	case CatMarkup:
		return generateMarkup(ct.ID, targetSize)
	default:
		return bytes.Repeat([]byte("x"), targetSize)
	}
}

func generateNaturalLang(lang string, targetSize int) []byte {
	var corpus []string

	switch lang {
	case "en":
		corpus = []string{
			"The quick brown fox jumps over the lazy dog.",
			"In a world where technology advances rapidly, we must adapt.",
			"The economy continues to show signs of recovery.",
			"Scientists have discovered a new species in the deep ocean.",
			"The government announced new policies to address climate change.",
			"Education remains a cornerstone of societal development.",
			"Healthcare systems around the world face unprecedented challenges.",
			"The arts and culture sector is experiencing a renaissance.",
			"Innovation drives progress in every industry and field.",
			"Community engagement is essential for local development.",
		}
	case "es":
		corpus = []string{
			"El rápido zorro marrón salta sobre el perro perezoso.",
			"En un mundo donde la tecnología avanza rápidamente, debemos adaptarnos.",
			"La economía continúa mostrando signos de recuperación.",
			"Los científicos han descubierto una nueva especie en el océano profundo.",
			"El gobierno anunció nuevas políticas para abordar el cambio climático.",
			"La educación sigue siendo la piedra angular del desarrollo social.",
			"Los sistemas de salud en todo el mundo enfrentan desafíos sin precedentes.",
			"El sector de las artes y la cultura está experimentando un renacimiento.",
			"La innovación impulsa el progreso en todas las industrias y campos.",
			"La participación comunitaria es esencial para el desarrollo local.",
		}
	default:
		corpus = []string{"Lorem ipsum dolor sit amet, consectetur adipiscing elit."}
	}

	var sb strings.Builder
	rng := rand.New(rand.NewSource(42))
	for sb.Len() < targetSize {
		sb.WriteString(corpus[rng.Intn(len(corpus))])
		sb.WriteString(" ")
	}
	return []byte(sb.String()[:targetSize])
}

func generateCode(lang string, targetSize int) []byte {
	var sb strings.Builder
	rng := rand.New(rand.NewSource(42))

	switch lang {
	case "go":
		sb.WriteString("package main\n\nimport (\n\t\"fmt\"\n\t\"strings\"\n\t\"errors\"\n)\n\n")
		for sb.Len() < targetSize {
			sb.WriteString(goFunction(rng))
		}
	case "python":
		sb.WriteString("#!/usr/bin/env python3\nimport json\nimport asyncio\nfrom typing import List, Optional, Dict\nfrom dataclasses import dataclass\n\n")
		for sb.Len() < targetSize {
			sb.WriteString(pythonFunction(rng))
		}
	}

	result := sb.String()
	if len(result) > targetSize {
		result = result[:targetSize]
	}
	return []byte(result)
}

func goFunction(rng *rand.Rand) string {
	names := []string{"Process", "Handle", "Validate", "Transform", "Execute", "Calculate", "Parse", "Format"}
	name := names[rng.Intn(len(names))]
	id := rng.Intn(1000)
	return fmt.Sprintf(`func %s%d(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	result := make([]byte, len(data))
	for i, b := range data {
		result[i] = b ^ byte(i%%256)
	}
	if err := validate(result); err != nil {
		return nil, fmt.Errorf("%s%d: %%w", err)
	}
	return result, nil
}

`, name, id, name, id)
}

func pythonFunction(rng *rand.Rand) string {
	names := []string{"process", "handle", "validate", "transform", "execute", "calculate", "parse", "format"}
	name := names[rng.Intn(len(names))]
	id := rng.Intn(1000)
	return fmt.Sprintf(`async def %s_%d(data: List[Dict]) -> Optional[Dict]:
    """Process the input data and return results."""
    if not data:
        raise ValueError("Empty input")

    results = []
    for item in data:
        if "id" not in item:
            continue
        processed = {
            "id": item["id"],
            "value": item.get("value", 0) * 2,
            "status": "processed"
        }
        results.append(processed)

    return {"count": len(results), "items": results}


`, name, id)
}

func generateStructured(format string, targetSize int) []byte {
	var sb strings.Builder
	rng := rand.New(rand.NewSource(42))

	switch format {
	case "json":
		sb.WriteString(`{"data":[`)
		first := true
		for sb.Len() < targetSize-50 {
			if !first {
				sb.WriteString(",")
			}
			first = false
			id := rng.Intn(100000)
			fmt.Fprintf(&sb, `{"id":%d,"name":"User %d","email":"user%d@example.com","active":%v,"score":%d,"tags":["tag%d","tag%d"]}`,
				id, id, id, rng.Intn(2) == 1, rng.Intn(100), rng.Intn(10), rng.Intn(10))
		}
		sb.WriteString(`],"meta":{"count":1,"page":1}}`)
	}

	result := sb.String()
	if len(result) > targetSize {
		result = result[:targetSize]
	}
	return []byte(result)
}

func generateMarkup(format string, targetSize int) []byte {
	var sb strings.Builder
	rng := rand.New(rand.NewSource(42))

	switch format {
	case "markdown":
		sb.WriteString("# Main Document Title\n\n")
		for sb.Len() < targetSize {
			id := rng.Intn(1000)
			fmt.Fprintf(&sb, `## Section %d

This is a paragraph with some **bold text** and *italic text*. Here is a [link](https://example.com/%d) to more information.

### Subsection %d.1

- First bullet point with details
- Second bullet point with more content
- Third bullet point for completion

`+"```go\n"+`func example%d() {
    fmt.Println("Hello, World!")
}
`+"```\n\n", id, id, id, id)
		}
	}

	result := sb.String()
	if len(result) > targetSize {
		result = result[:targetSize]
	}
	return []byte(result)
}
