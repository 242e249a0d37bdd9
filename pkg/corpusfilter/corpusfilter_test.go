package corpusfilter

import (
	"bytes"
	"testing"
)

func TestDetectText(t *testing.T) {
	text := []byte("The quick brown fox jumps over the lazy dog. This is a sample of natural language text that should be detected as prose.")

	profile := Detect(text)

	if profile.Type != TypeText {
		t.Errorf("type: got %v, want TypeText", profile.Type)
	}
	if profile.ASCIIRatio < 0.85 {
		t.Errorf("ASCII ratio too low: %f", profile.ASCIIRatio)
	}
	if !profile.Type.Admissible() {
		t.Error("prose should be admissible")
	}
}

func TestDetectCode(t *testing.T) {
	code := []byte(`func main() {
	fmt.Println("Hello, World!")
	for i := 0; i < 10; i++ {
		result := compute(i)
		fmt.Printf("%d: %d\n", i, result)
	}
}`)

	profile := Detect(code)

	if profile.Type != TypeCode {
		t.Errorf("type: got %v, want TypeCode", profile.Type)
	}
	if profile.CodeScore < 0.4 {
		t.Errorf("code score too low: %f", profile.CodeScore)
	}
	if !profile.Type.Admissible() {
		t.Error("code should be admissible")
	}
}

func TestDetectBinary(t *testing.T) {
	binary := make([]byte, 1000)
	for i := range binary {
		binary[i] = byte(i * 37 % 256)
	}

	profile := Detect(binary)

	if profile.Type == TypeText || profile.Type == TypeCode {
		t.Errorf("binary data should not be detected as text/code: got %v", profile.Type)
	}
	if profile.ASCIIRatio > 0.5 {
		t.Errorf("ASCII ratio too high for binary: %f", profile.ASCIIRatio)
	}
}

func TestDetectRepetitive(t *testing.T) {
	pattern := []byte{0x12, 0x34, 0x56, 0x78}
	repetitive := bytes.Repeat(pattern, 500)

	profile := Detect(repetitive)

	if profile.Type != TypeRepetitive {
		t.Errorf("type: got %v, want TypeRepetitive", profile.Type)
	}
	if profile.RepetitionRate < 0.3 {
		t.Errorf("repetition rate too low: %f", profile.RepetitionRate)
	}
}

func TestDetectRandom(t *testing.T) {
	random := make([]byte, 1000)
	for i := range random {
		random[i] = byte((i*179 + 83) % 256)
	}

	profile := Detect(random)

	if profile.Entropy < 7.0 {
		t.Errorf("entropy too low for random: %f", profile.Entropy)
	}
}

func TestDetectLowEntropy(t *testing.T) {
	// Pseudo-random bytes from a 16-value range: at most 4 bits of entropy,
	// but without the short period that would classify as repetitive.
	lowEntropy := make([]byte, 1000)
	x := uint32(1)
	for i := range lowEntropy {
		x = x*1664525 + 1013904223
		lowEntropy[i] = byte(x >> 28)
	}

	profile := Detect(lowEntropy)

	if profile.Type != TypeLowEntropy {
		t.Errorf("type: got %v, want TypeLowEntropy", profile.Type)
	}
}

func TestDetectEmpty(t *testing.T) {
	profile := Detect(nil)
	if profile.Type != TypeRandom {
		t.Errorf("type: got %v, want TypeRandom for empty input", profile.Type)
	}
	if profile.Type.Admissible() {
		t.Error("empty input should not be admissible")
	}
}

func TestAdmitRejectsBinaryAndRandom(t *testing.T) {
	// Pseudo-random bytes: the full byte range classifies as random, a
	// 64-value range (about 6 bits of entropy) as binary.
	binary := make([]byte, 2000)
	random := make([]byte, 2000)
	x := uint32(12345)
	for i := range random {
		x = x*1664525 + 1013904223
		random[i] = byte(x >> 24)
		binary[i] = byte(x >> 26)
	}

	for _, data := range [][]byte{binary, random} {
		ok, profile := Admit(data)
		if ok {
			t.Errorf("Admit should reject profile type %v", profile.Type)
		}
	}
}

func TestAdmitAcceptsProse(t *testing.T) {
	ok, profile := Admit([]byte("a perfectly ordinary sentence about nothing in particular"))
	if !ok {
		t.Errorf("Admit should accept prose, got type %v", profile.Type)
	}
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		TypeText:       "text",
		TypeCode:       "code",
		TypeBinary:     "binary",
		TypeRepetitive: "repetitive",
		TypeLowEntropy: "low-entropy",
		TypeRandom:     "random",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("String(%d): got %q, want %q", typ, got, want)
		}
	}
}
