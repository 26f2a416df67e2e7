package screening

import (
	"fmt"
	"testing"
)

func TestSimilarity_Identical(t *testing.T) {
	if got := Similarity("Ahmed Ali", "Ahmed Ali"); got != 100 {
		t.Errorf("expected 100 for identical names, got %d", got)
	}
}

func TestSimilarity_TokenOrderInsensitive(t *testing.T) {
	if got := Similarity("Ahmed Ali", "Ali Ahmed"); got != 100 {
		t.Errorf("expected 100 for reordered tokens, got %d", got)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"John Smith", "Jon Smith"},
		{"Vladimir Petrov", "Wladimir Petrow"},
		{"", "anything"},
		{"Maria Garcia Lopez", "Lopez Maria"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("similarity(%q,%q)=%d but similarity(%q,%q)=%d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestSimilarity_CaseAndWhitespace(t *testing.T) {
	if got := Similarity("  JOHN   SMITH ", "john smith"); got != 100 {
		t.Errorf("expected 100 after normalization, got %d", got)
	}
}

func TestSimilarity_EmptyInputs(t *testing.T) {
	for _, tc := range []struct{ a, b string }{
		{"", ""},
		{"", "John Smith"},
		{"John Smith", ""},
		{"   ", "John Smith"},
	} {
		if got := Similarity(tc.a, tc.b); got != 0 {
			t.Errorf("similarity(%q,%q) = %d, expected 0", tc.a, tc.b, got)
		}
	}
}

func TestSimilarity_MiddleInitial(t *testing.T) {
	// An alias with a middle initial has to clear the match threshold.
	got := Similarity("JOHN SMITH", "John A. Smith")
	if got < DefaultSimilarityThreshold {
		t.Errorf("expected at least %d for middle-initial variant, got %d", DefaultSimilarityThreshold, got)
	}
}

func TestSimilarity_DissimilarNames(t *testing.T) {
	got := Similarity("John Smith", "Xiang Wei")
	if got >= DefaultSimilarityThreshold {
		t.Errorf("expected dissimilar names below threshold, got %d", got)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	cases := [][2]string{
		{"a", "zzzzzzzzzzzzzzzz"},
		{"John Smith", "Smith John Smith"},
		{"X", "X"},
	}
	for _, c := range cases {
		got := Similarity(c[0], c[1])
		if got < 0 || got > 100 {
			t.Errorf("similarity(%q,%q) = %d out of [0,100]", c[0], c[1], got)
		}
	}
}

func BenchmarkSimilarity(b *testing.B) {
	names := make([]string, 100)
	for i := range names {
		names[i] = fmt.Sprintf("Test Name Variant %d", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Similarity("Ahmed Ali Mohammed", names[i%len(names)])
	}
}
