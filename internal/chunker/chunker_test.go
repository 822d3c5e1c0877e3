package chunker

import (
	"strings"
	"testing"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

func TestSplit_Empty(t *testing.T) {
	s := New()
	if got := s.Split(""); got != nil {
		t.Errorf("expected nil for empty input, got %d chunks", len(got))
	}
	if got := s.Split("   \n\t  "); got != nil {
		t.Errorf("expected nil for whitespace input, got %d chunks", len(got))
	}
}

func TestSplit_FitsInOneChunk(t *testing.T) {
	s := New()
	text := "A short document that fits comfortably in a single chunk."

	chunks := s.Split(text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Text != text {
		t.Errorf("chunk text differs from input")
	}
	if c.Index != 0 || c.StartOffset != 0 || c.EndOffset != len(text) {
		t.Errorf("unexpected chunk bounds: index=%d start=%d end=%d", c.Index, c.StartOffset, c.EndOffset)
	}
	if c.Tokens != domain.EstimateTokens(text) {
		t.Errorf("tokens = %d, want %d", c.Tokens, domain.EstimateTokens(text))
	}
}

func TestSplit_ParagraphsWithOverlap(t *testing.T) {
	// Three 400-char paragraphs. Budget fits one paragraph per chunk
	// but not two.
	para1 := strings.Repeat("a", 400)
	para2 := strings.Repeat("b", 400)
	para3 := strings.Repeat("c", 400)
	text := para1 + "\n\n" + para2 + "\n\n" + para3

	s := New(WithMaxChunkSize(120), WithOverlap(20))
	chunks := s.Split(text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	carry := 20 * 4
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: index = %d", i, c.Index)
		}
		if c.Tokens != domain.EstimateTokens(c.Text) {
			t.Errorf("chunk %d: stale token estimate", i)
		}
		// Every chunk text, overlap included, is a slice of the
		// original text at its recorded offsets.
		if c.Text != text[c.StartOffset:c.EndOffset] {
			t.Errorf("chunk %d: text does not match offsets", i)
		}
		if i > 0 {
			if !strings.HasPrefix(c.Text, chunks[i-1].Text[len(chunks[i-1].Text)-carry:]) {
				t.Errorf("chunk %d: missing overlap prefix", i)
			}
		}
	}

	if got := Reconstruct(chunks, 20); got != text {
		t.Errorf("reconstruct did not reproduce original text")
	}
}

func TestSplit_SentenceMode(t *testing.T) {
	sentence := "This sentence pads the chunk with enough words to carry some weight. "
	text := strings.TrimSpace(strings.Repeat(sentence, 20))

	s := New(WithMaxChunkSize(100), WithOverlap(0), WithParagraphs(false), WithSentences(true))
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Tokens > 100 {
			t.Errorf("chunk %d: %d tokens exceeds budget", i, c.Tokens)
		}
	}
	if got := Reconstruct(chunks, 0); got != text {
		t.Errorf("chunks do not concatenate to original text")
	}
}

func TestSplit_HardSplit(t *testing.T) {
	// No paragraph or sentence boundaries at all.
	text := strings.Repeat("x", 100)

	s := New(WithMaxChunkSize(10), WithOverlap(0), WithParagraphs(false), WithSentences(false))
	chunks := s.Split(text)

	// Window is 10*4*0.9 = 36 chars.
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if got := Reconstruct(chunks, 0); got != text {
		t.Errorf("chunks do not concatenate to original text")
	}
}

func TestSplit_HardSplitPrefersPeriod(t *testing.T) {
	// A period past the half-window mark pulls the cut to just after
	// it instead of the hard 36-char boundary.
	text := strings.Repeat("a", 24) + "." + strings.Repeat("b", 75)

	s := New(WithMaxChunkSize(10), WithOverlap(0), WithParagraphs(false), WithSentences(false))
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, ".") {
		t.Errorf("first chunk should end at the period, got %q", chunks[0].Text)
	}
	if got := Reconstruct(chunks, 0); got != text {
		t.Errorf("chunks do not concatenate to original text")
	}
}

func TestSplit_OversizedParagraphFallsBack(t *testing.T) {
	// One paragraph alone exceeds the budget and is hard-split; the
	// small one stays intact.
	big := strings.Repeat("y", 2000)
	small := strings.Repeat("z", 100)
	text := big + "\n\n" + small

	s := New(WithMaxChunkSize(100), WithOverlap(0))
	chunks := s.Split(text)

	if len(chunks) < 3 {
		t.Fatalf("expected oversized paragraph to be split, got %d chunks", len(chunks))
	}
	if got := Reconstruct(chunks, 0); got != text {
		t.Errorf("chunks do not concatenate to original text")
	}
}

func TestSplit_SmallBudgetSentences(t *testing.T) {
	text := "The quick brown fox. It jumped over the lazy dog. This is a third sentence that is unrelated."

	s := New(WithMaxChunkSize(5), WithOverlap(0), WithParagraphs(false), WithSentences(true))
	chunks := s.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Tokens > 5 {
			t.Errorf("chunk %d: %d tokens exceeds budget", i, c.Tokens)
		}
	}
	if got := Reconstruct(chunks, 0); got != text {
		t.Errorf("chunks do not concatenate to original text")
	}
}

func TestSplit_Idempotent(t *testing.T) {
	text := strings.Repeat("One paragraph of steady filler text for the splitter.\n\n", 40)

	s := New(WithMaxChunkSize(60), WithOverlap(10))
	first := s.Split(text)
	second := s.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestNew_OverlapClamped(t *testing.T) {
	s := New(WithMaxChunkSize(100), WithOverlap(100))
	if s.Overlap() != 25 {
		t.Errorf("overlap = %d, want 25", s.Overlap())
	}

	s = New(WithMaxChunkSize(100), WithOverlap(200))
	if s.Overlap() != 25 {
		t.Errorf("overlap = %d, want 25", s.Overlap())
	}
}

func TestReconstruct_Empty(t *testing.T) {
	if got := Reconstruct(nil, 10); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
