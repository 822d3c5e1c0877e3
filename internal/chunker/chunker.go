// Package chunker splits document text into token-bounded, overlapping
// chunks suitable for independent embedding.
//
// Splitting prefers paragraph boundaries, then sentence boundaries, and
// falls back to character windows for oversized segments. A second pass
// duplicates the tail of each chunk into the start of the next so that
// retrieval does not lose context at chunk edges. Before the overlap
// pass every chunk is an exact slice of the original text, which makes
// Reconstruct an inverse of Split.
package chunker

import (
	"regexp"
	"strings"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

// Default splitting parameters, in estimated tokens.
const (
	DefaultMaxChunkSize = 1000
	DefaultOverlap      = 150
)

var (
	// paragraphRe matches one or more newlines with optional
	// whitespace forming a blank line.
	paragraphRe = regexp.MustCompile(`\n\s*\n`)

	// sentenceRe matches sentence terminators followed by whitespace.
	sentenceRe = regexp.MustCompile(`[.!?]+\s+`)
)

// Chunk is one bounded slice of a document's text.
type Chunk struct {
	// Index is the 0-based position within the document.
	Index int

	// Text is the chunk content, including any prepended overlap.
	Text string

	// StartOffset and EndOffset are character offsets into the
	// original text. StartOffset accounts for prepended overlap, so
	// consecutive starts are non-decreasing but may reach backwards
	// into the previous chunk.
	StartOffset int
	EndOffset   int

	// Tokens is the estimated token count of Text.
	Tokens int
}

// Splitter chunks text according to a fixed configuration.
type Splitter struct {
	maxChunkSize       int
	overlap            int
	preserveParagraphs bool
	preserveSentences  bool
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxChunkSize sets the token budget per chunk.
func WithMaxChunkSize(tokens int) Option {
	return func(s *Splitter) {
		if tokens > 0 {
			s.maxChunkSize = tokens
		}
	}
}

// WithOverlap sets the tokens of trailing context duplicated into the
// start of the next chunk.
func WithOverlap(tokens int) Option {
	return func(s *Splitter) {
		if tokens >= 0 {
			s.overlap = tokens
		}
	}
}

// WithParagraphs enables or disables splitting at paragraph boundaries.
func WithParagraphs(preserve bool) Option {
	return func(s *Splitter) {
		s.preserveParagraphs = preserve
	}
}

// WithSentences enables or disables splitting at sentence boundaries.
// Only consulted when paragraph mode is off.
func WithSentences(preserve bool) Option {
	return func(s *Splitter) {
		s.preserveSentences = preserve
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxChunkSize:       DefaultMaxChunkSize,
		overlap:            DefaultOverlap,
		preserveParagraphs: true,
		preserveSentences:  true,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't swallow whole chunks
	if s.overlap >= s.maxChunkSize {
		s.overlap = s.maxChunkSize / 4
	}

	return s
}

// MaxChunkSize returns the configured token budget per chunk.
func (s *Splitter) MaxChunkSize() int {
	return s.maxChunkSize
}

// Overlap returns the configured overlap in tokens.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// span is a half-open [start, end) range into the source text.
type span struct {
	start, end int
}

// Split chunks text. Empty or whitespace-only input yields no chunks;
// text within the budget yields exactly one chunk covering everything.
func (s *Splitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if tokens := domain.EstimateTokens(text); tokens <= s.maxChunkSize {
		return []Chunk{{
			Index:       0,
			Text:        text,
			StartOffset: 0,
			EndOffset:   len(text),
			Tokens:      tokens,
		}}
	}

	var spans []span
	switch {
	case s.preserveParagraphs:
		spans = s.accumulate(text, segmentSpans(text, paragraphRe))
	case s.preserveSentences:
		spans = s.accumulate(text, segmentSpans(text, sentenceRe))
	default:
		spans = s.hardSplit(text, 0, len(text))
	}

	chunks := make([]Chunk, len(spans))
	for i, sp := range spans {
		chunks[i] = Chunk{
			Text:        text[sp.start:sp.end],
			StartOffset: sp.start,
			EndOffset:   sp.end,
		}
	}

	s.applyOverlap(chunks)

	// Indices and token estimates are recomputed after overlap.
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Tokens = domain.EstimateTokens(chunks[i].Text)
	}

	return chunks
}

// segmentSpans partitions text into contiguous segments, each ending
// where a boundary match ends. The separator stays attached to the
// segment it terminates, so the segments cover the text exactly.
func segmentSpans(text string, re *regexp.Regexp) []span {
	locs := re.FindAllStringIndex(text, -1)
	spans := make([]span, 0, len(locs)+1)

	start := 0
	for _, loc := range locs {
		if loc[1] <= start {
			continue
		}
		spans = append(spans, span{start, loc[1]})
		start = loc[1]
	}
	if start < len(text) {
		spans = append(spans, span{start, len(text)})
	}

	return spans
}

// accumulate greedily merges adjacent segments while the combined
// token estimate stays within the budget. A single segment that alone
// exceeds the budget is hard-split in place and accumulation resets.
func (s *Splitter) accumulate(text string, segs []span) []span {
	var out []span
	cur := span{-1, -1}

	flush := func() {
		if cur.start >= 0 {
			out = append(out, cur)
			cur = span{-1, -1}
		}
	}

	for _, seg := range segs {
		if domain.EstimateTokens(text[seg.start:seg.end]) > s.maxChunkSize {
			flush()
			out = append(out, s.hardSplit(text, seg.start, seg.end)...)
			continue
		}

		if cur.start < 0 {
			cur = seg
			continue
		}

		if domain.EstimateTokens(text[cur.start:seg.end]) <= s.maxChunkSize {
			cur.end = seg.end
		} else {
			out = append(out, cur)
			cur = seg
		}
	}
	flush()

	return out
}

// hardSplit slices text[start:end] into character windows of
// floor(maxChunkSize*4*0.9) bytes. Each window end is pulled back to
// the nearest period past the half-window mark if one exists, else to
// the nearest space past that mark, else left at the hard boundary.
func (s *Splitter) hardSplit(text string, start, end int) []span {
	window := s.maxChunkSize * 4 * 9 / 10
	if window <= 0 {
		window = 1
	}

	var out []span
	pos := start
	for pos < end {
		if pos+window >= end {
			out = append(out, span{pos, end})
			break
		}

		cut := pos + window
		half := pos + window/2
		seg := text[pos:cut]

		if idx := strings.LastIndexByte(seg, '.'); idx >= 0 && pos+idx > half {
			cut = pos + idx + 1
		} else if idx := strings.LastIndexByte(seg, ' '); idx >= 0 && pos+idx > half {
			cut = pos + idx + 1
		}

		out = append(out, span{pos, cut})
		pos = cut
	}

	return out
}

// applyOverlap prepends the trailing overlap*4 characters of each
// chunk's final text to the next chunk, decrementing the next chunk's
// start offset by the prepended length. A chunk list of length <= 1
// never receives overlap.
func (s *Splitter) applyOverlap(chunks []Chunk) {
	if s.overlap <= 0 || len(chunks) <= 1 {
		return
	}

	carry := s.overlap * 4
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1].Text
		if len(tail) > carry {
			tail = tail[len(tail)-carry:]
		}
		chunks[i].Text = tail + chunks[i].Text
		chunks[i].StartOffset -= len(tail)
		if chunks[i].StartOffset < 0 {
			chunks[i].StartOffset = 0
		}
	}
}

// Reconstruct inverts the overlap pass: it strips the first overlap*4
// characters from every chunk except the first and concatenates the
// remainder, reproducing the original text.
func Reconstruct(chunks []Chunk, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}

	carry := overlap * 4
	var b strings.Builder
	b.WriteString(chunks[0].Text)
	for _, c := range chunks[1:] {
		t := c.Text
		if carry > 0 {
			if len(t) <= carry {
				continue
			}
			t = t[carry:]
		}
		b.WriteString(t)
	}

	return b.String()
}
