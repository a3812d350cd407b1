package chunker

import (
	"strings"
)

// Segmenter provides sentence boundaries and token counts. The production
// implementation lives in internal/textproc; the chunker only depends on
// this narrow contract so the toolkit stays swappable and mockable.
type Segmenter interface {
	// Sentences splits text into an ordered list of sentence strings.
	Sentences(text string) ([]string, error)

	// CountTokens returns the token count for text. Deterministic for
	// identical input within one process lifetime.
	CountTokens(text string) (int, error)
}

// Options controls how text is chunked.
type Options struct {
	// MaxTokens is the per-chunk token budget. A chunk only exceeds it when
	// a single sentence alone is larger than the budget; sentences are
	// never split.
	MaxTokens int

	// Overlap is the token budget for the trailing sentences of a chunk
	// that are carried into the next chunk for context continuity.
	Overlap int
}

// Chunk is one segment of the document.
type Chunk struct {
	Index      int
	Text       string
	TokenCount int
}

// Result is the ordered chunk list produced by a single Chunk call.
type Result struct {
	Chunks []Chunk
	Count  int
}

// Chunker assembles sentence-aligned chunks under a token budget.
// It is stateless across calls and safe for concurrent use as long as the
// Segmenter is.
type Chunker struct {
	seg Segmenter
}

// New returns a Chunker backed by the given segmenter.
func New(seg Segmenter) *Chunker {
	return &Chunker{seg: seg}
}

// sentence pairs a trimmed sentence with its token count so the overlap
// scan can reuse counts computed in the main pass.
type sentence struct {
	text   string
	tokens int
}

// DefaultMaxTokens is used when Options.MaxTokens is unset.
const DefaultMaxTokens = 300

// Chunk splits text into sentence-aligned chunks of at most MaxTokens
// tokens, with consecutive chunks sharing up to Overlap tokens of trailing
// sentences. It never fails: if the segmenter or token counter errors, or
// segmentation yields no usable sentences, the whole document is returned
// as a single chunk.
func (c *Chunker) Chunk(text string, opts Options) Result {
	opts = opts.normalize()

	chunks, err := c.assemble(text, opts)
	if err != nil || len(chunks) == 0 {
		return c.wholeDocument(text)
	}
	return Result{Chunks: chunks, Count: len(chunks)}
}

func (opts Options) normalize() Options {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	// An overlap at or above the chunk budget would carry forward more
	// content than the next chunk can hold and stall forward progress.
	if opts.Overlap >= opts.MaxTokens {
		opts.Overlap = opts.MaxTokens - 1
	}
	return opts
}

// assemble runs the greedy packing pass. Any segmenter error aborts the
// whole pass; partial progress is discarded by the caller.
func (c *Chunker) assemble(text string, opts Options) ([]Chunk, error) {
	raw, err := c.seg.Sentences(text)
	if err != nil {
		return nil, err
	}

	var (
		chunks []Chunk
		buf    []sentence
		total  int
	)
	for _, r := range raw {
		s := strings.TrimSpace(r)
		if s == "" {
			continue
		}
		n, err := c.seg.CountTokens(s)
		if err != nil {
			return nil, err
		}

		// Flush only when the buffer is non-empty: an oversized single
		// sentence is appended to an empty buffer and emitted whole at
		// the next flush.
		if total+n > opts.MaxTokens && len(buf) > 0 {
			chunks = append(chunks, newChunk(len(chunks), buf, total))
			buf, total = carryOverlap(buf, opts.Overlap)
		}

		buf = append(buf, sentence{text: s, tokens: n})
		total += n
	}
	if len(buf) > 0 {
		chunks = append(chunks, newChunk(len(chunks), buf, total))
	}
	return chunks, nil
}

// carryOverlap selects the trailing sentences of a just-flushed buffer
// whose combined token count fits the overlap budget. It scans backward
// and keeps sentences in original order, stopping before the first one
// that would exceed the budget.
func carryOverlap(prev []sentence, overlap int) ([]sentence, int) {
	if overlap <= 0 {
		return nil, 0
	}
	total := 0
	i := len(prev)
	for i > 0 {
		if total+prev[i-1].tokens > overlap {
			break
		}
		total += prev[i-1].tokens
		i--
	}
	if i == len(prev) {
		return nil, 0
	}
	buf := make([]sentence, len(prev)-i)
	copy(buf, prev[i:])
	return buf, total
}

func newChunk(index int, buf []sentence, total int) Chunk {
	parts := make([]string, len(buf))
	for i, s := range buf {
		parts[i] = s.text
	}
	return Chunk{
		Index:      index,
		Text:       strings.Join(parts, " "),
		TokenCount: total,
	}
}

// wholeDocument is the degradation result: one chunk equal to the raw
// input. TokenCount is best-effort and zero when counting itself fails.
func (c *Chunker) wholeDocument(text string) Result {
	n, err := c.seg.CountTokens(text)
	if err != nil {
		n = 0
	}
	return Result{
		Chunks: []Chunk{{Index: 0, Text: text, TokenCount: n}},
		Count:  1,
	}
}
