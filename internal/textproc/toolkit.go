// Package textproc provides the NLP toolkit behind the sidecar's
// endpoints: word tokenization, token counting, sentence segmentation,
// Unicode normalization, spell correction, and stop-word filtering.
//
// All resources (the token encoder, embedded dictionaries) are built once
// at construction and are safe for concurrent use.
package textproc

import "errors"

// Word tokenizer engines accepted by Words.
const (
	EngineWords    = "words"    // whitespace/punctuation word splitting
	EngineTiktoken = "tiktoken" // BPE pieces from the token encoder

	// EngineFallback labels results produced by the transport layer's
	// whitespace-split degradation path; it is never a valid input engine.
	EngineFallback = "fallback"
)

// ErrNoEncoder is returned when an operation needs the token encoder and
// none was initialized.
var ErrNoEncoder = errors.New("textproc: token encoder not initialized")

// Toolkit is the text-processing contract used by the HTTP layer and,
// through the chunker's Segmenter interface, by the chunking core.
type Toolkit interface {
	// Words tokenizes text with the given engine ("" means EngineWords).
	Words(text, engine string) ([]string, error)

	// CountTokens returns the number of encoder tokens in text.
	CountTokens(text string) (int, error)

	// Sentences splits text into an ordered list of trimmed sentences.
	// Any non-blank input yields at least one sentence.
	Sentences(text string) ([]string, error)

	// Normalize applies Unicode NFC, strips zero-width characters, and
	// collapses runs of spaces.
	Normalize(text string) (string, error)

	// Correct applies dictionary-based spell correction to alphabetic
	// words, leaving everything else untouched.
	Correct(text string) (string, error)

	// FilterStopwords partitions tokens into kept and removed lists,
	// preserving order.
	FilterStopwords(tokens []string) (filtered, removed []string)

	// Encoding reports the name of the token encoding in use.
	Encoding() string
}
