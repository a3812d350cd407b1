package textproc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when no encoding is configured or the configured
// one cannot be loaded.
const DefaultEncoding = "cl100k_base"

// TiktokenToolkit implements Toolkit with a tiktoken BPE encoder for token
// counting plus embedded dictionaries for spell correction and stop words.
type TiktokenToolkit struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// NewTiktoken builds a toolkit for the given encoding name, falling back
// to DefaultEncoding when the requested one is unknown.
func NewTiktoken(encoding string) (*TiktokenToolkit, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil && encoding != DefaultEncoding {
		encoding = DefaultEncoding
		enc, err = tiktoken.GetEncoding(encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("textproc: load encoding %q: %w", encoding, err)
	}
	return &TiktokenToolkit{enc: enc, encoding: encoding}, nil
}

// Encoding reports the encoding actually in use.
func (t *TiktokenToolkit) Encoding() string { return t.encoding }

// CountTokens returns the number of BPE tokens in text.
func (t *TiktokenToolkit) CountTokens(text string) (int, error) {
	if t.enc == nil {
		return 0, ErrNoEncoder
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}

// Words tokenizes text. The words engine splits on anything that is not a
// letter, digit, or apostrophe; the tiktoken engine returns the trimmed
// BPE pieces. Unknown engines are an error so callers can apply their
// fallback path.
func (t *TiktokenToolkit) Words(text, engine string) ([]string, error) {
	switch engine {
	case "", EngineWords:
		return splitWords(text), nil
	case EngineTiktoken:
		if t.enc == nil {
			return nil, ErrNoEncoder
		}
		ids := t.enc.Encode(text, nil, nil)
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			piece := strings.TrimSpace(t.enc.Decode([]int{id}))
			if piece != "" {
				out = append(out, piece)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("textproc: unknown tokenizer engine %q", engine)
	}
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
