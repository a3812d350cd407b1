package textproc

import (
	_ "embed"
	"strings"
	"unicode"
)

//go:embed dictionary.txt
var dictionaryData string

// dictionary maps known words to their frequency rank (lower is more
// common), so correction prefers the most frequent candidate.
var dictionary = loadWordList(dictionaryData)

func loadWordList(data string) map[string]int {
	words := map[string]int{}
	rank := 0
	for _, line := range strings.Split(data, "\n") {
		w := strings.TrimSpace(line)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, ok := words[w]; !ok {
			words[w] = rank
			rank++
		}
	}
	return words
}

// Correct replaces unknown alphabetic words with the most frequent
// dictionary word at edit distance one, preserving surrounding whitespace,
// punctuation, and leading capitalization. Words with no candidate pass
// through unchanged.
func (t *TiktokenToolkit) Correct(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	rs := []rune(text)
	for i := 0; i < len(rs); {
		if !unicode.IsLetter(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := i
		for j < len(rs) && unicode.IsLetter(rs[j]) {
			j++
		}
		b.WriteString(correctWord(string(rs[i:j])))
		i = j
	}
	return b.String(), nil
}

func correctWord(word string) string {
	lower := strings.ToLower(word)
	// Short words and non-ASCII words are left alone: edit-distance-1
	// correction over them produces more noise than signal.
	if len(lower) < 3 || !isASCIILetters(lower) {
		return word
	}
	if _, known := dictionary[lower]; known {
		return word
	}
	// Treat a simple plural of a known word as known, otherwise the
	// corrector strips trailing s from legitimate plurals.
	if s, ok := strings.CutSuffix(lower, "s"); ok {
		if _, known := dictionary[s]; known {
			return word
		}
	}

	best := ""
	bestRank := int(^uint(0) >> 1)
	for _, cand := range edits1(lower) {
		if rank, ok := dictionary[cand]; ok && rank < bestRank {
			best, bestRank = cand, rank
		}
	}
	if best == "" {
		return word
	}
	return matchCase(word, best)
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// edits1 generates all strings at edit distance one: deletions,
// transpositions, replacements, and insertions.
func edits1(w string) []string {
	var out []string
	for i := 0; i <= len(w); i++ {
		left, right := w[:i], w[i:]
		if len(right) > 0 {
			out = append(out, left+right[1:]) // delete
		}
		if len(right) > 1 {
			out = append(out, left+string(right[1])+string(right[0])+right[2:]) // transpose
		}
		for _, c := range alphabet {
			if len(right) > 0 {
				out = append(out, left+string(c)+right[1:]) // replace
			}
			out = append(out, left+string(c)+right) // insert
		}
	}
	return out
}

// matchCase applies the original word's leading capitalization to the
// corrected candidate.
func matchCase(original, corrected string) string {
	or := []rune(original)
	if len(or) > 0 && unicode.IsUpper(or[0]) {
		cr := []rune(corrected)
		cr[0] = unicode.ToUpper(cr[0])
		return string(cr)
	}
	return corrected
}
