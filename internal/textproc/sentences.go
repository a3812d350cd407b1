package textproc

import (
	"strings"
	"unicode"
)

// Sentences splits text on sentence terminators (., !, ?, …) followed by
// whitespace, and on newlines. Periods after common abbreviations and
// single-letter initials do not end a sentence. The toolkit makes no
// linguistic-correctness claim beyond that; the chunker trusts whatever
// boundaries come back.
func (t *TiktokenToolkit) Sentences(text string) ([]string, error) {
	return splitSentences(text), nil
}

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "dept": true, "approx": true,
	"no": true, "fig": true, "eq": true, "al": true,
}

func splitSentences(text string) []string {
	var sents []string
	rs := []rune(text)
	start := 0

	flush := func(end int) {
		if s := strings.TrimSpace(string(rs[start:end])); s != "" {
			sents = append(sents, s)
		}
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '\n' {
			flush(i)
			start = i + 1
			continue
		}
		if !isTerminator(r) {
			continue
		}
		// Swallow a run of terminators so "?!" ends one sentence.
		j := i
		for j+1 < len(rs) && isTerminator(rs[j+1]) {
			j++
		}
		// Only a terminator followed by whitespace (or end of text) is a
		// boundary; "3.14" and "i.e" stay intact.
		if j+1 < len(rs) && !unicode.IsSpace(rs[j+1]) {
			i = j
			continue
		}
		if i == j && r == '.' && isAbbreviation(rs[start:i]) {
			continue
		}
		flush(j + 1)
		i = j
		start = j + 1
	}
	flush(len(rs))
	return sents
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

// isAbbreviation reports whether the text before a period ends in a known
// abbreviation or a single-letter initial.
func isAbbreviation(before []rune) bool {
	end := len(before)
	i := end
	for i > 0 && unicode.IsLetter(before[i-1]) {
		i--
	}
	word := strings.ToLower(string(before[i:end]))
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 {
		return true
	}
	return abbreviations[word]
}
