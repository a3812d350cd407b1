package textproc

import (
	_ "embed"
	"strings"
)

//go:embed stopwords.txt
var stopwordsData string

var stopwords = loadWordSet(stopwordsData)

func loadWordSet(data string) map[string]bool {
	set := map[string]bool{}
	for _, line := range strings.Split(data, "\n") {
		w := strings.TrimSpace(line)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		set[w] = true
	}
	return set
}

// FilterStopwords partitions tokens into kept and removed lists, preserving
// input order. Matching is case-insensitive; the returned tokens keep their
// original form. Both slices are non-nil so they serialize as JSON arrays.
func (t *TiktokenToolkit) FilterStopwords(tokens []string) ([]string, []string) {
	filtered := make([]string, 0, len(tokens))
	removed := make([]string, 0)
	for _, tok := range tokens {
		if stopwords[strings.ToLower(tok)] {
			removed = append(removed, tok)
		} else {
			filtered = append(filtered, tok)
		}
	}
	return filtered, removed
}
