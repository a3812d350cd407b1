package textproc

import (
	"regexp"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invisible matches zero-width and formatting runes that embed tools leave
// behind in scraped text: soft hyphen, zero-width space/joiners, word
// joiner, and the byte order mark.
var invisible = runes.Remove(runes.Predicate(func(r rune) bool {
	switch r {
	case '\u00ad', '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
}))

var spaceRuns = regexp.MustCompile(`[ \t]{2,}`)

// Normalize applies NFC composition, strips invisible runes, and collapses
// runs of spaces and tabs into a single space. Newlines are preserved.
// On transform failure the input is returned unchanged alongside the error.
func (t *TiktokenToolkit) Normalize(text string) (string, error) {
	out, _, err := transform.String(transform.Chain(norm.NFC, invisible), text)
	if err != nil {
		return text, err
	}
	return spaceRuns.ReplaceAllString(out, " "), nil
}
