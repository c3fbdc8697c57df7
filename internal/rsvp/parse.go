package rsvp

import (
	"strings"
	"unicode/utf8"
)

// ParseText splits text into words. Words are runs of non-whitespace
// separated by any Unicode whitespace; empty results are dropped, so the
// returned slice has no zero-length entries. Empty input yields an empty
// slice.
func ParseText(text string) []string {
	return strings.Fields(text)
}

// FindSentenceStarts returns indices of words that start sentences. Index 0
// is always included; a word following one that ends in '.', '!' or '?'
// starts a new sentence.
func FindSentenceStarts(words []string) []int {
	starts := []int{0}
	for i, word := range words {
		last, _ := utf8.DecodeLastRuneInString(word)
		if last == '.' || last == '!' || last == '?' {
			if i+1 < len(words) {
				starts = append(starts, i+1)
			}
		}
	}
	return starts
}
