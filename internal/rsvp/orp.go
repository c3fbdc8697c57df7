package rsvp

import (
	"math/bits"
	"unicode"
)

// ORPIndex returns the Optimal Recognition Point for a word as an index into
// the word's Unicode letters. Only runes in the Unicode Letter category count,
// so punctuation and symbols never shift the point and every script (Latin,
// Cyrillic, CJK, Arabic) is measured the same way.
//
// The point sits near the left third of the word and grows logarithmically
// for very long words so the highlight never drifts arbitrarily far right:
//
//	letters <= 3   -> 0
//	letters 4..5   -> 1
//	letters 6..9   -> 2
//	letters 10..12 -> 3
//	letters > 12   -> floor(log2(letters-1)) + 1
func ORPIndex(word string) int {
	letters := CountLetters(word)
	switch {
	case letters <= 3:
		return 0
	case letters <= 5:
		return 1
	case letters <= 9:
		return 2
	case letters <= 12:
		return 3
	default:
		// bits.Len(n) == floor(log2(n)) + 1 for n >= 1.
		return bits.Len(uint(letters - 1))
	}
}

// ActualORPIndex converts the letter-based ORPIndex into a rune index in the
// word. It scans left to right counting only letters, so leading punctuation
// or digits are skipped; the returned index points at the ORP letter itself.
// Words with fewer letters than the target (all-punctuation tokens and the
// like) clamp to the last rune. The result is always a valid rune index for
// a non-empty word, and 0 for an empty one.
func ActualORPIndex(word string) int {
	if word == "" {
		return 0
	}
	target := ORPIndex(word)
	letters := 0
	runeIndex := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			if letters == target {
				return runeIndex
			}
			letters++
		}
		runeIndex++
	}
	return runeIndex - 1
}

// SplitWord partitions a word around its actual ORP rune. The invariant
// before+orp+after == word holds for every non-empty word; an empty word
// yields three empty strings.
func SplitWord(word string) (before, orp, after string) {
	if word == "" {
		return "", "", ""
	}
	runes := []rune(word)
	at := ActualORPIndex(word)
	if at >= len(runes) {
		at = len(runes) - 1
	}
	return string(runes[:at]), string(runes[at]), string(runes[at+1:])
}

// CountLetters reports how many runes of s are Unicode letters.
func CountLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
