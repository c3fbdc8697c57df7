package rsvp

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// longWordThreshold is the rune count past which the word-length modifier
// starts adding time.
const longWordThreshold = 12

// WordDelay returns how long a word should stay on screen. The base duration
// is 60000/wpm milliseconds, stretched first by the word-length modifier
// (each rune past the threshold adds wordLengthWPMMultiplier percent of the
// base), then by the punctuation modifier: sentence enders '.', '!', '?',
// ';', ':' multiply by the punctuation multiplier, a trailing ',' multiplies
// by 1.5. The two punctuation checks are mutually exclusive, in that order.
func WordDelay(word string, s Settings) time.Duration {
	ms := 60000.0 / float64(s.EffectiveWPM())

	if mult := s.EffectiveWordLengthMultiplier(); mult > 0 {
		if length := utf8.RuneCountInString(word); length >= longWordThreshold {
			ms *= 1 + mult/100*float64(length-longWordThreshold)
		}
	}

	if s.PunctuationPauses() && word != "" {
		last, _ := utf8.DecodeLastRuneInString(word)
		switch last {
		case '.', '!', '?', ';', ':':
			ms *= s.EffectivePunctuationMultiplier()
		case ',':
			ms *= 1.5
		}
	}

	return time.Duration(ms * float64(time.Millisecond))
}

// FormatTimeRemaining renders the estimated reading time for the remaining
// words as "M:SS", rounding partial seconds up. Non-positive word counts or
// rates yield "0:00".
func FormatTimeRemaining(remainingWords, wpm int) string {
	if remainingWords <= 0 || wpm <= 0 {
		return "0:00"
	}
	secs := int(math.Ceil(float64(remainingWords) / float64(wpm) * 60))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ShouldPauseAt reports whether an extra pause is due at wordIndex when one
// is taken every pauseAfterWords words. The interval 0 disables the feature,
// and the very first word never pauses.
func ShouldPauseAt(wordIndex, pauseAfterWords int) bool {
	if pauseAfterWords <= 0 || wordIndex <= 0 {
		return false
	}
	return wordIndex%pauseAfterWords == 0
}
