package rsvp

// Playback defaults applied when a setting is absent or out of range.
const (
	DefaultWPM                 = 300
	DefaultPunctuationPause    = 2.0
	DefaultPauseDurationMillis = 1000.0
)

// Settings holds playback tuning. The JSON field names are the persisted
// session wire format, so records written by earlier versions of the app
// load unchanged; absent fields fall back to the documented defaults via the
// effective-value accessors below. FadeEnabled and FadeDuration are
// presentation-layer hints carried verbatim for UIs that animate word
// transitions.
type Settings struct {
	WPM                        int     `json:"wordsPerMinute,omitempty"`
	FadeEnabled                bool    `json:"fadeEnabled,omitempty"`
	FadeDuration               float64 `json:"fadeDuration,omitempty"`
	PauseOnPunctuation         *bool   `json:"pauseOnPunctuation,omitempty"`
	PunctuationPauseMultiplier float64 `json:"punctuationPauseMultiplier,omitempty"`
	PauseAfterWords            int     `json:"pauseAfterWords,omitempty"`
	PauseDuration              float64 `json:"pauseDuration,omitempty"`
	WordLengthWPMMultiplier    float64 `json:"wordLengthWPMMultiplier,omitempty"`
}

// EffectiveWPM returns the words-per-minute rate, substituting DefaultWPM
// for missing or non-positive values so delay math never divides by zero.
func (s Settings) EffectiveWPM() int {
	if s.WPM <= 0 {
		return DefaultWPM
	}
	return s.WPM
}

// PunctuationPauses reports whether sentence punctuation stretches the word
// delay. Unset means on.
func (s Settings) PunctuationPauses() bool {
	if s.PauseOnPunctuation == nil {
		return true
	}
	return *s.PauseOnPunctuation
}

// EffectivePunctuationMultiplier returns the sentence-end delay multiplier.
// The contract requires a value >= 1; anything below that reads as unset and
// falls back to the default of 2.
func (s Settings) EffectivePunctuationMultiplier() float64 {
	if s.PunctuationPauseMultiplier < 1 {
		return DefaultPunctuationPause
	}
	return s.PunctuationPauseMultiplier
}

// EffectivePauseAfterWords returns the extra-pause interval in words, 0 when
// the feature is disabled.
func (s Settings) EffectivePauseAfterWords() int {
	if s.PauseAfterWords < 0 {
		return 0
	}
	return s.PauseAfterWords
}

// EffectivePauseDuration returns the extra pause length in milliseconds,
// defaulting when unset so an enabled pauseAfterWords is never a no-op.
func (s Settings) EffectivePauseDuration() float64 {
	if s.PauseDuration <= 0 {
		return DefaultPauseDurationMillis
	}
	return s.PauseDuration
}

// EffectiveWordLengthMultiplier returns the per-character percentage added
// for words past the long-word threshold, 0 when disabled.
func (s Settings) EffectiveWordLengthMultiplier() float64 {
	if s.WordLengthWPMMultiplier < 0 {
		return 0
	}
	return s.WordLengthWPMMultiplier
}
