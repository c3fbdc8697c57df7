// Package rsvp implements the core timing and positioning logic for Rapid
// Serial Visual Presentation reading: word tokenization, the Optimal
// Recognition Point calculation that picks the focal character of each word,
// the per-word delay model, the multi-word display frame, and progress
// mapping. Everything here is pure computation over caller-owned values;
// persistence and rendering live elsewhere.
package rsvp

import "time"

// Reader holds the state of one RSVP playback run over a document.
type Reader struct {
	Words          []string
	SentenceStarts []int
	CurrentIndex   int
	Settings       Settings
	Paused         bool
	LastArrowPress time.Time

	// Chapter support
	Chapters       []Chapter
	TOC            []TOCEntry
	CurrentChapter int
}

// NewReader creates a Reader over the given text with the given playback
// settings.
func NewReader(text string, settings Settings) *Reader {
	words := ParseText(text)
	return &Reader{
		Words:          words,
		SentenceStarts: FindSentenceStarts(words),
		CurrentIndex:   0,
		Settings:       settings,
	}
}

// CurrentWord returns the word at the cursor, or "" when the document is
// empty.
func (r *Reader) CurrentWord() string {
	if r.CurrentIndex >= 0 && r.CurrentIndex < len(r.Words) {
		return r.Words[r.CurrentIndex]
	}
	return ""
}

// GetDelay returns how long the current word stays on screen, including the
// punctuation and word-length modifiers and, when the cursor sits on an
// every-N-words break, the extra breathing pause.
func (r *Reader) GetDelay() time.Duration {
	d := WordDelay(r.CurrentWord(), r.Settings)
	if ShouldPauseAt(r.CurrentIndex, r.Settings.EffectivePauseAfterWords()) {
		d += time.Duration(r.Settings.EffectivePauseDuration() * float64(time.Millisecond))
	}
	return d
}

// Advance moves to the next word. Returns true if there are more words.
func (r *Reader) Advance() bool {
	if r.CurrentIndex < len(r.Words)-1 {
		r.CurrentIndex++
		r.updateCurrentChapter()
		return true
	}
	return false
}

// AtEnd reports whether the cursor is on the last word.
func (r *Reader) AtEnd() bool {
	return r.CurrentIndex >= len(r.Words)-1
}

// Progress returns the 1-based position and total word count.
func (r *Reader) Progress() (current, total int) {
	return r.CurrentIndex + 1, len(r.Words)
}

// PercentComplete returns the cursor position as a whole percentage.
func (r *Reader) PercentComplete() int {
	return IndexToPercent(r.CurrentIndex, len(r.Words))
}

// SeekPercent moves the cursor to the given percentage of the document,
// clamped to a valid index.
func (r *Reader) SeekPercent(pct float64) {
	if len(r.Words) == 0 {
		return
	}
	idx := PercentToIndex(pct, len(r.Words))
	if idx > len(r.Words)-1 {
		idx = len(r.Words) - 1
	}
	r.CurrentIndex = idx
	r.updateCurrentChapter()
}

// SeekWord moves the cursor to the given word index, clamped to the
// document bounds. Restoring a persisted position goes through here so a
// stale index against a re-tokenized text can never land out of range.
func (r *Reader) SeekWord(index int) {
	if len(r.Words) == 0 {
		r.CurrentIndex = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(r.Words)-1 {
		index = len(r.Words) - 1
	}
	r.CurrentIndex = index
	r.updateCurrentChapter()
}

// Frame returns the display window of up to size words around the cursor.
func (r *Reader) Frame(size int) Frame {
	return ExtractFrame(r.Words, r.CurrentIndex, size)
}

// JumpToPrevSentence moves to the start of the previous sentence.
func (r *Reader) JumpToPrevSentence() {
	for i := len(r.SentenceStarts) - 1; i >= 0; i-- {
		if r.SentenceStarts[i] < r.CurrentIndex {
			r.CurrentIndex = r.SentenceStarts[i]
			r.updateCurrentChapter()
			return
		}
	}
	r.CurrentIndex = 0
	r.updateCurrentChapter()
}

// JumpToNextSentence moves to the start of the next sentence.
func (r *Reader) JumpToNextSentence() {
	for _, start := range r.SentenceStarts {
		if start > r.CurrentIndex {
			r.CurrentIndex = start
			r.updateCurrentChapter()
			return
		}
	}
	if len(r.Words) > 0 {
		r.CurrentIndex = len(r.Words) - 1
		r.updateCurrentChapter()
	}
}

// JumpToChapter jumps to the given word index and updates the current
// chapter.
func (r *Reader) JumpToChapter(wordIndex int) {
	if wordIndex >= 0 && wordIndex < len(r.Words) {
		r.CurrentIndex = wordIndex
		r.updateCurrentChapter()
	}
}

// SetChapters installs chapter data and recomputes the current chapter.
func (r *Reader) SetChapters(chapters []Chapter, toc []TOCEntry) {
	r.Chapters = chapters
	r.TOC = toc
	r.updateCurrentChapter()
}

// CurrentChapterTitle returns the title of the chapter under the cursor, or
// "" when no chapters are set.
func (r *Reader) CurrentChapterTitle() string {
	if r.CurrentChapter >= 0 && r.CurrentChapter < len(r.Chapters) {
		return r.Chapters[r.CurrentChapter].Title
	}
	return ""
}

func (r *Reader) updateCurrentChapter() {
	for i := len(r.Chapters) - 1; i >= 0; i-- {
		if r.CurrentIndex >= r.Chapters[i].WordStart {
			r.CurrentChapter = i
			return
		}
	}
	r.CurrentChapter = 0
}
