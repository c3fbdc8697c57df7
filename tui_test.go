//go:build !gui

package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foveal/fovea/internal/config"
	"github.com/foveal/fovea/internal/rsvp"
)

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}

func TestRenderWordAnchoring(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		width   int
		wantPad int
	}{
		{"orp at third letter", "reading", 40, 18},
		{"orp at first letter", "a", 40, 20},
		{"short word", "go", 40, 20},
		{"long word", "understanding", 40, 16},
		{"wide glyph before orp", "読みます", 40, 18},
		{"narrow terminal", "reading", 10, 3},
		{"zero width clamps", "reading", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leadingSpaces(renderWord(tt.word, tt.width))
			if got != tt.wantPad {
				t.Errorf("renderWord(%q, %d) pad = %d, want %d", tt.word, tt.width, got, tt.wantPad)
			}
		})
	}
}

func TestRenderWordStyles(t *testing.T) {
	got := renderWord("reading", 0)
	want := wordStyle.Render("re") + orpStyle.Render("a") + wordStyle.Render("ding")
	if got != want {
		t.Errorf("renderWord = %q, want %q", got, want)
	}
}

func TestRenderFrame(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	frame := rsvp.ExtractFrame(words, 2, 3)
	got := renderFrame(frame, 0)
	want := neighborStyle.Render("beta") + " " +
		wordStyle.Render("g") + orpStyle.Render("a") + wordStyle.Render("mma") +
		" " + neighborStyle.Render("delta")
	if got != want {
		t.Errorf("renderFrame = %q, want %q", got, want)
	}

	// Anchoring measures the plain prefix: "beta " plus the "g" before the
	// recognition point is 6 columns.
	if pad := leadingSpaces(renderFrame(frame, 40)); pad != 14 {
		t.Errorf("center frame pad = %d, want 14", pad)
	}

	edge := rsvp.ExtractFrame(words, 0, 3)
	if pad := leadingSpaces(renderFrame(edge, 40)); pad != 19 {
		t.Errorf("edge frame pad = %d, want 19", pad)
	}

	if out := renderFrame(rsvp.Frame{}, 40); out != "" {
		t.Errorf("empty frame = %q, want empty", out)
	}
}

func TestModelPauseResume(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 1)

	upd, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = upd.(model)
	if !m.Paused {
		t.Error("space did not pause")
	}
	if cmd != nil {
		t.Error("pausing should not schedule a tick")
	}

	upd, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = upd.(model)
	if m.Paused {
		t.Error("space did not resume")
	}
	if cmd == nil {
		t.Error("resuming should schedule a tick")
	}
	if m.tickSeq != 1 {
		t.Errorf("tickSeq = %d, want 1 after one resume", m.tickSeq)
	}
}

func TestModelTicks(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 1)

	upd, cmd := m.Update(tickMsg{seq: 0})
	m = upd.(model)
	if m.CurrentIndex != 1 {
		t.Errorf("index = %d after tick, want 1", m.CurrentIndex)
	}
	if cmd == nil {
		t.Error("mid-document tick should schedule the next tick")
	}

	// A tick from an abandoned chain is ignored.
	upd, cmd = m.Update(tickMsg{seq: 7})
	m = upd.(model)
	if m.CurrentIndex != 1 {
		t.Errorf("index = %d after stale tick, want 1", m.CurrentIndex)
	}
	if cmd != nil {
		t.Error("stale tick should be dropped")
	}

	// Paused ticks do not advance.
	m.Paused = true
	upd, _ = m.Update(tickMsg{seq: 0})
	m = upd.(model)
	if m.CurrentIndex != 1 {
		t.Errorf("index = %d after paused tick, want 1", m.CurrentIndex)
	}
	m.Paused = false

	// The tick on the last word ends the run.
	m.SeekWord(2)
	upd, cmd = m.Update(tickMsg{seq: 0})
	m = upd.(model)
	if !m.quitting {
		t.Error("tick at the last word should quit")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
}

func TestModelSpeedKeys(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 1)

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = upd.(model)
	if m.Settings.WPM != 350 {
		t.Errorf("WPM = %d after up, want 350", m.Settings.WPM)
	}

	m.Settings.WPM = minWPM
	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = upd.(model)
	if m.Settings.WPM != minWPM {
		t.Errorf("WPM = %d, want floor %d", m.Settings.WPM, minWPM)
	}

	m.Settings.WPM = maxWPM
	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = upd.(model)
	if m.Settings.WPM != maxWPM {
		t.Errorf("WPM = %d, want ceiling %d", m.Settings.WPM, maxWPM)
	}
}

func TestModelSentenceKeys(t *testing.T) {
	m := newModel(rsvp.NewReader("One two. Three four. Five six.", rsvp.Settings{WPM: 300}), 1)
	m.SeekWord(3)

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = upd.(model)
	if m.CurrentIndex != 2 {
		t.Errorf("index = %d after left, want 2", m.CurrentIndex)
	}
	if !m.Paused {
		t.Error("first sentence jump should pause")
	}

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = upd.(model)
	if m.CurrentIndex != 4 {
		t.Errorf("index = %d after right, want 4", m.CurrentIndex)
	}
}

func TestModelSeekKeys(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 200))
	m := newModel(rsvp.NewReader(text, rsvp.Settings{WPM: 300}), 1)

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}})
	m = upd.(model)
	if m.CurrentIndex != 100 {
		t.Errorf("index = %d after '5', want 100", m.CurrentIndex)
	}

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	m = upd.(model)
	if m.CurrentIndex != 0 {
		t.Errorf("index = %d after '0', want 0", m.CurrentIndex)
	}
}

func TestModelFrameToggle(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 1)
	if m.frameOn {
		t.Error("frame mode should start off for size 1")
	}
	if m.frameSize != defaultFrameSize {
		t.Errorf("frameSize = %d, want default %d", m.frameSize, defaultFrameSize)
	}

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	m = upd.(model)
	if !m.frameOn {
		t.Error("'f' did not enable frame mode")
	}

	wide := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 5)
	if !wide.frameOn || wide.frameSize != 5 {
		t.Errorf("frame flag 5: frameOn=%v frameSize=%d, want on with size 5", wide.frameOn, wide.frameSize)
	}
}

func TestModelQuit(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 1)

	upd, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = upd.(model)
	if !m.quitting {
		t.Error("'q' did not quit")
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if view := m.View(); view != "" {
		t.Errorf("mid-document quit view = %q, want empty", view)
	}

	m.SeekWord(2)
	if view := m.View(); !strings.Contains(view, "Reading complete!") {
		t.Errorf("end-of-document quit view = %q, want completion message", view)
	}
}

func TestModelWindowSize(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three", rsvp.Settings{WPM: 300}), 1)

	upd, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = upd.(model)
	if m.width != 100 || m.height != 30 {
		t.Errorf("size = %dx%d, want 100x30", m.width, m.height)
	}
	if m.bar.Width != 98 {
		t.Errorf("bar width = %d, want 98", m.bar.Width)
	}
}

func TestStatusLine(t *testing.T) {
	m := newModel(rsvp.NewReader("one two three four five six", rsvp.Settings{WPM: 300}), 1)
	m.SetChapters([]rsvp.Chapter{{Title: "Introduction", WordStart: 0, WordEnd: 5}}, nil)

	line := m.statusLine()
	for _, want := range []string{"Word 1/6", "0%", "300 WPM", "0:01 left", "Introduction"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "PAUSED") {
		t.Errorf("status %q should not show a pause marker while playing", line)
	}

	m.Paused = true
	if line := m.statusLine(); !strings.Contains(line, "[PAUSED]") {
		t.Errorf("status %q missing pause marker", line)
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.ReadingConfig{
		PauseOnPunctuation:    boolPtr(false),
		PunctuationMultiplier: floatPtr(3),
		PauseAfterWords:       intPtr(25),
		PauseDuration:         floatPtr(750),
		WordLengthMultiplier:  floatPtr(50),
	}

	s := settingsFromConfig(450, cfg)
	if s.WPM != 450 {
		t.Errorf("WPM = %d, want 450", s.WPM)
	}
	if s.PauseOnPunctuation == nil || *s.PauseOnPunctuation {
		t.Error("PauseOnPunctuation not carried over")
	}
	if s.PunctuationPauseMultiplier != 3 {
		t.Errorf("PunctuationPauseMultiplier = %v, want 3", s.PunctuationPauseMultiplier)
	}
	if s.PauseAfterWords != 25 {
		t.Errorf("PauseAfterWords = %d, want 25", s.PauseAfterWords)
	}
	if s.PauseDuration != 750 {
		t.Errorf("PauseDuration = %v, want 750", s.PauseDuration)
	}
	if s.WordLengthWPMMultiplier != 50 {
		t.Errorf("WordLengthWPMMultiplier = %v, want 50", s.WordLengthWPMMultiplier)
	}

	empty := settingsFromConfig(300, config.ReadingConfig{})
	if empty.PauseOnPunctuation != nil || empty.PunctuationPauseMultiplier != 0 || empty.PauseAfterWords != 0 {
		t.Errorf("empty config should leave defaults zeroed, got %+v", empty)
	}
}

func TestAutosaveEnabled(t *testing.T) {
	if !autosaveEnabled(config.SessionConfig{}) {
		t.Error("autosave should default to on")
	}
	if autosaveEnabled(config.SessionConfig{Autosave: boolPtr(false)}) {
		t.Error("autosave = false not honored")
	}
	if !autosaveEnabled(config.SessionConfig{Autosave: boolPtr(true)}) {
		t.Error("autosave = true not honored")
	}
}
