//go:build !gui

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/foveal/fovea/internal/rsvp"
)

var (
	orpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	neighborStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

const (
	defaultFrameSize  = 3
	chapterTitleWidth = 30
)

type model struct {
	*rsvp.Reader
	bar       progress.Model
	frameOn   bool
	frameSize int
	quitting  bool
	width     int
	height    int

	// tickSeq tags the active tick chain. Pausing abandons the chain and
	// resuming starts a new one, so a stale tick scheduled before a pause
	// can never double playback speed.
	tickSeq int
}

type tickMsg struct {
	seq int
}

func newModel(r *rsvp.Reader, frameSize int) model {
	frameOn := frameSize > 1
	if frameSize <= 1 {
		frameSize = defaultFrameSize
	}
	return model{
		Reader:    r,
		bar:       progress.New(progress.WithSolidFill("#FF0000"), progress.WithoutPercentage()),
		frameOn:   frameOn,
		frameSize: frameSize,
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			m.Paused = !m.Paused
			if !m.Paused {
				m.tickSeq++
				return m, m.tickCmd()
			}
			return m, nil

		case "+", "=", "up":
			m.adjustWPM(wpmStep)
			return m, nil

		case "-", "down":
			m.adjustWPM(-wpmStep)
			return m, nil

		case "left":
			m.pauseForJump()
			m.JumpToPrevSentence()
			return m, nil

		case "right":
			m.pauseForJump()
			m.JumpToNextSentence()
			return m, nil

		case "f", "F":
			m.frameOn = !m.frameOn
			return m, nil

		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		default:
			if key := msg.String(); len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
				m.SeekPercent(float64(key[0]-'0') * 10)
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 2
		if m.bar.Width < 1 {
			m.bar.Width = 1
		}
		return m, nil

	case tickMsg:
		if msg.seq != m.tickSeq || m.Paused {
			return m, nil
		}
		if m.Advance() {
			return m, m.tickCmd()
		}

		// Reached the end
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		if m.AtEnd() {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	if len(m.Words) == 0 {
		return "No text to read."
	}

	var line string
	if m.frameOn {
		line = renderFrame(m.Frame(m.frameSize), m.width)
	} else {
		line = renderWord(m.CurrentWord(), m.width)
	}

	current, total := m.Progress()
	bar := m.bar.ViewAs(float64(current) / float64(total))
	controls := controlsStyle.Render("SPACE: pause/play  ↑/↓: speed  ←/→: sentence  0-9: seek  F: frames  Q: quit")

	// Reserve 3 lines: status at top, bar and controls at bottom
	avail := m.height - 3
	if avail < 1 {
		avail = 1
	}
	vPad := avail / 2

	var sb strings.Builder

	sb.WriteString(m.statusLine())
	sb.WriteString("\n")

	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(line)

	for i := 0; i < avail-vPad; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(bar)
	sb.WriteString("\n")
	sb.WriteString(controls)

	return sb.String()
}

func (m model) statusLine() string {
	current, total := m.Progress()
	wpm := m.Settings.EffectiveWPM()

	parts := []string{
		fmt.Sprintf("Word %d/%d", current, total),
		fmt.Sprintf("%d%%", m.PercentComplete()),
		fmt.Sprintf("%d WPM", wpm),
		fmt.Sprintf("%s left", rsvp.FormatTimeRemaining(total-current, wpm)),
	}
	if title := m.CurrentChapterTitle(); title != "" {
		parts = append(parts, runewidth.Truncate(title, chapterTitleWidth, "..."))
	}

	status := statusStyle.Render(strings.Join(parts, " | "))
	if m.Paused {
		status += pausedStyle.Render("[PAUSED]")
	}
	return status
}

func (m model) adjustWPM(delta int) {
	wpm := m.Settings.EffectiveWPM() + delta
	if wpm < minWPM {
		wpm = minWPM
	}
	if wpm > maxWPM {
		wpm = maxWPM
	}
	m.Settings.WPM = wpm
}

// pauseForJump pauses playback on a sentence jump unless the previous jump
// was within the debounce window, so holding an arrow key scans without
// re-pausing every repeat.
func (m model) pauseForJump() {
	now := time.Now()
	if now.Sub(m.LastArrowPress) > arrowDebounce {
		m.Paused = true
	}
	m.LastArrowPress = now
}

// renderWord renders a single word with its recognition point highlighted,
// padded so the recognition point sits at the center column.
func renderWord(word string, width int) string {
	before, orp, after := rsvp.SplitWord(word)
	styled := wordStyle.Render(before) + orpStyle.Render(orp) + wordStyle.Render(after)
	return anchorPad(before, "", width) + styled
}

// renderFrame renders a multi-word window with the center word highlighted
// and its neighbors dimmed, anchored like renderWord on the center word's
// recognition point.
func renderFrame(f rsvp.Frame, width int) string {
	if len(f.Words) == 0 {
		return ""
	}

	var sb strings.Builder
	var plainPrefix strings.Builder
	for i := 0; i < f.CenterOffset; i++ {
		sb.WriteString(neighborStyle.Render(f.Words[i]))
		sb.WriteString(" ")
		plainPrefix.WriteString(f.Words[i])
		plainPrefix.WriteString(" ")
	}

	before, orp, after := rsvp.SplitWord(f.Words[f.CenterOffset])
	sb.WriteString(wordStyle.Render(before))
	sb.WriteString(orpStyle.Render(orp))
	sb.WriteString(wordStyle.Render(after))

	for i := f.CenterOffset + 1; i < len(f.Words); i++ {
		sb.WriteString(" ")
		sb.WriteString(neighborStyle.Render(f.Words[i]))
	}

	return anchorPad(before, plainPrefix.String(), width) + sb.String()
}

// anchorPad computes the leading spaces that put the recognition point at
// the center column. Widths are measured on the plain text, not the styled
// output, and use display width so wide glyphs anchor correctly.
func anchorPad(before, prefix string, width int) string {
	pad := width/2 - runewidth.StringWidth(prefix) - runewidth.StringWidth(before)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad)
}

func (m model) tickCmd() tea.Cmd {
	return tick(m.GetDelay(), m.tickSeq)
}

func tick(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}
